package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
	apperrors "github.com/rahmamo1/Sentiment-Analysis/internal/platform/errors"
	"github.com/rahmamo1/Sentiment-Analysis/internal/sentiment"
)

const (
	pageTemplate = "index.html"

	warningEmpty   = "Please enter some text to analyze!"
	warningTooLong = "Your text is too long. Please shorten it to at most %d characters."
)

type example struct {
	Key   string
	Title string
	Text  string
}

var examples = []example{
	{Key: "positive", Title: "Positive Example", Text: "I love this product! It's absolutely amazing and works perfectly."},
	{Key: "negative", Title: "Negative Example", Text: "This is terrible. I'm very disappointed with the poor quality and bad service."},
	{Key: "neutral", Title: "Neutral Example", Text: "The product is okay. Nothing special but it gets the job done."},
}

type pageData struct {
	Examples       []example
	Text           string
	MaxInputLength int
	Warning        string
	Result         *resultView
}

type resultView struct {
	Label         string
	Bucket        domain.Bucket
	Tier          domain.Tier
	Color         string
	Confidence    string
	BarWidth      string
	BarText       string
	Balloons      bool
	Probabilities []probabilityView
}

type probabilityView struct {
	Label   string
	Percent string
}

func (s *Server) registerPageRoutes(rateLimiter echo.MiddlewareFunc) {
	s.echo.GET("/", s.handleIndex)
	s.echo.POST("/analyze", s.handleAnalyze, rateLimiter)
}

func (s *Server) newPage(text string) pageData {
	return pageData{
		Examples:       examples,
		Text:           text,
		MaxInputLength: s.config.MaxInputLength,
	}
}

func (s *Server) handleIndex(c echo.Context) error {
	text := ""
	if key := c.QueryParam("example"); key != "" {
		ex, ok := findExample(key)
		if !ok {
			return apperrors.NotFoundError("unknown example").WithField("example", key)
		}
		text = ex.Text
	}

	return s.renderTemplate(c, http.StatusOK, pageTemplate, s.newPage(text))
}

func (s *Server) handleAnalyze(c echo.Context) error {
	text := c.FormValue("text")
	page := s.newPage(text)

	prediction, err := s.analyzer.Analyze(c.Request().Context(), text)
	switch {
	case errors.Is(err, domain.ErrEmptyInput):
		page.Warning = warningEmpty
		return s.renderTemplate(c, http.StatusOK, pageTemplate, page)
	case errors.Is(err, domain.ErrInputTooLong):
		page.Warning = fmt.Sprintf(warningTooLong, s.config.MaxInputLength)
		return s.renderTemplate(c, http.StatusOK, pageTemplate, page)
	case errors.Is(err, domain.ErrArtifactsNotLoaded):
		return apperrors.UnavailableError("model is not available", err)
	case err != nil:
		return apperrors.InternalError("failed to analyze text", err)
	}

	page.Result = newResultView(prediction)
	return s.renderTemplate(c, http.StatusOK, pageTemplate, page)
}

func newResultView(p *domain.Prediction) *resultView {
	tier := sentiment.TierFor(p.Confidence)

	view := &resultView{
		Label:      strings.ToUpper(p.Label),
		Bucket:     p.Bucket,
		Tier:       tier,
		Color:      sentiment.TierColor(tier),
		Confidence: fmt.Sprintf("%.2f%%", p.Confidence),
		BarWidth:   fmt.Sprintf("%.1f", p.Confidence),
		BarText:    fmt.Sprintf("%.1f%%", p.Confidence),
		Balloons:   p.Bucket == domain.BucketPositive,
	}

	for i, prob := range p.Distribution {
		label := fmt.Sprintf("class %d", i)
		if i < len(p.Classes) {
			label = p.Classes[i]
		}
		view.Probabilities = append(view.Probabilities, probabilityView{
			Label:   label,
			Percent: fmt.Sprintf("%.2f%%", prob*100),
		})
	}

	return view
}

func findExample(key string) (example, bool) {
	for _, ex := range examples {
		if ex.Key == key {
			return ex, true
		}
	}
	return example{}, false
}
