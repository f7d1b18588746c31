// Package tfidf implements inference for a fitted TF-IDF text vectorizer.
//
// The vectorizer is loaded from a JSON export of the fitted state (vocabulary,
// idf weights and preprocessing options) and is immutable afterwards, so a
// single instance is safe for concurrent use.
package tfidf

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

// DefaultTokenPattern is the token pattern most exports carry: runs of two or
// more word characters.
const DefaultTokenPattern = `(?u)\b\w\w+\b`

// Export is the JSON layout of a fitted vectorizer.
type Export struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase"`
	StripAccents *string        `json:"strip_accents"`
	NgramRange   []int          `json:"ngram_range"`
	Analyzer     string         `json:"analyzer"`
	TokenPattern *string        `json:"token_pattern"`
	StopWords    []string       `json:"stop_words"`
	Norm         *string        `json:"norm"`
	UseIDF       *bool          `json:"use_idf"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Binary       bool           `json:"binary"`
}

// Vectorizer transforms text into a dense TF-IDF feature vector.
type Vectorizer struct {
	vocab     map[string]int
	idf       []float64
	width     int
	stopWords map[string]struct{}
	tokenRe   *regexp.Regexp

	lowercase    bool
	stripAccents string
	ngramMin     int
	ngramMax     int
	norm         string
	useIDF       bool
	sublinearTF  bool
	binary       bool
}

// Load reads a fitted vectorizer export from path.
func Load(path string) (*Vectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tfidf: %w", err)
	}

	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("tfidf: failed to parse %s: %w", path, err)
	}

	v, err := New(exp)
	if err != nil {
		return nil, fmt.Errorf("tfidf: %s: %w", path, err)
	}
	return v, nil
}

// New validates an export and builds a Vectorizer from it.
func New(exp Export) (*Vectorizer, error) {
	if len(exp.Vocabulary) == 0 {
		return nil, errors.New("vocabulary is empty")
	}

	v := &Vectorizer{
		vocab:       exp.Vocabulary,
		lowercase:   boolOr(exp.Lowercase, true),
		useIDF:      boolOr(exp.UseIDF, true),
		sublinearTF: exp.SublinearTF,
		binary:      exp.Binary,
		ngramMin:    1,
		ngramMax:    1,
	}

	if exp.Analyzer != "" && exp.Analyzer != "word" {
		return nil, fmt.Errorf("unsupported analyzer %q", exp.Analyzer)
	}

	if exp.StripAccents != nil {
		switch *exp.StripAccents {
		case "unicode", "ascii":
			v.stripAccents = *exp.StripAccents
		default:
			return nil, fmt.Errorf("unsupported strip_accents %q", *exp.StripAccents)
		}
	}

	if exp.Norm != nil {
		switch *exp.Norm {
		case "l1", "l2":
			v.norm = *exp.Norm
		default:
			return nil, fmt.Errorf("unsupported norm %q", *exp.Norm)
		}
	}

	if len(exp.NgramRange) != 0 {
		if len(exp.NgramRange) != 2 || exp.NgramRange[0] < 1 || exp.NgramRange[1] < exp.NgramRange[0] {
			return nil, fmt.Errorf("invalid ngram_range %v", exp.NgramRange)
		}
		v.ngramMin, v.ngramMax = exp.NgramRange[0], exp.NgramRange[1]
	}

	pattern := DefaultTokenPattern
	if exp.TokenPattern != nil {
		pattern = *exp.TokenPattern
	}
	re, err := compileTokenPattern(pattern)
	if err != nil {
		return nil, err
	}
	v.tokenRe = re

	if len(exp.StopWords) > 0 {
		v.stopWords = make(map[string]struct{}, len(exp.StopWords))
		for _, w := range exp.StopWords {
			v.stopWords[w] = struct{}{}
		}
	}

	width, err := checkVocabulary(exp.Vocabulary, exp.IDF, v.useIDF)
	if err != nil {
		return nil, err
	}
	v.width = width
	if v.useIDF {
		v.idf = exp.IDF
	}

	return v, nil
}

// checkVocabulary verifies that term indices are unique and fit the feature
// width, and returns that width.
func checkVocabulary(vocab map[string]int, idf []float64, useIDF bool) (int, error) {
	width := len(vocab)
	if useIDF {
		if len(idf) == 0 {
			return 0, errors.New("use_idf is set but idf weights are missing")
		}
		width = len(idf)
	}

	seen := make(map[int]string, len(vocab))
	for term, idx := range vocab {
		if idx < 0 || idx >= width {
			return 0, fmt.Errorf("term %q has index %d outside feature width %d", term, idx, width)
		}
		if other, dup := seen[idx]; dup {
			return 0, fmt.Errorf("terms %q and %q share index %d", other, term, idx)
		}
		seen[idx] = term
	}

	for i, w := range idf {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return 0, fmt.Errorf("idf weight %d is not finite", i)
		}
	}

	return width, nil
}

// Features returns the length of every vector Vectorize produces.
func (v *Vectorizer) Features() int {
	return v.width
}

// Vectorize maps text onto the fitted vocabulary. Terms outside the
// vocabulary are ignored.
func (v *Vectorizer) Vectorize(text string) (domain.FeatureVector, error) {
	vec := make(domain.FeatureVector, v.width)

	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocab[term]; ok {
			counts[idx]++
		}
	}

	for idx, tf := range counts {
		switch {
		case v.binary:
			tf = 1
		case v.sublinearTF:
			tf = 1 + math.Log(tf)
		}
		if v.useIDF {
			tf *= v.idf[idx]
		}
		vec[idx] = tf
	}

	normalize(vec, v.norm)
	return vec, nil
}

func normalize(vec domain.FeatureVector, norm string) {
	var total float64
	switch norm {
	case "l2":
		for _, x := range vec {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range vec {
			total += math.Abs(x)
		}
	default:
		return
	}

	if total == 0 {
		return
	}
	for i := range vec {
		vec[i] /= total
	}
}

func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
