package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/rahmamo1/Sentiment-Analysis/internal/domain"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	ClassifierPath   string `env:"CLASSIFIER_PATH" default:"artifacts/best_lstm_model.safetensors"`
	VectorizerPath   string `env:"VECTORIZER_PATH" default:"artifacts/tfidf_vectorizer.json"`
	LabelEncoderPath string `env:"LABEL_ENCODER_PATH" default:"artifacts/label_encoder.json"`
	ONNXRuntimeLib   string `env:"ONNX_RUNTIME_LIB"`

	MaxInputLength     int     `env:"MAX_INPUT_LENGTH" default:"5000"`
	RateLimitPerSecond float64 `env:"RATE_LIMIT_PER_SECOND" default:"5"`
	RateLimitBurst     int     `env:"RATE_LIMIT_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// IsProduction reports whether the service runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UsesONNX reports whether the classifier artifact is an ONNX model.
func (c *Config) UsesONNX() bool {
	return domain.ClassifierBackend(c.ClassifierPath) == domain.BackendONNX
}

func validate(cfg *Config) error {
	required := []struct{ name, value string }{
		{"CLASSIFIER_PATH", cfg.ClassifierPath},
		{"VECTORIZER_PATH", cfg.VectorizerPath},
		{"LABEL_ENCODER_PATH", cfg.LabelEncoderPath},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a number between 1 and 65535, got %q", cfg.Port)
	}

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("LOG_FORMAT must be 'text' or 'json', got %q", cfg.LogFormat)
	}

	if cfg.MaxInputLength <= 0 {
		return errors.New("MAX_INPUT_LENGTH must be positive")
	}

	if cfg.RateLimitPerSecond <= 0 || cfg.RateLimitBurst <= 0 {
		return errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
	}

	if cfg.UsesONNX() && cfg.ONNXRuntimeLib == "" {
		return errors.New("ONNX_RUNTIME_LIB is required when CLASSIFIER_PATH is an .onnx model")
	}

	return nil
}
