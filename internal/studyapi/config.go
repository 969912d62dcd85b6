package studyapi

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the backend connection settings, read from the environment.
// Generation calls sit on a model provider, so the default request timeout
// is generous.
type Config struct {
	// BaseURL is the backend API root, including the /api prefix.
	BaseURL string `env:"STUDYBUDDY_API_URL" envDefault:"http://localhost:8000/api"`

	// Token is the bearer token sent with every request. Takes precedence
	// over any token file.
	Token string `env:"STUDYBUDDY_TOKEN"`

	// TokenFile overrides the default token file location.
	TokenFile string `env:"STUDYBUDDY_TOKEN_FILE"`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `env:"STUDYBUDDY_HTTP_TIMEOUT" envDefault:"90s"`
}

// ConfigFromEnv parses Config from the process environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
