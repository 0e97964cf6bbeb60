// Package config loads platform configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/joeshaw/envdecode"
)

// Config carries every knob the server reads from the environment.
type Config struct {
	Env  string `env:"APP_ENV,default=development"`
	Port int    `env:"PORT,default=8080"`

	// FrontendURL is the CORS origin allowed to call the API with
	// credentials. Empty means any origin.
	FrontendURL string `env:"FRONTEND_URL"`

	DatabaseURL string `env:"DATABASE_URL"`
	// DatabaseWait blocks startup until the database answers a ping.
	// When false the server accepts traffic immediately and early
	// requests may race connection establishment.
	DatabaseWait bool `env:"DATABASE_WAIT,default=true"`

	UploadsDir string `env:"UPLOADS_DIR,default=./uploads"`
	// StaticDir, when set, serves a built frontend bundle with an SPA
	// catch-all for non-API paths.
	StaticDir string `env:"STATIC_DIR"`

	JWTSecret     string `env:"JWT_SECRET,default=dev-secret"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS,default=24"`

	BodyLimit int64 `env:"BODY_LIMIT,default=10485760"`

	RateLimitPerSecond int `env:"RATE_LIMIT_PER_SECOND,default=50"`
	RateLimitBurst     int `env:"RATE_LIMIT_BURST,default=100"`

	// EscalationSchedule is a cron expression for the overdue-workflow
	// sweep. Empty uses the built-in default.
	EscalationSchedule string `env:"ESCALATION_SCHEDULE"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
}

// Load decodes configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the server runs in production mode.
func (c *Config) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "production")
}
