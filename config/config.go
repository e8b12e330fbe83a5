package config

import (
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - http.go: HTTP server configuration
//   - redis.go: Account store configuration
//   - lookup.go: Batch lookup engine tuning
//   - telegram.go: Session bridge and ops alerting configuration
type AppConfig struct {
	// IsDev controls development mode behavior (in-memory session dialer,
	// plain-text friendly logging). Set DEV=true for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Redis account store configuration
	Redis RedisConfig `envPrefix:"REDIS_"`

	// Batch lookup engine tuning
	Lookup LookupConfig

	// Session bridge and ops alerting configuration
	Telegram TelegramConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Lookup.Sanitize()
	c.Telegram.Sanitize()

	c.detectDevMode()
}

// detectDevMode checks both DEV and APP_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		appEnv := strings.ToLower(os.Getenv("APP_ENV"))
		c.IsDev = appEnv == "development" || appEnv == "dev"
	}
}

// UseDevSessions returns true when the gateway should dial in-memory
// sessions instead of the MTProto bridge: dev mode with no bridge configured.
func (c *AppConfig) UseDevSessions() bool {
	return c.IsDev && strings.TrimSpace(c.Telegram.BridgeURL) == ""
}
