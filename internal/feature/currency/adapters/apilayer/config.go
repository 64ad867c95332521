// Package apilayer provides a client for the apilayer currency_data exchange-rate API.
package apilayer

import (
	"os"
	"time"
)

const (
	// DefaultBaseURL is the production endpoint of the currency_data API.
	DefaultBaseURL = "https://api.apilayer.com/currency_data"
	// DefaultTimeout bounds one outbound request including reading the body.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration for the apilayer client.
type Config struct {
	APIKey  string        // sent in the apikey header
	BaseURL string        // e.g. "https://api.apilayer.com/currency_data"
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads apilayer configuration from environment variables.
// Unset or unparsable values fall back to the defaults; the API key has no default.
func LoadConfig() Config {
	cfg := Config{
		APIKey:  os.Getenv("CURRENCY_API_KEY"),
		BaseURL: os.Getenv("CURRENCY_API_URL"),
		Timeout: DefaultTimeout,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if v := os.Getenv("CURRENCY_API_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	return cfg
}
