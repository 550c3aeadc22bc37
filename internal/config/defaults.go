package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultRestURL        = "https://api.elections.kalshi.com/trade-api/v2"
	DefaultAPITimeout     = 60 * time.Second
	DefaultMaxRetries     = 5
	DefaultRetryBaseDelay = 2 * time.Second
	DefaultDBPort         = 5432
	DefaultDBSSLMode      = "prefer"
	DefaultMaxConns       = 4
	DefaultMinConns       = 1
	DefaultTimezone       = "America/New_York"
	DefaultLookbackDays   = 7
	DefaultPageSize       = 1000
	DefaultPageDelay      = 100 * time.Millisecond
	DefaultTickerBatch    = 20
	DefaultEventBatch     = 20
	DefaultRequestDelay   = 1 * time.Second
	DefaultRateLimitWait  = 10 * time.Second
)

func (c *Config) applyDefaults() {
	// API defaults
	if c.API.RestURL == "" {
		c.API.RestURL = DefaultRestURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.RetryBaseDelay == 0 {
		c.API.RetryBaseDelay = DefaultRetryBaseDelay
	}

	// Database defaults
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = DefaultMaxConns
	}
	if c.Database.MinConns == 0 {
		c.Database.MinConns = DefaultMinConns
	}

	// Pipeline defaults
	if c.Pipeline.Timezone == "" {
		c.Pipeline.Timezone = DefaultTimezone
	}
	if c.Pipeline.LookbackDays == 0 {
		c.Pipeline.LookbackDays = DefaultLookbackDays
	}
	if c.Pipeline.PageSize == 0 {
		c.Pipeline.PageSize = DefaultPageSize
	}
	if c.Pipeline.PageDelay == 0 {
		c.Pipeline.PageDelay = DefaultPageDelay
	}
	if c.Pipeline.TickerBatch == 0 {
		c.Pipeline.TickerBatch = DefaultTickerBatch
	}
	if c.Pipeline.EventBatch == 0 {
		c.Pipeline.EventBatch = DefaultEventBatch
	}
	if c.Pipeline.RequestDelay == 0 {
		c.Pipeline.RequestDelay = DefaultRequestDelay
	}
	if c.Pipeline.RateLimitWait == 0 {
		c.Pipeline.RateLimitWait = DefaultRateLimitWait
	}
}
