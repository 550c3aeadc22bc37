package config

import "time"

// Config is the root configuration for one pipeline run.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DBConfig       `yaml:"database"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// APIConfig holds Kalshi API settings.
type APIConfig struct {
	RestURL        string        `yaml:"rest_url"`
	KeyID          string        `yaml:"key_id"`           // API key ID (KALSHI-ACCESS-KEY header)
	PrivateKey     string        `yaml:"private_key"`      // inline key material (PEM/OpenSSH/base64 DER)
	PrivateKeyPath string        `yaml:"private_key_path"` // alternative: path to key file
	KeyPassphrase  string        `yaml:"key_passphrase"`   // passphrase for encrypted keys
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBaseDelay time.Duration `yaml:"retry_base_delay"`
	ProxyURL       string        `yaml:"proxy_url"`
	CABundlePath   string        `yaml:"ca_bundle_path"`
}

// DBConfig holds the analytics database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// PipelineConfig holds aggregation window and pacing settings.
type PipelineConfig struct {
	Timezone      string        `yaml:"timezone"`        // IANA name for local-day bucketing
	LookbackDays  int           `yaml:"lookback_days"`   // window length, ending yesterday
	PageSize      int           `yaml:"page_size"`       // trades per page
	PageDelay     time.Duration `yaml:"page_delay"`      // throttle between trade pages
	TickerBatch   int           `yaml:"ticker_batch"`    // tickers per /markets lookup
	EventBatch    int           `yaml:"event_batch"`     // event tickers per /events lookup
	RequestDelay  time.Duration `yaml:"request_delay"`   // delay between lookup chunks
	RateLimitWait time.Duration `yaml:"rate_limit_wait"` // extra wait before the final lookup retry
}
