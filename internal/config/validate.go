package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
// Validation runs before any network call so credential problems surface
// as configuration errors, not request failures.
func (c *Config) Validate() error {
	if c.API.KeyID == "" {
		return errors.New("api.key_id is required")
	}
	if c.API.PrivateKey == "" && c.API.PrivateKeyPath == "" {
		return errors.New("one of api.private_key or api.private_key_path is required")
	}
	if c.API.MaxRetries < 1 {
		return errors.New("api.max_retries must be >= 1")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if _, err := time.LoadLocation(c.Pipeline.Timezone); err != nil {
		return fmt.Errorf("pipeline.timezone %q is not a valid IANA name: %w", c.Pipeline.Timezone, err)
	}
	if c.Pipeline.LookbackDays < 1 {
		return errors.New("pipeline.lookback_days must be >= 1")
	}
	if c.Pipeline.PageSize < 1 {
		return errors.New("pipeline.page_size must be >= 1")
	}
	if c.Pipeline.TickerBatch < 1 {
		return errors.New("pipeline.ticker_batch must be >= 1")
	}
	if c.Pipeline.EventBatch < 1 {
		return errors.New("pipeline.event_batch must be >= 1")
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
