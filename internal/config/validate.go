package config

import (
	"errors"
	"fmt"

	"github.com/roach88/rewind/internal/cassette"
	"github.com/roach88/rewind/internal/tape"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCassettes(); err != nil {
		return err
	}
	if err := c.validateDefaults(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCassettes() error {
	switch c.Cassettes.Storage {
	case StorageFiles:
		if c.Cassettes.Dir == "" {
			return errors.New("cassettes.dir must be set when cassettes.storage is \"files\"")
		}
	case StorageSQLite:
		if c.Cassettes.SQLitePath == "" {
			return errors.New("cassettes.sqlite_path must be set when cassettes.storage is \"sqlite\"")
		}
	default:
		return fmt.Errorf("cassettes.storage must be %q or %q, got %q", StorageFiles, StorageSQLite, c.Cassettes.Storage)
	}
	return nil
}

func (c *Config) validateDefaults() error {
	if _, err := cassette.PolicyFor(cassette.Mode(c.Defaults.Record)); err != nil {
		return fmt.Errorf("defaults.record: %w", err)
	}
	for _, attr := range c.matchOn {
		if !tape.ValidMatchAttributes[attr] {
			return fmt.Errorf("defaults.match_on: unknown match attribute %q", string(attr))
		}
	}
	if c.reRecordInterval < 0 {
		return errors.New("defaults.re_record_interval must not be negative")
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.probeTimeout <= 0 {
		return errors.New("probe.timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
