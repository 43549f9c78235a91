package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/rewind/internal/persister"
	"github.com/roach88/rewind/internal/tape"
)

func (c *Config) normalize() error {
	if err := c.normalizeCassettes(); err != nil {
		return err
	}
	if err := c.normalizeDefaults(); err != nil {
		return err
	}
	if err := c.normalizeProbe(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeCassettes() error {
	c.Cassettes.Dir = strings.TrimSpace(c.Cassettes.Dir)
	c.Cassettes.Storage = strings.ToLower(strings.TrimSpace(c.Cassettes.Storage))
	c.Cassettes.SQLitePath = strings.TrimSpace(c.Cassettes.SQLitePath)
	c.Cassettes.Extension = strings.TrimSpace(c.Cassettes.Extension)

	if c.Cassettes.Storage == "" {
		c.Cassettes.Storage = defaultStorage
	}
	if c.Cassettes.Extension == "" {
		c.Cassettes.Extension = persister.DefaultExtension
	} else if !strings.HasPrefix(c.Cassettes.Extension, ".") {
		c.Cassettes.Extension = "." + c.Cassettes.Extension
	}
	return nil
}

func (c *Config) normalizeDefaults() error {
	c.Defaults.Record = strings.ToLower(strings.TrimSpace(c.Defaults.Record))
	if c.Defaults.Record == "" {
		c.Defaults.Record = defaultRecord
	}

	c.matchOn = c.matchOn[:0]
	for _, name := range c.Defaults.MatchOn {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		c.matchOn = append(c.matchOn, tape.MatchAttribute(name))
	}
	if len(c.matchOn) == 0 {
		c.matchOn = tape.DefaultMatchAttributes()
	}

	interval := strings.TrimSpace(c.Defaults.ReRecordInterval)
	if interval != "" {
		parsed, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("defaults.re_record_interval: %w", err)
		}
		c.reRecordInterval = parsed
	}
	return nil
}

func (c *Config) normalizeProbe() error {
	c.Probe.Address = strings.TrimSpace(c.Probe.Address)

	timeout := strings.TrimSpace(c.Probe.Timeout)
	if timeout == "" {
		timeout = defaultProbeTimeout
	}
	parsed, err := time.ParseDuration(timeout)
	if err != nil {
		return fmt.Errorf("probe.timeout: %w", err)
	}
	c.probeTimeout = parsed
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
