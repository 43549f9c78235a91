package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// rewindEnv holds raw REWIND_* environment overrides. Pointer fields
// distinguish unset variables from zero values so the environment only
// overrides what it actually sets.
type rewindEnv struct {
	CassetteDir      string         `env:"REWIND_CASSETTE_DIR"`
	Storage          string         `env:"REWIND_STORAGE"`
	SQLitePath       string         `env:"REWIND_SQLITE_PATH"`
	Extension        string         `env:"REWIND_EXTENSION"`
	FileLock         *bool          `env:"REWIND_FILE_LOCK"`
	Record           string         `env:"REWIND_RECORD"`
	MatchOn          []string       `env:"REWIND_MATCH_ON" envSeparator:","`
	ReRecordInterval string         `env:"REWIND_RE_RECORD_INTERVAL"`
	IgnoreLocalhost  *bool          `env:"REWIND_IGNORE_LOCALHOST"`
	ProbeAddress     string         `env:"REWIND_PROBE_ADDRESS"`
	ProbeTimeout     *time.Duration `env:"REWIND_PROBE_TIMEOUT"`
	LogLevel         string         `env:"REWIND_LOG_LEVEL"`
	LogFormat        string         `env:"REWIND_LOG_FORMAT"`
}

// applyEnv layers environment overrides onto a file-loaded config.
func applyEnv(cfg *Config) error {
	var raw rewindEnv
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if raw.CassetteDir != "" {
		cfg.Cassettes.Dir = raw.CassetteDir
	}
	if raw.Storage != "" {
		cfg.Cassettes.Storage = raw.Storage
	}
	if raw.SQLitePath != "" {
		cfg.Cassettes.SQLitePath = raw.SQLitePath
	}
	if raw.Extension != "" {
		cfg.Cassettes.Extension = raw.Extension
	}
	if raw.FileLock != nil {
		cfg.Cassettes.FileLock = *raw.FileLock
	}
	if raw.Record != "" {
		cfg.Defaults.Record = raw.Record
	}
	if len(raw.MatchOn) > 0 {
		cfg.Defaults.MatchOn = raw.MatchOn
	}
	if raw.ReRecordInterval != "" {
		cfg.Defaults.ReRecordInterval = raw.ReRecordInterval
	}
	if raw.IgnoreLocalhost != nil {
		cfg.Defaults.IgnoreLocalhost = *raw.IgnoreLocalhost
	}
	if raw.ProbeAddress != "" {
		cfg.Probe.Address = raw.ProbeAddress
	}
	if raw.ProbeTimeout != nil {
		cfg.Probe.Timeout = raw.ProbeTimeout.String()
	}
	if raw.LogLevel != "" {
		cfg.Logging.Level = raw.LogLevel
	}
	if raw.LogFormat != "" {
		cfg.Logging.Format = raw.LogFormat
	}
	return nil
}
