package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/rewind/internal/cassette"
	"github.com/roach88/rewind/internal/netprobe"
	"github.com/roach88/rewind/internal/persister"
	"github.com/roach88/rewind/internal/tape"
)

//go:embed sample_config.toml
var sampleConfig string

// Cassettes contains storage configuration for recorded cassettes.
type Cassettes struct {
	Dir        string `toml:"dir"`
	Storage    string `toml:"storage"`
	SQLitePath string `toml:"sqlite_path"`
	Extension  string `toml:"extension"`
	FileLock   bool   `toml:"file_lock"`
}

// Defaults contains the cassette options applied when a test does not
// override them.
type Defaults struct {
	Record           string            `toml:"record"`
	MatchOn          []string          `toml:"match_on"`
	ReRecordInterval string            `toml:"re_record_interval"`
	IgnoreLocalhost  bool              `toml:"ignore_localhost"`
	TemplateVars     map[string]string `toml:"template_vars"`
}

// ProbeConfig contains the network reachability probe settings used by
// the re-record override.
type ProbeConfig struct {
	Address string `toml:"address"`
	Timeout string `toml:"timeout"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for rewind.
//
// Configuration sections:
//   - Cassettes: where and how recordings are stored
//   - Defaults: cassette options applied unless a test overrides them
//   - Probe: network reachability check for re-recording
//   - Logging: log level and format
type Config struct {
	Cassettes Cassettes   `toml:"cassettes"`
	Defaults  Defaults    `toml:"defaults"`
	Probe     ProbeConfig `toml:"probe"`
	Logging   Logging     `toml:"logging"`

	// Parsed forms filled by normalize.
	reRecordInterval time.Duration
	probeTimeout     time.Duration
	matchOn          []tape.MatchAttribute
}

// DefaultConfigName is the project-local configuration file probed
// when no explicit path is given.
const DefaultConfigName = ".rewind.toml"

// Load locates, parses, and validates a configuration file, then
// applies REWIND_* environment overrides. A missing file is not an
// error: defaults plus the environment apply. Returns the config, the
// resolved path, and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		absolute, err := filepath.Abs(path)
		if err != nil {
			return "", false, fmt.Errorf("resolve config path: %w", err)
		}
		_, err = os.Stat(absolute)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return absolute, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return absolute, true, nil
	}

	projectPath, err := filepath.Abs(DefaultConfigName)
	if err != nil {
		return "", false, fmt.Errorf("resolve config path: %w", err)
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return projectPath, false, nil
}

// CassetteOptions converts the configured defaults into typed cassette
// options. An empty template_vars table stays nil so rendering remains
// disabled unless mappings are configured.
func (c *Config) CassetteOptions() cassette.Options {
	opts := cassette.Options{
		Mode:             cassette.Mode(c.Defaults.Record),
		MatchOn:          append([]tape.MatchAttribute(nil), c.matchOn...),
		ReRecordInterval: c.reRecordInterval,
	}
	if len(c.Defaults.TemplateVars) > 0 {
		opts.TemplateVars = c.Defaults.TemplateVars
	}
	return opts
}

// OpenPersister constructs the configured cassette store. The returned
// close function releases any underlying resources; for file storage
// it is a no-op.
func (c *Config) OpenPersister() (persister.Persister, func() error, error) {
	switch c.Cassettes.Storage {
	case StorageFiles:
		files := persister.NewFiles(c.Cassettes.Dir)
		files.Extension = c.Cassettes.Extension
		files.FileLock = c.Cassettes.FileLock
		return files, func() error { return nil }, nil
	case StorageSQLite:
		store, err := persister.OpenSQLite(c.Cassettes.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open cassette store: %w", err)
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cassette storage %q", c.Cassettes.Storage)
	}
}

// NewProbe returns the reachability probe for the re-record override,
// or nil when no probe address is configured.
func (c *Config) NewProbe() cassette.Probe {
	if c.Probe.Address == "" {
		return nil
	}
	return &netprobe.Dialer{Address: c.Probe.Address, Timeout: c.probeTimeout}
}

// ReRecordInterval returns the parsed default re-record interval.
func (c *Config) ReRecordInterval() time.Duration {
	return c.reRecordInterval
}

// MatchOn returns the parsed default match attributes.
func (c *Config) MatchOn() []tape.MatchAttribute {
	return append([]tape.MatchAttribute(nil), c.matchOn...)
}

// CreateSample writes a sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
