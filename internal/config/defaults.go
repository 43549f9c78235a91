package config

// Storage backends for recorded cassettes.
const (
	StorageFiles  = "files"
	StorageSQLite = "sqlite"
)

const (
	defaultCassetteDir      = "testdata/cassettes"
	defaultStorage          = StorageFiles
	defaultSQLitePath       = "testdata/cassettes.db"
	defaultRecord           = "new_episodes"
	defaultReRecordInterval = ""
	defaultProbeTimeout     = "2s"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Cassettes: Cassettes{
			Dir:        defaultCassetteDir,
			Storage:    defaultStorage,
			SQLitePath: defaultSQLitePath,
		},
		Defaults: Defaults{
			Record:           defaultRecord,
			MatchOn:          []string{"method", "uri"},
			ReRecordInterval: defaultReRecordInterval,
		},
		Probe: ProbeConfig{
			Timeout: defaultProbeTimeout,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
