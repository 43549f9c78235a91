package cli

import (
	"fmt"

	"github.com/roach88/rewind/internal/config"
	"github.com/roach88/rewind/internal/persister"
)

// LibraryError describes a failure to open the cassette library, tagged
// with the error code commands report.
type LibraryError struct {
	Code    string // error code constant
	Message string
}

func (e *LibraryError) Error() string {
	return e.Message
}

// Library bundles the loaded configuration with its opened storage
// backend. Close releases the backend when done.
type Library struct {
	Config *config.Config
	Store  persister.Persister

	closeStore func() error
}

// Close releases the storage backend.
func (l *Library) Close() error {
	return l.closeStore()
}

// OpenLibrary loads configuration from configPath (or the default
// lookup when empty) and opens the storage backend it names. Shared by
// every command that reads stored cassettes.
func OpenLibrary(configPath string) (*Library, *LibraryError) {
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return nil, &LibraryError{Code: ErrCodeConfig, Message: fmt.Sprintf("loading config: %v", err)}
	}

	store, closeStore, err := cfg.OpenPersister()
	if err != nil {
		return nil, &LibraryError{Code: ErrCodeStorage, Message: fmt.Sprintf("opening cassette storage: %v", err)}
	}

	return &Library{Config: cfg, Store: store, closeStore: closeStore}, nil
}

// ListNames enumerates stored cassette names through the backend's
// Lister, sorted.
func (l *Library) ListNames() ([]string, *LibraryError) {
	lister, ok := l.Store.(persister.Lister)
	if !ok {
		return nil, &LibraryError{Code: ErrCodeStorage, Message: "storage backend does not support listing"}
	}
	names, err := lister.List()
	if err != nil {
		return nil, &LibraryError{Code: ErrCodeStorage, Message: fmt.Sprintf("listing cassettes: %v", err)}
	}
	return names, nil
}
