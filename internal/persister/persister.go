// Package persister stores encoded cassette content keyed by cassette
// name. Two backends exist: one file per cassette under a library
// directory, and a single SQLite database for suites that keep large
// cassette sets out of the file tree.
package persister

import "time"

// DefaultExtension is the file extension cassettes are stored under
// when none is configured.
const DefaultExtension = ".yaml"

// Persister stores encoded cassette content by name.
//
// Implementations must replace content atomically: a failed write never
// corrupts a previously valid record. Read treats an empty record the
// same as a missing one; Stat reports existence regardless of content.
type Persister interface {
	// Read returns the stored content for name. ok is false when no
	// record exists or the stored content is empty.
	Read(name string) (content []byte, ok bool, err error)

	// Write stores content for name, replacing any previous record.
	Write(name string, content []byte) error

	// Stat returns the last-modified time for name. ok is false when
	// no record exists.
	Stat(name string) (mtime time.Time, ok bool, err error)
}

// Lister enumerates stored cassette names, sorted. Both backends
// implement it; the inspection CLI depends on it.
type Lister interface {
	List() ([]string, error)
}
