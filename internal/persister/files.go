package persister

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// Files persists each cassette as one file under a library directory.
// The storage path is derived from the cassette name: every character
// outside [A-Za-z0-9_/-] is replaced with '_', so names may contain
// '/' to organize cassettes into subdirectories.
type Files struct {
	// Dir is the library directory all cassette files live under.
	Dir string

	// Extension is appended to the sanitized name, dot included.
	// Defaults to DefaultExtension when empty.
	Extension string

	// FileLock serializes writes to the same cassette across processes
	// with a sibling .lock file.
	FileLock bool
}

// NewFiles creates a Files persister rooted at dir with the default
// extension.
func NewFiles(dir string) *Files {
	return &Files{Dir: dir, Extension: DefaultExtension}
}

// Path returns the absolute storage path for a cassette name.
func (f *Files) Path(name string) string {
	return filepath.Join(f.Dir, sanitizeName(name)+f.ext())
}

// Read returns the file content for name. ok is false when the file
// does not exist or is empty.
func (f *Files) Read(name string) ([]byte, bool, error) {
	content, err := os.ReadFile(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cassette file: %w", err)
	}
	if len(content) == 0 {
		return nil, false, nil
	}
	return content, true, nil
}

// Write stores content for name, creating intermediate directories as
// needed. The content is written to a temp file in the same directory
// and renamed into place, so a failed write leaves any previous file
// intact.
func (f *Files) Write(name string, content []byte) error {
	path := f.Path(name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create cassette directory: %w", err)
	}

	if f.FileLock {
		fl := flock.New(path + ".lock")
		if err := fl.Lock(); err != nil {
			return fmt.Errorf("failed to lock cassette file: %w", err)
		}
		defer fl.Unlock()
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("failed to write cassette file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace cassette file: %w", err)
	}
	return nil
}

// Stat returns the file mtime for name. ok is false when the file does
// not exist; an existing empty file still reports ok.
func (f *Files) Stat(name string) (time.Time, bool, error) {
	info, err := os.Stat(f.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to stat cassette file: %w", err)
	}
	return info.ModTime(), true, nil
}

// List returns the sorted names of all cassettes under the library
// directory. A missing directory lists as empty.
func (f *Files) List() ([]string, error) {
	if _, err := os.Stat(f.Dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var names []string
	err := filepath.WalkDir(f.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, f.ext()) {
			return nil
		}
		rel, err := filepath.Rel(f.Dir, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(strings.TrimSuffix(rel, f.ext())))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cassettes: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (f *Files) ext() string {
	if f.Extension == "" {
		return DefaultExtension
	}
	return f.Extension
}

// sanitizeName maps a cassette name to a relative storage path,
// replacing every character outside [A-Za-z0-9_/-] with '_'.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '_', r == '/', r == '-':
			return r
		default:
			return '_'
		}
	}, name)
}
