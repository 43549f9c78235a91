package cassette

import (
	"time"

	"github.com/roach88/rewind/internal/persister"
)

// Probe reports whether the network is reachable enough to re-record.
// Implementations live outside this package; a nil probe means the
// question cannot be answered and the override never fires.
type Probe interface {
	Available() bool
}

// shouldReRecord decides the fresh-recording override at construction:
// a re-record interval is configured, a stored recording exists, its
// last-modified time plus the interval is earlier than now, and the
// network probe succeeds. Probe failure or a stat error leaves the
// requested mode untouched.
func shouldReRecord(name string, interval time.Duration, store persister.Persister, probe Probe, now func() time.Time) bool {
	if interval <= 0 || store == nil {
		return false
	}

	mtime, ok, err := store.Stat(name)
	if err != nil || !ok {
		return false
	}
	if !mtime.Add(interval).Before(now()) {
		return false
	}

	return probe != nil && probe.Available()
}
