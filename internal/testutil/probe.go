package testutil

// StaticProbe reports a fixed reachability verdict.
//
// Staleness checks consult a probe before forcing a re-record; a
// StaticProbe pins the answer so tests exercise both branches without
// touching the network.
//
// Thread-safety: StaticProbe is stateless and safe for concurrent use.
type StaticProbe bool

// Available returns the configured verdict.
func (p StaticProbe) Available() bool {
	return bool(p)
}
