// Package stub defines the stubbing adapter contract cassettes drive,
// plus an in-memory registry implementing it.
package stub

import "github.com/roach88/rewind/internal/tape"

// Adapter is the stubbing collaborator a cassette configures at open
// and unwinds at eject. The adapter is borrowed, never owned: it must
// outlive every cassette that drives it.
type Adapter interface {
	// HTTPConnectionsAllowed reports whether real network calls may
	// pass through.
	HTTPConnectionsAllowed() bool

	// SetHTTPConnectionsAllowed switches real network calls on or off.
	SetHTTPConnectionsAllowed(allowed bool)

	// CreateCheckpoint snapshots the adapter's current state under
	// name. Checkpoints stack.
	CreateCheckpoint(name string)

	// RestoreCheckpoint pops the checkpoint created under name and
	// reinstates its state. Fails with CheckpointNotFoundError when
	// name does not pair with the top of the stack.
	RestoreCheckpoint(name string) error

	// StubInteractions replaces the active playback set.
	StubInteractions(interactions []tape.Interaction, matchOn []tape.MatchAttribute)

	// IgnoresLocalhost reports whether interactions targeting
	// localhost aliases should be dropped at cassette load.
	IgnoresLocalhost() bool
}
