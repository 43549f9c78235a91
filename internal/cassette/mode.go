package cassette

// Mode controls what a cassette records and replays.
type Mode string

// The fixed record mode enum. Anything else fails construction with
// InvalidRecordModeError.
const (
	// ModeAll records every request, replacing overlapping stored
	// interactions at eject. Nothing is replayed.
	ModeAll Mode = "all"

	// ModeNone replays stored interactions and blocks real
	// connections. Nothing is recorded.
	ModeNone Mode = "none"

	// ModeNewEpisodes replays stored interactions and records
	// requests that have no stub.
	ModeNewEpisodes Mode = "new_episodes"
)

// Policy is the stubbing behavior derived from a record mode. It is a
// pure function of the mode, never stored.
type Policy struct {
	// AllowRealConnections lets requests pass through to the network.
	AllowRealConnections bool

	// StubPlayback registers loaded interactions for replay.
	StubPlayback bool

	// DropOverlapping removes stored interactions whose fingerprint is
	// re-recorded this session before persisting.
	DropOverlapping bool
}

// PolicyFor maps a record mode to its stubbing policy:
//
//	all          -> real connections, no playback, drop overlapping
//	none         -> no real connections, playback only
//	new_episodes -> real connections plus playback
func PolicyFor(mode Mode) (Policy, error) {
	switch mode {
	case ModeAll:
		return Policy{AllowRealConnections: true, StubPlayback: false, DropOverlapping: true}, nil
	case ModeNone:
		return Policy{AllowRealConnections: false, StubPlayback: true, DropOverlapping: false}, nil
	case ModeNewEpisodes:
		return Policy{AllowRealConnections: true, StubPlayback: true, DropOverlapping: false}, nil
	default:
		return Policy{}, NewInvalidRecordModeError(mode)
	}
}
