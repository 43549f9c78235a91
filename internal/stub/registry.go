package stub

import (
	"io"
	"log/slog"
	"sync"

	"github.com/roach88/rewind/internal/tape"
)

// Registry is the reference Adapter: an in-memory stub set with a
// checkpoint stack. It is shared mutable state and safe for concurrent
// use; cassettes borrow it for their lifetime.
//
// Playback advances through same-fingerprint interactions in sequence
// order and sticks on the last once exhausted, which is why merge
// ordering at eject time appends the freshest recording last.
type Registry struct {
	mu sync.Mutex

	connectionsAllowed bool
	ignoreLocalhost    bool

	stubs    []tape.Interaction
	matchOn  []tape.MatchAttribute
	progress map[string]int // fingerprint -> replay cursor

	replayCount int

	checkpoints []checkpoint

	logger *slog.Logger
}

// checkpoint is one stacked snapshot of registry state.
type checkpoint struct {
	name               string
	connectionsAllowed bool
	stubs              []tape.Interaction
	matchOn            []tape.MatchAttribute
	progress           map[string]int
}

// NewRegistry creates a Registry with connections allowed, no stubs,
// and a silent logger.
func NewRegistry() *Registry {
	return &Registry{
		connectionsAllowed: true,
		progress:           make(map[string]int),
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger replaces the registry's logger. The default discards.
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// HTTPConnectionsAllowed implements Adapter.
func (r *Registry) HTTPConnectionsAllowed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectionsAllowed
}

// SetHTTPConnectionsAllowed implements Adapter.
func (r *Registry) SetHTTPConnectionsAllowed(allowed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connectionsAllowed = allowed
}

// SetIgnoresLocalhost configures whether localhost-targeted
// interactions should be dropped at cassette load.
func (r *Registry) SetIgnoresLocalhost(ignore bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ignoreLocalhost = ignore
}

// IgnoresLocalhost implements Adapter.
func (r *Registry) IgnoresLocalhost() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ignoreLocalhost
}

// CreateCheckpoint implements Adapter. The snapshot captures the
// connection flag, the active stub set, and replay progress.
func (r *Registry) CreateCheckpoint(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := checkpoint{
		name:               name,
		connectionsAllowed: r.connectionsAllowed,
		stubs:              append([]tape.Interaction(nil), r.stubs...),
		matchOn:            append([]tape.MatchAttribute(nil), r.matchOn...),
		progress:           copyProgress(r.progress),
	}
	r.checkpoints = append(r.checkpoints, cp)

	r.logger.Debug("checkpoint created", "name", name, "depth", len(r.checkpoints))
}

// RestoreCheckpoint implements Adapter. On a name mismatch or an empty
// stack the registry state and the stack are left untouched.
func (r *Registry) RestoreCheckpoint(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.checkpoints) == 0 {
		return NewCheckpointNotFoundError(name)
	}
	top := r.checkpoints[len(r.checkpoints)-1]
	if top.name != name {
		return NewCheckpointNotFoundError(name)
	}

	r.checkpoints = r.checkpoints[:len(r.checkpoints)-1]
	r.connectionsAllowed = top.connectionsAllowed
	r.stubs = top.stubs
	r.matchOn = top.matchOn
	r.progress = top.progress

	r.logger.Debug("checkpoint restored", "name", name, "depth", len(r.checkpoints))
	return nil
}

// StubInteractions implements Adapter. The previous playback set is
// replaced; replay cursors start fresh.
func (r *Registry) StubInteractions(interactions []tape.Interaction, matchOn []tape.MatchAttribute) {
	if len(matchOn) == 0 {
		matchOn = tape.DefaultMatchAttributes()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.stubs = append([]tape.Interaction(nil), interactions...)
	r.matchOn = append([]tape.MatchAttribute(nil), matchOn...)
	r.progress = make(map[string]int)

	r.logger.Debug("stubs installed", "count", len(r.stubs), "match_on", matchOn)
}

// Playback returns the response to replay for req. Matching candidates
// replay in stub order; once a fingerprint's candidates are exhausted
// the last one repeats. ok is false when no stub matches or the
// request cannot be fingerprinted.
func (r *Registry) Playback(req tape.Request) (tape.Response, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.stubs) == 0 {
		return tape.Response{}, false
	}

	fp, err := tape.Fingerprint(req, r.matchOn)
	if err != nil {
		return tape.Response{}, false
	}

	var candidates []tape.Interaction
	for _, interaction := range r.stubs {
		cfp, err := tape.Fingerprint(interaction.Request, r.matchOn)
		if err != nil {
			continue
		}
		if cfp == fp {
			candidates = append(candidates, interaction)
		}
	}
	if len(candidates) == 0 {
		return tape.Response{}, false
	}

	cursor := r.progress[fp]
	if cursor >= len(candidates) {
		cursor = len(candidates) - 1 // Stick on the last
	} else {
		r.progress[fp] = cursor + 1
	}
	r.replayCount++

	r.logger.Debug("stub replayed",
		"method", req.Method, "uri", req.URI, "cursor", cursor, "candidates", len(candidates))
	return candidates[cursor].Response, true
}

// ReplayCount returns how many requests have been answered from stubs.
func (r *Registry) ReplayCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replayCount
}

// CheckpointDepth returns the current checkpoint stack depth.
func (r *Registry) CheckpointDepth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.checkpoints)
}

func copyProgress(progress map[string]int) map[string]int {
	out := make(map[string]int, len(progress))
	for k, v := range progress {
		out[k] = v
	}
	return out
}
