package cassette

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/rewind/internal/codec"
	"github.com/roach88/rewind/internal/persister"
	"github.com/roach88/rewind/internal/stub"
	"github.com/roach88/rewind/internal/tape"
	"github.com/roach88/rewind/internal/template"
)

// Env bundles the collaborators a cassette borrows for its lifetime.
// Only Adapter is required. Every collaborator must outlive the
// cassette.
type Env struct {
	// Adapter is the stubbing collaborator the cassette configures at
	// open and unwinds at eject.
	Adapter stub.Adapter

	// Persister stores encoded cassette content. Nil means no storage
	// location is configured: loads are empty and ejects never write.
	Persister persister.Persister

	// Renderer resolves template variables in raw cassette text.
	// Sharing one renderer across cassettes shares its plan memo.
	// Nil gets a private renderer.
	Renderer *template.Renderer

	// Probe answers the staleness check's reachability question.
	// Nil leaves the requested record mode untouched.
	Probe Probe

	// AfterRead transforms raw bytes after reading, before rendering
	// and decoding. Used for decryption or decompression.
	AfterRead func([]byte) ([]byte, error)

	// BeforeWrite transforms encoded bytes before writing.
	BeforeWrite func([]byte) ([]byte, error)

	// Logger receives lifecycle events. Nil discards.
	Logger *slog.Logger

	// Now is the clock the staleness check compares against.
	// Nil means time.Now.
	Now func() time.Time
}

// withDefaults returns a copy of the Env with nil optionals filled.
func (e Env) withDefaults() Env {
	if e.Logger == nil {
		e.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Renderer == nil {
		e.Renderer = template.NewRenderer()
	}
	return e
}

// Cassette is one named recording session: it owns an interaction
// store for its lifetime and drives the borrowed stub adapter.
// Created once per test scope and ejected at the end of it; a cassette
// is never reused across scopes.
type Cassette struct {
	name   string
	opts   Options
	mode   Mode // effective, after the staleness override
	policy Policy
	env    Env

	store       interactionStore
	loadedCount int
	freshTotal  int
}

// Open constructs a cassette: normalizes options, attempts the
// staleness re-record override, derives the stubbing policy, then
// checkpoints the adapter under name, applies the connection policy,
// loads stored interactions, and registers them for playback when the
// policy calls for it.
//
// A load failure leaves no partial state behind: the checkpoint is
// restored best-effort and the error is returned instead of a
// half-open cassette.
func Open(name string, opts Options, env Env) (*Cassette, error) {
	if name == "" {
		return nil, fmt.Errorf("cassette name is required")
	}
	if env.Adapter == nil {
		return nil, fmt.Errorf("cassette %q: stub adapter is required", name)
	}
	env = env.withDefaults()
	opts.normalize()

	// The override runs before mode validation. When it fires, the
	// effective mode is all regardless of what was requested.
	mode := opts.Mode
	if shouldReRecord(name, opts.ReRecordInterval, env.Persister, env.Probe, env.Now) {
		env.Logger.Info("stored recording is stale, re-recording",
			"cassette", name, "requested_mode", string(mode), "interval", opts.ReRecordInterval)
		mode = ModeAll
	}

	policy, err := PolicyFor(mode)
	if err != nil {
		return nil, err
	}

	c := &Cassette{
		name:   name,
		opts:   opts,
		mode:   mode,
		policy: policy,
		env:    env,
	}

	env.Adapter.CreateCheckpoint(name)
	env.Adapter.SetHTTPConnectionsAllowed(policy.AllowRealConnections)

	loaded, err := c.load()
	if err != nil {
		if rerr := env.Adapter.RestoreCheckpoint(name); rerr != nil {
			env.Logger.Error("failed to unwind checkpoint after load failure",
				"cassette", name, "error", rerr)
		}
		return nil, err
	}
	c.store.recorded = loaded
	c.loadedCount = len(loaded)

	if policy.StubPlayback {
		env.Adapter.StubInteractions(loaded, opts.MatchOn)
	}

	env.Logger.Info("cassette opened",
		"cassette", name, "mode", string(mode), "loaded", len(loaded))
	return c, nil
}

// load reads, transforms, renders, and decodes the stored recording.
// A missing or empty record loads as no interactions. When the adapter
// ignores localhost, interactions targeting a localhost alias are
// dropped before being retained.
func (c *Cassette) load() ([]tape.Interaction, error) {
	if c.env.Persister == nil {
		return nil, nil
	}

	raw, ok, err := c.env.Persister.Read(c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to load cassette %q: %w", c.name, err)
	}
	if !ok {
		return nil, nil
	}

	if c.env.AfterRead != nil {
		raw, err = c.env.AfterRead(raw)
		if err != nil {
			return nil, fmt.Errorf("cassette %q: after-read hook: %w", c.name, err)
		}
	}

	rendered, err := c.env.Renderer.Render(c.name, raw, c.opts.TemplateVars)
	if err != nil {
		return nil, err
	}

	interactions, err := codec.Decode(c.name, rendered)
	if err != nil {
		return nil, err
	}

	if c.env.Adapter.IgnoresLocalhost() {
		kept := make([]tape.Interaction, 0, len(interactions))
		for _, interaction := range interactions {
			if interaction.Request.TargetsLocalhost() {
				c.env.Logger.Debug("dropping localhost interaction",
					"cassette", c.name, "uri", interaction.Request.URI)
				continue
			}
			kept = append(kept, interaction)
		}
		interactions = kept
	}

	return interactions, nil
}

// Record appends an interaction to the fresh sequence in call order.
// Not synchronized: callers running requests concurrently must
// serialize Record themselves, since ordering within the sequence is
// only guaranteed for happens-before relationships the caller
// establishes.
func (c *Cassette) Record(interaction tape.Interaction) {
	c.store.record(interaction)
	c.freshTotal++
	c.env.Logger.Debug("interaction recorded",
		"cassette", c.name,
		"method", interaction.Request.Method,
		"uri", interaction.Request.URI)
}

// Eject ends the session: it merges the interaction sequences,
// persists them when a storage location is configured and anything new
// was recorded, and always asks the adapter to restore the checkpoint
// taken at Open, even when persistence failed or was skipped. Persist
// and restore failures are both surfaced, joined.
//
// A second Eject is safe: nothing new is pending so no write happens,
// and the checkpoint restore is still attempted.
func (c *Cassette) Eject() error {
	merged := c.store.merged(c.policy.DropOverlapping, c.opts.MatchOn)

	var persistErr error
	if c.env.Persister != nil && len(c.store.fresh) > 0 {
		persistErr = c.persist(merged)
		if persistErr == nil {
			c.store.fold(merged)
		}
	}

	restoreErr := c.env.Adapter.RestoreCheckpoint(c.name)
	if restoreErr == nil {
		c.env.Logger.Info("cassette ejected", "cassette", c.name, "interactions", len(merged))
	}

	return errors.Join(persistErr, restoreErr)
}

// persist encodes the merged sequence, applies the before-write hook,
// and hands the bytes to the persister, which replaces the stored
// record atomically.
func (c *Cassette) persist(merged []tape.Interaction) error {
	content, err := codec.Encode(merged)
	if err != nil {
		return fmt.Errorf("failed to encode cassette %q: %w", c.name, err)
	}

	if c.env.BeforeWrite != nil {
		content, err = c.env.BeforeWrite(content)
		if err != nil {
			return fmt.Errorf("cassette %q: before-write hook: %w", c.name, err)
		}
	}

	if err := c.env.Persister.Write(c.name, content); err != nil {
		return fmt.Errorf("failed to persist cassette %q: %w", c.name, err)
	}

	c.env.Logger.Info("cassette persisted", "cassette", c.name, "interactions", len(merged))
	return nil
}

// Name returns the cassette name.
func (c *Cassette) Name() string {
	return c.name
}

// Mode returns the effective record mode, after any staleness
// override.
func (c *Cassette) Mode() Mode {
	return c.mode
}

// Policy returns the stubbing policy in effect.
func (c *Cassette) Policy() Policy {
	return c.policy
}

// MatchOn returns the attribute set fingerprints are derived from.
func (c *Cassette) MatchOn() []tape.MatchAttribute {
	return c.opts.MatchOn
}

// LoadedCount reports how many interactions were loaded at Open, after
// localhost filtering.
func (c *Cassette) LoadedCount() int {
	return c.loadedCount
}

// RecordedCount reports how many interactions were recorded over the
// cassette's lifetime.
func (c *Cassette) RecordedCount() int {
	return c.freshTotal
}
