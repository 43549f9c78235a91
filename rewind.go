// Package rewind records and replays HTTP interactions for tests.
//
// A Recorder owns the stub registry and the http.RoundTripper that
// consults it. Tests open a named cassette, run their HTTP traffic
// through the recorder's client, and eject; requests matched against
// the cassette replay without touching the network, unmatched requests
// either record a fresh interaction or fail, depending on the
// cassette's record mode.
//
//	rec := rewind.New(rewind.WithLibraryDir("testdata/cassettes"))
//	err := rec.Use("github_api", rewind.Options{}, func() error {
//		resp, err := rec.Client().Get("https://api.github.com/user")
//		...
//	})
package rewind

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/rewind/internal/cassette"
	"github.com/roach88/rewind/internal/config"
	"github.com/roach88/rewind/internal/httpreplay"
	"github.com/roach88/rewind/internal/logging"
	"github.com/roach88/rewind/internal/persister"
	"github.com/roach88/rewind/internal/stub"
	"github.com/roach88/rewind/internal/template"
)

// Recorder drives cassette sessions against a shared stub registry.
// One recorder serves a whole test suite; cassettes nest in LIFO
// order within it.
//
// Open, Eject, Use, and Stats are safe for concurrent use. Record is
// not: requests running concurrently through the recorder's transport
// are serialized there, but direct Record callers must serialize
// themselves.
type Recorder struct {
	session  string
	registry *stub.Registry

	store       persister.Persister
	renderer    *template.Renderer
	probe       Probe
	afterRead   func([]byte) ([]byte, error)
	beforeWrite func([]byte) ([]byte, error)
	logger      *slog.Logger
	now         func() time.Time
	base        http.RoundTripper
	defaults    Options

	transport *httpreplay.Transport

	mu    sync.Mutex
	stack []*openCassette
}

// openCassette tracks one open cassette and the registry replay count
// at the moment it opened, so Stats can attribute replays to it.
type openCassette struct {
	cassette   *cassette.Cassette
	replayBase int
}

// RecorderOption allows configuration of recorder parameters.
type RecorderOption func(*Recorder)

// WithLibraryDir stores cassettes as files under dir, one per
// cassette.
func WithLibraryDir(dir string) RecorderOption {
	return func(r *Recorder) {
		r.store = persister.NewFiles(dir)
	}
}

// WithPersister supplies a storage backend directly, replacing any
// library directory.
func WithPersister(store persister.Persister) RecorderOption {
	return func(r *Recorder) {
		r.store = store
	}
}

// WithDefaults sets the cassette options applied when Open is called
// with zero-valued fields.
func WithDefaults(opts Options) RecorderOption {
	return func(r *Recorder) {
		r.defaults = opts
	}
}

// WithProbe supplies the reachability probe consulted by the re-record
// staleness check.
func WithProbe(probe Probe) RecorderOption {
	return func(r *Recorder) {
		r.probe = probe
	}
}

// WithLogger directs lifecycle and replay events to logger. The
// default discards.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithClock replaces the wall clock used for staleness checks and
// recorded_at stamps.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) {
		if now != nil {
			r.now = now
		}
	}
}

// WithAfterRead transforms raw cassette bytes after reading, before
// rendering and decoding.
func WithAfterRead(fn func([]byte) ([]byte, error)) RecorderOption {
	return func(r *Recorder) {
		r.afterRead = fn
	}
}

// WithBeforeWrite transforms encoded cassette bytes before writing.
func WithBeforeWrite(fn func([]byte) ([]byte, error)) RecorderOption {
	return func(r *Recorder) {
		r.beforeWrite = fn
	}
}

// WithBaseTransport sets the transport real round trips go through.
// The default is http.DefaultTransport.
func WithBaseTransport(base http.RoundTripper) RecorderOption {
	return func(r *Recorder) {
		r.base = base
	}
}

// WithIgnoreLocalhost makes localhost traffic bypass replay and
// capture entirely, and drops localhost interactions at cassette load.
func WithIgnoreLocalhost(ignore bool) RecorderOption {
	return func(r *Recorder) {
		r.registry.SetIgnoresLocalhost(ignore)
	}
}

// New creates a Recorder. Without options it keeps no storage:
// cassettes load empty and ejects never write, which suits pure
// playback-free capture tests.
func New(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		session:  uuid.NewString(),
		registry: stub.NewRegistry(),
		renderer: template.NewRenderer(),
		logger:   logging.Discard(),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	r.logger = r.logger.With("session", r.session)
	r.registry.SetLogger(r.logger)

	r.transport = &httpreplay.Transport{
		Player: r.registry,
		Sink:   r,
		Base:   r.base,
		Logger: r.logger,
		Now:    r.now,
	}

	return r
}

// NewFromConfig creates a Recorder from a loaded configuration: the
// configured storage backend, default cassette options, probe, and
// logging. The returned close function releases the storage backend.
// Options are applied after the configuration and may override it.
func NewFromConfig(cfg *config.Config, opts ...RecorderOption) (*Recorder, func() error, error) {
	store, closeStore, err := cfg.OpenPersister()
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.NewFromConfig(cfg, os.Stderr)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	combined := []RecorderOption{
		WithPersister(store),
		WithDefaults(cfg.CassetteOptions()),
		WithLogger(logger),
		WithIgnoreLocalhost(cfg.Defaults.IgnoreLocalhost),
	}
	if probe := cfg.NewProbe(); probe != nil {
		combined = append(combined, WithProbe(probe))
	}
	combined = append(combined, opts...)

	return New(combined...), closeStore, nil
}

// Session returns the unique id labelling this recorder's log events.
func (r *Recorder) Session() string {
	return r.session
}

// Client returns an http.Client whose transport replays and records
// through this recorder.
func (r *Recorder) Client() *http.Client {
	return &http.Client{Transport: r.transport}
}

// Transport returns the replaying RoundTripper for callers that manage
// their own http.Client.
func (r *Recorder) Transport() http.RoundTripper {
	return r.transport
}

// Open starts a cassette session. Zero-valued option fields fall back
// to the recorder defaults. Cassettes nest: each Open pushes onto the
// stack and must be balanced by an Eject in reverse order.
func (r *Recorder) Open(name string, opts Options) error {
	c, err := cassette.Open(name, r.mergeOptions(opts), cassette.Env{
		Adapter:     r.registry,
		Persister:   r.store,
		Renderer:    r.renderer,
		Probe:       r.probe,
		AfterRead:   r.afterRead,
		BeforeWrite: r.beforeWrite,
		Logger:      r.logger,
		Now:         r.now,
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.stack = append(r.stack, &openCassette{cassette: c, replayBase: r.registry.ReplayCount()})
	r.mu.Unlock()
	return nil
}

// Eject ends the innermost open cassette session: new interactions are
// merged and persisted, and the stub registry unwinds to its state
// before the matching Open.
func (r *Recorder) Eject() error {
	r.mu.Lock()
	if len(r.stack) == 0 {
		r.mu.Unlock()
		return fmt.Errorf("no cassette is open")
	}
	top := r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.mu.Unlock()

	return top.cassette.Eject()
}

// Use opens a cassette, runs fn, and ejects. The eject always runs;
// fn's error and the eject error are both surfaced, joined.
func (r *Recorder) Use(name string, opts Options, fn func() error) error {
	if err := r.Open(name, opts); err != nil {
		return err
	}
	fnErr := fn()
	return errors.Join(fnErr, r.Eject())
}

// Current returns the name of the innermost open cassette.
func (r *Recorder) Current() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return "", false
	}
	return r.stack[len(r.stack)-1].cassette.Name(), true
}

// Record appends an interaction to the innermost open cassette. With
// no cassette open the interaction is dropped. The recorder's
// transport calls this for every captured real exchange; tests may
// call it directly to record interactions observed elsewhere.
func (r *Recorder) Record(interaction Interaction) {
	r.mu.Lock()
	var top *openCassette
	if len(r.stack) > 0 {
		top = r.stack[len(r.stack)-1]
	}
	r.mu.Unlock()

	if top == nil {
		r.logger.Debug("no cassette open, interaction dropped",
			"method", interaction.Request.Method, "uri", interaction.Request.URI)
		return
	}
	top.cassette.Record(interaction)
}

// Stats describes the innermost open cassette session.
type Stats struct {
	// Loaded is how many interactions the cassette loaded at Open.
	Loaded int

	// Recorded is how many fresh interactions have been recorded.
	Recorded int

	// Replayed is how many requests were answered from stubs since the
	// cassette opened, including any served by cassettes nested inside
	// it.
	Replayed int
}

// Stats reports counters for the innermost open cassette. Zero when no
// cassette is open.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 0 {
		return Stats{}
	}
	top := r.stack[len(r.stack)-1]
	return Stats{
		Loaded:   top.cassette.LoadedCount(),
		Recorded: top.cassette.RecordedCount(),
		Replayed: r.registry.ReplayCount() - top.replayBase,
	}
}

// mergeOptions fills zero-valued fields from the recorder defaults.
func (r *Recorder) mergeOptions(opts Options) Options {
	if opts.Mode == "" {
		opts.Mode = r.defaults.Mode
	}
	if len(opts.MatchOn) == 0 {
		opts.MatchOn = r.defaults.MatchOn
	}
	if opts.ReRecordInterval == 0 {
		opts.ReRecordInterval = r.defaults.ReRecordInterval
	}
	if opts.TemplateVars == nil {
		opts.TemplateVars = r.defaults.TemplateVars
	}
	return opts
}
