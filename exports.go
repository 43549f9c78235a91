package rewind

import (
	"github.com/roach88/rewind/internal/cassette"
	"github.com/roach88/rewind/internal/codec"
	"github.com/roach88/rewind/internal/config"
	"github.com/roach88/rewind/internal/httpreplay"
	"github.com/roach88/rewind/internal/netprobe"
	"github.com/roach88/rewind/internal/stub"
	"github.com/roach88/rewind/internal/tape"
	"github.com/roach88/rewind/internal/template"
)

// Aliases re-export the implementation types callers hold, so the
// internal packages never appear in user code.
type (
	// Interaction is one recorded HTTP exchange.
	Interaction = tape.Interaction

	// Request is the request half of an interaction.
	Request = tape.Request

	// Response is the response half of an interaction.
	Response = tape.Response

	// Status is a response status line.
	Status = tape.Status

	// MatchAttribute names a request attribute fingerprints are
	// derived from.
	MatchAttribute = tape.MatchAttribute

	// Mode is a cassette record mode.
	Mode = cassette.Mode

	// Options configure one cassette session.
	Options = cassette.Options

	// Probe answers the staleness check's reachability question.
	Probe = cassette.Probe

	// Config is the TOML/environment configuration consumed by
	// NewFromConfig.
	Config = config.Config
)

// Record modes.
const (
	ModeAll         = cassette.ModeAll
	ModeNone        = cassette.ModeNone
	ModeNewEpisodes = cassette.ModeNewEpisodes
)

// Match attributes.
const (
	MatchMethod  = tape.MatchMethod
	MatchURI     = tape.MatchURI
	MatchPath    = tape.MatchPath
	MatchHost    = tape.MatchHost
	MatchBody    = tape.MatchBody
	MatchHeaders = tape.MatchHeaders
)

// DefaultMatchAttributes returns the attribute set used when none is
// configured: method plus URI.
func DefaultMatchAttributes() []MatchAttribute {
	return tape.DefaultMatchAttributes()
}

// ParseOptions converts a dynamically supplied option map into
// Options, failing with an error listing every unrecognized key.
func ParseOptions(raw map[string]any) (Options, error) {
	return cassette.ParseOptions(raw)
}

// LoadConfig locates, parses, and validates a configuration file and
// applies REWIND_* environment overrides. An empty path probes for
// .rewind.toml in the working directory; a missing file is not an
// error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, _, err := config.Load(path)
	return cfg, err
}

// NewDialProbe returns a Probe that reports reachable when a TCP dial
// to address succeeds within the default timeout.
func NewDialProbe(address string) Probe {
	return netprobe.NewDialer(address)
}

// Error predicates, re-exported so callers can classify failures
// without importing the internal packages that define them.
var (
	// IsInvalidOptions reports an option map with unrecognized keys.
	IsInvalidOptions = cassette.IsInvalidOptions

	// IsInvalidRecordMode reports an unknown record mode.
	IsInvalidRecordMode = cassette.IsInvalidRecordMode

	// IsUndefinedVariable reports a template variable the mapping does
	// not bind.
	IsUndefinedVariable = template.IsUndefinedVariable

	// IsLegacyFormat reports a cassette in the obsolete bare-sequence
	// layout.
	IsLegacyFormat = codec.IsLegacyFormat

	// IsCorruptCassette reports a cassette that cannot be decoded.
	IsCorruptCassette = codec.IsCorruptCassette

	// IsCheckpointNotFound reports an out-of-order or unbalanced
	// checkpoint restore.
	IsCheckpointNotFound = stub.IsCheckpointNotFound

	// IsConnectionsDisabled reports a request blocked because real
	// connections are off and no recording matches.
	IsConnectionsDisabled = httpreplay.IsConnectionsDisabled
)
