package cassette

import (
	"fmt"
	"sort"
	"time"

	"github.com/roach88/rewind/internal/tape"
)

// Option keys accepted by ParseOptions. This allow-list is fixed;
// anything else fails with InvalidOptionsError.
const (
	OptionRecord           = "record"
	OptionMatchOn          = "match_on"
	OptionReRecordInterval = "re_record_interval"
	OptionTemplateVars     = "template_vars"
)

var validOptionKeys = map[string]bool{
	OptionRecord:           true,
	OptionMatchOn:          true,
	OptionReRecordInterval: true,
	OptionTemplateVars:     true,
}

func validOptionKeyNames() []string {
	names := make([]string, 0, len(validOptionKeys))
	for key := range validOptionKeys {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// Options configure one cassette.
type Options struct {
	// Mode is the requested record mode. Empty defaults to
	// new_episodes; validity is checked at Open, after the staleness
	// override has had its chance to force all.
	Mode Mode

	// MatchOn is the ordered attribute set fingerprints are derived
	// from. Empty defaults to method plus URI; it is never empty once
	// normalized.
	MatchOn []tape.MatchAttribute

	// ReRecordInterval, when positive, ages stored recordings: once a
	// recording is older than the interval and the network probe
	// succeeds, the cassette re-records with mode all.
	ReRecordInterval time.Duration

	// TemplateVars binds ${name} placeholders in the stored cassette
	// text. Nil disables template rendering entirely.
	TemplateVars map[string]string
}

// normalize fills the defaulted fields in place.
func (o *Options) normalize() {
	if o.Mode == "" {
		o.Mode = ModeNewEpisodes
	}
	if len(o.MatchOn) == 0 {
		o.MatchOn = tape.DefaultMatchAttributes()
	}
}

// ParseOptions converts a dynamically supplied option map into Options.
// Keys are validated against the fixed allow-list first; every
// unrecognized key is reported at once via InvalidOptionsError, never
// silently ignored. Values are then converted with per-key type
// checks. Mode validity is not checked here (see Options.Mode).
func ParseOptions(raw map[string]any) (Options, error) {
	var unknown []string
	for key := range raw {
		if !validOptionKeys[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		return Options{}, NewInvalidOptionsError(unknown)
	}

	var opts Options

	if v, ok := raw[OptionRecord]; ok {
		switch val := v.(type) {
		case Mode:
			opts.Mode = val
		case string:
			opts.Mode = Mode(val)
		default:
			return Options{}, fmt.Errorf("option %q: expected string, got %T", OptionRecord, v)
		}
	}

	if v, ok := raw[OptionMatchOn]; ok {
		attrs, err := parseMatchOn(v)
		if err != nil {
			return Options{}, err
		}
		opts.MatchOn = attrs
	}

	if v, ok := raw[OptionReRecordInterval]; ok {
		interval, err := parseInterval(v)
		if err != nil {
			return Options{}, err
		}
		opts.ReRecordInterval = interval
	}

	if v, ok := raw[OptionTemplateVars]; ok {
		vars, err := parseTemplateVars(v)
		if err != nil {
			return Options{}, err
		}
		opts.TemplateVars = vars
	}

	return opts, nil
}

func parseMatchOn(v any) ([]tape.MatchAttribute, error) {
	var names []string
	switch val := v.(type) {
	case []tape.MatchAttribute:
		for _, attr := range val {
			names = append(names, string(attr))
		}
	case []string:
		names = val
	case []any:
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("option %q: element %d: expected string, got %T", OptionMatchOn, i, elem)
			}
			names = append(names, s)
		}
	default:
		return nil, fmt.Errorf("option %q: expected list of strings, got %T", OptionMatchOn, v)
	}

	attrs := make([]tape.MatchAttribute, 0, len(names))
	for _, name := range names {
		attr := tape.MatchAttribute(name)
		if !tape.ValidMatchAttributes[attr] {
			return nil, fmt.Errorf("option %q: unknown match attribute %q", OptionMatchOn, name)
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

func parseInterval(v any) (time.Duration, error) {
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		interval, err := time.ParseDuration(val)
		if err != nil {
			return 0, fmt.Errorf("option %q: %w", OptionReRecordInterval, err)
		}
		return interval, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	default:
		return 0, fmt.Errorf("option %q: expected duration string or seconds, got %T", OptionReRecordInterval, v)
	}
}

func parseTemplateVars(v any) (map[string]string, error) {
	switch val := v.(type) {
	case map[string]string:
		return val, nil
	case map[string]any:
		vars := make(map[string]string, len(val))
		for name, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return nil, fmt.Errorf("option %q: variable %q: expected string, got %T", OptionTemplateVars, name, elem)
			}
			vars[name] = s
		}
		return vars, nil
	default:
		return nil, fmt.Errorf("option %q: expected map of strings, got %T", OptionTemplateVars, v)
	}
}
