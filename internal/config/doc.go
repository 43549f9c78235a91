// Package config loads, normalizes, and validates rewind
// configuration.
//
// It supplies repository defaults, reads a TOML file when one exists,
// applies REWIND_* environment overrides, and converts the result into
// the typed values the recorder and CLI consume: cassette options, a
// persister, a network probe, and a logger. Always obtain settings
// through this package so downstream code receives validated modes,
// match attributes, and storage locations.
package config
