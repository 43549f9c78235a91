package cassette

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// InvalidOptionsError indicates a cassette was opened with option keys
// outside the fixed allow-list. Every offending key is reported, not
// just the first.
type InvalidOptionsError struct {
	// Keys are the unrecognized option keys, sorted.
	Keys []string
}

// Error implements the error interface.
func (e *InvalidOptionsError) Error() string {
	return fmt.Sprintf("invalid cassette options: unknown keys %s (valid keys: %s)",
		strings.Join(e.Keys, ", "), strings.Join(validOptionKeyNames(), ", "))
}

// IsInvalidOptions returns true if the error is an invalid options
// error. Uses errors.As to handle wrapped errors.
func IsInvalidOptions(err error) bool {
	var oe *InvalidOptionsError
	return errors.As(err, &oe)
}

// NewInvalidOptionsError creates an InvalidOptionsError for the given
// unrecognized keys, sorted.
func NewInvalidOptionsError(keys []string) *InvalidOptionsError {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return &InvalidOptionsError{Keys: sorted}
}

// InvalidRecordModeError indicates a record mode outside the fixed
// enum (all, none, new_episodes).
type InvalidRecordModeError struct {
	// Mode is the rejected record mode.
	Mode Mode
}

// Error implements the error interface.
func (e *InvalidRecordModeError) Error() string {
	return fmt.Sprintf("invalid record mode %q (valid modes: all, none, new_episodes)", string(e.Mode))
}

// IsInvalidRecordMode returns true if the error is an invalid record
// mode error. Uses errors.As to handle wrapped errors.
func IsInvalidRecordMode(err error) bool {
	var me *InvalidRecordModeError
	return errors.As(err, &me)
}

// NewInvalidRecordModeError creates an InvalidRecordModeError.
func NewInvalidRecordModeError(mode Mode) *InvalidRecordModeError {
	return &InvalidRecordModeError{Mode: mode}
}
