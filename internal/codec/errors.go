package codec

import (
	"errors"
	"fmt"
)

// LegacyFormatError indicates a cassette file uses the obsolete
// bare-sequence layout: the interaction list stored at the document
// root with no recorded_with envelope. Files in that layout are not
// decoded; the error message points at the migration path.
type LegacyFormatError struct {
	// Cassette is the name of the cassette that failed to decode.
	Cassette string
}

// Error implements the error interface.
func (e *LegacyFormatError) Error() string {
	return fmt.Sprintf("cassette %q uses the obsolete bare-sequence layout; re-record it, or wrap the list under an interactions: key with a recorded_with: marker", e.Cassette)
}

// IsLegacyFormat returns true if the error is a legacy format error.
// Uses errors.As to handle wrapped errors.
func IsLegacyFormat(err error) bool {
	var le *LegacyFormatError
	return errors.As(err, &le)
}

// NewLegacyFormatError creates a LegacyFormatError for a cassette.
func NewLegacyFormatError(cassette string) *LegacyFormatError {
	return &LegacyFormatError{Cassette: cassette}
}

// CorruptCassetteError indicates cassette content failed to decode for
// any reason other than the known legacy layout.
type CorruptCassetteError struct {
	// Cassette is the name of the cassette that failed to decode.
	Cassette string

	// Err is the underlying decode failure.
	Err error
}

// Error implements the error interface.
func (e *CorruptCassetteError) Error() string {
	return fmt.Sprintf("cassette %q is corrupt: %v", e.Cassette, e.Err)
}

// Unwrap returns the underlying decode failure.
func (e *CorruptCassetteError) Unwrap() error {
	return e.Err
}

// IsCorruptCassette returns true if the error is a corrupt cassette
// error. Uses errors.As to handle wrapped errors.
func IsCorruptCassette(err error) bool {
	var ce *CorruptCassetteError
	return errors.As(err, &ce)
}

// NewCorruptCassetteError creates a CorruptCassetteError wrapping the
// decode failure.
func NewCorruptCassetteError(cassette string, err error) *CorruptCassetteError {
	return &CorruptCassetteError{Cassette: cassette, Err: err}
}
