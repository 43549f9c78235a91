// Package codec serializes cassette interaction sequences to and from
// the YAML storage format.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rewind/internal/tape"
)

// RecordedWith is the marker written into every cassette envelope.
const RecordedWith = "rewind/" + tape.LibraryVersion

// Envelope is the cassette file layout: a recorded_with marker plus the
// ordered interaction sequence.
type Envelope struct {
	RecordedWith string             `yaml:"recorded_with" json:"recorded_with"`
	Interactions []tape.Interaction `yaml:"interactions" json:"interactions"`
}

// Encode serializes an interaction sequence into cassette YAML.
// Output is deterministic: struct field order is fixed and map keys are
// sorted by the encoder.
func Encode(interactions []tape.Interaction) ([]byte, error) {
	if interactions == nil {
		interactions = []tape.Interaction{}
	}
	env := Envelope{RecordedWith: RecordedWith, Interactions: interactions}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&env); err != nil {
		return nil, fmt.Errorf("failed to encode cassette: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode cassette: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses cassette YAML into its interaction sequence.
// A file in the obsolete bare-sequence layout fails with
// LegacyFormatError; any other decode failure is classified as
// CorruptCassetteError wrapping the cause.
func Decode(cassette string, raw []byte) ([]tape.Interaction, error) {
	env, err := DecodeEnvelope(cassette, raw)
	if err != nil {
		return nil, err
	}
	return env.Interactions, nil
}

// DecodeEnvelope parses cassette YAML into the full envelope, keeping
// the recorded_with marker alongside the interactions. Error
// classification matches Decode.
func DecodeEnvelope(cassette string, raw []byte) (*Envelope, error) {
	var env Envelope
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&env); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, NewCorruptCassetteError(cassette, fmt.Errorf("empty cassette document"))
		}
		if isLegacyLayout(raw) {
			return nil, NewLegacyFormatError(cassette)
		}
		return nil, NewCorruptCassetteError(cassette, err)
	}

	if err := validateEnvelope(&env); err != nil {
		return nil, NewCorruptCassetteError(cassette, err)
	}

	return &env, nil
}

// isLegacyLayout reports whether raw parses as YAML whose document root
// is a bare sequence: the pre-envelope cassette layout.
func isLegacyLayout(raw []byte) bool {
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return false
	}
	return node.Kind == yaml.DocumentNode && len(node.Content) == 1 &&
		node.Content[0].Kind == yaml.SequenceNode
}

// validateEnvelope checks that every decoded interaction carries the
// fields playback depends on.
func validateEnvelope(env *Envelope) error {
	for i, interaction := range env.Interactions {
		if interaction.Request.Method == "" {
			return fmt.Errorf("interactions[%d]: request method is required", i)
		}
		if interaction.Request.URI == "" {
			return fmt.Errorf("interactions[%d]: request uri is required", i)
		}
		if interaction.Response.Status.Code == 0 {
			return fmt.Errorf("interactions[%d]: response status code is required", i)
		}
	}
	return nil
}
