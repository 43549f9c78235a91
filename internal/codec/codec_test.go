package codec

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rewind/internal/tape"
)

func makeTestInteractions() []tape.Interaction {
	return []tape.Interaction{
		{
			Request: tape.Request{
				Method: "GET",
				URI:    "http://example.com/users",
				Headers: map[string][]string{
					"Accept": {"application/json"},
				},
				Body: "",
			},
			Response: tape.Response{
				Status: tape.Status{Code: 200, Message: "OK"},
				Headers: map[string][]string{
					"Content-Type": {"application/json"},
				},
				Body: `[{"id":1}]`,
			},
			RecordedAt: time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC),
		},
		{
			Request: tape.Request{
				Method: "POST",
				URI:    "http://example.com/users",
				Headers: map[string][]string{
					"Content-Type": {"application/json"},
				},
				Body: `{"name":"ada"}`,
			},
			Response: tape.Response{
				Status: tape.Status{Code: 201, Message: "Created"},
				Headers: map[string][]string{
					"Content-Type": {"application/json"},
					"Location":     {"http://example.com/users/2"},
				},
				Body: `{"id":2,"name":"ada"}`,
			},
			RecordedAt: time.Date(2026, 8, 21, 10, 0, 5, 0, time.UTC),
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	interactions := makeTestInteractions()

	encoded, err := Encode(interactions)
	require.NoError(t, err)

	decoded, err := Decode("round-trip", encoded)
	require.NoError(t, err)
	assert.Equal(t, interactions, decoded)
}

func TestEncodeDecodeRoundTripAwkwardBodies(t *testing.T) {
	interactions := []tape.Interaction{
		{
			Request: tape.Request{
				Method: "POST",
				URI:    "http://example.com/notes",
				Body:   "line one\nline two\n\ttabbed\n",
			},
			Response: tape.Response{
				Status: tape.Status{Code: 200, Message: "OK"},
				Body:   "café — naïve: 100% ${literal}",
			},
			RecordedAt: time.Date(2026, 8, 21, 11, 30, 0, 0, time.UTC),
		},
	}

	encoded, err := Encode(interactions)
	require.NoError(t, err)

	decoded, err := Decode("awkward", encoded)
	require.NoError(t, err)
	assert.Equal(t, interactions, decoded)
}

func TestEncodeGolden(t *testing.T) {
	encoded, err := Encode(makeTestInteractions())
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "cassette", encoded)
}

func TestEncodeEmpty(t *testing.T) {
	encoded, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "recorded_with: rewind/0.1.0\ninteractions: []\n", string(encoded))

	decoded, err := Decode("empty", encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeLegacyLayout(t *testing.T) {
	// The pre-envelope layout stored the interaction list at the
	// document root.
	raw := []byte(`- request:
    method: GET
    uri: http://example.com/users
  response:
    status:
      code: 200
      message: OK
    body: old
`)

	_, err := Decode("old-cassette", raw)
	require.Error(t, err)
	assert.True(t, IsLegacyFormat(err))
	assert.False(t, IsCorruptCassette(err))

	var le *LegacyFormatError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "old-cassette", le.Cassette)
	assert.Contains(t, err.Error(), "re-record")
}

func TestDecodeCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unparseable", "recorded_with: [unclosed\n"},
		{"unknown field", "recorded_with: rewind/0.1.0\nepisodes: []\n"},
		{"wrong type", "recorded_with: rewind/0.1.0\ninteractions: 42\n"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("bad", []byte(tt.raw))
			require.Error(t, err)
			assert.True(t, IsCorruptCassette(err))
			assert.False(t, IsLegacyFormat(err))

			var ce *CorruptCassetteError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "bad", ce.Cassette)
		})
	}
}

func TestDecodeValidatesInteractions(t *testing.T) {
	raw := []byte(`recorded_with: rewind/0.1.0
interactions:
  - request:
      uri: http://example.com/users
      body: ""
    response:
      status:
        code: 200
        message: OK
      body: ""
`)

	_, err := Decode("incomplete", raw)
	require.Error(t, err)
	assert.True(t, IsCorruptCassette(err))
	assert.Contains(t, err.Error(), "interactions[0]")
	assert.Contains(t, err.Error(), "method is required")
}
