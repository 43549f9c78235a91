package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestRequest(method, uri, body string) Request {
	return Request{
		Method: method,
		URI:    uri,
		Body:   body,
		Headers: map[string][]string{
			"Accept": {"application/json"},
		},
	}
}

func TestFingerprintStable(t *testing.T) {
	req := makeTestRequest("GET", "http://example.com/a", "")

	fp1, err := Fingerprint(req, DefaultMatchAttributes())
	require.NoError(t, err)
	fp2, err := Fingerprint(req, DefaultMatchAttributes())
	require.NoError(t, err)

	assert.Equal(t, fp1, fp2)
	assert.Len(t, fp1, 64, "sha256 hex digest")
}

func TestFingerprintEquality(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Request
		attrs  []MatchAttribute
		wantEq bool
	}{
		{
			name:   "same method and uri match on defaults",
			a:      makeTestRequest("GET", "http://example.com/a", "x"),
			b:      makeTestRequest("GET", "http://example.com/a", "y"),
			attrs:  DefaultMatchAttributes(),
			wantEq: true,
		},
		{
			name:   "different uri differs on defaults",
			a:      makeTestRequest("GET", "http://example.com/a", ""),
			b:      makeTestRequest("GET", "http://example.com/b", ""),
			attrs:  DefaultMatchAttributes(),
			wantEq: false,
		},
		{
			name:   "different method differs on defaults",
			a:      makeTestRequest("GET", "http://example.com/a", ""),
			b:      makeTestRequest("POST", "http://example.com/a", ""),
			attrs:  DefaultMatchAttributes(),
			wantEq: false,
		},
		{
			name:   "method is case-insensitive",
			a:      makeTestRequest("get", "http://example.com/a", ""),
			b:      makeTestRequest("GET", "http://example.com/a", ""),
			attrs:  DefaultMatchAttributes(),
			wantEq: true,
		},
		{
			name:   "body ignored unless matched",
			a:      makeTestRequest("POST", "http://example.com/a", "one"),
			b:      makeTestRequest("POST", "http://example.com/a", "two"),
			attrs:  DefaultMatchAttributes(),
			wantEq: true,
		},
		{
			name:   "body matched when requested",
			a:      makeTestRequest("POST", "http://example.com/a", "one"),
			b:      makeTestRequest("POST", "http://example.com/a", "two"),
			attrs:  []MatchAttribute{MatchMethod, MatchURI, MatchBody},
			wantEq: false,
		},
		{
			name:   "path matching ignores host and query",
			a:      makeTestRequest("GET", "http://one.example.com/a?x=1", ""),
			b:      makeTestRequest("GET", "http://two.example.com/a?x=2", ""),
			attrs:  []MatchAttribute{MatchMethod, MatchPath},
			wantEq: true,
		},
		{
			name:   "host matching ignores port",
			a:      makeTestRequest("GET", "http://example.com:8080/a", ""),
			b:      makeTestRequest("GET", "http://example.com:9090/b", ""),
			attrs:  []MatchAttribute{MatchHost},
			wantEq: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fpA, err := Fingerprint(tt.a, tt.attrs)
			require.NoError(t, err)
			fpB, err := Fingerprint(tt.b, tt.attrs)
			require.NoError(t, err)

			if tt.wantEq {
				assert.Equal(t, fpA, fpB)
			} else {
				assert.NotEqual(t, fpA, fpB)
			}
		})
	}
}

func TestFingerprintHeaders(t *testing.T) {
	a := Request{
		Method: "GET",
		URI:    "http://example.com/a",
		Headers: map[string][]string{
			"Accept":     {"application/json"},
			"X-Trace-Id": {"abc"},
		},
	}
	b := Request{
		Method: "GET",
		URI:    "http://example.com/a",
		Headers: map[string][]string{
			"Accept":     {"application/json"},
			"X-Trace-Id": {"def"},
		},
	}

	attrs := []MatchAttribute{MatchMethod, MatchURI, MatchHeaders}

	fpA, err := Fingerprint(a, attrs)
	require.NoError(t, err)
	fpB, err := Fingerprint(b, attrs)
	require.NoError(t, err)
	assert.NotEqual(t, fpA, fpB)

	// Without header matching the same two requests collapse.
	assert.Equal(t,
		MustFingerprint(a, DefaultMatchAttributes()),
		MustFingerprint(b, DefaultMatchAttributes()))
}

func TestFingerprintHeaderValueOrder(t *testing.T) {
	a := Request{
		Method:  "GET",
		URI:     "http://example.com/a",
		Headers: map[string][]string{"Accept": {"text/html", "application/json"}},
	}
	b := Request{
		Method:  "GET",
		URI:     "http://example.com/a",
		Headers: map[string][]string{"Accept": {"application/json", "text/html"}},
	}

	attrs := []MatchAttribute{MatchHeaders}
	assert.NotEqual(t, MustFingerprint(a, attrs), MustFingerprint(b, attrs),
		"value order within a header is significant")
}

func TestFingerprintNFCEquivalence(t *testing.T) {
	// Same body in precomposed and decomposed Unicode forms.
	a := makeTestRequest("POST", "http://example.com/a", "café")
	b := makeTestRequest("POST", "http://example.com/a", "café")

	attrs := []MatchAttribute{MatchMethod, MatchURI, MatchBody}
	assert.Equal(t, MustFingerprint(a, attrs), MustFingerprint(b, attrs))
}

func TestFingerprintUnknownAttribute(t *testing.T) {
	req := makeTestRequest("GET", "http://example.com/a", "")

	_, err := Fingerprint(req, []MatchAttribute{"query"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown match attribute")
}

func TestFingerprintUnparseableURI(t *testing.T) {
	req := Request{Method: "GET", URI: "://missing-scheme"}

	_, err := Fingerprint(req, []MatchAttribute{MatchMethod, MatchPath})
	require.Error(t, err)

	// Full-URI matching treats the URI as an opaque string and succeeds.
	_, err = Fingerprint(req, DefaultMatchAttributes())
	require.NoError(t, err)
}

func TestMustFingerprintPanics(t *testing.T) {
	req := Request{Method: "GET", URI: "://missing-scheme"}

	assert.Panics(t, func() {
		MustFingerprint(req, []MatchAttribute{MatchHost})
	})
}

func TestValidMatchAttributes(t *testing.T) {
	for _, attr := range []MatchAttribute{MatchMethod, MatchURI, MatchPath, MatchHost, MatchBody, MatchHeaders} {
		assert.True(t, ValidMatchAttributes[attr], "attribute %q should be valid", attr)
	}
	assert.False(t, ValidMatchAttributes["query"])
}
