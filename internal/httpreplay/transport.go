// Package httpreplay bridges net/http and the stub registry: a
// RoundTripper that replays recorded responses, blocks unmatched
// requests when real connections are disabled, and captures real
// exchanges for recording.
package httpreplay

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/roach88/rewind/internal/tape"
)

// Player is the replay surface the transport consults before letting a
// request touch the network.
type Player interface {
	// Playback returns the next recorded response for the request, if
	// any.
	Playback(req tape.Request) (tape.Response, bool)

	// HTTPConnectionsAllowed reports whether unmatched requests may
	// reach the real network.
	HTTPConnectionsAllowed() bool

	// IgnoresLocalhost reports whether localhost traffic bypasses
	// replay and capture entirely.
	IgnoresLocalhost() bool
}

// Sink receives interactions captured from real round trips.
type Sink interface {
	Record(interaction tape.Interaction)
}

// Transport is an http.RoundTripper that consults a Player before the
// network and feeds captured exchanges to a Sink after it. Install it
// as an http.Client's Transport.
//
// The zero value with only Player set is usable. RoundTrip is safe for
// concurrent use; capture delivery to the sink is serialized.
type Transport struct {
	// Player answers replay and connection-policy questions. Nil makes
	// the transport a transparent proxy to Base.
	Player Player

	// Sink receives captured interactions. Nil disables capture.
	Sink Sink

	// Base performs real round trips. Nil means http.DefaultTransport.
	Base http.RoundTripper

	// Logger receives replay and capture events. Nil discards.
	Logger *slog.Logger

	// Now stamps captured interactions. Nil means time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Player == nil {
		return t.base().RoundTrip(req)
	}
	if t.Player.IgnoresLocalhost() && tape.IsLocalhostHost(req.URL.Hostname()) {
		return t.base().RoundTrip(req)
	}

	taped, err := captureRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to capture request %s %s: %w", req.Method, req.URL, err)
	}

	if stored, ok := t.Player.Playback(taped); ok {
		t.logger().Debug("replaying recorded response",
			"method", taped.Method, "uri", taped.URI, "status", stored.Status.Code)
		return synthesizeResponse(req, stored), nil
	}

	if !t.Player.HTTPConnectionsAllowed() {
		t.logger().Debug("blocking unmatched request",
			"method", taped.Method, "uri", taped.URI)
		return nil, NewConnectionsDisabledError(taped.Method, taped.URI)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if t.Sink == nil {
		return resp, nil
	}

	captured, err := captureResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to capture response for %s %s: %w", req.Method, req.URL, err)
	}

	interaction := tape.Interaction{
		Request:    taped,
		Response:   captured,
		RecordedAt: t.now().UTC(),
	}

	t.mu.Lock()
	t.Sink.Record(interaction)
	t.mu.Unlock()

	t.logger().Debug("captured real exchange",
		"method", taped.Method, "uri", taped.URI, "status", captured.Status.Code)
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return discardLogger
}

func (t *Transport) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// captureRequest projects an http.Request onto the recorded form. The
// body is drained and replaced so the request stays usable, and
// GetBody is restored so redirects can replay it.
func captureRequest(req *http.Request) (tape.Request, error) {
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		if err != nil {
			return tape.Request{}, err
		}
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
	}

	return tape.Request{
		Method:  req.Method,
		URI:     req.URL.String(),
		Headers: cloneHeaders(req.Header),
		Body:    string(body),
	}, nil
}

// captureResponse drains and replaces the response body, projecting it
// onto the recorded form.
func captureResponse(resp *http.Response) (tape.Response, error) {
	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return tape.Response{}, err
		}
		resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return tape.Response{
		Status:  tape.Status{Code: resp.StatusCode, Message: statusMessage(resp)},
		Headers: cloneHeaders(resp.Header),
		Body:    string(body),
	}, nil
}

// synthesizeResponse builds an http.Response from a recorded one. The
// synthesized response is always HTTP/1.1 regardless of what protocol
// served the original recording.
func synthesizeResponse(req *http.Request, stored tape.Response) *http.Response {
	message := stored.Status.Message
	if message == "" {
		message = http.StatusText(stored.Status.Code)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", stored.Status.Code, message),
		StatusCode:    stored.Status.Code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        cloneHeaders(stored.Headers),
		Body:          io.NopCloser(strings.NewReader(stored.Body)),
		ContentLength: int64(len(stored.Body)),
		Request:       req,
	}
}

func statusMessage(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if strings.HasPrefix(resp.Status, prefix) {
		return strings.TrimPrefix(resp.Status, prefix)
	}
	return http.StatusText(resp.StatusCode)
}

func cloneHeaders(headers map[string][]string) map[string][]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string][]string, len(headers))
	for name, values := range headers {
		out[name] = append([]string(nil), values...)
	}
	return out
}
