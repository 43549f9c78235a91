package tape

import (
	"net/url"
	"time"
)

// Interaction is an immutable record of one observed HTTP exchange.
// Produced by a stubbing adapter when a real call is allowed through;
// otherwise replayed unchanged from storage.
type Interaction struct {
	Request    Request   `yaml:"request" json:"request"`
	Response   Response  `yaml:"response" json:"response"`
	RecordedAt time.Time `yaml:"recorded_at" json:"recorded_at"`
}

// Request captures the request half of an interaction.
type Request struct {
	Method  string              `yaml:"method" json:"method"`
	URI     string              `yaml:"uri" json:"uri"`
	Headers map[string][]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string              `yaml:"body" json:"body"`
}

// Response captures the response half of an interaction.
type Response struct {
	Status  Status              `yaml:"status" json:"status"`
	Headers map[string][]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body    string              `yaml:"body" json:"body"`
}

// Status is a response status line: numeric code plus reason phrase.
type Status struct {
	Code    int    `yaml:"code" json:"code"`
	Message string `yaml:"message" json:"message"`
}

// localhostAliases are the hostnames treated as local when an adapter
// ignores localhost traffic.
var localhostAliases = map[string]bool{
	"localhost": true,
	"127.0.0.1": true,
	"0.0.0.0":   true,
	"::1":       true,
}

// Host returns the hostname component of the request URI, without port
// or brackets. Empty when the URI cannot be parsed.
func (r Request) Host() string {
	u, err := url.Parse(r.URI)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Path returns the path component of the request URI, without query.
// Empty when the URI cannot be parsed.
func (r Request) Path() string {
	u, err := url.Parse(r.URI)
	if err != nil {
		return ""
	}
	return u.Path
}

// TargetsLocalhost reports whether the request URI points at a
// recognized localhost alias.
func (r Request) TargetsLocalhost() bool {
	return IsLocalhostHost(r.Host())
}

// IsLocalhostHost reports whether a bare hostname, as returned by
// url.Hostname, is a recognized localhost alias.
func IsLocalhostHost(host string) bool {
	return localhostAliases[host]
}
