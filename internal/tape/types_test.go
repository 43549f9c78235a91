package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestHostAndPath(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		wantHost string
		wantPath string
	}{
		{"plain", "http://example.com/users", "example.com", "/users"},
		{"with port", "http://example.com:8080/users", "example.com", "/users"},
		{"with query", "https://example.com/users?page=2", "example.com", "/users"},
		{"ipv6 with port", "http://[::1]:8080/health", "::1", "/health"},
		{"no path", "http://example.com", "example.com", ""},
		{"unparseable", "://missing-scheme", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := Request{Method: "GET", URI: tt.uri}
			assert.Equal(t, tt.wantHost, req.Host())
			assert.Equal(t, tt.wantPath, req.Path())
		})
	}
}

func TestRequestTargetsLocalhost(t *testing.T) {
	tests := []struct {
		uri  string
		want bool
	}{
		{"http://localhost/health", true},
		{"http://localhost:4000/health", true},
		{"http://127.0.0.1:8080/", true},
		{"http://0.0.0.0/metrics", true},
		{"http://[::1]:9090/debug", true},
		{"http://example.com/", false},
		{"http://localhost.example.com/", false},
		{"://missing-scheme", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			req := Request{Method: "GET", URI: tt.uri}
			assert.Equal(t, tt.want, req.TargetsLocalhost())
		})
	}
}
