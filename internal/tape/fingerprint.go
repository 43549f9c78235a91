package tape

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

// MatchAttribute names one request field a fingerprint is derived from.
type MatchAttribute string

// The fixed set of request fields a cassette can match on.
const (
	MatchMethod  MatchAttribute = "method"
	MatchURI     MatchAttribute = "uri"
	MatchPath    MatchAttribute = "path"
	MatchHost    MatchAttribute = "host"
	MatchBody    MatchAttribute = "body"
	MatchHeaders MatchAttribute = "headers"
)

// ValidMatchAttributes defines the allowed match attributes.
var ValidMatchAttributes = map[MatchAttribute]bool{
	MatchMethod:  true,
	MatchURI:     true,
	MatchPath:    true,
	MatchHost:    true,
	MatchBody:    true,
	MatchHeaders: true,
}

// DefaultMatchAttributes returns the match set used when a cassette does
// not configure one: method plus full URI.
func DefaultMatchAttributes() []MatchAttribute {
	return []MatchAttribute{MatchMethod, MatchURI}
}

// DomainFingerprint is the domain prefix for request fingerprints.
// Version suffix enables future algorithm migration.
const DomainFingerprint = "rewind/fingerprint/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes a content-addressed identity for a request
// restricted to the given match attributes. Two requests fingerprint
// equal exactly when every matched attribute is equal. The result is
// used for equality and dedup only; it is never persisted.
//
// Method comparison is case-insensitive (recorded cassettes may carry
// "get" where live traffic carries "GET"). Path and host projections
// require a parseable URI.
func Fingerprint(req Request, attrs []MatchAttribute) (string, error) {
	obj := make(Object, len(attrs))
	for _, attr := range attrs {
		switch attr {
		case MatchMethod:
			obj["method"] = String(strings.ToUpper(req.Method))
		case MatchURI:
			obj["uri"] = String(req.URI)
		case MatchPath:
			u, err := url.Parse(req.URI)
			if err != nil {
				return "", fmt.Errorf("Fingerprint: parse uri %q: %w", req.URI, err)
			}
			obj["path"] = String(u.Path)
		case MatchHost:
			u, err := url.Parse(req.URI)
			if err != nil {
				return "", fmt.Errorf("Fingerprint: parse uri %q: %w", req.URI, err)
			}
			obj["host"] = String(u.Hostname())
		case MatchBody:
			obj["body"] = String(req.Body)
		case MatchHeaders:
			obj["headers"] = headersValue(req.Headers)
		default:
			return "", fmt.Errorf("Fingerprint: unknown match attribute %q", attr)
		}
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("Fingerprint: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainFingerprint, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(req Request, attrs []MatchAttribute) string {
	fp, err := Fingerprint(req, attrs)
	if err != nil {
		panic(err)
	}
	return fp
}

// headersValue projects a header map into a canonical JSON object.
// Value order within a header is preserved; key order is handled by
// canonical marshaling.
func headersValue(headers map[string][]string) Object {
	obj := make(Object, len(headers))
	for k, vals := range headers {
		arr := make(Array, len(vals))
		for i, v := range vals {
			arr[i] = String(v)
		}
		obj[k] = arr
	}
	return obj
}
