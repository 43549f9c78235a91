// Package tape provides the interaction data model for cassettes.
//
// This package contains type definitions plus the canonical fingerprint
// used to compare requests. All other internal packages import tape;
// tape imports nothing internal. This ensures the data model remains
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All YAML/JSON tags use snake_case
//   - Fingerprints are derived values, never persisted
//   - Canonical JSON for fingerprinting: NFC strings, no HTML escaping,
//     object keys ordered by UTF-16 code units
package tape
