// Package cassette implements the cassette lifecycle: how a named
// recording is opened, how stubbing policy is derived from a record
// mode, how newly observed interactions merge with stored ones, and
// how ejection persists and unwinds.
//
// Lifecycle: Open validates options, attempts the staleness re-record
// override, derives the policy, checkpoints the stub adapter, loads
// and registers stored interactions. During the session Record appends
// newly observed interactions in call order. Eject merges the two
// sequences, persists when anything new exists, and always restores
// the adapter checkpoint, even when persistence fails.
//
// Key design constraints:
//   - The cassette owns its interaction store; the adapter is borrowed
//     and must outlive the cassette
//   - One cassette per test scope, opened and ejected in matching,
//     possibly nested, order
//   - No internal locking: concurrent Record calls must be serialized
//     by the caller
package cassette
