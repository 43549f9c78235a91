package tape

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the types a request projection can
// contain. Only String, Array, and Object implement it; fingerprint
// input never carries numbers, booleans, or nulls, so none exist here.
type Value interface {
	fingerprintValue() // Sealed - only these types implement it
}

// String is a string value in a request projection.
type String string

func (String) fingerprintValue() {}

// Array is an ordered list of values, used for multi-valued headers.
type Array []Value

func (Array) fingerprintValue() {}

// Object is a map of string keys to values.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) fingerprintValue() {}

// SortedKeys returns keys in canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units as RFC 8785
// requires for canonical JSON key ordering.
// CRITICAL: Must use unicode/utf16.Encode for correct surrogate handling.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}
