package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of strings", Array{String("a"), String("b")}, `["a","b"]`},
		{"simple object", Object{"a": String("1")}, `{"a":"1"}`},
		{"nested", Object{"h": Array{String("x"), String("y")}}, `{"h":["x","y"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": String("1"),
		"alpha": String("2"),
		"beta":  String("3"),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"2","beta":"3","zebra":"1"}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{
			"b": String("1"),
			"a": String("2"),
		},
		"a": String("3"),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"3","z":{"a":"2","b":"1"}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8.
	// This is THE critical test for canonical key ordering.
	obj := Object{
		"": String("1"), // UTF-16: 0xE000
		"𐀀":      String("2"), // UTF-16: 0xD800, 0xDC00 (surrogate pair)
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// UTF-16 order: 0xD800 < 0xE000, so 𐀀 comes first
	expected := `{"𐀀":"2","` + "" + `":"1"}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	obj := Object{
		"html": String("<script>alert('xss')</script>"),
		"amp":  String("a & b"),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// MUST NOT escape <, >, &
	assert.Contains(t, string(result), "<script>")
	assert.Contains(t, string(result), "a & b")
	assert.NotContains(t, string(result), "\\u003c")
	assert.NotContains(t, string(result), "\\u003e")
	assert.NotContains(t, string(result), "\\u0026")
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "é" can be represented as:
	// - U+00E9 (precomposed, NFC form)
	// - U+0065 U+0301 (e + combining acute accent, NFD form)
	// NFC normalizes both to U+00E9
	composed := "café"
	decomposed := "café"

	result1, err := MarshalCanonical(String(composed))
	require.NoError(t, err)

	result2, err := MarshalCanonical(String(decomposed))
	require.NoError(t, err)

	assert.Equal(t, result1, result2, "NFC normalization should make these equal")
}

func TestMarshalCanonicalNFCInObjectKeys(t *testing.T) {
	composed := "café"
	decomposed := "café"

	obj1 := Object{composed: String("1")}
	obj2 := Object{decomposed: String("1")}

	result1, err := MarshalCanonical(obj1)
	require.NoError(t, err)

	result2, err := MarshalCanonical(obj2)
	require.NoError(t, err)

	assert.Equal(t, result1, result2, "NFC normalization should make object keys equal")
}

func TestMarshalCanonicalCompactOutput(t *testing.T) {
	obj := Object{
		"headers": Array{String("a"), String("b")},
		"uri":     String("http://example.com/path"),
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	assert.NotContains(t, string(result), "\n")
	assert.NotContains(t, string(result), "\t")
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalNilValue(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}
