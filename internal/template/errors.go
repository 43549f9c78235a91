package template

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UndefinedVariableError indicates raw cassette text referenced a
// template variable that the supplied mapping does not bind.
//
// The error carries a corrected-mapping suggestion so the caller can
// fix the call site without guessing: the existing entries plus the
// missing variable set to a placeholder value.
type UndefinedVariableError struct {
	// Variable is the unbound variable name.
	Variable string

	// Cassette is the name of the cassette being rendered.
	Cassette string

	// Suggestion is the corrected variable mapping, rendered as text.
	Suggestion string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("cassette %q references undefined template variable %q; pass variables %s",
		e.Cassette, e.Variable, e.Suggestion)
}

// IsUndefinedVariable returns true if the error is an undefined template
// variable error. Uses errors.As to handle wrapped errors.
func IsUndefinedVariable(err error) bool {
	var ue *UndefinedVariableError
	return errors.As(err, &ue)
}

// NewUndefinedVariableError creates an UndefinedVariableError with a
// suggestion built from the supplied mapping plus the missing variable.
func NewUndefinedVariableError(cassette, variable string, vars map[string]string) *UndefinedVariableError {
	return &UndefinedVariableError{
		Variable:   variable,
		Cassette:   cassette,
		Suggestion: suggestMapping(vars, variable),
	}
}

// suggestMapping renders the corrected mapping: existing entries in
// sorted order, then the missing variable bound to a placeholder.
func suggestMapping(vars map[string]string, missing string) string {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %q", name, vars[name])
	}
	if len(names) > 0 {
		b.WriteString(", ")
	}
	fmt.Fprintf(&b, "%q: %q", missing, "<value>")
	b.WriteByte('}')
	return b.String()
}
