// Package schema validates raw cassette documents against the
// embedded CUE description of the storage layout. It checks structure
// only; semantic checks such as fingerprint matching live with the
// codec and cassette packages.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

//go:embed cassette.cue
var cassetteSchema string

var (
	compileOnce sync.Once
	compiled    cue.Value
	compileErr  error
)

func schemaValue() (cue.Value, error) {
	compileOnce.Do(func() {
		ctx := cuecontext.New()
		value := ctx.CompileString(cassetteSchema, cue.Filename("cassette.cue"))
		if err := value.Err(); err != nil {
			compileErr = fmt.Errorf("compiling cassette schema: %w", err)
			return
		}
		compiled = value.LookupPath(cue.ParsePath("#Cassette"))
		if err := compiled.Err(); err != nil {
			compileErr = fmt.Errorf("looking up cassette schema: %w", err)
		}
	})
	return compiled, compileErr
}

// Validate checks a raw cassette document against the storage schema.
// The cassette name is used in error messages only.
func Validate(cassette string, raw []byte) error {
	value, err := schemaValue()
	if err != nil {
		return err
	}
	if err := yaml.Validate(raw, value); err != nil {
		return fmt.Errorf("cassette %q does not match the storage schema: %w", cassette, err)
	}
	return nil
}
