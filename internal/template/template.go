// Package template resolves ${name} placeholders in raw cassette text
// before it is decoded as structured data.
package template

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// placeholderPattern matches ${name} placeholders. Names follow
// identifier rules; anything else is left in the text untouched.
var placeholderPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// plan is the precompiled substitution shape for one distinct set of
// variable names: the sorted names and their placeholder byte patterns.
// Plans carry no values, so cassettes that declare the same names share
// one plan regardless of what the variables are bound to.
type plan struct {
	names        []string
	placeholders [][]byte
}

// Renderer substitutes template variables into raw cassette text.
// Plans are memoized per distinct sorted variable-name set; the memo is
// owned by the Renderer, never global.
type Renderer struct {
	mu    sync.Mutex
	plans map[string]*plan
}

// NewRenderer creates a Renderer with an empty plan memo.
func NewRenderer() *Renderer {
	return &Renderer{plans: make(map[string]*plan)}
}

// Render substitutes each ${name} placeholder in raw with its value
// from vars. A nil mapping disables rendering entirely and returns raw
// unchanged, so recorded bodies may contain literal ${...} text. A
// non-nil mapping must bind every referenced name or rendering fails
// with UndefinedVariableError naming the first unbound variable.
func (r *Renderer) Render(cassette string, raw []byte, vars map[string]string) ([]byte, error) {
	if vars == nil {
		return raw, nil
	}

	for _, match := range placeholderPattern.FindAllSubmatch(raw, -1) {
		name := string(match[1])
		if _, ok := vars[name]; !ok {
			return nil, NewUndefinedVariableError(cassette, name, vars)
		}
	}

	p := r.planFor(vars)
	out := raw
	for i, name := range p.names {
		out = bytes.ReplaceAll(out, p.placeholders[i], []byte(vars[name]))
	}
	return out, nil
}

// planFor returns the memoized plan for the variable-name set of vars,
// building it on first use.
func (r *Renderer) planFor(vars map[string]string) *plan {
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	key := strings.Join(names, "\x00")

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.plans[key]; ok {
		return p
	}

	p := &plan{names: names, placeholders: make([][]byte, len(names))}
	for i, name := range names {
		p.placeholders[i] = []byte("${" + name + "}")
	}
	r.plans[key] = p
	return p
}
