// Package vars resolves ${name} placeholders against a per-run variable mapping.
package vars

import (
	"fmt"
	"regexp"
)

// placeholderRe matches ${identifier} where identifier is one or more word characters.
var placeholderRe = regexp.MustCompile(`\$\{(\w+)\}`)

// Vars is the variable mapping owned by a single scenario run.
// It is not safe for concurrent use; only the execution goroutine touches it.
type Vars map[string]string

// New returns a Vars seeded with a copy of initial. A nil initial yields an empty mapping.
func New(initial map[string]string) Vars {
	v := make(Vars, len(initial))
	for k, val := range initial {
		v[k] = val
	}
	return v
}

// Substitute resolves placeholders in value if it is a string.
// Any other value is returned unchanged.
func (v Vars) Substitute(value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return v.SubstituteString(s)
}

// SubstituteString replaces every ${name} found in v with its value in a single
// pass. Unknown names are left verbatim so unresolved templates stay visible.
func (v Vars) SubstituteString(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := match[2 : len(match)-1]
		if val, ok := v[name]; ok {
			return val
		}
		return match
	})
}

// SubstituteData returns a deep copy of data with placeholders resolved in every
// string leaf, including strings nested inside maps and slices. The input is not
// modified.
func (v Vars) SubstituteData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(data))
	for k, val := range data {
		out[k] = v.substituteValue(val)
	}
	return out
}

func (v Vars) substituteValue(value any) any {
	switch t := value.(type) {
	case string:
		return v.SubstituteString(t)
	case map[string]any:
		return v.SubstituteData(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = v.substituteValue(item)
		}
		return out
	default:
		return value
	}
}

// Unresolved returns the placeholder names in text that have no value in v,
// in order of first appearance.
func (v Vars) Unresolved(text string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderRe.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if _, ok := v[name]; ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// Set stores a handler-produced value. Non-string primitives are stored in
// their fmt string form.
func (v Vars) Set(name string, value any) {
	if s, ok := value.(string); ok {
		v[name] = s
		return
	}
	v[name] = fmt.Sprint(value)
}
