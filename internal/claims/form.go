// Package claims holds the claim-intake core: the flat-form assembler, the
// money calculations, the identifier allocator, the lifecycle rules and the
// document-checklist resolver. Persistence is the caller's concern; the
// package only depends on narrow store interfaces it declares itself.
package claims

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Form is the flat field-keyed submission input, as decoded from a JSON
// body. Numeric accessors coerce silently: absent or malformed values read
// as zero, mirroring the intake form's lenient handling.
type Form map[string]any

// Str returns the field as a string, or "" when absent or not a string.
func (f Form) Str(key string) string {
	s, _ := f[key].(string)
	return s
}

// StrDefault returns the field as a string, or def when absent or empty.
func (f Form) StrDefault(key, def string) string {
	if s := f.Str(key); s != "" {
		return s
	}
	return def
}

// Float returns the field as a float64, coercing numeric strings and JSON
// numbers. Anything unparsable reads as 0.
func (f Form) Float(key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0
		}
		return n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Int returns the field truncated to an int, with the same coercion as Float.
func (f Form) Int(key string) int {
	return int(f.Float(key))
}

// Bool returns the field as a bool, or def when absent or not a bool.
func (f Form) Bool(key string, def bool) bool {
	if b, ok := f[key].(bool); ok {
		return b
	}
	return def
}

// Present reports whether the field holds a truthy value. Empty strings,
// zero numbers, false and nil all count as absent, so a required-field check
// treats them as missing.
func (f Form) Present(key string) bool {
	switch v := f[key].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		n, err := v.Float64()
		return err == nil && n != 0
	default:
		return true
	}
}

// Merge returns a copy of f with every field of other laid over it.
func (f Form) Merge(other map[string]any) Form {
	out := make(Form, len(f)+len(other))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
