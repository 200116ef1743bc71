package rules

import "strings"

// Report is the read-only analysis snapshot a rule tree executes against.
// The engine treats its structure as opaque; variable nodes address it with
// dotted path selectors (e.g. "technical.momentum.rsi_14"). Leaf values are
// either numeric (float64, int) or categorical (string).
type Report map[string]interface{}

// Lookup resolves a dotted path selector against the report.
func (r Report) Lookup(path string) (interface{}, bool) {
	if r == nil {
		return nil, false
	}

	current := interface{}(map[string]interface{}(r))
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// LookupFloat resolves a path and coerces the value to float64.
func (r Report) LookupFloat(path string) (float64, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// LookupString resolves a path and coerces the value to a string.
func (r Report) LookupString(path string) (string, bool) {
	v, ok := r.Lookup(path)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
