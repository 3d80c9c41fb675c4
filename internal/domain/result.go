package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DiagnosticPrefix marks result keys that are internal diagnostics rather
// than form lines. Form-filling code filters on this prefix.
const DiagnosticPrefix = "_"

// Result maps form line identifiers ("11", "25d", ...) to computed amounts.
// Keys starting with DiagnosticPrefix carry debug/audit quantities that are
// not meant for form output. A Result is created fresh per computation and
// never mutated after return.
type Result map[string]decimal.Decimal

// Get returns the value for a key, or zero when the key is absent.
func (r Result) Get(key string) decimal.Decimal {
	if v, ok := r[key]; ok {
		return v
	}
	return decimal.Zero
}

// Lines returns only the official form lines, diagnostics stripped.
func (r Result) Lines() Result {
	out := make(Result, len(r))
	for k, v := range r {
		if !strings.HasPrefix(k, DiagnosticPrefix) {
			out[k] = v
		}
	}
	return out
}

// Diagnostics returns only the diagnostic entries.
func (r Result) Diagnostics() Result {
	out := make(Result)
	for k, v := range r {
		if strings.HasPrefix(k, DiagnosticPrefix) {
			out[k] = v
		}
	}
	return out
}

// Clone returns an independent copy, used where a stored result is handed
// out so callers cannot mutate shared state.
func (r Result) Clone() Result {
	out := make(Result, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether two results contain the same keys with numerically
// equal values.
func (r Result) Equal(other Result) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// SortedKeys returns the result's keys in lexical order, for deterministic
// reports.
func (r Result) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
