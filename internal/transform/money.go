package transform

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount normalizes heterogeneous textual amounts into exact decimals.
// It strips currency symbols, thousands separators, and whitespace, and
// reads accounting-style parentheses as negation. Malformed or empty input
// normalizes to zero rather than failing; the engine's error model treats
// unparseable money as absent.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch r {
		case '$', ',', ' ', '\t':
			// separators and currency markers
		default:
			b.WriteRune(r)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}

// ParseNonNegativeAmount is ParseAmount floored at zero, for fields that are
// amounts paid or received rather than net quantities.
func ParseNonNegativeAmount(s string) decimal.Decimal {
	d := ParseAmount(s)
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// dateLayouts are the formats intake records use, most common first.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "01-02-2006"}

// ParseDate reads a date in any of the supported intake formats. The second
// return is false when the input is empty or unparseable; callers decide
// whether an unknown date matters.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
