package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

// EvaluateBracketTax computes progressive tax over an ordered bracket table.
// Each tier's rate applies only to the slice of taxable income between the
// previous tier's upper bound and its own; the walk stops once the full
// amount has been allocated. Zero taxable income yields zero tax and the
// result is never negative. This is the shared primitive for both the
// federal and NJ calculators.
func EvaluateBracketTax(taxable decimal.Decimal, table domain.BracketTable) decimal.Decimal {
	remaining := taxable
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	tax := decimal.Zero
	prevCap := decimal.Zero
	for _, tier := range table {
		width := tier.UpTo.Sub(prevCap)
		if width.IsNegative() {
			width = decimal.Zero
		}
		chunk := decimal.Min(remaining, width)
		if chunk.IsPositive() {
			tax = tax.Add(chunk.Mul(tier.Rate))
			remaining = remaining.Sub(chunk)
		}
		prevCap = tier.UpTo
		if !remaining.IsPositive() {
			break
		}
	}

	if tax.IsNegative() {
		return decimal.Zero
	}
	return tax
}

// maxZero floors a decimal at zero.
func maxZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
