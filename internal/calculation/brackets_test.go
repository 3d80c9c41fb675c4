package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/taxfile/taxfile/internal/domain"
)

func testBrackets() domain.BracketTable {
	return domain.BracketTable{
		{UpTo: decimal.NewFromInt(10000), Rate: decimal.NewFromFloat(0.10)},
		{UpTo: decimal.NewFromInt(40000), Rate: decimal.NewFromFloat(0.20)},
		{UpTo: decimal.New(1, 12), Rate: decimal.NewFromFloat(0.30)},
	}
}

func TestEvaluateBracketTax(t *testing.T) {
	tests := []struct {
		name     string
		taxable  decimal.Decimal
		expected decimal.Decimal
	}{
		{
			name:     "zero taxable income",
			taxable:  decimal.Zero,
			expected: decimal.Zero,
		},
		{
			name:     "negative taxable income clamps to zero",
			taxable:  decimal.NewFromInt(-5000),
			expected: decimal.Zero,
		},
		{
			name:     "entirely inside first tier",
			taxable:  decimal.NewFromInt(8000),
			expected: decimal.NewFromInt(800),
		},
		{
			name:     "exactly on the first tier boundary",
			taxable:  decimal.NewFromInt(10000),
			expected: decimal.NewFromInt(1000),
		},
		{
			name:     "one dollar into the second tier",
			taxable:  decimal.NewFromInt(10001),
			expected: decimal.NewFromFloat(1000.20),
		},
		{
			name:     "spans two tiers",
			taxable:  decimal.NewFromInt(25000),
			expected: decimal.NewFromInt(4000), // 1000 + 15000*0.20
		},
		{
			name:     "reaches the unbounded top tier",
			taxable:  decimal.NewFromInt(50000),
			expected: decimal.NewFromInt(10000), // 1000 + 6000 + 10000*0.30
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := EvaluateBracketTax(tt.taxable, testBrackets())
			assert.True(t, tax.Equal(tt.expected),
				"Expected %s, got %s", tt.expected, tax)
		})
	}
}

func TestEvaluateBracketTaxMonotonic(t *testing.T) {
	table := testBrackets()
	prev := decimal.Zero
	for income := int64(0); income <= 60000; income += 2500 {
		tax := EvaluateBracketTax(decimal.NewFromInt(income), table)
		assert.True(t, tax.GreaterThanOrEqual(prev),
			"tax decreased at income %d: %s < %s", income, tax, prev)
		assert.False(t, tax.IsNegative())
		prev = tax
	}
}

func TestEvaluateBracketTax2024SingleScenario(t *testing.T) {
	// $50,000 wages less the $14,600 standard deduction leaves $35,400
	// taxable: 11600*0.10 + 23800*0.12 = 4016.
	table := domain.BracketTable{
		{UpTo: decimal.NewFromInt(11600), Rate: decimal.NewFromFloat(0.10)},
		{UpTo: decimal.NewFromInt(47150), Rate: decimal.NewFromFloat(0.12)},
		{UpTo: decimal.New(1, 12), Rate: decimal.NewFromFloat(0.22)},
	}
	tax := EvaluateBracketTax(decimal.NewFromInt(35400), table)
	assert.True(t, tax.Equal(decimal.NewFromInt(4016)), "got %s", tax)
}
