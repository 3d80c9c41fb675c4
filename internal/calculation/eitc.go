package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

// EITCCalculator is the injected Earned Income Tax Credit collaborator. The
// calculators work without one: a nil provider degrades to a zero credit and
// the result records that the provider was absent. Implementations must be
// pure; the same inputs always yield the same credit.
type EITCCalculator interface {
	Calculate(taxYear int, status domain.FilingStatus, earnedIncome, agi decimal.Decimal, qualifyingChildren int, investmentIncome decimal.Decimal) decimal.Decimal
}

// EITCFunc adapts a plain function to the EITCCalculator interface.
type EITCFunc func(taxYear int, status domain.FilingStatus, earnedIncome, agi decimal.Decimal, qualifyingChildren int, investmentIncome decimal.Decimal) decimal.Decimal

func (f EITCFunc) Calculate(taxYear int, status domain.FilingStatus, earnedIncome, agi decimal.Decimal, qualifyingChildren int, investmentIncome decimal.Decimal) decimal.Decimal {
	return f(taxYear, status, earnedIncome, agi, qualifyingChildren, investmentIncome)
}

// NoopEITC always returns zero. It is the explicit stand-in for deployments
// that have not wired a real EITC table.
type NoopEITC struct{}

func (NoopEITC) Calculate(int, domain.FilingStatus, decimal.Decimal, decimal.Decimal, int, decimal.Decimal) decimal.Decimal {
	return decimal.Zero
}
