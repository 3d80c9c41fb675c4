package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxfile/taxfile/internal/config"
	"github.com/taxfile/taxfile/internal/domain"
)

func childBorn(year int) domain.Dependent {
	return domain.Dependent{
		FirstName:          "Kid",
		LastName:           "Test",
		BirthDate:          time.Date(year, time.June, 15, 0, 0, 0, 0, time.UTC),
		Relationship:       "daughter",
		MonthsWithTaxpayer: 12,
	}
}

func singleW2(wages, fedWithheld float64) []domain.WageStatement {
	return []domain.WageStatement{{
		Employer:        "Acme Corp",
		Wages:           decimal.NewFromFloat(wages),
		FederalWithheld: decimal.NewFromFloat(fedWithheld),
	}}
}

func assertLine(t *testing.T, res domain.Result, key string, expected decimal.Decimal) {
	t.Helper()
	got := res.Get(key)
	assert.True(t, got.Equal(expected), "line %q: expected %s, got %s", key, expected, got)
}

func TestFederalSingleFilerOneW2(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	p := domain.TaxpayerProfile{Status: domain.FilingSingle}

	res := fc.Compute(p, singleW2(50000, 4000))

	assertLine(t, res, "1z", decimal.NewFromInt(50000))
	assertLine(t, res, "11", decimal.NewFromInt(50000))
	assertLine(t, res, "12", decimal.NewFromInt(14600))
	assertLine(t, res, "15", decimal.NewFromInt(35400))
	assertLine(t, res, "16", decimal.NewFromInt(4016))
	assertLine(t, res, "25d", decimal.NewFromInt(4000))
	assertLine(t, res, "34", decimal.Zero)
	assertLine(t, res, "37", decimal.NewFromInt(16))
	assertLine(t, res, "_status_fallback", decimal.Zero)
	assertLine(t, res, "_eitc_available", decimal.Zero)
}

func TestFederalChildTaxCreditPhaseOut(t *testing.T) {
	tests := []struct {
		name        string
		wages       float64
		expectedCTC decimal.Decimal
	}{
		{
			// AGI exactly at the married-joint threshold: zero dollars over,
			// zero phase-out steps, full credit.
			name:        "AGI exactly at threshold keeps full credit",
			wages:       400000,
			expectedCTC: decimal.NewFromInt(4000),
		},
		{
			// $1,500 over rounds down to one $1,000 step.
			name:        "partial step rounds down",
			wages:       401500,
			expectedCTC: decimal.NewFromInt(3950),
		},
		{
			name:        "far past the threshold phases out completely",
			wages:       500000,
			expectedCTC: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := NewFederalCalculator(config.Default2024())
			p := domain.TaxpayerProfile{
				Status:     domain.FilingMarriedJoint,
				Dependents: []domain.Dependent{childBorn(2016), childBorn(2019)},
			}

			res := fc.Compute(p, singleW2(tt.wages, 0))

			assertLine(t, res, "_ref_ctc_after_phase", tt.expectedCTC)
			// Tax at these income levels exceeds the credit, so the
			// nonrefundable portion absorbs all of it.
			assertLine(t, res, "19", tt.expectedCTC)
			assertLine(t, res, "_ref_refundable_ctc", decimal.Zero)
		})
	}
}

func TestFederalAdditionalChildTaxCredit(t *testing.T) {
	// Low-income filer with one child: taxable 5400, tax 540, nonrefundable
	// CTC absorbs the 540, and the earned-income formula leaves the
	// remaining 1460 fully refundable (under both the 1600 per-child cap and
	// the 0.15 * (20000 - 2500) = 2625 earned cap).
	fc := NewFederalCalculator(config.Default2024())
	p := domain.TaxpayerProfile{
		Status:     domain.FilingSingle,
		Dependents: []domain.Dependent{childBorn(2018)},
	}

	res := fc.Compute(p, singleW2(20000, 0))

	assertLine(t, res, "16", decimal.NewFromInt(540))
	assertLine(t, res, "19", decimal.NewFromInt(540))
	assertLine(t, res, "_ref_refundable_ctc", decimal.NewFromInt(1460))
	assertLine(t, res, "27", decimal.NewFromInt(1460))
	assertLine(t, res, "34", decimal.NewFromInt(1460))
	assertLine(t, res, "37", decimal.Zero)
}

func TestFederalChildAgeCutoff(t *testing.T) {
	// A 17th birthday falling exactly on December 31 does not yet count the
	// later age, so the dependent still earns the credit; a birthday one day
	// earlier does not.
	tests := []struct {
		name        string
		birthDate   time.Time
		expectedCTC decimal.Decimal
	}{
		{
			name:        "turns 17 on December 31 still qualifies",
			birthDate:   time.Date(2007, time.December, 31, 0, 0, 0, 0, time.UTC),
			expectedCTC: decimal.NewFromInt(2000),
		},
		{
			name:        "turns 17 on December 30 does not qualify",
			birthDate:   time.Date(2007, time.December, 30, 0, 0, 0, 0, time.UTC),
			expectedCTC: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := NewFederalCalculator(config.Default2024())
			p := domain.TaxpayerProfile{
				Status: domain.FilingSingle,
				Dependents: []domain.Dependent{{
					BirthDate:    tt.birthDate,
					Relationship: "son",
				}},
			}

			res := fc.Compute(p, singleW2(20000, 0))

			assertLine(t, res, "_ref_ctc_after_phase", tt.expectedCTC)
		})
	}
}

func TestFederalTaxableSocialSecurity(t *testing.T) {
	tests := []struct {
		name        string
		status      domain.FilingStatus
		wages       float64
		benefits    float64
		expectedSSA decimal.Decimal
	}{
		{
			name:        "below base threshold is untaxed",
			status:      domain.FilingSingle,
			wages:       10000,
			benefits:    10000,
			expectedSSA: decimal.Zero,
		},
		{
			name:     "middle tier taxes half the excess over base",
			status:   domain.FilingSingle,
			wages:    24000,
			benefits: 10000,
			// provisional 29000: min(5000, 0.5*4000) = 2000
			expectedSSA: decimal.NewFromInt(2000),
		},
		{
			name:     "top tier caps at 85% of benefits",
			status:   domain.FilingSingle,
			wages:    40000,
			benefits: 10000,
			// provisional 45000: min(8500, 9350+4500) = 8500
			expectedSSA: decimal.NewFromInt(8500),
		},
		{
			name:     "married separate short-circuits to provisional income",
			status:   domain.FilingMarriedSeparate,
			wages:    1000,
			benefits: 10000,
			// min(8500, 1000+5000) = 6000
			expectedSSA: decimal.NewFromInt(6000),
		},
		{
			name:        "zero benefits yield zero regardless of income",
			status:      domain.FilingSingle,
			wages:       100000,
			benefits:    0,
			expectedSSA: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := NewFederalCalculator(config.Default2024())
			p := domain.TaxpayerProfile{
				Status:                 tt.status,
				SocialSecurityBenefits: decimal.NewFromFloat(tt.benefits),
			}

			res := fc.Compute(p, singleW2(tt.wages, 0))

			assertLine(t, res, "5b", tt.expectedSSA)
			expectedAGI := decimal.NewFromFloat(tt.wages).Add(tt.expectedSSA)
			assertLine(t, res, "11", expectedAGI)
		})
	}
}

func TestFederalAdjustments(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	p := domain.TaxpayerProfile{
		Status:              domain.FilingSingle,
		StudentLoanInterest: decimal.NewFromInt(5000), // capped at 2500
		IRAContribution:     decimal.NewFromInt(3000),
		HSAContribution:     decimal.NewFromInt(1000),
	}

	res := fc.Compute(p, singleW2(50000, 0))

	assertLine(t, res, "11", decimal.NewFromInt(43500))
}

func TestFederalSelfEmploymentLossFloored(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	p := domain.TaxpayerProfile{
		Status:                 domain.FilingSingle,
		SelfEmploymentIncome:   decimal.NewFromInt(1000),
		SelfEmploymentExpenses: decimal.NewFromInt(5000),
	}

	res := fc.Compute(p, singleW2(30000, 0))

	assertLine(t, res, "8", decimal.Zero)
	assertLine(t, res, "11", decimal.NewFromInt(30000))
}

func TestFederalEITCProvider(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	fc.EITC = EITCFunc(func(_ int, _ domain.FilingStatus, _, _ decimal.Decimal, _ int, _ decimal.Decimal) decimal.Decimal {
		return decimal.NewFromInt(1000)
	})
	p := domain.TaxpayerProfile{Status: domain.FilingSingle}

	res := fc.Compute(p, singleW2(20000, 0))

	assertLine(t, res, "_eitc_available", decimal.NewFromInt(1))
	assertLine(t, res, "_ref_eitc_used", decimal.NewFromInt(1000))
	assertLine(t, res, "27", decimal.NewFromInt(1000))
}

func TestFederalNoopEITCRecordsAvailability(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	fc.EITC = NoopEITC{}

	res := fc.Compute(domain.TaxpayerProfile{Status: domain.FilingSingle}, singleW2(20000, 0))

	assertLine(t, res, "_eitc_available", decimal.NewFromInt(1))
	assertLine(t, res, "_ref_eitc_used", decimal.Zero)
}

func TestFederalStatusFallbackToSingle(t *testing.T) {
	cfg := config.Default2024()
	delete(cfg.Federal.StandardDeduction, "head_household")
	delete(cfg.Federal.Brackets, "head_household")
	delete(cfg.Federal.ChildTaxCredit.PhaseOutThreshold, "head_household")
	delete(cfg.Federal.SSAThresholds, "head_household")

	fc := NewFederalCalculator(cfg)
	res := fc.Compute(domain.TaxpayerProfile{Status: domain.FilingHeadOfHousehold}, singleW2(50000, 4000))

	assertLine(t, res, "_status_fallback", decimal.NewFromInt(1))
	// Single-filer values applied: 14600 deduction instead of 21900.
	assertLine(t, res, "12", decimal.NewFromInt(14600))
	assertLine(t, res, "16", decimal.NewFromInt(4016))
}

func TestFederalRefundAndOwedNeverBothPositive(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	for _, withheld := range []float64{0, 2000, 4016, 10000} {
		res := fc.Compute(domain.TaxpayerProfile{Status: domain.FilingSingle}, singleW2(50000, withheld))
		refund, owed := res.Get("34"), res.Get("37")
		assert.False(t, refund.IsPositive() && owed.IsPositive(),
			"withheld %v: refund %s and owed %s both positive", withheld, refund, owed)
	}
}

func TestFederalDeterministic(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	p := domain.TaxpayerProfile{
		Status:                 domain.FilingMarriedJoint,
		Dependents:             []domain.Dependent{childBorn(2015)},
		Interest:               decimal.NewFromInt(1200),
		SocialSecurityBenefits: decimal.NewFromInt(18000),
	}
	w2s := singleW2(95000, 8000)

	first := fc.Compute(p, w2s)
	second := fc.Compute(p, w2s)

	require.True(t, first.Equal(second), "same inputs must produce identical results")
}

func TestFederalMultipleW2sAggregate(t *testing.T) {
	fc := NewFederalCalculator(config.Default2024())
	w2s := []domain.WageStatement{
		{Wages: decimal.NewFromInt(30000), FederalWithheld: decimal.NewFromInt(2500)},
		{Wages: decimal.NewFromInt(20000), FederalWithheld: decimal.NewFromInt(1500)},
	}

	res := fc.Compute(domain.TaxpayerProfile{Status: domain.FilingSingle}, w2s)

	assertLine(t, res, "1z", decimal.NewFromInt(50000))
	assertLine(t, res, "25d", decimal.NewFromInt(4000))
	assertLine(t, res, "16", decimal.NewFromInt(4016))
}
