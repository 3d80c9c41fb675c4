package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

// Federal form line keys produced by FederalCalculator.Compute.
//
//	"1z"  wages            "12"  standard deduction
//	"2b"  taxable interest "15"  taxable income
//	"3a"  dividends        "16"  tax before credits
//	"5b"  taxable SSA      "19"  nonrefundable CTC used
//	"7"   unemployment     "25d" federal withholding
//	"8"   SE net income    "27"  refundable credits (ACTC + EITC)
//	"11"  AGI              "34"  refund / "37" amount owed
//
// Diagnostic keys (underscore prefix) expose the credit internals and any
// degraded path taken, so callers can warn without the computation failing.
const (
	diagEITCUsed       = "_ref_eitc_used"
	diagRefundableCTC  = "_ref_refundable_ctc"
	diagCTCAfterPhase  = "_ref_ctc_after_phase"
	diagStatusFallback = "_status_fallback"
	diagEITCAvailable  = "_eitc_available"
)

// FederalCalculator computes a simplified federal 1040 from a taxpayer
// profile and wage statements. It is pure: no I/O, no clock, no mutation of
// its inputs, so one calculator may serve concurrent computations.
type FederalCalculator struct {
	Config domain.TaxYearConfig
	EITC   EITCCalculator // nil means no provider; credit degrades to zero
	Log    Logger
}

// NewFederalCalculator creates a federal calculator for one tax year's
// configuration. No EITC provider is attached by default.
func NewFederalCalculator(cfg domain.TaxYearConfig) *FederalCalculator {
	return &FederalCalculator{Config: cfg, Log: NopLogger{}}
}

// Compute runs the full federal computation. It never fails: malformed or
// missing configuration rows degrade to the "single" row and are flagged on
// the diagnostic lines.
func (fc *FederalCalculator) Compute(p domain.TaxpayerProfile, w2s []domain.WageStatement) domain.Result {
	fed := fc.Config.Federal
	fellBack := false

	stdDed, fb := statusAmount(fed.StandardDeduction, p.Status)
	fellBack = fellBack || fb

	// Earned income: wages plus net self-employment (losses floored at zero).
	wages := domain.TotalWages(w2s)
	seNet := p.SelfEmploymentNet()
	earnedIncome := wages.Add(seNet)

	otherIncome := p.Interest.Add(p.Dividends).Add(p.Unemployment).Add(p.PensionDistributions)

	// Above-the-line adjustments; student loan interest is capped.
	studentLoan := decimal.Min(fed.StudentLoanInterestCap, p.StudentLoanInterest)
	adjustments := studentLoan.Add(p.IRAContribution).Add(p.HSAContribution)

	agiExclSSA := maxZero(earnedIncome.Add(otherIncome).Sub(adjustments))

	taxableSSA, fb := fc.taxableSocialSecurity(agiExclSSA, p.SocialSecurityBenefits, p.Status)
	fellBack = fellBack || fb

	agi := agiExclSSA.Add(taxableSSA)
	taxableIncome := maxZero(agi.Sub(stdDed))

	brackets, fb := statusBrackets(fed.Brackets, p.Status)
	fellBack = fellBack || fb
	taxBeforeCredits := EvaluateBracketTax(taxableIncome, brackets)

	// Child Tax Credit with AGI phase-out in $1,000 steps.
	children := p.QualifyingChildren(fc.Config.Year)
	ctc := fed.ChildTaxCredit
	tentativeCTC := ctc.PerChild.Mul(decimal.NewFromInt(int64(children)))
	phaseStart, fb := statusAmount(ctc.PhaseOutThreshold, p.Status)
	fellBack = fellBack || fb
	over := maxZero(agi.Sub(phaseStart))
	steps := over.Div(decimal.NewFromInt(1000)).Floor()
	ctcAfterPhase := maxZero(tentativeCTC.Sub(steps.Mul(ctc.PhaseOutStep)))

	nonrefCTCUsed := decimal.Min(ctcAfterPhase, taxBeforeCredits)
	taxAfterNonref := maxZero(taxBeforeCredits.Sub(nonrefCTCUsed))

	// Refundable ACTC: the earned-income formula, the per-child cap, and the
	// unused CTC each cap the refundable amount.
	actcBase := maxZero(earnedIncome.Sub(ctc.EarnedIncomeFloor))
	actcEarned := ctc.RefundableRate.Mul(actcBase)
	actcPerChildCap := ctc.RefundableCapPerChild.Mul(decimal.NewFromInt(int64(children)))
	ctcRemaining := maxZero(ctcAfterPhase.Sub(nonrefCTCUsed))
	refundableCTC := decimal.Min(actcEarned, decimal.Min(actcPerChildCap, ctcRemaining))

	eitc := decimal.Zero
	eitcAvailable := fc.EITC != nil
	if eitcAvailable {
		investmentIncome := p.Interest.Add(p.Dividends)
		eitc = fc.EITC.Calculate(fc.Config.Year, p.Status, earnedIncome, agi, children, investmentIncome)
	} else {
		fc.logger().Debugf("no EITC provider attached; credit defaults to zero")
	}

	withheld := domain.TotalFederalWithheld(w2s)

	refundableCredits := refundableCTC.Add(eitc)
	refund := maxZero(withheld.Add(refundableCredits).Sub(taxAfterNonref))
	owed := maxZero(taxAfterNonref.Sub(withheld.Add(refundableCredits)))

	if fellBack {
		fc.logger().Warnf("filing status %q missing from %d federal config; used single-filer values", p.Status.Key(), fc.Config.Year)
	}

	return domain.Result{
		"1z":  wages,
		"2b":  p.Interest,
		"3a":  p.Dividends,
		"5b":  taxableSSA,
		"7":   p.Unemployment,
		"8":   seNet,
		"11":  agi,
		"12":  stdDed,
		"15":  taxableIncome,
		"16":  taxBeforeCredits,
		"19":  nonrefCTCUsed,
		"25d": withheld,
		"27":  refundableCredits,
		"34":  refund,
		"37":  owed,

		diagEITCUsed:       eitc,
		diagRefundableCTC:  refundableCTC,
		diagCTCAfterPhase:  ctcAfterPhase,
		diagStatusFallback: boolFlag(fellBack),
		diagEITCAvailable:  boolFlag(eitcAvailable),
	}
}

// taxableSocialSecurity applies the simplified provisional-income method.
// Married-separate filers who lived with their spouse short-circuit to an
// 85%-of-benefit ceiling bounded by provisional income.
func (fc *FederalCalculator) taxableSocialSecurity(agiExclSSA, benefits decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, bool) {
	if !benefits.IsPositive() {
		return decimal.Zero, false
	}

	half := decimal.NewFromFloat(0.5)
	pct85 := decimal.NewFromFloat(0.85)
	provisional := agiExclSSA.Add(half.Mul(benefits))

	if status == domain.FilingMarriedSeparate {
		return decimal.Min(pct85.Mul(benefits), provisional), false
	}

	th, fellBack := statusThresholds(fc.Config.Federal.SSAThresholds, status)
	switch {
	case provisional.LessThanOrEqual(th.Base):
		return decimal.Zero, fellBack
	case provisional.LessThanOrEqual(th.Additional):
		return decimal.Min(half.Mul(benefits), half.Mul(provisional.Sub(th.Base))), fellBack
	default:
		part1 := pct85.Mul(provisional.Sub(th.Additional))
		part2 := decimal.Min(half.Mul(benefits), half.Mul(th.Additional.Sub(th.Base)))
		return decimal.Min(pct85.Mul(benefits), part1.Add(part2)), fellBack
	}
}

func (fc *FederalCalculator) logger() Logger {
	if fc.Log == nil {
		return NopLogger{}
	}
	return fc.Log
}

// statusAmount resolves a per-status amount, falling back to the single-filer
// row when the status has no entry. The second return reports the fallback.
func statusAmount(m map[string]decimal.Decimal, status domain.FilingStatus) (decimal.Decimal, bool) {
	if v, ok := m[status.Key()]; ok {
		return v, false
	}
	return m[domain.FilingSingle.Key()], true
}

// statusBrackets resolves a per-status bracket table with the same fallback.
func statusBrackets(m map[string]domain.BracketTable, status domain.FilingStatus) (domain.BracketTable, bool) {
	if bt, ok := m[status.Key()]; ok {
		return bt, false
	}
	return m[domain.FilingSingle.Key()], true
}

// statusThresholds resolves per-status SSA thresholds with the same fallback.
func statusThresholds(m map[string]domain.SSAThresholds, status domain.FilingStatus) (domain.SSAThresholds, bool) {
	if th, ok := m[status.Key()]; ok {
		return th, false
	}
	return m[domain.FilingSingle.Key()], true
}

// boolFlag encodes a degraded-path marker as a numeric diagnostic line.
func boolFlag(b bool) decimal.Decimal {
	if b {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}
