package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

// NJ form line keys produced by StateCalculator.Compute.
//
//	"1z" NJ wages        "15" taxable income
//	"2b" interest        "16" NJ tax after property-tax treatment
//	"3a" dividends       "55" NJ withholding
//	"7"  unemployment    "80" refund (including state EITC)
//	"8"  SE net income   "67" amount owed
//	"11" NJ gross income "12" total income reductions (exemptions,
//	                          pension exclusion, property deduction used)
const (
	diagPTEquiv          = "_pt_equiv"
	diagPTDeductionUsed  = "_pt_ded_used"
	diagPTCreditUsed     = "_pt_credit_used"
	diagPensionExclusion = "_pension_exclusion"
	diagStateEITC        = "_nj_eitc"
)

// StateCalculator computes a simplified NJ-1040. Social Security benefits
// are excluded from NJ income regardless of their federal treatment. Like
// the federal calculator it is pure and never fails.
type StateCalculator struct {
	Config domain.TaxYearConfig
	EITC   EITCCalculator // same collaborator the federal side uses
	Log    Logger
}

// NewStateCalculator creates an NJ calculator for one tax year's
// configuration. No EITC provider is attached by default.
func NewStateCalculator(cfg domain.TaxYearConfig) *StateCalculator {
	return &StateCalculator{Config: cfg, Log: NopLogger{}}
}

// Compute runs the full NJ computation, including the two-path property-tax
// optimization and the refundable state EITC.
func (sc *StateCalculator) Compute(p domain.TaxpayerProfile, w2s []domain.WageStatement) domain.Result {
	st := sc.Config.State
	fellBack := false

	// NJ gross income; SSA excluded by statute.
	njWages := domain.TotalStateWages(w2s)
	seNet := p.SelfEmploymentNet()
	grossIncome := njWages.Add(p.Interest).Add(p.Dividends).Add(p.Unemployment).
		Add(seNet).Add(p.PensionDistributions)

	exemptions := sc.exemptions(p)

	// Simplified pension exclusion: age and pre-exclusion income gates.
	pensionExclusion := decimal.Zero
	age := p.AgeAtYearEnd(sc.Config.Year)
	if age >= st.PensionExclusion.MinAge && grossIncome.LessThanOrEqual(st.PensionExclusion.IncomeCeiling) {
		maxExclusion, fb := statusAmount(st.PensionExclusion.MaxByStatus, p.Status)
		fellBack = fellBack || fb
		pensionExclusion = decimal.Min(maxExclusion, p.PensionDistributions)
	}

	ptEquiv := sc.propertyTaxEquivalent(p)

	// Path A: deduct the property-tax equivalent, no credit.
	taxableA := maxZero(grossIncome.Sub(exemptions).Sub(pensionExclusion).Sub(ptEquiv))
	netTaxA := EvaluateBracketTax(taxableA, st.Brackets)

	// Path B: no deduction; flat property-tax credit, capped at the computed
	// tax unless configured refundable.
	taxableB := maxZero(grossIncome.Sub(exemptions).Sub(pensionExclusion))
	taxB := EvaluateBracketTax(taxableB, st.Brackets)
	ptCredit := st.PropertyCredit
	if !st.PropertyCreditRefundable {
		ptCredit = decimal.Min(ptCredit, taxB)
	}
	netTaxB := maxZero(taxB.Sub(ptCredit))

	// Ties go to the deduction path; the <= comparison is load-bearing for
	// reproducibility.
	var taxable, njTax, ptDeductionUsed, ptCreditUsed decimal.Decimal
	if netTaxA.LessThanOrEqual(netTaxB) {
		taxable, njTax = taxableA, netTaxA
		ptDeductionUsed = ptEquiv
	} else {
		taxable, njTax = taxableB, netTaxB
		ptCreditUsed = ptCredit
	}

	// State EITC rides on the federal EITC, recomputed with NJ earned-income
	// and AGI proxies. Refundable: it adds to the refund and never to the
	// amount owed.
	stateEITC := decimal.Zero
	eitcAvailable := sc.EITC != nil
	if eitcAvailable {
		earned := njWages.Add(seNet)
		investmentIncome := p.Interest.Add(p.Dividends)
		fedEITC := sc.EITC.Calculate(sc.Config.Year, p.Status, earned, grossIncome, len(p.Dependents), investmentIncome)
		stateEITC = st.EITCRate.Mul(fedEITC)
	} else {
		sc.logger().Debugf("no EITC provider attached; NJ EITC defaults to zero")
	}

	// The refundable EITC joins withholding in the netting: it can turn an
	// amount owed into a refund but never increases the owed side, and
	// refund and owed can never both be positive.
	withheld := domain.TotalStateWithheld(w2s)
	refund := maxZero(withheld.Add(stateEITC).Sub(njTax))
	owed := maxZero(njTax.Sub(withheld).Sub(stateEITC))

	if fellBack {
		sc.logger().Warnf("filing status %q missing from %d state config; used single-filer values", p.Status.Key(), sc.Config.Year)
	}

	return domain.Result{
		"1z": njWages,
		"2b": p.Interest,
		"3a": p.Dividends,
		"7":  p.Unemployment,
		"8":  seNet,
		"11": grossIncome,
		"12": exemptions.Add(pensionExclusion).Add(ptDeductionUsed),
		"15": taxable,
		"16": njTax,
		"55": withheld,
		"80": refund,
		"67": owed,

		diagPTEquiv:          ptEquiv,
		diagPTDeductionUsed:  ptDeductionUsed,
		diagPTCreditUsed:     ptCreditUsed,
		diagPensionExclusion: pensionExclusion,
		diagStateEITC:        stateEITC,
		diagStatusFallback:   boolFlag(fellBack),
		diagEITCAvailable:    boolFlag(eitcAvailable),
	}
}

// exemptions totals the personal, dependent, and add-on exemptions. Joint
// statuses double the personal exemption and each add-on.
func (sc *StateCalculator) exemptions(p domain.TaxpayerProfile) decimal.Decimal {
	st := sc.Config.State
	multiplier := decimal.NewFromInt(1)
	if p.Status.IsJoint() {
		multiplier = decimal.NewFromInt(2)
	}

	total := st.PersonalExemption.Mul(multiplier)
	total = total.Add(st.DependentExemption.Mul(decimal.NewFromInt(int64(len(p.Dependents)))))

	if p.AgeAtYearEnd(sc.Config.Year) >= 65 {
		total = total.Add(st.SeniorExemption.Mul(multiplier))
	}
	if p.Blind {
		total = total.Add(st.BlindExemption.Mul(multiplier))
	}
	if p.Veteran {
		total = total.Add(st.VeteranExemption.Mul(multiplier))
	}
	return total
}

// propertyTaxEquivalent converts housing costs into the deductible
// property-tax figure: homeowners use actual tax paid, tenants a configured
// fraction of rent, and "both" combines them. The result is capped.
func (sc *StateCalculator) propertyTaxEquivalent(p domain.TaxpayerProfile) decimal.Decimal {
	st := sc.Config.State

	equiv := decimal.Zero
	switch p.Housing {
	case domain.HousingHomeowner:
		equiv = p.PropertyTaxPaid
	case domain.HousingTenant:
		equiv = st.RentEquivalenceFactor.Mul(p.RentPaid)
	case domain.HousingBoth:
		equiv = p.PropertyTaxPaid.Add(st.RentEquivalenceFactor.Mul(p.RentPaid))
	}

	return decimal.Min(st.PropertyDeductionCap, maxZero(equiv))
}

func (sc *StateCalculator) logger() Logger {
	if sc.Log == nil {
		return NopLogger{}
	}
	return sc.Log
}
