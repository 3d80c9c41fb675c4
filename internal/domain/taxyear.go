package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bracket is a single marginal-rate tier. UpTo is the cumulative upper bound
// of taxable income covered by this tier; the final tier of a table uses an
// effectively unbounded cap.
type Bracket struct {
	UpTo decimal.Decimal `yaml:"up_to" json:"up_to"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// BracketTable is an ordered progressive rate schedule. Tiers must be
// strictly increasing in upper bound and rates apply only to the portion of
// income inside each tier.
type BracketTable []Bracket

// Validate checks the structural invariants of the table.
func (bt BracketTable) Validate() error {
	if len(bt) == 0 {
		return fmt.Errorf("bracket table is empty")
	}
	prev := decimal.Zero
	for i, b := range bt {
		if b.UpTo.LessThanOrEqual(prev) {
			return fmt.Errorf("bracket %d: upper bound %s does not increase past %s", i, b.UpTo, prev)
		}
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate %s outside [0, 1]", i, b.Rate)
		}
		prev = b.UpTo
	}
	return nil
}

// SSAThresholds is the provisional-income threshold pair that controls how
// much of a Social Security benefit is federally taxable.
type SSAThresholds struct {
	Base       decimal.Decimal `yaml:"base" json:"base"`
	Additional decimal.Decimal `yaml:"additional" json:"additional"`
}

// ChildTaxCreditConfig holds the CTC and refundable ACTC parameters.
type ChildTaxCreditConfig struct {
	PerChild              decimal.Decimal            `yaml:"per_child" json:"per_child"`
	PhaseOutThreshold     map[string]decimal.Decimal `yaml:"phase_out_threshold" json:"phase_out_threshold"`
	PhaseOutStep          decimal.Decimal            `yaml:"phase_out_step" json:"phase_out_step"` // per $1,000 of AGI over the threshold
	RefundableCapPerChild decimal.Decimal            `yaml:"refundable_cap_per_child" json:"refundable_cap_per_child"`
	EarnedIncomeFloor     decimal.Decimal            `yaml:"earned_income_floor" json:"earned_income_floor"`
	RefundableRate        decimal.Decimal            `yaml:"refundable_rate" json:"refundable_rate"`
}

// FederalConfig is the federal half of a tax-year configuration. Per-status
// tables are keyed by FilingStatus.Key(); a missing entry falls back to the
// "single" row and the calculators record that fallback as a diagnostic.
type FederalConfig struct {
	StandardDeduction      map[string]decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	Brackets               map[string]BracketTable    `yaml:"brackets" json:"brackets"`
	StudentLoanInterestCap decimal.Decimal            `yaml:"student_loan_interest_cap" json:"student_loan_interest_cap"`
	ChildTaxCredit         ChildTaxCreditConfig       `yaml:"child_tax_credit" json:"child_tax_credit"`
	SSAThresholds          map[string]SSAThresholds   `yaml:"ssa_thresholds" json:"ssa_thresholds"`
}

// PensionExclusionConfig is NJ's simplified retirement-income exclusion.
type PensionExclusionConfig struct {
	MinAge        int                        `yaml:"min_age" json:"min_age"`
	IncomeCeiling decimal.Decimal            `yaml:"income_ceiling" json:"income_ceiling"`
	MaxByStatus   map[string]decimal.Decimal `yaml:"max_by_status" json:"max_by_status"`
}

// StateConfig is the NJ half of a tax-year configuration.
type StateConfig struct {
	Brackets           BracketTable           `yaml:"brackets" json:"brackets"`
	PersonalExemption  decimal.Decimal        `yaml:"personal_exemption" json:"personal_exemption"`
	DependentExemption decimal.Decimal        `yaml:"dependent_exemption" json:"dependent_exemption"`
	SeniorExemption    decimal.Decimal        `yaml:"senior_exemption" json:"senior_exemption"`
	BlindExemption     decimal.Decimal        `yaml:"blind_exemption" json:"blind_exemption"`
	VeteranExemption   decimal.Decimal        `yaml:"veteran_exemption" json:"veteran_exemption"`
	PensionExclusion   PensionExclusionConfig `yaml:"pension_exclusion" json:"pension_exclusion"`

	// Property tax / rent treatment.
	RentEquivalenceFactor    decimal.Decimal `yaml:"rent_equivalence_factor" json:"rent_equivalence_factor"`
	PropertyDeductionCap     decimal.Decimal `yaml:"property_deduction_cap" json:"property_deduction_cap"`
	PropertyCredit           decimal.Decimal `yaml:"property_credit" json:"property_credit"`
	PropertyCreditRefundable bool            `yaml:"property_credit_refundable" json:"property_credit_refundable"`

	// State EITC as a fraction of the federal EITC.
	EITCRate decimal.Decimal `yaml:"eitc_rate" json:"eitc_rate"`
}

// TaxYearConfig carries every bracket, threshold, and credit parameter for
// one tax year. The calculators are parametric over it: yearly updates are
// data changes, never code changes.
type TaxYearConfig struct {
	Year    int           `yaml:"year" json:"year"`
	Federal FederalConfig `yaml:"federal" json:"federal"`
	State   StateConfig   `yaml:"state" json:"state"`
}

// StatusKeys lists the canonical per-status table keys, in a stable order.
func StatusKeys() []string {
	return []string{
		FilingSingle.Key(),
		FilingMarriedJoint.Key(),
		FilingMarriedSeparate.Key(),
		FilingHeadOfHousehold.Key(),
		FilingQualifyingWidow.Key(),
	}
}
