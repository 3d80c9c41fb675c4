package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FilingStatus identifies the federal filing status of a return. Free-form
// input must be normalized through ParseFilingStatus before it reaches the
// calculators; the engine never sees an unknown status.
type FilingStatus int

const (
	FilingSingle FilingStatus = iota
	FilingMarriedJoint
	FilingMarriedSeparate
	FilingHeadOfHousehold
	FilingQualifyingWidow
)

// Key returns the canonical configuration key for the status. Per-status
// tables in TaxYearConfig are keyed by these strings.
func (fs FilingStatus) Key() string {
	switch fs {
	case FilingMarriedJoint:
		return "married_joint"
	case FilingMarriedSeparate:
		return "married_separate"
	case FilingHeadOfHousehold:
		return "head_household"
	case FilingQualifyingWidow:
		return "qual_widow"
	default:
		return "single"
	}
}

func (fs FilingStatus) String() string {
	switch fs {
	case FilingMarriedJoint:
		return "Married Filing Jointly"
	case FilingMarriedSeparate:
		return "Married Filing Separately"
	case FilingHeadOfHousehold:
		return "Head of Household"
	case FilingQualifyingWidow:
		return "Qualifying Widow(er)"
	default:
		return "Single"
	}
}

// IsJoint reports whether the status receives doubled personal exemptions on
// the NJ return (married joint and qualifying widow(er)).
func (fs FilingStatus) IsJoint() bool {
	return fs == FilingMarriedJoint || fs == FilingQualifyingWidow
}

// ParseFilingStatus normalizes free-form filing status text. It accepts the
// canonical keys plus the common abbreviations and long forms used on intake
// records. Unknown values are an error; callers decide whether to fall back.
func ParseFilingStatus(s string) (FilingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "s":
		return FilingSingle, nil
	case "married_joint", "mfj", "married filing jointly", "married_filing_jointly":
		return FilingMarriedJoint, nil
	case "married_separate", "mfs", "married filing separately", "married_filing_separately":
		return FilingMarriedSeparate, nil
	case "head_household", "hoh", "head of household", "head_of_household":
		return FilingHeadOfHousehold, nil
	case "qual_widow", "qw", "qualifying widow", "qualifying widower", "qualifying_widow(er)":
		return FilingQualifyingWidow, nil
	}
	return FilingSingle, fmt.Errorf("unknown filing status: %q", s)
}

// HousingStatus identifies how a taxpayer pays for NJ housing, which drives
// the property-tax deduction/credit treatment.
type HousingStatus int

const (
	HousingNone HousingStatus = iota
	HousingHomeowner
	HousingTenant
	HousingBoth
)

func (hs HousingStatus) String() string {
	switch hs {
	case HousingHomeowner:
		return "homeowner"
	case HousingTenant:
		return "tenant"
	case HousingBoth:
		return "both"
	default:
		return "none"
	}
}

// ParseHousingStatus normalizes free-form housing status text.
func ParseHousingStatus(s string) (HousingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return HousingNone, nil
	case "homeowner", "owner":
		return HousingHomeowner, nil
	case "tenant", "renter":
		return HousingTenant, nil
	case "both":
		return HousingBoth, nil
	}
	return HousingNone, fmt.Errorf("unknown housing status: %q", s)
}

// Dependent is a single dependent claimed on the return.
type Dependent struct {
	FirstName          string    `yaml:"first_name" json:"first_name"`
	LastName           string    `yaml:"last_name" json:"last_name"`
	BirthDate          time.Time `yaml:"birth_date" json:"birth_date"`
	Relationship       string    `yaml:"relationship" json:"relationship"`
	MonthsWithTaxpayer int       `yaml:"months_with_taxpayer" json:"months_with_taxpayer"`
}

// childRelationships are the relationship labels that count toward the Child
// Tax Credit. Anything else (parent, sibling, other) is a dependent but not a
// qualifying child.
var childRelationships = map[string]bool{
	"child":        true,
	"son":          true,
	"daughter":     true,
	"stepchild":    true,
	"fosterchild":  true,
	"foster child": true,
}

// IsQualifyingChild reports whether the dependent is a qualifying child for
// the given tax year: a child relationship and under 17 on December 31.
// A 17th birthday falling exactly on December 31 still counts as 16, so the
// dependent qualifies.
func (d Dependent) IsQualifyingChild(taxYear int) bool {
	if !childRelationships[strings.ToLower(strings.TrimSpace(d.Relationship))] {
		return false
	}
	return AgeOn(d.BirthDate, taxYear) < 17
}

// AgeOn computes a person's age on December 31 of the tax year. A birthday
// on the cutoff date itself does not yet count the later age. An unset birth
// date is treated as unknown and returns 99, which keeps a dependent out of
// child credits rather than silently granting them.
func AgeOn(birthDate time.Time, taxYear int) int {
	if birthDate.IsZero() {
		return 99
	}
	cutoff := time.Date(taxYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	age := cutoff.Year() - birthDate.Year()
	if cutoff.Month() < birthDate.Month() ||
		(cutoff.Month() == birthDate.Month() && cutoff.Day() <= birthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// TaxpayerProfile is the normalized intake record for one return. All
// monetary fields have already been coerced to decimals (unparseable input
// normalizes to zero upstream) and all categorical fields are validated
// enums. The profile is immutable for the duration of a computation.
type TaxpayerProfile struct {
	FirstName string    `yaml:"first_name" json:"first_name"`
	LastName  string    `yaml:"last_name" json:"last_name"`
	BirthDate time.Time `yaml:"birth_date" json:"birth_date"`

	Status     FilingStatus `yaml:"-" json:"-"`
	Dependents []Dependent  `yaml:"dependents" json:"dependents"`

	// Non-wage income.
	Interest               decimal.Decimal `yaml:"interest" json:"interest"`
	Dividends              decimal.Decimal `yaml:"dividends" json:"dividends"`
	Unemployment           decimal.Decimal `yaml:"unemployment" json:"unemployment"`
	SelfEmploymentIncome   decimal.Decimal `yaml:"self_employment_income" json:"self_employment_income"`
	SelfEmploymentExpenses decimal.Decimal `yaml:"self_employment_expenses" json:"self_employment_expenses"`
	SocialSecurityBenefits decimal.Decimal `yaml:"social_security_benefits" json:"social_security_benefits"`
	PensionDistributions   decimal.Decimal `yaml:"pension_distributions" json:"pension_distributions"`

	// Above-the-line adjustments.
	StudentLoanInterest decimal.Decimal `yaml:"student_loan_interest" json:"student_loan_interest"`
	IRAContribution     decimal.Decimal `yaml:"ira_contribution" json:"ira_contribution"`
	HSAContribution     decimal.Decimal `yaml:"hsa_contribution" json:"hsa_contribution"`

	// NJ housing.
	Housing         HousingStatus   `yaml:"-" json:"-"`
	PropertyTaxPaid decimal.Decimal `yaml:"property_tax_paid" json:"property_tax_paid"`
	RentPaid        decimal.Decimal `yaml:"rent_paid" json:"rent_paid"`

	// NJ exemption add-on flags. Age 65+ is derived from the birth date.
	Blind   bool `yaml:"blind" json:"blind"`
	Veteran bool `yaml:"veteran" json:"veteran"`
}

// AgeAtYearEnd returns the taxpayer's age on December 31 of the tax year.
func (p TaxpayerProfile) AgeAtYearEnd(taxYear int) int {
	return AgeOn(p.BirthDate, taxYear)
}

// SelfEmploymentNet returns net self-employment income floored at zero;
// losses do not offset other income in this simplified model.
func (p TaxpayerProfile) SelfEmploymentNet() decimal.Decimal {
	net := p.SelfEmploymentIncome.Sub(p.SelfEmploymentExpenses)
	if net.IsNegative() {
		return decimal.Zero
	}
	return net
}

// QualifyingChildren counts dependents meeting the qualifying-child rule for
// the tax year.
func (p TaxpayerProfile) QualifyingChildren(taxYear int) int {
	n := 0
	for _, d := range p.Dependents {
		if d.IsQualifyingChild(taxYear) {
			n++
		}
	}
	return n
}

// WageStatement is one W-2. Box numbers follow the printed form; the Social
// Security and Medicare boxes are carried only for audit snapshots.
type WageStatement struct {
	Employer        string          `yaml:"employer" json:"employer"`
	Wages           decimal.Decimal `yaml:"wages" json:"wages"`                                 // box 1
	FederalWithheld decimal.Decimal `yaml:"federal_withheld" json:"federal_withheld"`           // box 2
	SocialSecWages  decimal.Decimal `yaml:"social_security_wages" json:"social_security_wages"` // box 3
	SocialSecTax    decimal.Decimal `yaml:"social_security_tax" json:"social_security_tax"`     // box 4
	MedicareWages   decimal.Decimal `yaml:"medicare_wages" json:"medicare_wages"`               // box 5
	MedicareTax     decimal.Decimal `yaml:"medicare_tax" json:"medicare_tax"`                   // box 6
	StateWages      decimal.Decimal `yaml:"state_wages" json:"state_wages"`                     // box 16
	StateWithheld   decimal.Decimal `yaml:"state_withheld" json:"state_withheld"`               // box 17
}

// TotalWages sums box-1 wages across wage statements.
func TotalWages(w2s []WageStatement) decimal.Decimal {
	total := decimal.Zero
	for _, w := range w2s {
		total = total.Add(w.Wages)
	}
	return total
}

// TotalFederalWithheld sums box-2 withholding across wage statements.
func TotalFederalWithheld(w2s []WageStatement) decimal.Decimal {
	total := decimal.Zero
	for _, w := range w2s {
		total = total.Add(w.FederalWithheld)
	}
	return total
}

// TotalStateWages sums box-16 wages. A blank box 16 defaults to box 1 at
// intake, where absence is still distinguishable from an explicit zero (an
// out-of-state W-2 legitimately reports zero NJ wages).
func TotalStateWages(w2s []WageStatement) decimal.Decimal {
	total := decimal.Zero
	for _, w := range w2s {
		total = total.Add(w.StateWages)
	}
	return total
}

// TotalStateWithheld sums box-17 withholding across wage statements.
func TotalStateWithheld(w2s []WageStatement) decimal.Decimal {
	total := decimal.Zero
	for _, w := range w2s {
		total = total.Add(w.StateWithheld)
	}
	return total
}
