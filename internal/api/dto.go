package api

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
	"github.com/taxfile/taxfile/internal/transform"
)

// TaxpayerDTO is the wire form of a taxpayer profile. Dates are ISO strings
// and the categorical fields are free-form text normalized at this boundary.
type TaxpayerDTO struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	BirthDate    string `json:"dob"`
	FilingStatus string `json:"filing_status"`

	Dependents []DependentDTO `json:"dependents,omitempty"`

	Interest               decimal.Decimal `json:"interest"`
	Dividends              decimal.Decimal `json:"dividends"`
	Unemployment           decimal.Decimal `json:"unemployment"`
	SelfEmploymentIncome   decimal.Decimal `json:"nec_income"`
	SelfEmploymentExpenses decimal.Decimal `json:"nec_expenses"`
	SocialSecurityBenefits decimal.Decimal `json:"ssa_benefits"`
	PensionDistributions   decimal.Decimal `json:"pension_distributions"`

	StudentLoanInterest decimal.Decimal `json:"student_loan_interest"`
	IRAContribution     decimal.Decimal `json:"ira_contrib"`
	HSAContribution     decimal.Decimal `json:"hsa_contrib"`

	HousingStatus   string          `json:"housing_status,omitempty"`
	PropertyTaxPaid decimal.Decimal `json:"property_tax_paid"`
	RentPaid        decimal.Decimal `json:"rent_paid"`

	Blind   bool `json:"blind,omitempty"`
	Veteran bool `json:"veteran,omitempty"`
}

// DependentDTO is the wire form of a dependent.
type DependentDTO struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	BirthDate          string `json:"dob"`
	Relationship       string `json:"relationship"`
	MonthsWithTaxpayer int    `json:"months_with_taxpayer,omitempty"`
}

// WageStatementDTO is the wire form of a W-2. StateWages is a pointer so an
// omitted box 16 (defaults to box 1) is distinguishable from an explicit
// zero (an out-of-state W-2).
type WageStatementDTO struct {
	Employer        string           `json:"employer"`
	Wages           decimal.Decimal  `json:"wages"`
	FederalWithheld decimal.Decimal  `json:"federal_withheld"`
	StateWages      *decimal.Decimal `json:"state_wages,omitempty"`
	StateWithheld   decimal.Decimal  `json:"state_withheld"`
}

// ComputeRequest is the body of the compute endpoints.
type ComputeRequest struct {
	Taxpayer TaxpayerDTO        `json:"taxpayer"`
	W2s      []WageStatementDTO `json:"w2s"`
}

// ComputeResponse returns the requested line maps. Absent jurisdictions are
// omitted.
type ComputeResponse struct {
	TaxYear int           `json:"tax_year"`
	Federal domain.Result `json:"federal,omitempty"`
	State   domain.Result `json:"state,omitempty"`
}

// ToDomain normalizes the DTO into an engine-ready profile. Unknown filing
// or housing statuses fail here; they must never reach the calculators.
func (t TaxpayerDTO) ToDomain() (domain.TaxpayerProfile, error) {
	status, err := domain.ParseFilingStatus(t.FilingStatus)
	if err != nil {
		return domain.TaxpayerProfile{}, err
	}
	housing, err := domain.ParseHousingStatus(t.HousingStatus)
	if err != nil {
		return domain.TaxpayerProfile{}, err
	}

	birthDate, ok := transform.ParseDate(t.BirthDate)
	if t.BirthDate != "" && !ok {
		return domain.TaxpayerProfile{}, fmt.Errorf("unparseable dob: %q", t.BirthDate)
	}

	deps := make([]domain.Dependent, 0, len(t.Dependents))
	for _, d := range t.Dependents {
		dob, _ := transform.ParseDate(d.BirthDate)
		months := d.MonthsWithTaxpayer
		if months == 0 {
			months = 12
		}
		deps = append(deps, domain.Dependent{
			FirstName:          d.FirstName,
			LastName:           d.LastName,
			BirthDate:          dob,
			Relationship:       d.Relationship,
			MonthsWithTaxpayer: months,
		})
	}

	return domain.TaxpayerProfile{
		FirstName:              t.FirstName,
		LastName:               t.LastName,
		BirthDate:              birthDate,
		Status:                 status,
		Dependents:             deps,
		Interest:               t.Interest,
		Dividends:              t.Dividends,
		Unemployment:           t.Unemployment,
		SelfEmploymentIncome:   t.SelfEmploymentIncome,
		SelfEmploymentExpenses: t.SelfEmploymentExpenses,
		SocialSecurityBenefits: t.SocialSecurityBenefits,
		PensionDistributions:   t.PensionDistributions,
		StudentLoanInterest:    t.StudentLoanInterest,
		IRAContribution:        t.IRAContribution,
		HSAContribution:        t.HSAContribution,
		Housing:                housing,
		PropertyTaxPaid:        t.PropertyTaxPaid,
		RentPaid:               t.RentPaid,
		Blind:                  t.Blind,
		Veteran:                t.Veteran,
	}, nil
}

// ToDomain converts the W-2 DTO. A missing state_wages field defaults to
// box 1.
func (w WageStatementDTO) ToDomain() domain.WageStatement {
	stateWages := w.Wages
	if w.StateWages != nil {
		stateWages = *w.StateWages
	}
	return domain.WageStatement{
		Employer:        w.Employer,
		Wages:           w.Wages,
		FederalWithheld: w.FederalWithheld,
		StateWages:      stateWages,
		StateWithheld:   w.StateWithheld,
	}
}
