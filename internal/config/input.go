package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/taxfile/taxfile/internal/domain"
)

var decimalOne = decimal.NewFromInt(1)

// InputParser loads and validates tax-year configuration files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadTaxYearConfig loads a tax-year configuration from a YAML file and
// validates it before handing it to the calculators.
func (ip *InputParser) LoadTaxYearConfig(filename string) (*domain.TaxYearConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg domain.TaxYearConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateTaxYearConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// ValidateTaxYearConfig checks a configuration's structural invariants: the
// single-filer rows exist (they are the documented fallback), every bracket
// table is well formed, and rates and caps are in range.
func (ip *InputParser) ValidateTaxYearConfig(cfg *domain.TaxYearConfig) error {
	if cfg.Year < 2000 || cfg.Year > 2100 {
		return fmt.Errorf("tax year %d out of range", cfg.Year)
	}

	if err := ip.validateFederal(&cfg.Federal); err != nil {
		return fmt.Errorf("federal config: %w", err)
	}
	if err := ip.validateState(&cfg.State); err != nil {
		return fmt.Errorf("state config: %w", err)
	}
	return nil
}

func (ip *InputParser) validateFederal(fed *domain.FederalConfig) error {
	single := domain.FilingSingle.Key()

	if _, ok := fed.StandardDeduction[single]; !ok {
		return fmt.Errorf("standard deduction missing the %q fallback row", single)
	}
	for status, amount := range fed.StandardDeduction {
		if amount.IsNegative() {
			return fmt.Errorf("standard deduction for %q is negative", status)
		}
	}

	if _, ok := fed.Brackets[single]; !ok {
		return fmt.Errorf("brackets missing the %q fallback table", single)
	}
	for status, table := range fed.Brackets {
		if err := table.Validate(); err != nil {
			return fmt.Errorf("brackets for %q: %w", status, err)
		}
	}

	if fed.StudentLoanInterestCap.IsNegative() {
		return fmt.Errorf("student loan interest cap is negative")
	}

	ctc := fed.ChildTaxCredit
	if ctc.PerChild.IsNegative() || ctc.RefundableCapPerChild.IsNegative() {
		return fmt.Errorf("child tax credit amounts cannot be negative")
	}
	if ctc.RefundableRate.IsNegative() || ctc.RefundableRate.GreaterThan(decimalOne) {
		return fmt.Errorf("ACTC refundable rate must be between 0 and 1")
	}
	if _, ok := ctc.PhaseOutThreshold[single]; !ok {
		return fmt.Errorf("CTC phase-out threshold missing the %q fallback row", single)
	}

	if _, ok := fed.SSAThresholds[single]; !ok {
		return fmt.Errorf("SSA thresholds missing the %q fallback row", single)
	}
	for status, th := range fed.SSAThresholds {
		if th.Additional.LessThan(th.Base) {
			return fmt.Errorf("SSA thresholds for %q: additional %s below base %s", status, th.Additional, th.Base)
		}
	}

	return nil
}

func (ip *InputParser) validateState(st *domain.StateConfig) error {
	if err := st.Brackets.Validate(); err != nil {
		return fmt.Errorf("brackets: %w", err)
	}

	for name, amount := range map[string]decimal.Decimal{
		"personal exemption":     st.PersonalExemption,
		"dependent exemption":    st.DependentExemption,
		"senior exemption":       st.SeniorExemption,
		"blind exemption":        st.BlindExemption,
		"veteran exemption":      st.VeteranExemption,
		"property deduction cap": st.PropertyDeductionCap,
		"property credit":        st.PropertyCredit,
	} {
		if amount.IsNegative() {
			return fmt.Errorf("%s is negative", name)
		}
	}

	if st.RentEquivalenceFactor.IsNegative() || st.RentEquivalenceFactor.GreaterThan(decimalOne) {
		return fmt.Errorf("rent equivalence factor must be between 0 and 1")
	}
	if st.EITCRate.IsNegative() || st.EITCRate.GreaterThan(decimalOne) {
		return fmt.Errorf("state EITC rate must be between 0 and 1")
	}
	if st.PensionExclusion.MinAge < 0 {
		return fmt.Errorf("pension exclusion minimum age is negative")
	}
	if _, ok := st.PensionExclusion.MaxByStatus[domain.FilingSingle.Key()]; !ok {
		return fmt.Errorf("pension exclusion max missing the %q fallback row", domain.FilingSingle.Key())
	}

	return nil
}
