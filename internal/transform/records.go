package transform

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/taxfile/taxfile/internal/domain"
)

// Record is one row of an intake file: header name -> raw cell text.
type Record map[string]string

// get returns the first non-empty value among aliased column names. Intake
// files from different sources label the same field differently (box-number
// suffixes, older exports), so every lookup carries its aliases.
func (r Record) get(keys ...string) string {
	for _, k := range keys {
		if v, ok := r[k]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// TaxpayerFromRecord decodes an intake row into a TaxpayerProfile. Monetary
// fields normalize to zero on malformed input; categorical fields must
// normalize cleanly: an unknown filing or housing status is an error here
// at the boundary so it can never reach the calculators.
func TaxpayerFromRecord(rec Record) (domain.TaxpayerProfile, error) {
	var p domain.TaxpayerProfile

	statusText := rec.get("filing_status")
	if statusText == "" {
		statusText = "single"
	}
	status, err := domain.ParseFilingStatus(statusText)
	if err != nil {
		return p, fmt.Errorf("taxpayer record: %w", err)
	}

	housing, err := domain.ParseHousingStatus(rec.get("housing_status", "housing_type"))
	if err != nil {
		return p, fmt.Errorf("taxpayer record: %w", err)
	}

	birthDate, _ := ParseDate(rec.get("dob", "birth_date"))

	p = domain.TaxpayerProfile{
		FirstName: strings.TrimSpace(rec.get("first_name")),
		LastName:  strings.TrimSpace(rec.get("last_name")),
		BirthDate: birthDate,
		Status:    status,

		Interest:               ParseNonNegativeAmount(rec.get("interest")),
		Dividends:              ParseNonNegativeAmount(rec.get("dividends", "ordinary_dividends")),
		Unemployment:           ParseNonNegativeAmount(rec.get("unemployment")),
		SelfEmploymentIncome:   ParseNonNegativeAmount(rec.get("nec_income", "self_employment_income")),
		SelfEmploymentExpenses: ParseNonNegativeAmount(rec.get("nec_expenses", "self_employment_expenses")),
		SocialSecurityBenefits: ParseNonNegativeAmount(rec.get("ssa_benefits", "social_security")),
		PensionDistributions:   ParseNonNegativeAmount(rec.get("pension_distributions")),

		StudentLoanInterest: ParseNonNegativeAmount(rec.get("student_loan_interest")),
		IRAContribution:     ParseNonNegativeAmount(rec.get("ira_contrib", "ira_contribution")),
		HSAContribution:     ParseNonNegativeAmount(rec.get("hsa_contrib", "hsa_contribution")),

		Housing:         housing,
		PropertyTaxPaid: ParseNonNegativeAmount(rec.get("property_tax_paid")),
		RentPaid:        ParseNonNegativeAmount(rec.get("rent_paid")),

		Blind:   parseBool(rec.get("blind", "tp_blind")),
		Veteran: parseBool(rec.get("veteran")),
	}
	return p, nil
}

// DependentFromRecord decodes a dependent row.
func DependentFromRecord(rec Record) domain.Dependent {
	birthDate, _ := ParseDate(rec.get("dob", "birth_date"))
	months := 12
	if v := rec.get("months_with_taxpayer"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			months = n
		}
	}
	return domain.Dependent{
		FirstName:          strings.TrimSpace(rec.get("first_name")),
		LastName:           strings.TrimSpace(rec.get("last_name")),
		BirthDate:          birthDate,
		Relationship:       strings.TrimSpace(rec.get("relationship")),
		MonthsWithTaxpayer: months,
	}
}

// WageStatementFromRecord decodes a W-2 row. Column aliases cover both plain
// names and the box-numbered headers the interview writer produces. A blank
// box 16 defaults to box 1; an explicit zero stays zero.
func WageStatementFromRecord(rec Record) domain.WageStatement {
	wages := ParseNonNegativeAmount(rec.get("wages", "wages_box1"))
	stateWages := wages
	if raw := rec.get("state_wages", "nj_wages", "nj_wages_box16"); raw != "" {
		stateWages = ParseNonNegativeAmount(raw)
	}
	return domain.WageStatement{
		Employer:        strings.TrimSpace(rec.get("employer")),
		Wages:           wages,
		FederalWithheld: ParseNonNegativeAmount(rec.get("federal_withheld", "fed_withheld_box2")),
		SocialSecWages:  ParseNonNegativeAmount(rec.get("ss_wages", "ss_wages_box3")),
		SocialSecTax:    ParseNonNegativeAmount(rec.get("ss_tax", "ss_tax_box4")),
		MedicareWages:   ParseNonNegativeAmount(rec.get("medicare_wages", "medicare_wages_box5")),
		MedicareTax:     ParseNonNegativeAmount(rec.get("medicare_tax", "medicare_tax_box6")),
		StateWages:      stateWages,
		StateWithheld:   ParseNonNegativeAmount(rec.get("state_withheld", "nj_withheld", "nj_withheld_box17")),
	}
}

// ReadRecords reads a headered CSV file into records. Short rows are padded
// against the header; extra cells are dropped.
func ReadRecords(filename string) ([]Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s has no header row", filename)
	}

	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			name = strings.ToLower(strings.TrimSpace(name))
			if i < len(row) {
				rec[name] = row[i]
			} else {
				rec[name] = ""
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}
