package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/taxfile/taxfile/internal/domain"
)

// SessionWriter persists an audit snapshot of one computation: the intake
// data as CSVs plus the computed line maps as JSON, under a directory named
// after the taxpayer and a fresh session id. These files exist so a prepared
// return can be reviewed or re-fed to a form filler later.
type SessionWriter struct {
	BaseDir string
}

// NewSessionWriter creates a session writer rooted at baseDir.
func NewSessionWriter(baseDir string) *SessionWriter {
	return &SessionWriter{BaseDir: baseDir}
}

// Write persists the session and returns the directory it created.
func (sw *SessionWriter) Write(rep *Report) (string, error) {
	name := rep.Taxpayer.LastName + "_" + rep.Taxpayer.FirstName
	if name == "_" {
		name = "anonymous"
	}
	dir := filepath.Join(sw.BaseDir, fmt.Sprintf("%s_%s", name, uuid.NewString()[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create session dir: %w", err)
	}

	if err := sw.writeTaxpayerCSV(filepath.Join(dir, "taxpayer.csv"), rep.Taxpayer); err != nil {
		return "", err
	}
	if err := sw.writeDependentsCSV(filepath.Join(dir, "dependents.csv"), rep.Taxpayer.Dependents); err != nil {
		return "", err
	}
	if err := sw.writeW2CSV(filepath.Join(dir, "w2.csv"), rep.W2s); err != nil {
		return "", err
	}
	if err := writeJSONFile(filepath.Join(dir, "out_f1040.json"), rep.Federal); err != nil {
		return "", err
	}
	if err := writeJSONFile(filepath.Join(dir, "out_nj1040.json"), rep.State); err != nil {
		return "", err
	}
	return dir, nil
}

func (sw *SessionWriter) writeTaxpayerCSV(path string, p domain.TaxpayerProfile) error {
	header := []string{
		"first_name", "last_name", "dob", "filing_status", "housing_status",
		"interest", "dividends", "unemployment", "nec_income", "nec_expenses",
		"ssa_benefits", "pension_distributions", "student_loan_interest",
		"ira_contrib", "hsa_contrib", "property_tax_paid", "rent_paid",
	}
	dob := ""
	if !p.BirthDate.IsZero() {
		dob = p.BirthDate.Format("2006-01-02")
	}
	row := []string{
		p.FirstName, p.LastName, dob, p.Status.Key(), p.Housing.String(),
		p.Interest.StringFixed(2), p.Dividends.StringFixed(2),
		p.Unemployment.StringFixed(2), p.SelfEmploymentIncome.StringFixed(2),
		p.SelfEmploymentExpenses.StringFixed(2),
		p.SocialSecurityBenefits.StringFixed(2), p.PensionDistributions.StringFixed(2),
		p.StudentLoanInterest.StringFixed(2), p.IRAContribution.StringFixed(2),
		p.HSAContribution.StringFixed(2), p.PropertyTaxPaid.StringFixed(2),
		p.RentPaid.StringFixed(2),
	}
	return writeCSVFile(path, [][]string{header, row})
}

func (sw *SessionWriter) writeDependentsCSV(path string, deps []domain.Dependent) error {
	rows := [][]string{{"first_name", "last_name", "dob", "relationship", "months_with_taxpayer"}}
	for _, d := range deps {
		dob := ""
		if !d.BirthDate.IsZero() {
			dob = d.BirthDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			d.FirstName, d.LastName, dob, d.Relationship,
			fmt.Sprintf("%d", d.MonthsWithTaxpayer),
		})
	}
	return writeCSVFile(path, rows)
}

func (sw *SessionWriter) writeW2CSV(path string, w2s []domain.WageStatement) error {
	rows := [][]string{{
		"employer", "wages", "federal_withheld", "ss_wages", "ss_tax",
		"medicare_wages", "medicare_tax", "state_wages", "state_withheld",
	}}
	for _, w := range w2s {
		rows = append(rows, []string{
			w.Employer, w.Wages.StringFixed(2), w.FederalWithheld.StringFixed(2),
			w.SocialSecWages.StringFixed(2), w.SocialSecTax.StringFixed(2),
			w.MedicareWages.StringFixed(2), w.MedicareTax.StringFixed(2),
			w.StateWages.StringFixed(2), w.StateWithheld.StringFixed(2),
		})
	}
	return writeCSVFile(path, rows)
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
