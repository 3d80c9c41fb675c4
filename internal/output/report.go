package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/taxfile/taxfile/internal/domain"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	refundStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	owedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// Report bundles both computed returns with the inputs that produced them.
type Report struct {
	TaxYear  int                    `json:"tax_year"`
	Taxpayer domain.TaxpayerProfile `json:"taxpayer"`
	W2s      []domain.WageStatement `json:"w2s"`
	Federal  domain.Result          `json:"federal"`
	State    domain.Result          `json:"state"`
}

// ReportGenerator writes a computed Report in the supported formats.
type ReportGenerator struct{}

// NewReportGenerator creates a new report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// Generate writes the report in the requested format.
func (rg *ReportGenerator) Generate(w io.Writer, rep *Report, format string) error {
	switch format {
	case "console":
		return rg.writeConsole(w, rep)
	case "json":
		return rg.writeJSON(w, rep)
	case "csv":
		return rg.writeCSV(w, rep)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) writeConsole(w io.Writer, rep *Report) error {
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("=== Federal Summary (%d) ===", rep.TaxYear)))
	rg.writeSummary(w, rep.Federal, "25d", "34", "37")
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render(fmt.Sprintf("=== New Jersey Summary (%d) ===", rep.TaxYear)))
	rg.writeSummary(w, rep.State, "55", "80", "67")
	return nil
}

func (rg *ReportGenerator) writeSummary(w io.Writer, res domain.Result, withheldKey, refundKey, owedKey string) {
	fmt.Fprintf(w, "Wages:          %s\n", FormatCurrency(res.Get("1z")))
	fmt.Fprintf(w, "Gross income:   %s\n", FormatCurrency(res.Get("11")))
	fmt.Fprintf(w, "Taxable income: %s\n", FormatCurrency(res.Get("15")))
	fmt.Fprintf(w, "Tax:            %s\n", FormatCurrency(res.Get("16")))
	fmt.Fprintf(w, "Withheld:       %s\n", FormatCurrency(res.Get(withheldKey)))

	refund := res.Get(refundKey)
	owed := res.Get(owedKey)
	if owed.IsPositive() {
		fmt.Fprintf(w, "Amount owed:    %s\n", owedStyle.Render(FormatCurrency(owed)))
	} else {
		fmt.Fprintf(w, "Refund:         %s\n", refundStyle.Render(FormatCurrency(refund)))
	}
}

func (rg *ReportGenerator) writeJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// writeCSV emits one row per form line, both returns tagged by jurisdiction,
// diagnostics included and filterable by the underscore prefix.
func (rg *ReportGenerator) writeCSV(w io.Writer, rep *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"jurisdiction", "line", "amount"}); err != nil {
		return err
	}
	for _, part := range []struct {
		name  string
		lines domain.Result
	}{{"federal", rep.Federal}, {"nj", rep.State}} {
		for _, key := range part.lines.SortedKeys() {
			row := []string{part.name, key, part.lines[key].StringFixed(2)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// RenderLines returns a plain line-by-line dump of a result, used by the
// interview wizard's results view.
func RenderLines(res domain.Result) string {
	buf := &bytes.Buffer{}
	for _, key := range res.Lines().SortedKeys() {
		fmt.Fprintf(buf, "  %-4s %s\n", key, FormatCurrency(res[key]))
	}
	return buf.String()
}

// FormatCurrency formats a decimal as currency.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
