package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taxfile/taxfile/internal/calculation"
	"github.com/taxfile/taxfile/internal/domain"
	"github.com/taxfile/taxfile/internal/transform"
)

// phase tracks which block of the interview is being collected.
type phase int

const (
	phaseTaxpayer phase = iota
	phaseDependentCount
	phaseDependent
	phaseW2
	phaseMoreW2
	phaseResults
)

// prompt is one interview question. Answers are collected as raw text and
// decoded through the same record transform the CSV path uses, so the wizard
// and batch intake cannot drift apart.
type prompt struct {
	key         string
	label       string
	placeholder string
}

var taxpayerPrompts = []prompt{
	{"first_name", "First name", "Alex"},
	{"last_name", "Last name", "Example"},
	{"dob", "Date of birth", "1990-01-01"},
	{"filing_status", "Filing status (single/mfj/mfs/hoh/qw)", "single"},
	{"interest", "Bank interest (1099-INT)", "0"},
	{"dividends", "Ordinary dividends (1099-DIV)", "0"},
	{"unemployment", "Unemployment income", "0"},
	{"nec_income", "Self-employment income (1099-NEC)", "0"},
	{"nec_expenses", "Self-employment expenses", "0"},
	{"ssa_benefits", "Social Security benefits", "0"},
	{"pension_distributions", "Pension distributions (1099-R)", "0"},
	{"student_loan_interest", "Student loan interest paid", "0"},
	{"ira_contrib", "Traditional IRA contributions", "0"},
	{"hsa_contrib", "HSA contributions", "0"},
	{"housing_status", "NJ housing (none/homeowner/tenant/both)", "none"},
	{"property_tax_paid", "NJ property tax paid", "0"},
	{"rent_paid", "NJ rent paid", "0"},
}

var dependentPrompts = []prompt{
	{"first_name", "Dependent first name", "Child"},
	{"dob", "Dependent date of birth", "2016-01-01"},
	{"relationship", "Relationship (son/daughter/parent/...)", "son"},
}

var w2Prompts = []prompt{
	{"employer", "Employer", "Company A"},
	{"wages", "Wages (Box 1)", "20000"},
	{"federal_withheld", "Federal tax withheld (Box 2)", "1500"},
	{"nj_wages", "NJ wages (Box 16, blank = Box 1)", ""},
	{"nj_withheld", "NJ tax withheld (Box 17)", "500"},
}

// Model drives the terminal interview: taxpayer block, dependent blocks, one
// or more W-2 blocks, then the computed federal and NJ summaries.
type Model struct {
	cfg  domain.TaxYearConfig
	eitc calculation.EITCCalculator

	phase   phase
	prompts []prompt
	idx     int
	input   textinput.Model

	taxpayer      transform.Record
	dependents    []transform.Record
	currDependent transform.Record
	depRemaining  int
	w2s           []transform.Record
	currW2        transform.Record

	fed   domain.Result
	state domain.Result
	err   error // decode error surfaced on the results view
	width int
}

// NewModel creates the interview model for one tax year's configuration.
func NewModel(cfg domain.TaxYearConfig, eitc calculation.EITCCalculator) Model {
	ti := textinput.New()
	ti.Placeholder = taxpayerPrompts[0].placeholder
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return Model{
		cfg:      cfg,
		eitc:     eitc,
		phase:    phaseTaxpayer,
		prompts:  taxpayerPrompts,
		input:    ti,
		taxpayer: transform.Record{},
		currW2:   transform.Record{},
		width:    80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// answer records the current input (or the placeholder default when blank)
// and advances the interview state machine.
func (m Model) answer() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	p := m.prompts[m.idx]
	if text == "" {
		text = p.placeholder
	}

	switch m.phase {
	case phaseTaxpayer:
		m.taxpayer[p.key] = text
		if m.idx == len(m.prompts)-1 {
			m.phase = phaseDependentCount
			m.setPrompt(prompt{"_count", "How many dependents?", "0"})
			return m, nil
		}
	case phaseDependentCount:
		n, err := strconv.Atoi(text)
		if err != nil || n < 0 {
			n = 0
		}
		if n == 0 {
			return m.startW2(), nil
		}
		m.depRemaining = n
		m.phase = phaseDependent
		m.currDependent = transform.Record{}
		m.prompts = dependentPrompts
		m.idx = 0
		m.resetInput()
		return m, nil
	case phaseDependent:
		m.currDependent[p.key] = text
		if m.idx == len(m.prompts)-1 {
			m.dependents = append(m.dependents, m.currDependent)
			m.depRemaining--
			if m.depRemaining == 0 {
				return m.startW2(), nil
			}
			m.currDependent = transform.Record{}
			m.idx = 0
			m.resetInput()
			return m, nil
		}
	case phaseW2:
		m.currW2[p.key] = text
		if m.idx == len(m.prompts)-1 {
			m.w2s = append(m.w2s, m.currW2)
			m.phase = phaseMoreW2
			m.setPrompt(prompt{"_more", "Add another W-2? (y/n)", "n"})
			return m, nil
		}
	case phaseMoreW2:
		if strings.EqualFold(text, "y") || strings.EqualFold(text, "yes") {
			return m.startW2(), nil
		}
		return m.compute(), tea.Quit
	}

	m.idx++
	m.resetInput()
	return m, nil
}

func (m Model) startW2() Model {
	m.phase = phaseW2
	m.currW2 = transform.Record{}
	m.prompts = w2Prompts
	m.idx = 0
	m.resetInput()
	return m
}

func (m *Model) setPrompt(p prompt) {
	m.prompts = []prompt{p}
	m.idx = 0
	m.resetInput()
}

func (m *Model) resetInput() {
	m.input.SetValue("")
	m.input.Placeholder = m.prompts[m.idx].placeholder
}

// compute decodes the collected answers and runs both calculators.
func (m Model) compute() Model {
	profile, err := transform.TaxpayerFromRecord(m.taxpayer)
	if err != nil {
		m.err = err
		m.phase = phaseResults
		return m
	}
	for _, rec := range m.dependents {
		profile.Dependents = append(profile.Dependents, transform.DependentFromRecord(rec))
	}

	w2s := make([]domain.WageStatement, 0, len(m.w2s))
	for _, rec := range m.w2s {
		w2s = append(w2s, transform.WageStatementFromRecord(rec))
	}

	fc := calculation.NewFederalCalculator(m.cfg)
	fc.EITC = m.eitc
	sc := calculation.NewStateCalculator(m.cfg)
	sc.EITC = m.eitc

	m.fed = fc.Compute(profile, w2s)
	m.state = sc.Compute(profile, w2s)
	m.phase = phaseResults
	return m
}

// Results returns copies of the computed line maps once the interview has
// finished. The second return is false when the interview was aborted before
// computing.
func (m Model) Results() (federal, state domain.Result, ok bool) {
	if m.phase != phaseResults || m.err != nil {
		return nil, nil, false
	}
	return m.fed.Clone(), m.state.Clone(), true
}
