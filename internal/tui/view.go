package tui

import (
	"fmt"
	"strings"

	"github.com/taxfile/taxfile/internal/domain"
	"github.com/taxfile/taxfile/internal/output"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf(" taxfile interview — tax year %d ", m.cfg.Year)))
	b.WriteString("\n\n")

	if m.phase == phaseResults {
		b.WriteString(m.resultsView())
		return b.String()
	}

	b.WriteString(m.sectionLabel())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(m.prompts[m.idx].label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("enter to accept · blank uses the default · esc to quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) sectionLabel() string {
	switch m.phase {
	case phaseTaxpayer:
		return hintStyle.Render(fmt.Sprintf("Taxpayer (%d/%d)", m.idx+1, len(taxpayerPrompts)))
	case phaseDependentCount:
		return hintStyle.Render("Dependents")
	case phaseDependent:
		return hintStyle.Render(fmt.Sprintf("Dependent #%d", len(m.dependents)+1))
	case phaseW2, phaseMoreW2:
		return hintStyle.Render(fmt.Sprintf("W-2 #%d", len(m.w2s)+1))
	}
	return ""
}

func (m Model) resultsView() string {
	if m.err != nil {
		return errorStyle.Render("could not compute return: "+m.err.Error()) + "\n"
	}

	var b strings.Builder
	b.WriteString(panelStyle.Render(
		labelStyle.Render("Federal") + "\n" +
			output.RenderLines(m.fed) +
			settlementLine(m.fed, "34", "37"),
	))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(
		labelStyle.Render("New Jersey") + "\n" +
			output.RenderLines(m.state) +
			settlementLine(m.state, "80", "67"),
	))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("enter or esc to exit"))
	b.WriteString("\n")
	return b.String()
}

func settlementLine(res domain.Result, refundKey, owedKey string) string {
	if owed := res.Get(owedKey); owed.IsPositive() {
		return owedStyle.Render("  OWED   " + output.FormatCurrency(owed))
	}
	return refundStyle.Render("  REFUND " + output.FormatCurrency(res.Get(refundKey)))
}
