package tui

import (
	"fmt"
	"strings"

	"github.com/mabhi256/mapverify/internal/verifier"
	"github.com/mabhi256/mapverify/utils"
)

// visibleDiagnostics returns the selected check's diagnostics that pass the
// severity filter.
func (m *Model) visibleDiagnostics() []verifier.Diagnostic {
	checks := m.summary.Result.Checks
	if m.selectedCheck >= len(checks) {
		return nil
	}

	var out []verifier.Diagnostic
	for _, d := range checks[m.selectedCheck].Diagnostics {
		if m.filter.accepts(d.Severity) {
			out = append(out, d)
		}
	}
	return out
}

func (f SeverityFilter) accepts(sev verifier.Severity) bool {
	switch f {
	case ErrorsOnly:
		return sev == verifier.SeverityError
	case WarningsOnly:
		return sev == verifier.SeverityWarning
	case InfoOnly:
		return sev == verifier.SeverityInfo
	default:
		return true
	}
}

func (m *Model) renderDiagnosticsHeader() string {
	checks := m.summary.Result.Checks
	if len(checks) == 0 {
		return utils.MutedStyle.Render("No checks were run")
	}

	var tabs []string
	for i, c := range checks {
		style := utils.TabInactiveStyle
		if i == m.selectedCheck {
			style = utils.TabActiveStyle
		}
		tabs = append(tabs, style.Render(utils.GetStatusIcon(c.OK)+" "+c.Name))
	}

	return strings.Join(tabs, "  ") + "  " + utils.MutedStyle.Render("filter: "+m.filter.String())
}

func (m *Model) renderDiagnostics() string {
	diags := m.visibleDiagnostics()
	if len(diags) == 0 {
		return utils.GoodStyle.Render(fmt.Sprintf("\n  No %s diagnostics.", m.filter))
	}

	var lines []string
	for _, d := range diags {
		style := utils.GetSeverityStyle(d.Severity.String())
		text := d.String()
		if m.width > 0 {
			text = utils.TruncateString(text, m.width-2)
		}
		lines = append(lines, " "+style.Render(text))
	}
	return strings.Join(lines, "\n")
}
