package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/mapverify/utils"
)

func (m *Model) renderChecks() string {
	s := m.summary

	var lines []string
	lines = append(lines,
		utils.TitleStyle.Render("🔍 Mapping Verification"),
		"",
		utils.FormatKeyValue("Archive", s.Jar, 10),
		utils.FormatKeyValue("Mappings", s.Map, 10),
		utils.FormatKeyValue("Classes", fmt.Sprintf("%d (%d mapped)", s.Classes, s.MappedClasses), 10),
		utils.FormatKeyValue("Loaded", utils.FormatDuration(s.LoadTime), 10),
		"",
	)

	for i, c := range s.Result.Checks {
		selector := " "
		if i == m.selectedCheck {
			selector = "▶"
		}

		status := utils.GoodStyle.Render("Passed")
		if !c.OK {
			status = utils.CriticalStyle.Render("Failed")
		}

		lines = append(lines, fmt.Sprintf("%s %s %-20s %s %s",
			selector, utils.GetStatusIcon(c.OK), c.Name, status,
			utils.MutedStyle.Render(fmt.Sprintf("%d lines, %s", len(c.Diagnostics), utils.FormatDuration(c.Elapsed)))))
	}

	lines = append(lines, "")
	if s.Result.OK {
		lines = append(lines, utils.GoodStyle.Render("✅ Verification passed"))
	} else {
		lines = append(lines, utils.CriticalStyle.Render(fmt.Sprintf("❌ %d errors, %d warnings", s.Errors(), s.Warnings())))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(lines, "\n"))
}
