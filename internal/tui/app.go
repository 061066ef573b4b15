package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mabhi256/mapverify/internal/report"
	"github.com/mabhi256/mapverify/utils"
)

// lines taken by the header, the tab border and the help bar
const chromeHeight = 4

func initialModel(summary report.Summary) *Model {
	m := &Model{
		summary:       summary,
		currentTab:    ChecksTab,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		viewport:      viewport.New(0, 0),
		selectedCheck: firstFailedCheck(summary),
		filter:        AllSeverities,
	}
	m.refreshViewport()
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refreshViewport()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab1):
			m.currentTab = ChecksTab
		case key.Matches(msg, m.keys.Tab2):
			m.currentTab = DiagnosticsTab

		case key.Matches(msg, m.keys.Left):
			m.moveCheck(-1)
		case key.Matches(msg, m.keys.Right):
			m.moveCheck(1)
		case key.Matches(msg, m.keys.Filter):
			m.filter = utils.CycleEnum(m.filter, 1, InfoOnly)
			m.refreshViewport()

		default:
			// Scrolling belongs to the diagnostics tab
			if m.currentTab == DiagnosticsTab {
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}
	}

	return m, nil
}

func (m *Model) moveCheck(direction int) {
	checks := len(m.summary.Result.Checks)
	if checks == 0 {
		return
	}
	m.selectedCheck = (m.selectedCheck + direction + checks) % checks
	m.refreshViewport()
}

func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderDiagnostics())
	m.viewport.GotoTop()
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	switch m.currentTab {
	case ChecksTab:
		content = m.renderChecks()
	case DiagnosticsTab:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.renderDiagnosticsHeader(),
			m.viewport.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		content,
		utils.HelpBarStyle.Width(m.width).Render(m.help.View(m.keys)),
	)
}

func (m *Model) renderHeader() string {
	var tabs []string

	tabIcons := []string{"📋", "🔎"}
	tabNames := []string{"Checks", "Diagnostics"}

	for i, name := range tabNames {
		style := utils.TabInactiveStyle
		indicator := " "

		if TabType(i) == m.currentTab {
			style = utils.TabActiveStyle
			indicator = "●"
		}

		tabText := fmt.Sprintf("%s %s %s [%d]", indicator, tabIcons[i], name, i+1)
		tabs = append(tabs, style.Render(tabText))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, "  "),
		strings.Repeat("─", m.width),
	)
}

func StartTUI(summary report.Summary) error {
	model := initialModel(summary)

	program := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := program.Run()
	return err
}

// firstFailedCheck opens the browser on the first failure, if any.
func firstFailedCheck(summary report.Summary) int {
	for i, c := range summary.Result.Checks {
		if !c.OK {
			return i
		}
	}
	return 0
}
