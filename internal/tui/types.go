package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mabhi256/mapverify/internal/report"
)

type Model struct {
	// Data
	summary report.Summary

	// UI State
	currentTab    TabType
	width         int
	height        int
	selectedCheck int
	filter        SeverityFilter
	viewport      viewport.Model
	help          help.Model

	// Key bindings
	keys KeyMap
}

type TabType int

const (
	ChecksTab TabType = iota
	DiagnosticsTab
)

// SeverityFilter selects which diagnostics the diagnostics tab lists.
type SeverityFilter int

const (
	AllSeverities SeverityFilter = iota
	ErrorsOnly
	WarningsOnly
	InfoOnly
)

func (f SeverityFilter) String() string {
	switch f {
	case ErrorsOnly:
		return "errors"
	case WarningsOnly:
		return "warnings"
	case InfoOnly:
		return "info"
	default:
		return "all"
	}
}

type KeyMap struct {
	Tab1   key.Binding
	Tab2   key.Binding
	Left   key.Binding
	Right  key.Binding
	Up     key.Binding
	Down   key.Binding
	Filter key.Binding
	Quit   key.Binding
}

func k(keys []string, help, desc string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(help, desc),
	)
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Tab1:   k([]string{"1"}, "1", "checks"),
		Tab2:   k([]string{"2"}, "2", "diagnostics"),
		Left:   k([]string{"left", "h"}, "←/h", "prev check"),
		Right:  k([]string{"right", "l"}, "→/l", "next check"),
		Up:     k([]string{"up", "k"}, "↑/k", "up"),
		Down:   k([]string{"down", "j"}, "↓/j", "down"),
		Filter: k([]string{"f"}, "f", "severity filter"),
		Quit:   k([]string{"q", "ctrl+c"}, "q", "quit"),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab1, k.Tab2, k.Left, k.Right, k.Filter, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab1, k.Tab2},
		{k.Left, k.Right, k.Up, k.Down},
		{k.Filter, k.Quit},
	}
}
