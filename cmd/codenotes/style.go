package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/codenotes/pkg/core"
)

var (
	infoStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("136")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	activeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true).Underline(true)
	lineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	noteStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	eventStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	panelBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)
)

func severityStyle(s core.Severity) lipgloss.Style {
	switch s {
	case core.SeverityWarning:
		return warningStyle
	case core.SeverityError:
		return errorStyle
	default:
		return infoStyle
	}
}
