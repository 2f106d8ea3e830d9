package ui

import "github.com/charmbracelet/lipgloss"

var (
	StatusThinkingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	StatusDoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	StatusErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	ToolStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	DimStyle            = lipgloss.NewStyle().Foreground(lipgloss.Color("241")) // Dim gray
	PromptStyle         = lipgloss.NewStyle().Bold(true)
	PreviewStyle        = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("241")).
				PaddingLeft(1)
)
