package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Border styles
var (
	StyleFocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62"))

	StyleUnfocusedBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))
)

// Task state styles
var (
	StyleExecutable = lipgloss.NewStyle().
			Foreground(lipgloss.Color("green")).
			Bold(true)

	StyleBlocked = lipgloss.NewStyle().
			Foreground(lipgloss.Color("yellow"))

	StyleCompleted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	StyleOverdue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("red"))
)

// UI element styles
var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	StyleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	StyleStatusOK = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	StyleStatusError = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)
)
