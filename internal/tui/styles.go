package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

	keyBaseStyle     = lipgloss.NewStyle().Align(lipgloss.Center)
	keyUntestedStyle = keyBaseStyle.Foreground(lipgloss.Color("#8C8C8C")).Background(lipgloss.Color("#2A2A2A"))
	keyTestedStyle   = keyBaseStyle.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#1F6F43"))
	keyActiveStyle   = keyBaseStyle.Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#C89A3A")).Bold(true)

	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	chatterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)

	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	flashStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#141414")).Background(lipgloss.Color("#FF4D4F"))
	authorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
	particleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	particleDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 3)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)
