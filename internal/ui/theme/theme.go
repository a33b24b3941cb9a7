package theme

import "github.com/charmbracelet/lipgloss"

// Catppuccin mocha accents used by the menus.
var (
	Surface1 = lipgloss.Color("#45475a")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")

	// Title renders prompts.
	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	// Muted renders disabled choices and echoed answers.
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	// Hot renders input errors.
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)

	Cursor   = lipgloss.NewStyle().Foreground(Lavender).Bold(true)
	Default  = lipgloss.NewStyle().Foreground(Green)
	Selected = lipgloss.NewStyle().Foreground(Sapphire)

	// Guidance frames long step descriptions when markdown rendering is off.
	Guidance = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface1).
			Padding(0, 1)
)
