package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Background(palette.Background).
			Foreground(palette.Primary).
			Bold(true).
			Padding(0, 2).
			Margin(0, 0, 1, 0)

	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true)
)

// Layout styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1)
)

// Key/value rows
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary).
			Width(18)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted)
)

// Status styles
var (
	SuccessStyle = lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(palette.Error).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)
)

// Domain styles
var (
	EnabledStyle = lipgloss.NewStyle().
			Foreground(palette.Enabled).
			Bold(true)

	RevokedStyle = lipgloss.NewStyle().
			Foreground(palette.Revoked).
			Bold(true)

	IncreaseStyle = lipgloss.NewStyle().
			Foreground(palette.Increase)

	DecreaseStyle = lipgloss.NewStyle().
			Foreground(palette.Decrease)
)

// Help bar style
var (
	HelpStyle = lipgloss.NewStyle().
		Foreground(palette.TextMuted).
		Margin(1, 0, 0, 0).
		Italic(true)
)

// AdaptiveJoinHorizontal stacks blocks vertically on narrow screens
func AdaptiveJoinHorizontal(width int, blocks ...string) string {
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, blocks...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}
