package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha palette.
var (
	colorSurface1 = lipgloss.Color("#45475A")
	colorText     = lipgloss.Color("#CDD6F4")
	colorSubtext  = lipgloss.Color("#A6ADC8")
	colorDim      = lipgloss.Color("#585B70")

	colorAccent   = lipgloss.Color("#CBA6F7")
	colorBlue     = lipgloss.Color("#89B4FA")
	colorGreen    = lipgloss.Color("#A6E3A1")
	colorYellow   = lipgloss.Color("#F9E2AF")
	colorRed      = lipgloss.Color("#F38BA8")
	colorPeach    = lipgloss.Color("#FAB387")
	colorTeal     = lipgloss.Color("#94E2D5")
	colorLavender = lipgloss.Color("#B4BEFE")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorLavender)

	headerBrandStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	sectionHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBlue)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	trackStyle = lipgloss.NewStyle().
			Foreground(colorSurface1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorTeal).
			Bold(true)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Underline(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 2)

	cardTitleStyle = lipgloss.NewStyle().
			Foreground(colorSubtext)

	cardValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText)

	cardSubStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// One color per bar, cycled down the chart.
var barPalette = []lipgloss.Color{
	colorBlue,
	colorGreen,
	colorYellow,
	colorPeach,
	colorTeal,
	colorAccent,
	colorRed,
	colorLavender,
}
