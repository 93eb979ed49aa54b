package tui

import (
	"github.com/JackWithOneEye/sensiedit/internal/team"
	"github.com/charmbracelet/lipgloss"
)

// Theme colors
var (
	borderColor   = lipgloss.Color("240")
	headerFg      = lipgloss.Color("#f0f0f0")
	headerBg      = lipgloss.Color("#005577")
	titleFg       = lipgloss.Color("#ffffff")
	statusFg      = lipgloss.Color("#cccccc")
	dimFg         = lipgloss.Color("240")
	errorFg       = lipgloss.Color("#ff6b6b")
	successFg     = lipgloss.Color("#51cf66")
	starFg        = lipgloss.Color("#ffd43b")
	modalBorderFg = lipgloss.Color("62")
	modalBg       = lipgloss.Color("235")
	modalFg       = lipgloss.Color("252")
)

// Base styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(titleFg).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(statusFg).
			AlignHorizontal(lipgloss.Right)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorFg).
			Bold(true)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(modalBorderFg).
			Background(modalBg).
			Foreground(modalFg).
			Padding(1, 2)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimFg)

	selectedStyle = lipgloss.NewStyle().
			Foreground(successFg).
			Bold(true)
)

// Region tabs
var (
	tabStyle = lipgloss.NewStyle().
			Foreground(statusFg).
			Padding(0, 1)

	activeTabStyle = tabStyle.
			Foreground(headerFg).
			Background(headerBg).
			Bold(true)
)

// kitHex approximates the in-game palette entry of each kit colour.
var kitHex = map[string]string{
	"grey":        "#9e9e9e",
	"white":       "#f5f5f5",
	"black":       "#202020",
	"brown":       "#8b5a2b",
	"dark_orange": "#d2691e",
	"orange":      "#ff8c00",
	"light_grey":  "#c8c8c8",
	"dark_grey":   "#555555",
	"dark_grey_2": "#444444",
	"red":         "#e03131",
	"blue":        "#1c5cd6",
	"dark_red":    "#8b1a1a",
	"light_blue":  "#74c0fc",
	"green":       "#2f9e44",
	"yellow":      "#ffd43b",
}

// swatch renders a two-cell block in the colour c names. Raw codes with no
// palette entry render as a dim placeholder.
func swatch(c team.Code) string {
	name, _ := c.Name()
	hex, ok := kitHex[name]
	if !ok {
		return dimStyle.Render("░░")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██")
}

// boolToIcon converts a boolean to a visual indicator
func boolToIcon(b bool) string {
	if b {
		return lipgloss.NewStyle().Foreground(successFg).Render("●")
	}
	return lipgloss.NewStyle().Foreground(errorFg).Render("○")
}

func starIcon(star bool) string {
	if star {
		return lipgloss.NewStyle().Foreground(starFg).Render("★")
	}
	return " "
}
