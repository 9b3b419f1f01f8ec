// Package styles holds the color theme and pre-computed lipgloss styles.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),

	Success: lipgloss.Color("#9ece6a"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	ItemDone     lipgloss.Style
	ItemDue      lipgloss.Style

	Label      lipgloss.Style
	Input      lipgloss.Style
	InputFocus lipgloss.Style

	ErrorBanner lipgloss.Style
	Help        lipgloss.Style
	Dim         lipgloss.Style
}

// NewStyles creates the style set from the current theme
func NewStyles() *Styles {
	t := Current
	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),
		Tab: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
		TabActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1).
			Underline(true),

		Item: lipgloss.NewStyle().
			Foreground(t.Foreground),
		ItemSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Selection),
		ItemDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),
		ItemDue: lipgloss.NewStyle().
			Foreground(t.Secondary),

		Label: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),
		InputFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		ErrorBanner: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true).
			Padding(0, 1),
		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(0, 1),
		Dim: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),
	}
}
