package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/aschmelyun/tvocab/internal/prefs"
)

var (
	TitleStyle        = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	BulletStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingRight(1)
	TextStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	DimTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	SpinnerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	HeaderStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).PaddingLeft(2)
	ItemStyle         = lipgloss.NewStyle().PaddingLeft(2)
	SelectedItemStyle = lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("3"))
	LearnedItemStyle  = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("8"))
	PaneTitleStyle    = lipgloss.NewStyle().Bold(true).PaddingLeft(2)
	FocusedTitleStyle = PaneTitleStyle.Foreground(lipgloss.Color("3"))
	ErrorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	SuccessStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Colors the viewer can cycle through for subtitle text and background.
var (
	textColors       = []string{prefs.DefaultColor, "#ffffff", "#00ffff", "#ff00ff", "#00ff00"}
	backgroundColors = []string{prefs.DefaultBackground, "#000000", "#333333", "#1e1e5a"}
)

// subtitleStyle maps the display preferences onto a terminal style. Terminals
// have no font size, so larger sizes get bold text and wider padding.
func subtitleStyle(p prefs.Preferences) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Color)).
		Bold(p.SizePx() >= 30)

	if !p.Transparent() {
		style = style.Background(lipgloss.Color(p.Background))
	}
	return style
}

func subtitlePadding(p prefs.Preferences) int {
	return p.SizePx() / 10
}

func nextColor(palette []string, current string) string {
	for i, c := range palette {
		if c == current {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
