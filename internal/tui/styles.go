package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/priyamverma/studyscout/internal/profile"
)

type styleSet struct {
	title         lipgloss.Style
	sectionHeader lipgloss.Style
	helper        lipgloss.Style
	errorText     lipgloss.Style
	warning       lipgloss.Style
	statusBar     lipgloss.Style
	key           lipgloss.Style
	keyDesc       lipgloss.Style
	legendBox     lipgloss.Style
	helpBox       lipgloss.Style
	heroBox       lipgloss.Style
	tagline       lipgloss.Style
	userLabel     lipgloss.Style
	tutorLabel    lipgloss.Style
	menuItem      lipgloss.Style
	menuCursor    lipgloss.Style
	stepTitle     lipgloss.Style
	stepMeta      lipgloss.Style
}

func stylesFor(theme profile.Theme) styleSet {
	if theme == profile.ThemeDaylight {
		return styleSet{
			title:         lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#9d4edd")),
			sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1d3557")),
			helper:        lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d")),
			errorText:     lipgloss.NewStyle().Foreground(lipgloss.Color("#d00000")),
			warning:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#b26a00")),
			statusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#fdfdfd")).Background(lipgloss.Color("#457b9d")).Padding(0, 1),
			key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fdfdfd")).Background(lipgloss.Color("#e76f51")).Padding(0, 1),
			keyDesc:       lipgloss.NewStyle().Foreground(lipgloss.Color("#343a40")),
			legendBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#adb5bd")).Padding(1, 2),
			helpBox:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#9d4edd")).Padding(1, 2),
			heroBox:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#e76f51")).Padding(0, 2),
			tagline:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#e76f51")),
			userLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1d3557")),
			tutorLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2a9d8f")),
			menuItem:      lipgloss.NewStyle().Foreground(lipgloss.Color("#343a40")),
			menuCursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#fdfdfd")).Background(lipgloss.Color("#457b9d")),
			stepTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2a9d8f")),
			stepMeta:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#6c757d")),
		}
	}
	return styleSet{
		title:         lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("205")),
		sectionHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		helper:        lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		errorText:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		warning:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		statusBar:     lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1),
		key:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1),
		keyDesc:       lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4")),
		legendBox:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2),
		helpBox:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2),
		heroBox:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#ff8c00")).Padding(0, 2),
		tagline:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#ffb347")),
		userLabel:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("147")),
		tutorLabel:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("115")),
		menuItem:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		menuCursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")),
		stepTitle:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("115")),
		stepMeta:      lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("244")),
	}
}
