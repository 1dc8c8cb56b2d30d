package tui

import (
	"github.com/Sternrassler/pokedex-client/pkg/view"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	activeTabStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("0"))
	inactiveTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	idStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	currentPageStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	sectionStyle     = lipgloss.NewStyle().Bold(true).MarginTop(1)
	barStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

// typeBadge renders a type name on its type color.
func typeBadge(typeName string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color(view.TypeColor(typeName))).
		Padding(0, 1).
		Render(typeName)
}
