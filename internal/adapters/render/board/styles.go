package board

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	panel      lipgloss.Style
	panelFocus lipgloss.Style
	panelTitle lipgloss.Style
	program    lipgloss.Style
	selected   lipgloss.Style
	inactive   lipgloss.Style
	pinned     lipgloss.Style
	empty      lipgloss.Style
	prompt     lipgloss.Style
	message    lipgloss.Style
	busy       lipgloss.Style
	score      lipgloss.Style
	queueNext  lipgloss.Style
	queueRest  lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barFull    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	border := lipgloss.RoundedBorder()

	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		panel:      lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		panelFocus: lipgloss.NewStyle().Border(border).BorderForeground(lipgloss.Color("39")).Padding(0, 1),
		panelTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		program:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		inactive:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		pinned:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		empty:      lipgloss.NewStyle().Faint(true),
		prompt:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		message:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		busy:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("214")),
		score:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("120")),
		queueNext:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		queueRest:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		barFull:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	}
}
