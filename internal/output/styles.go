package output

import "github.com/charmbracelet/lipgloss"

// styles holds the lipgloss styles used by a [Printer].
//
// Styles are bound to the printer's renderer so that color is only emitted
// when the destination writer is a terminal.
type styles struct {
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	failure lipgloss.Style
	warning lipgloss.Style
	info    lipgloss.Style
	email   lipgloss.Style
	testTag lipgloss.Style
	prodTag lipgloss.Style
	box     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		label:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")).Width(10).Align(lipgloss.Right),
		value:   r.NewStyle().Foreground(lipgloss.Color("11")),
		muted:   r.NewStyle().Faint(true),
		success: r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		failure: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		info:    r.NewStyle().Foreground(lipgloss.Color("6")),
		email:   r.NewStyle().Foreground(lipgloss.Color("12")),
		testTag: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("5")).Padding(0, 1),
		prodTag: r.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("2")).Padding(0, 1),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1),
	}
}
