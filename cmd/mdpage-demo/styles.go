package main

import "github.com/charmbracelet/lipgloss"

// Styles controls how the terminal host paints the page.
type Styles struct {
	Text      lipgloss.Style
	Heading   [5]lipgloss.Style
	CodeBlock lipgloss.Style
	Table     lipgloss.Style

	Bold      lipgloss.Style
	Italic    lipgloss.Style
	Highlight lipgloss.Style
	Code      lipgloss.Style
	Link      lipgloss.Style

	Marker lipgloss.Style
	Quote  lipgloss.Style
	Cursor lipgloss.Style
	Error  lipgloss.Style
	Status lipgloss.Style
}

func DefaultStyles() Styles {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	return Styles{
		Text: lipgloss.NewStyle(),
		Heading: [5]lipgloss.Style{
			heading.Underline(true),
			heading,
			heading.Foreground(lipgloss.Color("111")),
			heading.Foreground(lipgloss.Color("146")),
			heading.Foreground(lipgloss.Color("250")),
		},
		CodeBlock: lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Table:     lipgloss.NewStyle().Foreground(lipgloss.Color("151")),

		Bold:      lipgloss.NewStyle().Bold(true),
		Italic:    lipgloss.NewStyle().Italic(true),
		Highlight: lipgloss.NewStyle().Background(lipgloss.Color("58")),
		Code:      lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Link:      lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),

		Marker: muted,
		Quote:  muted,
		Cursor: lipgloss.NewStyle().Reverse(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Status: muted,
	}
}

// block returns the base style of a leaf block type token.
func (s Styles) block(typ string) lipgloss.Style {
	switch typ {
	case "h1", "h2", "h3", "h4", "h5":
		return s.Heading[typ[1]-'1']
	case "cd":
		return s.CodeBlock
	case "tl":
		return s.Table
	case "error":
		return s.Error
	}
	return s.Text
}

// span returns the style a span type token adds to its content.
func (s Styles) span(typ string) lipgloss.Style {
	switch typ {
	case "b":
		return s.Bold
	case "i":
		return s.Italic
	case "h":
		return s.Highlight
	case "ci":
		return s.Code
	case "fl", "ul":
		return s.Link
	case "error":
		return s.Error
	}
	return lipgloss.NewStyle()
}
