package main

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/dom/memdom"
	"github.com/iw2rmb/mdpage/internal/grapheme"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
)

// markerWidth is the column left of the page text that shows block markers.
const markerWidth = 4

type cell struct {
	text  string
	width int
	style lipgloss.Style
	caret bool
	// brk ends the visual line.
	brk bool
}

// painter turns the attached part of a memdom page into terminal lines, one
// per layout line, so line i sits i pixels below the top of the page
// element.
type painter struct {
	doc     *page.Doc
	styles  Styles
	width   int
	margins map[string]float64

	caret   dom.Node
	caretAt int
}

func newPainter(host *memdom.Document, doc *page.Doc, styles Styles) *painter {
	opt := host.Options()
	p := &painter{doc: doc, styles: styles, width: opt.Width, margins: opt.BottomMargins}
	if sel := host.Sel(); sel.RangeCount() > 0 && sel.IsCollapsed() {
		p.caret, p.caretAt = sel.FocusNode(), sel.FocusOffset()
	}
	return p
}

func (p *painter) Page(pageEl *memdom.Element) []string {
	var out []string
	for _, el := range pageEl.ElementChildren() {
		out = append(out, p.block(el, "")...)
	}
	return out
}

func (p *painter) block(el *memdom.Element, prefix string) []string {
	typ, _ := el.Attr(render.AttrType)
	var lines []string
	if hasBlockChildren(el) {
		inner := prefix + p.nest(typ)
		for _, c := range el.ElementChildren() {
			lines = append(lines, p.block(c, inner)...)
		}
	} else {
		lines = p.leaf(el, typ, prefix)
	}
	for i := 0; i < int(math.Round(p.margins[typ])); i++ {
		lines = append(lines, prefix)
	}
	return lines
}

func (p *painter) nest(typ string) string {
	if typ == page.Quote.Token() {
		return p.styles.Quote.Render("│ ")
	}
	return "  "
}

func (p *painter) leaf(el *memdom.Element, typ, prefix string) []string {
	var cells []cell
	pending := false
	var walk func(n dom.Node, st lipgloss.Style)
	walk = func(n dom.Node, st lipgloss.Style) {
		switch v := n.(type) {
		case *memdom.Text:
			cells = p.textCells(cells, v, st, &pending)
		case *memdom.Element:
			t, _ := v.Attr(render.AttrType)
			s := p.styles.span(t).Inherit(st)
			for _, c := range v.Children() {
				walk(c, s)
			}
		}
	}
	base := p.styles.block(typ)
	for _, c := range el.Children() {
		walk(c, base)
	}
	if pending {
		cells = append(cells, cell{text: " ", caret: true})
	}

	marker := p.marker(el, typ)
	blank := strings.Repeat(" ", markerWidth)
	rows := wrapCells(cells, p.width)
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		m := blank
		if i == 0 {
			m = marker
		}
		lines = append(lines, prefix+m+p.row(row))
	}
	return fit(lines, int(math.Round(el.Rect().Height)), prefix)
}

func (p *painter) textCells(cells []cell, t *memdom.Text, st lipgloss.Style, pending *bool) []cell {
	here := p.caret != nil && t.Same(p.caret)
	off := 0
	for _, g := range grapheme.Split(t.Data()) {
		n := utf8.RuneCountInString(g)
		c := cell{text: g, width: grapheme.Width(g), style: st}
		if g == "\n" {
			c.brk, c.width = true, 0
		}
		if *pending || (here && p.caretAt >= off && p.caretAt < off+n) {
			c.caret = true
			*pending = false
		}
		cells = append(cells, c)
		off += n
	}
	if here && p.caretAt >= off {
		*pending = true
	}
	return cells
}

func (p *painter) row(row []cell) string {
	var sb strings.Builder
	for _, c := range row {
		switch {
		case c.brk && c.caret:
			sb.WriteString(p.styles.Cursor.Render(" "))
		case c.brk:
		case c.caret:
			sb.WriteString(p.styles.Cursor.Render(c.text))
		default:
			sb.WriteString(c.style.Render(c.text))
		}
	}
	return sb.String()
}

func (p *painter) marker(el *memdom.Element, typ string) string {
	var content map[string]string
	if hash, ok := el.Attr(render.AttrHash); ok {
		if n, ok := p.doc.Node(hash); ok {
			content = n.Content
		}
	}
	var m string
	switch typ {
	case "h1", "h2", "h3", "h4", "h5":
		m = "H" + typ[1:]
	case "d":
		m = "•"
	case "n":
		m = content[page.NumberKey] + "."
	case "ch":
		m = "[ ]"
		if content[page.CheckedKey] == "true" {
			m = "[x]"
		}
	case "cd":
		m = "``"
	case "tl":
		m = "|"
	case render.TypeError:
		m = "!!"
	}
	if m == "" {
		return strings.Repeat(" ", markerWidth)
	}
	if lipgloss.Width(m) > markerWidth {
		m = "…."
	}
	return p.styles.Marker.Render(fmt.Sprintf("%-*s", markerWidth, m))
}

// wrapCells breaks cells into rows of at most width cells. A cell with
// width zero never starts a row.
func wrapCells(cells []cell, width int) [][]cell {
	rows := [][]cell{nil}
	cur := 0
	for _, c := range cells {
		if c.width > 0 && cur > 0 && cur+c.width > width {
			rows = append(rows, nil)
			cur = 0
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], c)
		cur += c.width
		if c.brk {
			rows = append(rows, nil)
			cur = 0
		}
	}
	return rows
}

// fit pads or truncates lines to n.
func fit(lines []string, n int, prefix string) []string {
	if len(lines) > n {
		return lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, prefix)
	}
	return lines
}

func hasBlockChildren(el *memdom.Element) bool {
	for _, c := range el.ElementChildren() {
		if c.Tag() != "span" {
			return true
		}
	}
	return false
}
