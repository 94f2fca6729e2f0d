package memdom

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/internal/grapheme"
)

// Element is an in-memory element.
type Element struct {
	nodeBase

	tag      string
	attrs    map[string]string
	children []node

	port         bool
	clientHeight float64
	scrollTop    float64
}

var (
	_ dom.Element    = (*Element)(nil)
	_ dom.ScrollPort = (*Element)(nil)
)

func (e *Element) Same(other dom.Node) bool {
	o, ok := other.(*Element)
	return ok && o == e
}

func (e *Element) IsConnected() bool {
	if e.doc != nil && e == e.doc.body {
		return true
	}
	return e.nodeBase.IsConnected()
}

func (e *Element) Tag() string { return e.tag }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[name]
	return v, ok
}

func (e *Element) SetAttr(name, value string) { e.attrs[name] = value }

func (e *Element) RemoveAttr(name string) { delete(e.attrs, name) }

func (e *Element) AppendChild(child dom.Node) {
	e.InsertBefore(child, nil)
}

func (e *Element) InsertBefore(child, ref dom.Node) {
	c := asNode(child)
	if c == nil {
		return
	}
	if c.base() == &e.nodeBase || e.hasAncestor(c) {
		panic("memdom: insert would create a cycle")
	}
	c.base().detach()

	r := asNode(ref)
	idx := len(e.children)
	if r != nil {
		idx = e.indexOf(r.base())
		if idx < 0 {
			panic("memdom: reference node is not a child")
		}
	}
	e.children = append(e.children, nil)
	copy(e.children[idx+1:], e.children[idx:])
	e.children[idx] = c
	c.base().parent = e
}

func (e *Element) hasAncestor(n node) bool {
	el, ok := n.(*Element)
	if !ok {
		return false
	}
	for p := e.parent; p != nil; p = p.parent {
		if p == el {
			return true
		}
	}
	return false
}

func (e *Element) Remove() { e.detach() }

func (e *Element) indexOf(b *nodeBase) int {
	for i, c := range e.children {
		if c.base() == b {
			return i
		}
	}
	return -1
}

func (e *Element) removeChild(b *nodeBase) {
	i := e.indexOf(b)
	if i < 0 {
		return
	}
	e.children = append(e.children[:i], e.children[i+1:]...)
	b.parent = nil
}

func (e *Element) FirstChild() dom.Node {
	if len(e.children) == 0 {
		return nil
	}
	return e.children[0]
}

func (e *Element) Children() []dom.Node {
	out := make([]dom.Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// ElementChildren returns the element children in order.
func (e *Element) ElementChildren() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

func (e *Element) SetText(text string) {
	for _, c := range e.children {
		c.base().parent = nil
	}
	e.children = nil
	e.AppendChild(e.doc.NewText(text))
}

func (e *Element) TextContent() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	for _, c := range e.children {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(string(v.data))
		case *Element:
			v.writeText(sb)
		}
	}
}

// Query returns the first connected descendant whose attribute name equals
// value, in document order.
func (e *Element) Query(name, value string) *Element {
	for _, c := range e.ElementChildren() {
		if v, ok := c.attrs[name]; ok && v == value {
			return c
		}
		if found := c.Query(name, value); found != nil {
			return found
		}
	}
	return nil
}

// Outer renders the subtree as markup, attributes sorted by name. Style and
// scroll state are not rendered.
func (e *Element) Outer() string {
	var sb strings.Builder
	e.writeOuter(&sb)
	return sb.String()
}

func (e *Element) writeOuter(sb *strings.Builder) {
	sb.WriteString("<" + e.tag)
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		if k == "style" {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if e.attrs[k] == "" {
			sb.WriteString(" " + k)
			continue
		}
		fmt.Fprintf(sb, " %s=%q", k, e.attrs[k])
	}
	sb.WriteString(">")
	for _, c := range e.children {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(string(v.data))
		case *Element:
			v.writeOuter(sb)
		}
	}
	sb.WriteString("</" + e.tag + ">")
}

// Layout.

func (e *Element) isBlock() bool { return e.tag != "span" }

func (e *Element) margin() float64 {
	if e.doc == nil || e.doc.opt.BottomMargins == nil {
		return 0
	}
	t, ok := e.attrs["type"]
	if !ok {
		return 0
	}
	return e.doc.opt.BottomMargins[t]
}

func (e *Element) styleHeight() (float64, bool) {
	style, ok := e.attrs["style"]
	if !ok {
		return 0, false
	}
	for _, decl := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if !ok || strings.TrimSpace(k) != "height" {
			continue
		}
		v = strings.TrimSuffix(strings.TrimSpace(v), "px")
		h, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return h, true
	}
	return 0, false
}

// contentHeight is the height of the element's box without the viewport
// clipping of scroll ports.
func (e *Element) contentHeight() float64 {
	if h, ok := e.styleHeight(); ok {
		return h
	}
	if !e.isBlock() {
		return 0
	}
	hasBlock := false
	sum := 0.0
	for _, c := range e.children {
		el, ok := c.(*Element)
		if !ok || !el.isBlock() {
			continue
		}
		hasBlock = true
		sum += el.outerHeight()
	}
	if hasBlock {
		return sum
	}
	if len(e.children) == 0 {
		return 0
	}
	lines := 0
	for _, line := range strings.Split(e.TextContent(), "\n") {
		w := grapheme.Width(line)
		if w == 0 {
			lines++
			continue
		}
		lines += int(math.Ceil(float64(w) / float64(e.doc.opt.Width)))
	}
	return float64(lines) * e.doc.opt.LineHeight
}

func (e *Element) boxHeight() float64 {
	if e.port {
		return e.clientHeight
	}
	return e.contentHeight()
}

func (e *Element) outerHeight() float64 {
	return e.boxHeight() + e.margin()
}

// offsetOf returns the y offset of child inside e's content box.
func (e *Element) offsetOf(child *Element) float64 {
	y := 0.0
	for _, c := range e.children {
		el, ok := c.(*Element)
		if !ok || !el.isBlock() {
			continue
		}
		if el == child {
			return y
		}
		y += el.outerHeight()
	}
	return y
}

func (e *Element) absTop() float64 {
	if e.parent == nil {
		return 0
	}
	p := e.parent
	if !e.isBlock() {
		return p.absTop()
	}
	return p.absTop() - p.scrollTop + p.offsetOf(e)
}

func (e *Element) Rect() dom.Rect {
	if !e.IsConnected() {
		return dom.Rect{}
	}
	if !e.isBlock() {
		return e.parent.Rect()
	}
	top := e.absTop()
	h := e.boxHeight()
	return dom.Rect{Top: top, Bottom: top + h, Height: h}
}

func (e *Element) ScrollIntoView() {
	for p := e.parent; p != nil; p = p.parent {
		if !p.port {
			continue
		}
		delta := e.Rect().Top - p.Rect().Top
		p.SetScrollTop(p.scrollTop + delta)
		return
	}
}

// Scroll port.

func (e *Element) ScrollTop() float64 { return e.scrollTop }

func (e *Element) SetScrollTop(y float64) {
	max := e.ScrollHeight() - e.clientHeight
	if max < 0 {
		max = 0
	}
	if y > max {
		y = max
	}
	if y < 0 {
		y = 0
	}
	e.scrollTop = y
}

func (e *Element) ScrollHeight() float64 { return e.contentHeight() }

func (e *Element) ClientHeight() float64 { return e.clientHeight }

// SetClientHeight resizes a scroll port's viewport.
func (e *Element) SetClientHeight(h float64) {
	e.port = true
	e.clientHeight = h
	e.SetScrollTop(e.scrollTop)
}
