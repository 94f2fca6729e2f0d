package view

import (
	"slices"
	"strings"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/page"
)

// mark is a corruption diagnostic shown in front of a block element.
type mark struct {
	labels []string
	el     dom.Element
}

func (m *mark) hide() {
	if m.el != nil {
		m.el.Remove()
	}
}

// MarkCorrupt puts a diagnostic placeholder in front of the element of the
// block holding n. The block itself stays editable. The mark follows the
// block through virtualization and is dropped with it; marking the same
// block twice with one label is a no-op.
func (e *Engine) MarkCorrupt(n *page.Node, label string) {
	b := e.doc.Block(n)
	if b == nil || b == e.doc.Root() {
		return
	}
	m := e.marks[b.Hash]
	if m == nil {
		m = &mark{}
		e.marks[b.Hash] = m
	}
	if !slices.Contains(m.labels, label) {
		m.labels = append(m.labels, label)
		if m.el != nil {
			m.el.SetText(strings.Join(m.labels, " "))
		}
	}
	e.showMark(b)
}

// Marked returns the labels of the corruption mark on the block with the
// given hash.
func (e *Engine) Marked(hash string) []string {
	if m := e.marks[hash]; m != nil {
		return slices.Clone(m.labels)
	}
	return nil
}

// showMark places the mark of b in front of its element, or hides it while
// b has no placed element.
func (e *Engine) showMark(b *page.Node) {
	m := e.marks[b.Hash]
	if m == nil {
		return
	}
	if b.Elem == nil || b.Elem.ParentElement() == nil {
		m.hide()
		return
	}
	if m.el == nil {
		m.el = e.factory.Placeholder(b, strings.Join(m.labels, " "))
	}
	b.Elem.ParentElement().InsertBefore(m.el, b.Elem)
}

func (e *Engine) hideMark(b *page.Node) {
	if m := e.marks[b.Hash]; m != nil {
		m.hide()
	}
}

// syncMarks re-places every mark after a structural change and drops the
// marks of blocks that left the page.
func (e *Engine) syncMarks() {
	for hash, m := range e.marks {
		b, ok := e.doc.Node(hash)
		if !ok {
			m.hide()
			delete(e.marks, hash)
			continue
		}
		e.showMark(b)
	}
}
