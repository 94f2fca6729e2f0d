package editor

import (
	"errors"
	"fmt"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
)

// ErrSelectionDetached is returned when the host selection is empty or lies
// outside the page element.
var ErrSelectionDetached = errors.New("editor: selection is outside the page")

// SelectionKind tells a collapsed caret from a range.
type SelectionKind uint8

const (
	SelectCaret SelectionKind = iota + 1
	SelectRange
)

func (k SelectionKind) String() string {
	switch k {
	case SelectCaret:
		return "caret"
	case SelectRange:
		return "range"
	default:
		return "none"
	}
}

// Caret is the decoded anchor of the host selection.
type Caret struct {
	// Hash is read from the element holding the anchor text node.
	Hash   string
	Offset int
	Kind   SelectionKind
	// Text is the anchor text node; nil when the anchor is an element.
	Text dom.Text
}

// Position is a caret location in model terms.
type Position struct {
	Hash   string `yaml:"hash" json:"hash"`
	Offset int    `yaml:"offset" json:"offset"`
}

// Bridge reads and writes the host selection on behalf of the edit engine.
type Bridge struct {
	host   dom.Document
	pageEl dom.Element
}

func NewBridge(host dom.Document, pageEl dom.Element) *Bridge {
	return &Bridge{host: host, pageEl: pageEl}
}

// Read decodes the selection anchor.
func (b *Bridge) Read() (Caret, error) {
	sel := b.host.Selection()
	if sel.RangeCount() == 0 {
		return Caret{}, ErrSelectionDetached
	}
	anchor := sel.AnchorNode()
	if anchor == nil || !anchor.IsConnected() {
		return Caret{}, ErrSelectionDetached
	}

	holder, _ := anchor.(dom.Element)
	text, isText := anchor.(dom.Text)
	if isText {
		holder = anchor.ParentElement()
	}
	if holder == nil || !b.inPage(holder) {
		return Caret{}, ErrSelectionDetached
	}
	hash, ok := holder.Attr(render.AttrHash)
	if !ok || hash == "" {
		return Caret{}, ErrSelectionDetached
	}

	c := Caret{Hash: hash, Offset: sel.AnchorOffset(), Kind: SelectCaret}
	if isText {
		c.Text = text
	}
	if !sel.IsCollapsed() {
		c.Kind = SelectRange
	}
	return c, nil
}

func (b *Bridge) inPage(el dom.Element) bool {
	for p := el; p != nil; p = p.ParentElement() {
		if p.Same(b.pageEl) {
			return true
		}
	}
	return false
}

// SetCaret clears the selection and installs a collapsed range at offset
// in t.
func (b *Bridge) SetCaret(t dom.Text, offset int) {
	sel := b.host.Selection()
	sel.RemoveAllRanges()
	sel.AddCaret(t, offset)
}

// CaretAt places the caret at offset in the text node of an attached
// RawText.
func (b *Bridge) CaretAt(n *page.Node, offset int) error {
	if n == nil || n.Kind != page.RawText {
		return page.ErrNotText
	}
	if n.Elem == nil {
		return fmt.Errorf("caret at %s: %w", n.Hash, page.ErrDetached)
	}
	t, ok := render.TextNode(n.Elem)
	if !ok {
		return fmt.Errorf("caret at %s: element has no text node", n.Hash)
	}
	b.SetCaret(t, min(max(offset, 0), t.Len()))
	return nil
}

// Move is selection.modify("move", direction, granularity).
func (b *Bridge) Move(direction, granularity string) {
	b.host.Selection().Modify("move", direction, granularity)
}

// Extend is selection.modify("extend", direction, granularity).
func (b *Bridge) Extend(direction, granularity string) {
	b.host.Selection().Modify("extend", direction, granularity)
}
