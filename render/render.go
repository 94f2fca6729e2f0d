// Package render maps document nodes to host elements.
package render

import (
	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/page"
)

// Element attribute names and the tokens of the container elements around
// the page.
const (
	AttrHash            = "hash"
	AttrType            = "type"
	AttrContentEditable = "contenteditable"
	AttrStyle           = "style"

	TypeTopPad = "top-pad"
	TypeBotPad = "bot-pad"
	TypeGutter = "gutter"
	TypeError  = "error"
)

// MissingLabel is the inner text of a diagnostic placeholder for a node of
// unknown kind.
const MissingLabel = "‼️ block missing"

// Factory creates elements for nodes.
type Factory struct {
	doc dom.Document
}

func New(doc dom.Document) *Factory {
	return &Factory{doc: doc}
}

func (f *Factory) Document() dom.Document { return f.doc }

// Element returns a detached element for n without its children. RawText
// elements carry their text as a text node.
func (f *Factory) Element(n *page.Node) dom.Element {
	if !n.Kind.Valid() {
		return f.Placeholder(n, MissingLabel)
	}
	tag := "span"
	if n.Kind.IsBlock() {
		tag = "div"
	}
	el := f.doc.CreateElement(tag)
	el.SetAttr(AttrType, n.Kind.Token())
	el.SetAttr(AttrHash, n.Hash)
	if n.Kind == page.Page {
		el.SetAttr(AttrContentEditable, "")
	}
	if n.Kind == page.RawText {
		el.AppendChild(f.doc.CreateTextNode(n.Text()))
	}
	return el
}

// Mount builds the element subtree of n, assigns every node's Elem and
// returns the element of n. The result is detached.
//
// A node of unknown kind mounts as a placeholder without its children. It is
// a span inside a leaf block and a div between blocks.
func (f *Factory) Mount(n *page.Node) dom.Element {
	return f.mount(n, false)
}

func (f *Factory) mount(n *page.Node, inline bool) dom.Element {
	if !n.Kind.Valid() {
		el := f.placeholder(n, MissingLabel, inline)
		n.Elem = el
		return el
	}
	el := f.Element(n)
	n.Elem = el
	inline = n.Kind.IsLeafBlock() || n.Kind.IsSpan()
	for _, c := range n.Children {
		el.AppendChild(f.mount(c, inline))
	}
	return el
}

// Shell returns the element of n alone and assigns it, leaving the children
// to be attached individually.
func (f *Factory) Shell(n *page.Node) dom.Element {
	el := f.Element(n)
	n.Elem = el
	return el
}

// Placeholder returns a diagnostic element standing in for n.
func (f *Factory) Placeholder(n *page.Node, label string) dom.Element {
	return f.placeholder(n, label, n.Kind.IsSpan())
}

func (f *Factory) placeholder(n *page.Node, label string, inline bool) dom.Element {
	tag := "div"
	if inline {
		tag = "span"
	}
	el := f.doc.CreateElement(tag)
	el.SetAttr(AttrType, TypeError)
	el.SetAttr(AttrHash, n.Hash)
	el.SetText(label)
	return el
}

// Spacer returns a fixed-height container div.
func (f *Factory) Spacer(typ string, height float64) dom.Element {
	el := f.doc.CreateElement("div")
	el.SetAttr(AttrType, typ)
	SetHeight(el, height)
	return el
}

// SetHeight sets the inline pixel height of el.
func SetHeight(el dom.Element, height float64) {
	el.SetAttr(AttrStyle, "height: "+formatPx(height)+"px")
}

// TextNode returns the text node inside a RawText element.
func TextNode(el dom.Element) (dom.Text, bool) {
	if el == nil {
		return nil, false
	}
	t, ok := el.FirstChild().(dom.Text)
	return t, ok
}
