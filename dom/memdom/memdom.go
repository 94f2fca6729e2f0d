// Package memdom is a headless implementation of the dom host contract.
//
// It keeps a real node tree with move semantics and lays blocks out
// vertically so bounding rects, scroll ports and scrollIntoView behave the
// way the virtualization engine expects from a browser:
//
//   - a span contributes inline text only;
//   - a div with only inline content is one or more lines tall, wrapped at
//     Options.Width cells;
//   - a div with block children is as tall as the sum of its children's
//     outer heights;
//   - an element with a style="height: Npx" attribute is N tall;
//   - margins come from Options.BottomMargins keyed by the type attribute.
package memdom

import (
	"github.com/iw2rmb/mdpage/dom"
)

// Options configures layout. Zero values select defaults.
type Options struct {
	// Width is the number of cells per wrapped line (default: 80).
	Width int
	// LineHeight is the pixel height of one line (default: 1).
	LineHeight float64
	// BottomMargins maps a type attribute to the bottom margin of elements
	// carrying it.
	BottomMargins map[string]float64
}

// Document is an in-memory DOM document.
type Document struct {
	opt    Options
	body   *Element
	sel    *Selection
	frames []func()
}

var _ dom.Document = (*Document)(nil)

func New(opt Options) *Document {
	if opt.Width <= 0 {
		opt.Width = 80
	}
	if opt.LineHeight <= 0 {
		opt.LineHeight = 1
	}
	d := &Document{opt: opt}
	d.body = &Element{tag: "body", attrs: map[string]string{}}
	d.body.doc = d
	d.sel = &Selection{doc: d}
	return d
}

// Body returns the root element. Nodes are connected when Body is an
// ancestor.
func (d *Document) Body() *Element { return d.body }

func (d *Document) Options() Options { return d.opt }

func (d *Document) CreateElement(tag string) dom.Element {
	return d.NewElement(tag)
}

// NewElement is CreateElement returning the concrete type.
func (d *Document) NewElement(tag string) *Element {
	e := &Element{tag: tag, attrs: map[string]string{}}
	e.doc = d
	return e
}

// NewScrollPort returns a div that scrolls its content inside a viewport of
// the given height.
func (d *Document) NewScrollPort(clientHeight float64) *Element {
	e := d.NewElement("div")
	e.clientHeight = clientHeight
	e.port = true
	return e
}

func (d *Document) CreateTextNode(text string) dom.Text {
	return d.NewText(text)
}

func (d *Document) NewText(text string) *Text {
	t := &Text{data: []rune(text)}
	t.doc = d
	return t
}

func (d *Document) Selection() dom.Selection { return d.sel }

// Sel returns the concrete selection.
func (d *Document) Sel() *Selection { return d.sel }

func (d *Document) RequestAnimationFrame(fn func()) {
	if fn == nil {
		return
	}
	d.frames = append(d.frames, fn)
}

// Flush runs the pending animation frames, including frames scheduled while
// flushing, and returns how many ran.
func (d *Document) Flush() int {
	n := 0
	for len(d.frames) > 0 {
		frames := d.frames
		d.frames = nil
		for _, fn := range frames {
			fn()
			n++
		}
	}
	return n
}

// node is implemented by *Element and *Text.
type node interface {
	dom.Node
	base() *nodeBase
}

type nodeBase struct {
	doc    *Document
	parent *Element
}

func (b *nodeBase) base() *nodeBase { return b }

func (b *nodeBase) ParentElement() dom.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent
}

func (b *nodeBase) IsConnected() bool {
	if b.doc == nil {
		return false
	}
	p := b.parent
	for p != nil {
		if p == b.doc.body {
			return true
		}
		p = p.parent
	}
	return false
}

func (b *nodeBase) detach() {
	if b.parent == nil {
		return
	}
	b.parent.removeChild(b)
}

func asNode(n dom.Node) node {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Element:
		if v == nil {
			return nil
		}
		return v
	case *Text:
		if v == nil {
			return nil
		}
		return v
	default:
		panic("memdom: foreign node")
	}
}
