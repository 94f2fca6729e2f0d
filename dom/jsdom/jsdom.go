//go:build js && wasm

package jsdom

import (
	"strings"
	"syscall/js"

	"github.com/iw2rmb/mdpage/dom"
)

const (
	elementNode = 1
	textNode    = 3
)

// Document wraps the browser document.
type Document struct {
	doc    js.Value
	window js.Value
}

var _ dom.Document = (*Document)(nil)

// New wraps the global document.
func New() *Document {
	return &Document{doc: js.Global().Get("document"), window: js.Global()}
}

// ElementByID returns the element with the given id, or nil.
func (d *Document) ElementByID(id string) *Element {
	v := d.doc.Call("getElementById", id)
	if v.IsNull() {
		return nil
	}
	return &Element{v: v}
}

func (d *Document) CreateElement(tag string) dom.Element {
	return &Element{v: d.doc.Call("createElement", tag)}
}

func (d *Document) CreateTextNode(text string) dom.Text {
	return &Text{v: d.doc.Call("createTextNode", text)}
}

func (d *Document) Selection() dom.Selection {
	return &Selection{v: d.window.Call("getSelection"), doc: d.doc}
}

func (d *Document) RequestAnimationFrame(fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	d.window.Call("requestAnimationFrame", cb)
}

// wrap returns the adapter for a DOM node, or nil for null and for node
// types the contract does not model.
func wrap(v js.Value) dom.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	switch v.Get("nodeType").Int() {
	case elementNode:
		return &Element{v: v}
	case textNode:
		return &Text{v: v}
	}
	return nil
}

func value(n dom.Node) js.Value {
	switch v := n.(type) {
	case *Element:
		return v.v
	case *Text:
		return v.v
	}
	return js.Null()
}

type node struct{ v js.Value }

func (n node) ParentElement() dom.Element {
	p := n.v.Get("parentElement")
	if p.IsNull() {
		return nil
	}
	return &Element{v: p}
}

func (n node) IsConnected() bool { return n.v.Get("isConnected").Bool() }

func (n node) Same(other dom.Node) bool {
	if other == nil {
		return false
	}
	return n.v.Equal(value(other))
}

// Element wraps an HTML element.
type Element struct{ v js.Value }

var (
	_ dom.Element    = (*Element)(nil)
	_ dom.ScrollPort = (*Element)(nil)
)

func (e *Element) Value() js.Value { return e.v }

func (e *Element) ParentElement() dom.Element { return node{e.v}.ParentElement() }
func (e *Element) IsConnected() bool          { return node{e.v}.IsConnected() }
func (e *Element) Same(other dom.Node) bool   { return node{e.v}.Same(other) }

func (e *Element) Tag() string { return strings.ToLower(e.v.Get("tagName").String()) }

func (e *Element) Attr(name string) (string, bool) {
	if !e.v.Call("hasAttribute", name).Bool() {
		return "", false
	}
	return e.v.Call("getAttribute", name).String(), true
}

func (e *Element) SetAttr(name, val string) { e.v.Call("setAttribute", name, val) }

func (e *Element) RemoveAttr(name string) { e.v.Call("removeAttribute", name) }

func (e *Element) AppendChild(child dom.Node) { e.v.Call("appendChild", value(child)) }

func (e *Element) InsertBefore(child, ref dom.Node) {
	r := js.Null()
	if ref != nil {
		r = value(ref)
	}
	e.v.Call("insertBefore", value(child), r)
}

func (e *Element) Remove() { e.v.Call("remove") }

func (e *Element) FirstChild() dom.Node { return wrap(e.v.Get("firstChild")) }

func (e *Element) Children() []dom.Node {
	list := e.v.Get("childNodes")
	n := list.Length()
	out := make([]dom.Node, 0, n)
	for i := 0; i < n; i++ {
		if c := wrap(list.Index(i)); c != nil {
			out = append(out, c)
		}
	}
	return out
}

func (e *Element) SetText(text string) { e.v.Set("textContent", text) }

func (e *Element) TextContent() string { return e.v.Get("textContent").String() }

func (e *Element) Rect() dom.Rect {
	r := e.v.Call("getBoundingClientRect")
	return dom.Rect{
		Top:    r.Get("top").Float(),
		Bottom: r.Get("bottom").Float(),
		Height: r.Get("height").Float(),
	}
}

func (e *Element) ScrollIntoView() { e.v.Call("scrollIntoView") }

func (e *Element) ScrollTop() float64 { return e.v.Get("scrollTop").Float() }

func (e *Element) SetScrollTop(y float64) { e.v.Set("scrollTop", y) }

func (e *Element) ScrollHeight() float64 { return e.v.Get("scrollHeight").Float() }

func (e *Element) ClientHeight() float64 { return e.v.Get("clientHeight").Float() }

// Text wraps a text node.
type Text struct{ v js.Value }

var _ dom.Text = (*Text)(nil)

func (t *Text) ParentElement() dom.Element { return node{t.v}.ParentElement() }
func (t *Text) IsConnected() bool          { return node{t.v}.IsConnected() }
func (t *Text) Same(other dom.Node) bool   { return node{t.v}.Same(other) }

func (t *Text) Data() string { return t.v.Get("data").String() }

func (t *Text) SetData(s string) { t.v.Set("data", s) }

func (t *Text) Len() int { return len([]rune(t.Data())) }

func (t *Text) InsertData(offset int, s string) {
	t.v.Call("insertData", toUTF16(t.Data(), offset), s)
}

func (t *Text) DeleteData(offset, count int) {
	data := t.Data()
	start := toUTF16(data, offset)
	end := toUTF16(data, offset+count)
	t.v.Call("deleteData", start, end-start)
}

// Selection wraps window.getSelection().
type Selection struct {
	v   js.Value
	doc js.Value
}

var _ dom.Selection = (*Selection)(nil)

func (s *Selection) AnchorNode() dom.Node { return wrap(s.v.Get("anchorNode")) }

func (s *Selection) AnchorOffset() int {
	return codePoints(s.v.Get("anchorNode"), s.v.Get("anchorOffset").Int())
}

func (s *Selection) FocusNode() dom.Node { return wrap(s.v.Get("focusNode")) }

func (s *Selection) FocusOffset() int {
	return codePoints(s.v.Get("focusNode"), s.v.Get("focusOffset").Int())
}

func (s *Selection) IsCollapsed() bool { return s.v.Get("isCollapsed").Bool() }

func (s *Selection) RangeCount() int { return s.v.Get("rangeCount").Int() }

func (s *Selection) RemoveAllRanges() { s.v.Call("removeAllRanges") }

func (s *Selection) AddCaret(n dom.Node, offset int) {
	v := value(n)
	if t, ok := n.(*Text); ok {
		offset = toUTF16(t.Data(), offset)
	}
	r := s.doc.Call("createRange")
	r.Call("setStart", v, offset)
	r.Call("collapse", true)
	s.v.Call("addRange", r)
}

func (s *Selection) Modify(alter, direction, granularity string) {
	s.v.Call("modify", alter, direction, granularity)
}

// codePoints converts a browser offset into n to code points. Element
// offsets count child nodes and pass through.
func codePoints(n js.Value, offset int) int {
	if n.IsNull() || n.Get("nodeType").Int() != textNode {
		return offset
	}
	return fromUTF16(n.Get("data").String(), offset)
}
