package memdom

import (
	"testing"

	"github.com/iw2rmb/mdpage/dom"
)

func block(d *Document, typ, text string) *Element {
	e := d.NewElement("div")
	if typ != "" {
		e.SetAttr("type", typ)
	}
	if text != "" {
		e.AppendChild(d.NewText(text))
	}
	return e
}

func TestLayout_StacksBlocks(t *testing.T) {
	d := New(Options{Width: 10, LineHeight: 2, BottomMargins: map[string]float64{"h1": 3}})
	port := d.NewScrollPort(5)
	d.Body().AppendChild(port)
	pageEl := d.NewElement("div")
	port.AppendChild(pageEl)

	a := block(d, "h1", "hello")
	b := block(d, "", "abcdefghijklmnop")
	c := d.NewElement("div")
	c.SetAttr("style", "height: 7px")
	pageEl.AppendChild(a)
	pageEl.AppendChild(b)
	pageEl.AppendChild(c)

	tests := []struct {
		name string
		el   *Element
		want dom.Rect
	}{
		{"heading", a, dom.Rect{Top: 0, Bottom: 2, Height: 2}},
		{"wrapped", b, dom.Rect{Top: 5, Bottom: 9, Height: 4}},
		{"styled", c, dom.Rect{Top: 9, Bottom: 16, Height: 7}},
		{"port", port, dom.Rect{Top: 0, Bottom: 5, Height: 5}},
	}
	for _, tt := range tests {
		if got := tt.el.Rect(); got != tt.want {
			t.Fatalf("%s: rect=%+v, want %+v", tt.name, got, tt.want)
		}
	}
	if got := port.ScrollHeight(); got != 16 {
		t.Fatalf("scroll height=%v, want 16", got)
	}

	port.SetScrollTop(100)
	if got := port.ScrollTop(); got != 11 {
		t.Fatalf("scroll top=%v, want clamped to 11", got)
	}
	if got := b.Rect().Top; got != -6 {
		t.Fatalf("scrolled top=%v, want -6", got)
	}

	c.ScrollIntoView()
	if got := port.ScrollTop(); got != 9 {
		t.Fatalf("scroll top after scrollIntoView=%v, want 9", got)
	}
	if got := c.Rect().Top; got != 0 {
		t.Fatalf("revealed top=%v, want 0", got)
	}
}

func TestLayout_InlineContent(t *testing.T) {
	d := New(Options{Width: 4})
	d.Body().AppendChild(block(d, "", ""))

	el := d.NewElement("div")
	d.Body().AppendChild(el)
	span := d.NewElement("span")
	span.AppendChild(d.NewText("ab"))
	el.AppendChild(span)
	el.AppendChild(d.NewText("c"))
	if got := el.TextContent(); got != "abc" {
		t.Fatalf("text=%q, want abc", got)
	}
	if got := el.Rect().Height; got != 1 {
		t.Fatalf("height=%v, want one line", got)
	}
	if got := span.Rect(); got != el.Rect() {
		t.Fatalf("span rect=%+v, want its block's %+v", got, el.Rect())
	}

	el.SetText("a\n\nb")
	if got := el.Rect().Height; got != 3 {
		t.Fatalf("height=%v, want three lines", got)
	}
	el.SetText("日本語")
	if got := el.Rect().Height; got != 2 {
		t.Fatalf("wide height=%v, want two lines", got)
	}
}

func TestTree_MovesAndConnects(t *testing.T) {
	d := New(Options{})
	a, b := block(d, "", ""), block(d, "", "")
	x, y := d.NewText("x"), d.NewText("y")
	if x.IsConnected() {
		t.Fatalf("fresh text is connected")
	}
	a.AppendChild(x)
	a.AppendChild(y)
	d.Body().AppendChild(a)
	d.Body().AppendChild(b)
	if !x.IsConnected() || !a.IsConnected() {
		t.Fatalf("attached nodes are not connected")
	}

	b.InsertBefore(y, nil)
	b.InsertBefore(x, y)
	if got := a.TextContent(); got != "" {
		t.Fatalf("source text=%q after moves, want empty", got)
	}
	if got := b.TextContent(); got != "xy" {
		t.Fatalf("target text=%q, want xy", got)
	}
	if p := x.ParentElement(); p == nil || !p.Same(b) {
		t.Fatalf("parent of moved node is not its new parent")
	}

	b.Remove()
	if x.IsConnected() {
		t.Fatalf("descendant of a removed element is connected")
	}
	if !d.Body().IsConnected() {
		t.Fatalf("body is not connected")
	}
}

func TestTree_RejectsCycles(t *testing.T) {
	d := New(Options{})
	outer, inner := block(d, "", ""), block(d, "", "")
	outer.AppendChild(inner)
	defer func() {
		if recover() == nil {
			t.Fatalf("inserting an ancestor did not panic")
		}
	}()
	inner.AppendChild(outer)
}

func TestOuterAndQuery(t *testing.T) {
	d := New(Options{})
	el := block(d, "tb", "hi")
	el.SetAttr("data-hash", "abc")
	el.SetAttr("hidden", "")
	el.SetAttr("style", "height: 3px")
	d.Body().AppendChild(el)

	if got, want := el.Outer(), `<div data-hash="abc" hidden type="tb">hi</div>`; got != want {
		t.Fatalf("outer=%s, want %s", got, want)
	}
	if got := d.Body().Query("data-hash", "abc"); got != el {
		t.Fatalf("query returned %v", got)
	}
	if got := d.Body().Query("data-hash", "zzz"); got != nil {
		t.Fatalf("query for a missing value returned %v", got)
	}
	el.RemoveAttr("hidden")
	if _, ok := el.Attr("hidden"); ok {
		t.Fatalf("attribute survived removal")
	}
}

func TestText_EditsInCodePoints(t *testing.T) {
	d := New(Options{})
	tx := d.NewText("héllo")
	if got := tx.Len(); got != 5 {
		t.Fatalf("len=%d, want 5", got)
	}
	tx.InsertData(2, "XY")
	if got := tx.Data(); got != "héXYllo" {
		t.Fatalf("insert: %q", got)
	}
	tx.DeleteData(1, 3)
	if got := tx.Data(); got != "hllo" {
		t.Fatalf("delete: %q", got)
	}
	tx.InsertData(99, "!")
	tx.DeleteData(-5, 4)
	if got := tx.Data(); got != "o!" {
		t.Fatalf("clamped edits: %q", got)
	}
}

func TestSelection_Modify(t *testing.T) {
	d := New(Options{})
	first := block(d, "", "ab")
	second := d.NewElement("div")
	span := d.NewElement("span")
	cd, ef := d.NewText("cd"), d.NewText("ef")
	span.AppendChild(cd)
	second.AppendChild(span)
	second.AppendChild(ef)
	d.Body().AppendChild(first)
	d.Body().AppendChild(second)
	ab := first.FirstChild()

	sel := d.Sel()
	type pos struct {
		node dom.Node
		off  int
	}
	focus := func() pos { return pos{sel.FocusNode(), sel.FocusOffset()} }
	same := func(got, want pos) bool { return got.node.Same(want.node) && got.off == want.off }

	sel.AddCaret(ab, 2)
	steps := []struct {
		direction, granularity string
		want                   pos
	}{
		{"forward", "character", pos{cd, 0}},
		{"forward", "character", pos{cd, 1}},
		{"forward", "character", pos{cd, 2}},
		{"forward", "character", pos{ef, 1}},
		{"backward", "character", pos{ef, 0}},
		{"backward", "character", pos{cd, 1}},
		{"backward", "line", pos{ab, 1}},
		{"forward", "line", pos{cd, 1}},
	}
	for i, s := range steps {
		sel.Modify("move", s.direction, s.granularity)
		if got := focus(); !same(got, s.want) {
			t.Fatalf("step %d (%s %s): focus at %v/%d", i, s.direction, s.granularity, got.node, got.off)
		}
		if !sel.IsCollapsed() {
			t.Fatalf("step %d: move left a range", i)
		}
	}

	sel.Modify("extend", "forward", "character")
	if sel.IsCollapsed() {
		t.Fatalf("extend kept the selection collapsed")
	}
	if !sel.AnchorNode().Same(cd) || sel.AnchorOffset() != 1 {
		t.Fatalf("extend moved the anchor")
	}

	sel.RemoveAllRanges()
	if sel.RangeCount() != 0 || sel.AnchorNode() != nil {
		t.Fatalf("ranges survived RemoveAllRanges")
	}
	sel.Modify("move", "forward", "character")
	if sel.FocusNode() != nil {
		t.Fatalf("modify without a range placed a focus")
	}
}

func TestFlush_RunsNestedFrames(t *testing.T) {
	d := New(Options{})
	var order []int
	d.RequestAnimationFrame(func() {
		order = append(order, 1)
		d.RequestAnimationFrame(func() { order = append(order, 3) })
	})
	d.RequestAnimationFrame(func() { order = append(order, 2) })
	d.RequestAnimationFrame(nil)
	if n := d.Flush(); n != 3 {
		t.Fatalf("flushed %d frames, want 3", n)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("frame order=%v", order)
	}
	if n := d.Flush(); n != 0 {
		t.Fatalf("second flush ran %d frames", n)
	}
}
