package view

import (
	"errors"
	"fmt"
	"math"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
)

// padEpsilon bounds the accumulated measurement error tolerated by Check.
const padEpsilon = 0.5

// Check verifies the attachment invariants: every element reference is
// connected and carries its node's hash and type, the boundaries are
// attached leaf blocks with attached ancestors, the attached leaf blocks are
// exactly the run from top to bot, element order matches model order, and
// the spacers account for every virtualized leaf block.
func (e *Engine) Check() error {
	var errs []error
	add := func(hash, format string, args ...any) {
		errs = append(errs, &page.StructureError{Hash: hash, Reason: fmt.Sprintf(format, args...)})
	}

	e.doc.Root().Walk(func(n *page.Node) bool {
		if n.Elem == nil {
			return true
		}
		if !n.Elem.IsConnected() {
			add(n.Hash, "element not connected")
		}
		if h, _ := n.Elem.Attr(render.AttrHash); h != n.Hash {
			add(n.Hash, "element hash %q", h)
		}
		want := n.Kind.Token()
		if !n.Kind.Valid() {
			want = render.TypeError
		}
		if t, _ := n.Elem.Attr(render.AttrType); t != want {
			add(n.Hash, "element type %q, want %q", t, want)
		}
		if p := e.doc.Parent(n); p != nil {
			if p.Elem == nil {
				add(n.Hash, "attached under unattached parent")
			} else if parentEl := n.Elem.ParentElement(); parentEl == nil || !parentEl.Same(p.Elem) {
				add(n.Hash, "element outside its parent's element")
			}
		}
		return true
	})

	all := e.doc.LeafBlocks()
	if len(all) == 0 {
		return errors.Join(errs...)
	}
	if e.top == nil || e.bot == nil {
		add("", "no boundaries")
		return errors.Join(errs...)
	}
	for _, b := range []*page.Node{e.top, e.bot} {
		if !b.Kind.IsLeafBlock() || b.Elem == nil {
			add(b.Hash, "boundary not an attached leaf block")
		}
	}

	ti, bi := indexOf(all, e.top), indexOf(all, e.bot)
	if ti < 0 || bi < 0 || ti > bi {
		add("", "boundaries out of order (%d, %d)", ti, bi)
		return errors.Join(errs...)
	}
	var top, bot float64
	measured := true
	for i, l := range all {
		inside := i >= ti && i <= bi
		if inside != (l.Elem != nil) {
			add(l.Hash, "attached=%v, inside window=%v", l.Elem != nil, inside)
		}
		if l.Height == 0 {
			measured = false
		}
		switch {
		case i < ti:
			top += e.unit(l)
		case i > bi:
			bot += e.unit(l)
		}
	}
	if measured {
		if math.Abs(top-e.topPad) > padEpsilon {
			add("", "top pad %v, want %v", e.topPad, top)
		}
		if math.Abs(bot-e.botPad) > padEpsilon {
			add("", "bottom pad %v, want %v", e.botPad, bot)
		}
	}

	if err := e.checkOrder(e.doc.Root()); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// checkOrder verifies that the attached children of n appear in the element
// of n in model order.
func (e *Engine) checkOrder(n *page.Node) error {
	if n.Elem == nil {
		return nil
	}
	var want []dom.Element
	for _, c := range n.Children {
		if c.Elem != nil && c.Kind.Valid() {
			want = append(want, c.Elem)
		}
	}
	var got []dom.Node
	for _, c := range n.Elem.Children() {
		el, ok := c.(dom.Element)
		if !ok {
			continue
		}
		if t, _ := el.Attr(render.AttrType); t == render.TypeError {
			continue
		}
		got = append(got, c)
	}
	if n.Kind != page.RawText {
		if len(got) != len(want) {
			return &page.StructureError{Hash: n.Hash, Reason: fmt.Sprintf("%d child elements, want %d", len(got), len(want))}
		}
		for i := range want {
			if !want[i].Same(got[i]) {
				return &page.StructureError{Hash: n.Hash, Reason: fmt.Sprintf("child element %d out of order", i)}
			}
		}
	}
	for _, c := range n.Children {
		if err := e.checkOrder(c); err != nil {
			return err
		}
	}
	return nil
}

func indexOf(list []*page.Node, n *page.Node) int {
	for i, l := range list {
		if l == n {
			return i
		}
	}
	return -1
}
