package view

import (
	"github.com/iw2rmb/mdpage/page"
)

// attach gives leaf a live element, materializing any unattached ancestors
// as a stub chain, and measures it. Pads and boundaries are the caller's.
func (e *Engine) attach(leaf *page.Node) {
	if leaf.Elem != nil {
		return
	}
	chain := []*page.Node{leaf}
	p := e.doc.Parent(leaf)
	for p != nil && p.Elem == nil {
		chain = append(chain, p)
		p = e.doc.Parent(p)
	}
	if p == nil {
		e.log.Error().Str("hash", leaf.Hash).Msg("attach: no attached ancestor")
		return
	}

	e.factory.Mount(leaf)
	for i := 1; i < len(chain); i++ {
		el := e.factory.Shell(chain[i])
		el.AppendChild(chain[i-1].Elem)
	}
	e.place(p, chain[len(chain)-1])
	for _, anc := range chain[1:] {
		e.attachEmpty(anc)
	}
	for _, n := range chain {
		e.showMark(n)
	}
	leaf.Height = leaf.Elem.Rect().Height
}

// attachEmpty mounts the children of an attached block that hold no leaf
// block.
func (e *Engine) attachEmpty(parent *page.Node) {
	for _, c := range parent.Children {
		if c.Elem == nil && (isEmptyBranch(c) || !c.Kind.Valid()) {
			e.factory.Mount(c)
			e.place(parent, c)
		}
	}
}

// place inserts the element of n into its parent's element, before the
// element of the next attached sibling and its mark.
func (e *Engine) place(parent, n *page.Node) {
	i := page.IndexOf(parent, n)
	for _, sib := range parent.Children[i+1:] {
		if sib.Elem != nil && sib.Elem.IsConnected() {
			ref := sib.Elem
			if m := e.marks[sib.Hash]; m != nil && m.el != nil && m.el.IsConnected() {
				ref = m.el
			}
			parent.Elem.InsertBefore(n.Elem, ref)
			return
		}
	}
	parent.Elem.AppendChild(n.Elem)
}

// detach refreshes the height of leaf, removes its element and virtualizes
// every ancestor left without an attached child.
func (e *Engine) detach(leaf *page.Node) {
	if leaf.Elem == nil {
		return
	}
	leaf.Height = leaf.Elem.Rect().Height
	parent := e.doc.Parent(leaf)
	e.hideMark(leaf)
	leaf.Elem.Remove()
	leaf.ClearElems()
	e.prune(parent, nil)
}

// prune walks up from p detaching branch blocks that hold leaf blocks but no
// attached one. gone is a child of p that is being removed from the model; a
// block left without leaf blocks by that removal stays attached, like every
// empty branch block under an attached parent.
func (e *Engine) prune(p, gone *page.Node) {
	root := e.doc.Root()
	for p != nil && p != root && p.Elem != nil && p.Kind.IsBranch() && p.Kind.IsBlock() {
		others, attached := false, false
		for _, c := range p.Children {
			if c == gone || isEmptyBranch(c) || !c.Kind.Valid() {
				continue
			}
			others = true
			if c.Elem != nil {
				attached = true
				break
			}
		}
		if attached || !others {
			return
		}
		parent := e.doc.Parent(p)
		e.hideMark(p)
		p.Elem.Remove()
		p.ClearElems()
		gone = nil
		p = parent
	}
}

// measure attaches an unattached leaf just long enough to learn its height.
func (e *Engine) measure(leaf *page.Node) {
	if leaf.Elem != nil {
		leaf.Height = leaf.Elem.Rect().Height
		return
	}
	e.attach(leaf)
	e.detach(leaf)
}

// leaves returns the leaf blocks at or under n in document order.
func leaves(n *page.Node) []*page.Node {
	var out []*page.Node
	n.Walk(func(c *page.Node) bool {
		if c.Kind.IsLeafBlock() {
			out = append(out, c)
			return false
		}
		return c.Kind.IsBlock()
	})
	return out
}

func isEmptyBranch(n *page.Node) bool {
	return n.Kind.IsBlock() && n.Kind.IsBranch() && len(leaves(n)) == 0
}

func (e *Engine) contains(n, leaf *page.Node) bool {
	return n == leaf || e.doc.IsAncestor(n, leaf)
}

// padFor returns the spacer a virtualized leaf belongs to.
func (e *Engine) padFor(leaf *page.Node) *float64 {
	if e.top != nil && e.doc.Before(leaf, e.top) {
		return &e.topPad
	}
	return &e.botPad
}
