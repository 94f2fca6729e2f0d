package view

import (
	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
)

// Inserted attaches inserted nodes when their parent is attached and they
// land inside or next to the window. Other inserted leaf blocks are measured
// and added to the spacer on their side.
func (e *Engine) Inserted(parent *page.Node, nodes []*page.Node) {
	if !e.ready {
		return
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		switch {
		case !n.Kind.IsBlock():
			if parent.Elem != nil {
				e.factory.Mount(n)
				e.place(parent, n)
			}
		case isEmptyBranch(n):
			if parent.Elem != nil {
				e.factory.Mount(n)
				e.place(parent, n)
			}
		default:
			e.insertBlock(parent, n)
		}
	}
}

func (e *Engine) insertBlock(parent, n *page.Node) {
	ls := leaves(n)
	first, last := ls[0], ls[len(ls)-1]
	if e.top == nil {
		e.factory.Mount(n)
		e.attachChain(parent, n)
		e.top, e.bot = first, last
		e.measureAll(ls)
		return
	}
	prev := e.doc.PrevBlockLeaf(first)
	next := e.doc.NextBlockLeaf(last)
	adjacent := (prev != nil && prev.Elem != nil) || (next != nil && next.Elem != nil)
	if !adjacent {
		e.virtualize(ls)
		return
	}
	e.factory.Mount(n)
	e.attachChain(parent, n)
	e.measureAll(ls)
	if prev == e.bot {
		e.bot = last
	}
	if next == e.top {
		e.top = first
	}
}

// attachChain places the mounted n under parent, materializing parent's
// unattached ancestors first.
func (e *Engine) attachChain(parent, n *page.Node) {
	chain := []*page.Node{n}
	p := parent
	for p != nil && p.Elem == nil {
		chain = append(chain, p)
		p = e.doc.Parent(p)
	}
	for i := 1; i < len(chain); i++ {
		el := e.factory.Shell(chain[i])
		el.AppendChild(chain[i-1].Elem)
	}
	e.place(p, chain[len(chain)-1])
	for _, anc := range chain[1:] {
		e.attachEmpty(anc)
	}
}

func (e *Engine) measureAll(ls []*page.Node) {
	for _, l := range ls {
		l.Height = l.Elem.Rect().Height
	}
}

func (e *Engine) virtualize(ls []*page.Node) {
	for _, l := range ls {
		e.measure(l)
		*e.padFor(l) += e.unit(l)
	}
	e.syncPads()
}

// Removing runs before n leaves the tree: boundaries inside n move to the
// nearest surviving attached leaf, virtualized leaves leave their spacer and
// the element of n is removed.
func (e *Engine) Removing(parent, n *page.Node) {
	if !e.ready {
		return
	}
	if !n.Kind.IsBlock() {
		if n.Elem != nil {
			n.Elem.Remove()
			n.ClearElems()
		}
		return
	}

	ls := leaves(n)
	for _, l := range ls {
		if l.Elem == nil {
			*e.padFor(l) -= e.unit(l)
		}
	}
	if len(ls) > 0 && e.top != nil {
		first, last := ls[0], ls[len(ls)-1]
		topIn, botIn := e.contains(n, e.top), e.contains(n, e.bot)
		switch {
		case topIn && botIn:
			if next := e.doc.NextBlockLeaf(last); next != nil {
				e.botPad -= e.unit(next)
				e.attach(next)
				e.top, e.bot = next, next
			} else if prev := e.doc.PrevBlockLeaf(first); prev != nil {
				e.topPad -= e.unit(prev)
				e.attach(prev)
				e.top, e.bot = prev, prev
			} else {
				e.top, e.bot = nil, nil
			}
		case topIn:
			e.top = e.doc.NextBlockLeaf(last)
		case botIn:
			e.bot = e.doc.PrevBlockLeaf(first)
		}
	}

	n.Walk(func(c *page.Node) bool {
		if m := e.marks[c.Hash]; m != nil {
			m.hide()
			delete(e.marks, c.Hash)
		}
		return c.Kind.IsBranch()
	})
	if n.Elem != nil {
		n.Elem.Remove()
		n.ClearElems()
		e.prune(parent, n)
	}
	e.syncPads()
}

// Moved follows moved nodes into their new parent. Nodes moved under an
// unattached parent lose their elements and the window is recomputed on the
// next reconciliation.
func (e *Engine) Moved(dst, src *page.Node, nodes []*page.Node) {
	if !e.ready {
		return
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		n := nodes[i]
		switch {
		case dst.Elem == nil:
			if n.Elem != nil {
				n.Elem.Remove()
				n.ClearElems()
				e.dirty = true
			}
		case n.Elem != nil:
			e.place(dst, n)
		case !n.Kind.IsBlock() || isEmptyBranch(n):
			e.factory.Mount(n)
			e.place(dst, n)
		}
	}
	e.prune(src, nil)
	e.syncMarks()
}

// KindChanged retypes the element in place. A virtualized block's spacer
// share follows the change of innate height.
func (e *Engine) KindChanged(n *page.Node, old page.Kind) {
	if !e.ready {
		return
	}
	if n.Elem != nil {
		n.Elem.SetAttr(render.AttrType, n.Kind.Token())
		return
	}
	if n.Kind.IsLeafBlock() && e.top != nil {
		*e.padFor(n) += e.Innate(n.Kind) - e.Innate(old)
		e.syncPads()
	}
}

// ShellRemoved moves the children's elements to where the shell was and
// removes the shell element.
func (e *Engine) ShellRemoved(parent, shell *page.Node, children []*page.Node) {
	if !e.ready {
		return
	}
	if shell.Elem != nil {
		if parent.Elem != nil {
			for _, c := range children {
				if c.Elem != nil {
					parent.Elem.InsertBefore(c.Elem, shell.Elem)
				}
			}
		}
		shell.Elem.Remove()
		shell.Elem = nil
	}
	if parent.Elem != nil {
		e.attachEmpty(parent)
	}
	e.syncMarks()
}

// Wrapped builds the element of a new shell around its attached children.
func (e *Engine) Wrapped(shell *page.Node) {
	if !e.ready {
		return
	}
	parent := e.doc.Parent(shell)
	if parent == nil || parent.Elem == nil {
		return
	}
	var first *page.Node
	for _, c := range shell.Children {
		if c.Elem != nil {
			first = c
			break
		}
	}
	if first == nil {
		if isEmptyBranch(shell) {
			e.factory.Mount(shell)
			e.place(parent, shell)
		}
		return
	}
	el := e.factory.Shell(shell)
	parent.Elem.InsertBefore(el, first.Elem)
	for _, c := range shell.Children {
		if c.Elem != nil {
			el.AppendChild(c.Elem)
		}
	}
	e.syncMarks()
}

// TextChanged mirrors the RawText content into its text node.
func (e *Engine) TextChanged(n *page.Node) {
	if n.Elem == nil {
		return
	}
	if tn, ok := render.TextNode(n.Elem); ok {
		writeText(tn, n.Text())
		return
	}
	n.Elem.SetText(n.Text())
}

// writeText edits tn to hold s. A change that is a single insertion or a
// single deletion is applied as one, anything else replaces the data.
func writeText(tn dom.Text, s string) {
	old, cur := []rune(tn.Data()), []rune(s)
	if string(old) == s {
		return
	}
	p := 0
	for p < len(old) && p < len(cur) && old[p] == cur[p] {
		p++
	}
	q := 0
	for q < len(old)-p && q < len(cur)-p && old[len(old)-1-q] == cur[len(cur)-1-q] {
		q++
	}
	switch {
	case p+q == len(old):
		tn.InsertData(p, string(cur[p:len(cur)-q]))
	case p+q == len(cur):
		tn.DeleteData(p, len(old)-len(cur))
	default:
		tn.SetData(s)
	}
}
