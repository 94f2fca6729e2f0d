package page

import (
	"fmt"
)

// Binder observes structural primitives so a view can keep live elements in
// step with the tree. Removing runs before the model changes; every other
// hook runs after.
type Binder interface {
	Inserted(parent *Node, nodes []*Node)
	Removing(parent, n *Node)
	Moved(dst, src *Node, nodes []*Node)
	KindChanged(n *Node, old Kind)
	ShellRemoved(parent, shell *Node, children []*Node)
	Wrapped(shell *Node)
	TextChanged(n *Node)
}

// NopBinder ignores every notification.
type NopBinder struct{}

func (NopBinder) Inserted(*Node, []*Node)            {}
func (NopBinder) Removing(*Node, *Node)              {}
func (NopBinder) Moved(*Node, *Node, []*Node)        {}
func (NopBinder) KindChanged(*Node, Kind)            {}
func (NopBinder) ShellRemoved(*Node, *Node, []*Node) {}
func (NopBinder) Wrapped(*Node)                      {}
func (NopBinder) TextChanged(*Node)                  {}

// acceptsBlocks reports whether children of k are blocks (as opposed to
// spans).
func acceptsBlocks(k Kind) bool { return k.IsBlock() && k.IsBranch() }

func checkChildren(parent *Node, nodes []*Node) error {
	if parent.Kind == RawText {
		return fmt.Errorf("%w: RawText %s takes no children", ErrMixedChildren, parent.Hash)
	}
	blocks := acceptsBlocks(parent.Kind)
	for _, n := range nodes {
		if n == nil || !n.Kind.Valid() || n.Kind == Page {
			return fmt.Errorf("%w: invalid node under %s", ErrMixedChildren, parent.Kind)
		}
		if n.Kind.IsBlock() != blocks {
			return fmt.Errorf("%w: %s under %s", ErrMixedChildren, n.Kind, parent.Kind)
		}
	}
	return nil
}

func hashOf(n *Node) string {
	if n == nil {
		return ""
	}
	return n.Hash
}

func hashes(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Hash
	}
	return out
}

func (d *Doc) checkFresh(nodes []*Node) error {
	seen := make(map[string]struct{})
	var err error
	for _, n := range nodes {
		n.Walk(func(c *Node) bool {
			if err != nil || c.Hash == "" {
				return err == nil
			}
			if _, dup := seen[c.Hash]; dup || d.index.Has(c.Hash) {
				err = &StructureError{Hash: c.Hash, Reason: "duplicate hash"}
				return false
			}
			seen[c.Hash] = struct{}{}
			return true
		})
	}
	return err
}

// InsertNodes inserts nodes under parent before the child before, or at the
// end when before is nil. Nodes without a hash are issued one.
func (d *Doc) InsertNodes(parent *Node, nodes []*Node, before *Node) error {
	if !d.Contains(parent) {
		return ErrDetached
	}
	if len(nodes) == 0 {
		return nil
	}
	if err := checkChildren(parent, nodes); err != nil {
		return err
	}
	at := len(parent.Children)
	if before != nil {
		if at = parent.indexOf(before); at < 0 {
			return ErrNotChild
		}
	}
	if err := d.checkFresh(nodes); err != nil {
		return err
	}
	for _, n := range nodes {
		if err := d.adopt(n, parent.Hash); err != nil {
			return err
		}
	}
	parent.Children = insertAt(parent.Children, at, nodes)
	d.index.MarkStale()
	d.record(Op{Kind: OpInsert, Parent: parent.Hash, Nodes: hashes(nodes), Before: hashOf(before)})
	d.binder.Inserted(parent, nodes)
	return nil
}

// RemoveChild detaches child and its subtree from parent. The hashes of the
// subtree are never issued again.
func (d *Doc) RemoveChild(parent, child *Node) error {
	if !d.Contains(parent) {
		return ErrDetached
	}
	i := parent.indexOf(child)
	if i < 0 {
		return ErrNotChild
	}
	next := ""
	if i+1 < len(parent.Children) {
		next = parent.Children[i+1].Hash
	}
	d.binder.Removing(parent, child)

	parent.Children = append(parent.Children[:i:i], parent.Children[i+1:]...)
	d.forget(child)
	child.ClearElems()
	d.index.MarkStale()
	d.record(Op{Kind: OpRemove, Parent: parent.Hash, Nodes: []string{child.Hash}, Before: next, Subtree: child})
	return nil
}

// MoveNodes moves sibling nodes, in order, under dst before the child
// before, or to the end when before is nil.
func (d *Doc) MoveNodes(dst *Node, nodes []*Node, before *Node) error {
	if !d.Contains(dst) {
		return ErrDetached
	}
	if len(nodes) == 0 {
		return nil
	}
	if err := checkChildren(dst, nodes); err != nil {
		return err
	}
	src := d.Parent(nodes[0])
	if src == nil {
		return ErrRoot
	}
	moving := make(map[*Node]struct{}, len(nodes))
	for _, n := range nodes {
		if !d.Contains(n) {
			return ErrDetached
		}
		if d.Parent(n) != src {
			return ErrNotSiblings
		}
		if n == dst || d.IsAncestor(n, dst) {
			return ErrCycle
		}
		moving[n] = struct{}{}
	}
	if before != nil {
		if _, ok := moving[before]; ok || dst.indexOf(before) < 0 {
			return ErrNotChild
		}
	}

	fromBefore := ""
	last := src.indexOf(nodes[len(nodes)-1])
	for _, c := range src.Children[last+1:] {
		if _, ok := moving[c]; !ok {
			fromBefore = c.Hash
			break
		}
	}

	kept := src.Children[:0:0]
	for _, c := range src.Children {
		if _, ok := moving[c]; !ok {
			kept = append(kept, c)
		}
	}
	src.Children = kept

	at := len(dst.Children)
	if before != nil {
		at = dst.indexOf(before)
	}
	dst.Children = insertAt(dst.Children, at, nodes)
	for _, n := range nodes {
		n.parent = dst.Hash
	}
	d.index.MarkStale()
	d.record(Op{
		Kind:       OpMove,
		Parent:     dst.Hash,
		From:       src.Hash,
		Nodes:      hashes(nodes),
		Before:     hashOf(before),
		FromBefore: fromBefore,
	})
	d.binder.Moved(dst, src, nodes)
	return nil
}

// ChangeKind retypes a block in place. Leaf blocks stay leaf blocks and
// branch blocks stay branch blocks.
func (d *Doc) ChangeKind(n *Node, kind Kind) error {
	if !d.Contains(n) {
		return ErrDetached
	}
	if n == d.root || kind == Page {
		return ErrRoot
	}
	if !n.Kind.IsBlock() || !kind.IsBlock() {
		return ErrNotBlock
	}
	if n.Kind.IsBranch() != kind.IsBranch() {
		return fmt.Errorf("%w: %s to %s", ErrKindMismatch, n.Kind, kind)
	}
	if n.Kind == kind {
		return nil
	}
	old := n.Kind
	n.Kind = kind
	d.record(Op{Kind: OpChangeKind, Nodes: []string{n.Hash}, OldKind: old, NewKind: kind})
	d.binder.KindChanged(n, old)
	return nil
}

// RemoveThisBlockShell replaces a branch block by its children.
func (d *Doc) RemoveThisBlockShell(n *Node) error {
	if !d.Contains(n) {
		return ErrDetached
	}
	if n == d.root {
		return ErrRoot
	}
	if !n.Kind.IsBlock() || !n.Kind.IsBranch() {
		return ErrNotBranch
	}
	parent := d.Parent(n)
	i := parent.indexOf(n)
	next := ""
	if i+1 < len(parent.Children) {
		next = parent.Children[i+1].Hash
	}
	children := n.Children
	spliced := make([]*Node, 0, len(parent.Children)-1+len(children))
	spliced = append(spliced, parent.Children[:i]...)
	spliced = append(spliced, children...)
	spliced = append(spliced, parent.Children[i+1:]...)
	parent.Children = spliced
	for _, c := range children {
		c.parent = parent.Hash
	}
	n.Children = nil
	d.forget(n)
	d.index.MarkStale()
	d.record(Op{
		Kind:      OpRemoveShell,
		Parent:    parent.Hash,
		Shell:     n.Hash,
		ShellKind: n.Kind,
		Nodes:     hashes(children),
		Before:    next,
	})
	d.binder.ShellRemoved(parent, n, children)
	return nil
}

// WrapBlock puts consecutive sibling blocks inside a new branch block of the
// given kind and returns it.
func (d *Doc) WrapBlock(kind Kind, blocks ...*Node) (*Node, error) {
	return d.wrap(kind, "", blocks)
}

// wrap is WrapBlock with a chosen shell hash; "" issues a fresh one.
func (d *Doc) wrap(kind Kind, hash string, blocks []*Node) (*Node, error) {
	if len(blocks) == 0 {
		return nil, ErrNotChild
	}
	if !kind.IsBlock() || !kind.IsBranch() || kind == Page {
		return nil, ErrNotBranch
	}
	for _, b := range blocks {
		if !d.Contains(b) {
			return nil, ErrDetached
		}
		if b == d.root {
			return nil, ErrRoot
		}
	}
	parent := d.Parent(blocks[0])
	i := parent.indexOf(blocks[0])
	for j, b := range blocks {
		if i+j >= len(parent.Children) || parent.Children[i+j] != b {
			return nil, ErrNotSiblings
		}
	}
	if err := checkChildren(parent, blocks); err != nil {
		return nil, err
	}

	var shell *Node
	if hash == "" {
		var err error
		if shell, err = d.NewNode(kind); err != nil {
			return nil, err
		}
	} else {
		if d.index.Has(hash) {
			return nil, &StructureError{Hash: hash, Reason: "duplicate hash"}
		}
		d.issuer.Reserve(hash)
		shell = &Node{Hash: hash, Kind: kind}
	}
	end := i + len(blocks)
	next := ""
	if end < len(parent.Children) {
		next = parent.Children[end].Hash
	}
	shell.Children = append([]*Node(nil), blocks...)
	shell.parent = parent.Hash
	d.index.bind(shell)
	for _, b := range blocks {
		b.parent = shell.Hash
	}
	spliced := make([]*Node, 0, len(parent.Children)-len(blocks)+1)
	spliced = append(spliced, parent.Children[:i]...)
	spliced = append(spliced, shell)
	spliced = append(spliced, parent.Children[end:]...)
	parent.Children = spliced

	d.index.MarkStale()
	d.record(Op{
		Kind:      OpWrap,
		Parent:    parent.Hash,
		Shell:     shell.Hash,
		ShellKind: kind,
		Nodes:     hashes(blocks),
		Before:    next,
	})
	d.binder.Wrapped(shell)
	return shell, nil
}

// SetText replaces content["text"] of a RawText node.
func (d *Doc) SetText(n *Node, text string) error {
	if n == nil || n.Kind != RawText {
		return ErrNotText
	}
	if !d.Contains(n) {
		return ErrDetached
	}
	old := n.Text()
	if old == text {
		return nil
	}
	n.setText(text)
	d.record(Op{Kind: OpSetText, Nodes: []string{n.Hash}, OldText: old, NewText: text})
	d.binder.TextChanged(n)
	return nil
}

func insertAt(list []*Node, at int, nodes []*Node) []*Node {
	out := make([]*Node, 0, len(list)+len(nodes))
	out = append(out, list[:at]...)
	out = append(out, nodes...)
	out = append(out, list[at:]...)
	return out
}
