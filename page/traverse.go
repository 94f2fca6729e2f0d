package page

// IndexOf returns the position of child under parent, or -1.
func IndexOf(parent, child *Node) int {
	if parent == nil {
		return -1
	}
	return parent.indexOf(child)
}

// PrevChild returns the sibling before child, or nil.
func PrevChild(parent, child *Node) *Node {
	i := IndexOf(parent, child)
	if i <= 0 {
		return nil
	}
	return parent.Children[i-1]
}

// NextChild returns the sibling after child, or nil.
func NextChild(parent, child *Node) *Node {
	i := IndexOf(parent, child)
	if i < 0 || i+1 >= len(parent.Children) {
		return nil
	}
	return parent.Children[i+1]
}

func IsFirstChild(parent, child *Node) bool { return IndexOf(parent, child) == 0 }

func IsLastChild(parent, child *Node) bool {
	return parent != nil && len(parent.Children) > 0 && parent.Children[len(parent.Children)-1] == child
}

// FirstLeafBlock returns the first leaf block at or under n, or nil when n
// holds none.
func FirstLeafBlock(n *Node) *Node {
	if n == nil || !n.Kind.IsBlock() {
		return nil
	}
	if n.Kind.IsLeafBlock() {
		return n
	}
	for _, c := range n.Children {
		if leaf := FirstLeafBlock(c); leaf != nil {
			return leaf
		}
	}
	return nil
}

// LastLeafBlock returns the last leaf block at or under n, or nil.
func LastLeafBlock(n *Node) *Node {
	if n == nil || !n.Kind.IsBlock() {
		return nil
	}
	if n.Kind.IsLeafBlock() {
		return n
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if leaf := LastLeafBlock(n.Children[i]); leaf != nil {
			return leaf
		}
	}
	return nil
}

// FirstText returns the first RawText at or under n.
func FirstText(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == RawText {
		return n
	}
	for _, c := range n.Children {
		if t := FirstText(c); t != nil {
			return t
		}
	}
	return nil
}

// LastText returns the last RawText at or under n.
func LastText(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == RawText {
		return n
	}
	for i := len(n.Children) - 1; i >= 0; i-- {
		if t := LastText(n.Children[i]); t != nil {
			return t
		}
	}
	return nil
}

// Texts returns the RawText nodes under n in document order.
func Texts(n *Node) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Kind == RawText {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Block returns the nearest block at or above n.
func (d *Doc) Block(n *Node) *Node {
	for n != nil && !n.Kind.IsBlock() {
		n = d.Parent(n)
	}
	return n
}

// IsAncestor reports whether a is a proper ancestor of n.
func (d *Doc) IsAncestor(a, n *Node) bool {
	for p := d.Parent(n); p != nil; p = d.Parent(p) {
		if p == a {
			return true
		}
	}
	return false
}

// Ancestors returns the ancestors of n from its parent up to the root.
func (d *Doc) Ancestors(n *Node) []*Node {
	var out []*Node
	for p := d.Parent(n); p != nil; p = d.Parent(p) {
		out = append(out, p)
	}
	return out
}

// NextBlockLeaf returns the leaf block that follows the block containing n
// in document order, or nil at the end of the page.
func (d *Doc) NextBlockLeaf(n *Node) *Node {
	cur := d.Block(n)
	for cur != nil {
		parent := d.Parent(cur)
		if parent == nil {
			return nil
		}
		for sib := NextChild(parent, cur); sib != nil; sib = NextChild(parent, sib) {
			if leaf := FirstLeafBlock(sib); leaf != nil {
				return leaf
			}
		}
		cur = parent
	}
	return nil
}

// PrevBlockLeaf returns the leaf block that precedes the block containing n
// in document order, or nil at the start of the page.
func (d *Doc) PrevBlockLeaf(n *Node) *Node {
	cur := d.Block(n)
	for cur != nil {
		parent := d.Parent(cur)
		if parent == nil {
			return nil
		}
		for sib := PrevChild(parent, cur); sib != nil; sib = PrevChild(parent, sib) {
			if leaf := LastLeafBlock(sib); leaf != nil {
				return leaf
			}
		}
		cur = parent
	}
	return nil
}

// LeafBlocks returns every leaf block in document order.
func (d *Doc) LeafBlocks() []*Node {
	var out []*Node
	d.root.Walk(func(n *Node) bool {
		if n.Kind.IsLeafBlock() {
			out = append(out, n)
			return false
		}
		return n.Kind.IsBlock()
	})
	return out
}

// Before reports whether a precedes b in document order.
func (d *Doc) Before(a, b *Node) bool {
	pa, okA := d.Path(a.Hash)
	pb, okB := d.Path(b.Hash)
	if !okA || !okB {
		return false
	}
	return ComparePaths(pa, pb) < 0
}
