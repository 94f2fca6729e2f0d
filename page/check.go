package page

import (
	"errors"
	"slices"
)

// Check validates the tree invariants and the hash index. All violations are
// joined into the returned error.
func (d *Doc) Check() error {
	var errs []error
	add := func(hash, reason string) {
		errs = append(errs, &StructureError{Hash: hash, Reason: reason})
	}

	if d.root == nil || d.root.Kind != Page {
		add("", "root is not a Page")
		return errors.Join(errs...)
	}
	if d.root.parent != "" {
		add(d.root.Hash, "root has a parent")
	}

	if d.index.Stale() {
		d.Rebuild()
	}

	count := 0
	var walk func(n *Node, path []int)
	walk = func(n *Node, path []int) {
		count++
		if n.Hash == "" {
			add("", n.Kind.String()+" without hash")
		}
		if !n.Kind.Valid() {
			add(n.Hash, "unknown kind")
		}
		if n != d.root && n.Kind == Page {
			add(n.Hash, "nested Page")
		}
		if got, ok := d.index.Node(n.Hash); !ok || got != n {
			add(n.Hash, "missing from index")
		}
		if p, ok := d.index.Path(n.Hash); !ok || !slices.Equal(p, path) {
			add(n.Hash, "indexed at wrong path")
		}

		switch {
		case n.Kind == RawText:
			if len(n.Children) > 0 {
				add(n.Hash, "RawText with children")
			}
			if _, ok := n.Content[TextKey]; !ok {
				add(n.Hash, "RawText without text content")
			}
		case n.Kind.IsLeafBlock() && len(n.Children) == 0:
			add(n.Hash, n.Kind.String()+" without spans")
		case n.Kind.IsSpan() && len(n.Children) == 0:
			add(n.Hash, n.Kind.String()+" without children")
		}

		blocks := acceptsBlocks(n.Kind)
		for i, c := range n.Children {
			if c == nil {
				add(n.Hash, "nil child")
				continue
			}
			if c.Kind.IsBlock() != blocks {
				add(c.Hash, c.Kind.String()+" under "+n.Kind.String())
			}
			if c.parent != n.Hash {
				add(c.Hash, "parent link does not match")
			}
			walk(c, append(path, i))
		}
	}
	walk(d.root, nil)

	if d.index.Len() != count {
		add("", "index holds nodes outside the tree")
	}
	return errors.Join(errs...)
}
