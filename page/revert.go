package page

import (
	"fmt"
)

// Revert applies the inverse of c, newest op first, as one change. Nodes
// restored by the inversion keep their hashes.
func (d *Doc) Revert(c Change) error {
	d.Begin()
	defer d.Commit()
	for _, op := range c.Inverse() {
		if err := d.applyInverse(op); err != nil {
			return fmt.Errorf("revert %s: %w", op.Kind, err)
		}
	}
	return nil
}

// applyInverse applies an op produced by Op.Inverse.
func (d *Doc) applyInverse(op Op) error {
	switch op.Kind {
	case OpInsert:
		parent, err := d.lookup(op.Parent)
		if err != nil {
			return err
		}
		if op.Subtree == nil {
			return fmt.Errorf("%w: insert without subtree", ErrDetached)
		}
		return d.InsertNodes(parent, []*Node{op.Subtree}, d.optional(op.Before))
	case OpRemove:
		parent, err := d.lookup(op.Parent)
		if err != nil {
			return err
		}
		nodes, err := d.lookupAll(op.Nodes)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			if err := d.RemoveChild(parent, n); err != nil {
				return err
			}
		}
		return nil
	case OpMove:
		dst, err := d.lookup(op.Parent)
		if err != nil {
			return err
		}
		nodes, err := d.lookupAll(op.Nodes)
		if err != nil {
			return err
		}
		return d.MoveNodes(dst, nodes, d.optional(op.Before))
	case OpChangeKind, OpSetText:
		if len(op.Nodes) != 1 {
			return fmt.Errorf("%w: %s names %d nodes", ErrNotChild, op.Kind, len(op.Nodes))
		}
		n, err := d.lookup(op.Nodes[0])
		if err != nil {
			return err
		}
		if op.Kind == OpSetText {
			return d.SetText(n, op.NewText)
		}
		return d.ChangeKind(n, op.NewKind)
	case OpWrap:
		blocks, err := d.lookupAll(op.Nodes)
		if err != nil {
			return err
		}
		_, err = d.wrap(op.ShellKind, op.Shell, blocks)
		return err
	case OpRemoveShell:
		shell, err := d.lookup(op.Shell)
		if err != nil {
			return err
		}
		return d.RemoveThisBlockShell(shell)
	default:
		return fmt.Errorf("unknown op %d", op.Kind)
	}
}

func (d *Doc) lookup(hash string) (*Node, error) {
	n, ok := d.Node(hash)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDetached, hash)
	}
	return n, nil
}

func (d *Doc) lookupAll(hashes []string) ([]*Node, error) {
	out := make([]*Node, 0, len(hashes))
	for _, h := range hashes {
		n, err := d.lookup(h)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (d *Doc) optional(hash string) *Node {
	if hash == "" {
		return nil
	}
	n, _ := d.Node(hash)
	return n
}
