package page

// OpKind identifies a structural primitive.
type OpKind uint8

const (
	OpInsert OpKind = iota + 1
	OpRemove
	OpMove
	OpChangeKind
	OpRemoveShell
	OpWrap
	OpSetText
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpChangeKind:
		return "change_kind"
	case OpRemoveShell:
		return "remove_shell"
	case OpWrap:
		return "wrap"
	case OpSetText:
		return "set_text"
	default:
		return "unknown"
	}
}

// Op records one applied primitive with enough information to describe its
// inverse.
type Op struct {
	Kind OpKind

	// Parent is the parent for insert, remove, remove_shell and wrap, and the
	// destination for move.
	Parent string
	// From is the source parent of a move.
	From  string
	Nodes []string
	// Before is the sibling the nodes precede after the op; "" means last.
	Before string
	// FromBefore is the sibling that followed the nodes at the source of a
	// move.
	FromBefore string

	// Shell is the branch block removed or introduced by remove_shell / wrap.
	Shell     string
	ShellKind Kind

	// Subtree is the removed node, kept so the removal can be described as
	// an insertion.
	Subtree *Node

	OldKind, NewKind Kind
	OldText, NewText string
}

// Inverse returns the op that undoes op.
func (op Op) Inverse() Op {
	inv := op
	inv.Nodes = append([]string(nil), op.Nodes...)
	switch op.Kind {
	case OpInsert:
		inv.Kind = OpRemove
	case OpRemove:
		inv.Kind = OpInsert
	case OpMove:
		inv.Parent, inv.From = op.From, op.Parent
		inv.Before, inv.FromBefore = op.FromBefore, op.Before
	case OpChangeKind:
		inv.OldKind, inv.NewKind = op.NewKind, op.OldKind
	case OpRemoveShell:
		inv.Kind = OpWrap
	case OpWrap:
		inv.Kind = OpRemoveShell
	case OpSetText:
		inv.OldText, inv.NewText = op.NewText, op.OldText
	}
	return inv
}

// Change is the list of primitives applied by one edit.
type Change struct {
	VersionBefore uint64
	VersionAfter  uint64
	Ops           []Op
}

// Inverse returns the ops that undo the change, in application order.
func (c Change) Inverse() []Op {
	out := make([]Op, 0, len(c.Ops))
	for i := len(c.Ops) - 1; i >= 0; i-- {
		out = append(out, c.Ops[i].Inverse())
	}
	return out
}

type changeBuilder struct {
	depth         int
	versionBefore uint64
	ops           []Op
}

// Begin opens a change. Primitives applied until the matching Commit are
// collected into one Change. Begin calls nest.
func (d *Doc) Begin() {
	if d.tx == nil {
		d.tx = &changeBuilder{versionBefore: d.version}
	}
	d.tx.depth++
}

// Commit closes the change opened by Begin. It returns the change and true
// when the outermost Commit saw at least one primitive.
func (d *Doc) Commit() (Change, bool) {
	if d.tx == nil {
		return Change{}, false
	}
	d.tx.depth--
	if d.tx.depth > 0 {
		return Change{}, false
	}
	cb := d.tx
	d.tx = nil
	if d.version == cb.versionBefore {
		return Change{}, false
	}
	d.lastChange = Change{
		VersionBefore: cb.versionBefore,
		VersionAfter:  d.version,
		Ops:           cb.ops,
	}
	d.hasLastChange = true
	return cloneChange(d.lastChange), true
}

// LastChange returns the most recent committed change.
func (d *Doc) LastChange() (Change, bool) {
	if !d.hasLastChange {
		return Change{}, false
	}
	return cloneChange(d.lastChange), true
}

func cloneChange(in Change) Change {
	out := in
	out.Ops = append([]Op(nil), in.Ops...)
	return out
}

func (d *Doc) record(op Op) {
	d.version++
	if d.tx != nil {
		d.tx.ops = append(d.tx.ops, op)
		return
	}
	d.lastChange = Change{
		VersionBefore: d.version - 1,
		VersionAfter:  d.version,
		Ops:           []Op{op},
	}
	d.hasLastChange = true
}
