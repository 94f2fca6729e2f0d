package page

import (
	"errors"
	"math/rand"
	"slices"
	"strings"
	"testing"
)

func mustDoc(t *testing.T, outline string) *Doc {
	t.Helper()
	root, err := ParseOutline(outline)
	if err != nil {
		t.Fatalf("parse outline: %v", err)
	}
	d, err := New(root, Options{})
	if err != nil {
		t.Fatalf("new doc: %v", err)
	}
	if err := d.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	return d
}

func leaf(t *testing.T, d *Doc, i int) *Node {
	t.Helper()
	leaves := d.LeafBlocks()
	if i >= len(leaves) {
		t.Fatalf("leaf %d out of %d", i, len(leaves))
	}
	return leaves[i]
}

type recorder struct {
	NopBinder
	calls []string
}

func (r *recorder) Inserted(p *Node, ns []*Node) {
	r.calls = append(r.calls, "inserted "+p.Kind.String())
}

func (r *recorder) Removing(p, n *Node) {
	r.calls = append(r.calls, "removing "+n.Kind.String())
}

func (r *recorder) Moved(dst, src *Node, ns []*Node) {
	r.calls = append(r.calls, "moved "+src.Kind.String()+">"+dst.Kind.String())
}

func (r *recorder) ShellRemoved(p, shell *Node, cs []*Node) {
	r.calls = append(r.calls, "shell "+shell.Kind.String())
}

func (r *recorder) Wrapped(shell *Node) {
	r.calls = append(r.calls, "wrapped "+shell.Kind.String())
}

func (r *recorder) TextChanged(n *Node) {
	r.calls = append(r.calls, "text "+n.Text())
}

func TestNew_AssignsHashesAndIndexes(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")], Quote[TextBlock[Bold[RawText("b")]]]]`)

	if got, want := Outline(d.Root()), `Page[TextBlock[RawText("a")], Quote[TextBlock[Bold[RawText("b")]]]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if got, want := d.Index().Len(), 7; got != want {
		t.Fatalf("index len=%d, want %d", got, want)
	}
	d.Root().Walk(func(n *Node) bool {
		if len(n.Hash) != 4 {
			t.Fatalf("hash %q len=%d, want 4", n.Hash, len(n.Hash))
		}
		return true
	})
	b := FirstText(d.Root().Children[1])
	p, ok := d.Path(b.Hash)
	if !ok || !slices.Equal(p, []int{1, 0, 0, 0}) {
		t.Fatalf("path=%v,%v, want [1 0 0 0]", p, ok)
	}
	if got := d.Parent(b); got == nil || got.Kind != Bold {
		t.Fatalf("parent=%v, want Bold", got)
	}
}

func TestNew_RejectsNonPageRoot(t *testing.T) {
	root, err := ParseOutline(`TextBlock[RawText("a")]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := New(root, Options{}); !errors.Is(err, ErrRoot) {
		t.Fatalf("err=%v, want %v", err, ErrRoot)
	}
}

func TestNew_LoadsBrokenTreesForCheck(t *testing.T) {
	cases := []struct {
		outline string
		reason  string
	}{
		{`Page[TextBlock]`, "TextBlock without spans"},
		{`Page[TextBlock[TextBlock[RawText("a")]]]`, "TextBlock under TextBlock"},
		{`Page[RawText("a")]`, "RawText under Page"},
		{`Page[TextBlock[Bold]]`, "Bold without children"},
	}
	for _, tc := range cases {
		root, err := ParseOutline(tc.outline)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.outline, err)
		}
		d, err := New(root, Options{})
		if err != nil {
			t.Fatalf("%s: new: %v", tc.outline, err)
		}
		err = d.Check()
		var se *StructureError
		if !errors.As(err, &se) || !strings.Contains(err.Error(), tc.reason) {
			t.Fatalf("%s: check=%v, want %q", tc.outline, err, tc.reason)
		}
		if got := d.Index().Len(); got != countNodes(d.Root()) {
			t.Fatalf("%s: index len=%d, want every node", tc.outline, got)
		}
	}
}

func TestNew_UnknownKindIsReported(t *testing.T) {
	odd := &Node{Kind: Unknown, Foreign: "zz"}
	root := NewNode(Page, NewNode(TextBlock, NewText("a")), odd, NewNode(TextBlock, NewText("b")))
	d, err := New(root, Options{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := len(d.LeafBlocks()); got != 2 {
		t.Fatalf("leaf blocks=%d, want 2", got)
	}
	if got, ok := d.Node(odd.Hash); !ok || got != odd {
		t.Fatalf("unknown node not indexed")
	}
	if err := d.Check(); err == nil || !strings.Contains(err.Error(), "unknown kind") {
		t.Fatalf("check=%v, want an unknown kind report", err)
	}
}

func countNodes(n *Node) int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

func TestNew_DuplicateHash(t *testing.T) {
	a := NewText("a")
	a.Hash = "AAAA"
	b := NewText("b")
	b.Hash = "AAAA"
	root := NewNode(Page, NewNode(TextBlock, a), NewNode(TextBlock, b))
	var se *StructureError
	if _, err := New(root, Options{}); !errors.As(err, &se) {
		t.Fatalf("err=%v, want StructureError", err)
	}
}

func TestInsertNodes(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")], TextBlock[RawText("c")]]`)
	rec := &recorder{}
	d.Bind(rec)

	nb := NewNode(TextBlock, NewText("b"))
	if err := d.InsertNodes(d.Root(), []*Node{nb}, leaf(t, d, 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got, want := Outline(d.Root()), `Page[TextBlock[RawText("a")], TextBlock[RawText("b")], TextBlock[RawText("c")]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if nb.Hash == "" {
		t.Fatalf("expected inserted node to get a hash")
	}
	if !d.Index().Stale() {
		t.Fatalf("expected stale index after insert")
	}
	if p, ok := d.Path(nb.Hash); !ok || !slices.Equal(p, []int{1}) {
		t.Fatalf("path=%v,%v, want [1]", p, ok)
	}
	if got, want := rec.calls, []string{"inserted Page"}; !slices.Equal(got, want) {
		t.Fatalf("calls=%v, want %v", got, want)
	}
	if err := d.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestInsertNodes_RejectsMixedChildren(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")]]`)
	tb := leaf(t, d, 0)

	if err := d.InsertNodes(d.Root(), []*Node{NewText("x")}, nil); !errors.Is(err, ErrMixedChildren) {
		t.Fatalf("span under page: err=%v", err)
	}
	if err := d.InsertNodes(tb, []*Node{NewNode(TextBlock, NewText("x"))}, nil); !errors.Is(err, ErrMixedChildren) {
		t.Fatalf("block under leaf block: err=%v", err)
	}
	if err := d.InsertNodes(tb.Children[0], []*Node{NewText("x")}, nil); !errors.Is(err, ErrMixedChildren) {
		t.Fatalf("child under RawText: err=%v", err)
	}
	if err := d.InsertNodes(tb, []*Node{NewText("x")}, d.Root()); !errors.Is(err, ErrNotChild) {
		t.Fatalf("foreign before: err=%v", err)
	}
}

func TestRemoveChild_ForgetsSubtree(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")], TextBlock[RawText("b")]]`)
	rec := &recorder{}
	d.Bind(rec)
	tb := leaf(t, d, 0)
	text := tb.Children[0]

	if err := d.RemoveChild(d.Root(), tb); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := d.Node(tb.Hash); ok {
		t.Fatalf("removed block still indexed")
	}
	if _, ok := d.Node(text.Hash); ok {
		t.Fatalf("removed text still indexed")
	}
	if got, want := rec.calls, []string{"removing TextBlock"}; !slices.Equal(got, want) {
		t.Fatalf("calls=%v, want %v", got, want)
	}
	if err := d.RemoveChild(d.Root(), tb); !errors.Is(err, ErrDetached) && !errors.Is(err, ErrNotChild) {
		t.Fatalf("second remove err=%v", err)
	}
	ch, ok := d.LastChange()
	if !ok || ch.Ops[0].Kind != OpRemove || ch.Ops[0].Subtree != tb {
		t.Fatalf("last change=%+v", ch)
	}
	if inv := ch.Ops[0].Inverse(); inv.Kind != OpInsert || inv.Before != leaf(t, d, 0).Hash {
		t.Fatalf("inverse=%+v", inv)
	}
}

func TestMoveNodes(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")], TextBlock[RawText("b"), Bold[RawText("c")]]]`)
	rec := &recorder{}
	d.Bind(rec)
	p, b := leaf(t, d, 0), leaf(t, d, 1)

	if err := d.MoveNodes(p, slices.Clone(b.Children), nil); err != nil {
		t.Fatalf("move: %v", err)
	}
	if got, want := Outline(d.Root()), `Page[TextBlock[RawText("a"), RawText("b"), Bold[RawText("c")]], TextBlock[]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if got := d.Parent(p.Children[2]); got != p {
		t.Fatalf("moved node parent=%v, want P", got)
	}
	if got, want := rec.calls, []string{"moved TextBlock>TextBlock"}; !slices.Equal(got, want) {
		t.Fatalf("calls=%v, want %v", got, want)
	}
	ch, _ := d.LastChange()
	op := ch.Ops[0]
	if op.Kind != OpMove || op.From != b.Hash || op.Parent != p.Hash {
		t.Fatalf("op=%+v", op)
	}
	if inv := op.Inverse(); inv.Parent != b.Hash || inv.From != p.Hash {
		t.Fatalf("inverse=%+v", inv)
	}
}

func TestMoveNodes_Errors(t *testing.T) {
	d := mustDoc(t, `Page[Quote[TextBlock[RawText("a")]], TextBlock[RawText("b")]]`)
	q := d.Root().Children[0]
	a, b := leaf(t, d, 0), leaf(t, d, 1)

	if err := d.MoveNodes(a, []*Node{q}, nil); !errors.Is(err, ErrMixedChildren) {
		t.Fatalf("block under leaf: err=%v", err)
	}
	if err := d.MoveNodes(q, []*Node{q}, nil); !errors.Is(err, ErrCycle) {
		t.Fatalf("into self: err=%v", err)
	}
	if err := d.MoveNodes(q, []*Node{a, b}, nil); !errors.Is(err, ErrNotSiblings) {
		t.Fatalf("non-siblings: err=%v", err)
	}
	if err := d.MoveNodes(q, []*Node{b}, b); !errors.Is(err, ErrNotChild) {
		t.Fatalf("before is moved: err=%v", err)
	}
}

func TestChangeKind(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[Bold[RawText("a")]]]`)
	tb := leaf(t, d, 0)

	if err := d.ChangeKind(tb, H2); err != nil {
		t.Fatalf("change kind: %v", err)
	}
	if tb.Kind != H2 {
		t.Fatalf("kind=%v, want H2", tb.Kind)
	}
	if err := d.ChangeKind(tb, Quote); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("leaf to branch: err=%v", err)
	}
	if err := d.ChangeKind(tb.Children[0], Italic); !errors.Is(err, ErrNotBlock) {
		t.Fatalf("span: err=%v", err)
	}
	if err := d.ChangeKind(d.Root(), Quote); !errors.Is(err, ErrRoot) {
		t.Fatalf("root: err=%v", err)
	}
}

func TestRemoveThisBlockShell_AndWrap(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("x")], Quote[TextBlock[RawText("a")], TextBlock[RawText("b")]], TextBlock[RawText("y")]]`)
	rec := &recorder{}
	d.Bind(rec)
	q := d.Root().Children[1]

	if err := d.RemoveThisBlockShell(q); err != nil {
		t.Fatalf("remove shell: %v", err)
	}
	if got, want := Outline(d.Root()), `Page[TextBlock[RawText("x")], TextBlock[RawText("a")], TextBlock[RawText("b")], TextBlock[RawText("y")]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if _, ok := d.Node(q.Hash); ok {
		t.Fatalf("shell still indexed")
	}

	shell, err := d.WrapBlock(Indent, leaf(t, d, 1), leaf(t, d, 2))
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if got, want := Outline(d.Root()), `Page[TextBlock[RawText("x")], Indent[TextBlock[RawText("a")], TextBlock[RawText("b")]], TextBlock[RawText("y")]]`; got != want {
		t.Fatalf("outline=%s, want %s", got, want)
	}
	if shell.Hash == q.Hash {
		t.Fatalf("removed hash %q was reused", q.Hash)
	}
	if got, want := rec.calls, []string{"shell Quote", "wrapped Indent"}; !slices.Equal(got, want) {
		t.Fatalf("calls=%v, want %v", got, want)
	}
	if _, err := d.WrapBlock(Quote, leaf(t, d, 0), leaf(t, d, 2)); !errors.Is(err, ErrNotSiblings) {
		t.Fatalf("wrap non-adjacent: err=%v", err)
	}
	if _, err := d.WrapBlock(TextBlock, leaf(t, d, 0)); !errors.Is(err, ErrNotBranch) {
		t.Fatalf("wrap in leaf kind: err=%v", err)
	}
	if err := d.RemoveThisBlockShell(leaf(t, d, 0)); !errors.Is(err, ErrNotBranch) {
		t.Fatalf("remove leaf shell: err=%v", err)
	}
	if err := d.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
}

func TestSetText(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")]]`)
	rec := &recorder{}
	d.Bind(rec)
	raw := FirstText(d.Root())
	v := d.Version()

	if err := d.SetText(raw, "ab"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := d.SetText(raw, "ab"); err != nil {
		t.Fatalf("no-op set text: %v", err)
	}
	if got, want := d.Version(), v+1; got != want {
		t.Fatalf("version=%d, want %d", got, want)
	}
	if err := d.SetText(leaf(t, d, 0), "x"); !errors.Is(err, ErrNotText) {
		t.Fatalf("set text on block: err=%v", err)
	}
	if got, want := rec.calls, []string{"text ab"}; !slices.Equal(got, want) {
		t.Fatalf("calls=%v, want %v", got, want)
	}
}

func TestBeginCommit_CollectsOps(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")]]`)
	raw := FirstText(d.Root())

	d.Begin()
	if err := d.SetText(raw, "ab"); err != nil {
		t.Fatalf("set text: %v", err)
	}
	if err := d.ChangeKind(leaf(t, d, 0), H1); err != nil {
		t.Fatalf("change kind: %v", err)
	}
	ch, ok := d.Commit()
	if !ok {
		t.Fatalf("expected a change")
	}
	if got, want := len(ch.Ops), 2; got != want {
		t.Fatalf("ops=%d, want %d", got, want)
	}
	if got, want := ch.VersionAfter-ch.VersionBefore, uint64(2); got != want {
		t.Fatalf("version delta=%d, want %d", got, want)
	}
	inv := ch.Inverse()
	if inv[0].Kind != OpChangeKind || inv[0].NewKind != TextBlock {
		t.Fatalf("first inverse=%+v", inv[0])
	}
	if inv[1].Kind != OpSetText || inv[1].NewText != "a" {
		t.Fatalf("second inverse=%+v", inv[1])
	}

	d.Begin()
	if _, ok := d.Commit(); ok {
		t.Fatalf("expected empty change to be dropped")
	}
}

func TestTraversal_BlockLeaves(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("a")], Quote[Indent[], TextBlock[RawText("b")], Quote[TextBlock[RawText("c")]]], Indent[], TextBlock[RawText("d")]]`)
	leaves := d.LeafBlocks()
	var texts []string
	for _, l := range leaves {
		texts = append(texts, PlainText(l))
	}
	if got, want := strings.Join(texts, ""), "abcd"; got != want {
		t.Fatalf("leaves=%s, want %s", got, want)
	}
	for i := 0; i < len(leaves)-1; i++ {
		if got := d.NextBlockLeaf(leaves[i]); got != leaves[i+1] {
			t.Fatalf("next of %d=%v, want %v", i, got, leaves[i+1])
		}
		if got := d.PrevBlockLeaf(leaves[i+1]); got != leaves[i] {
			t.Fatalf("prev of %d=%v, want %v", i+1, got, leaves[i])
		}
		if !d.Before(leaves[i], leaves[i+1]) {
			t.Fatalf("expected leaf %d before %d", i, i+1)
		}
	}
	if d.NextBlockLeaf(leaves[3]) != nil || d.PrevBlockLeaf(leaves[0]) != nil {
		t.Fatalf("expected nil at page ends")
	}
	// a span resolves through its block
	if got := d.NextBlockLeaf(FirstText(leaves[0])); got != leaves[1] {
		t.Fatalf("next of span=%v, want %v", got, leaves[1])
	}
	q := d.Root().Children[1]
	if FirstLeafBlock(q) != leaves[1] || LastLeafBlock(q) != leaves[2] {
		t.Fatalf("first/last leaf of quote mismatch")
	}
	if FirstLeafBlock(d.Root().Children[2]) != nil {
		t.Fatalf("empty indent has no leaf")
	}
}

func TestIndex_ResolvesAfterRandomPrimitives(t *testing.T) {
	d := mustDoc(t, `Page[TextBlock[RawText("0")], Quote[TextBlock[RawText("1")]], TextBlock[RawText("2")]]`)
	rng := rand.New(rand.NewSource(1))

	branches := func() []*Node {
		var out []*Node
		d.Root().Walk(func(n *Node) bool {
			if acceptsBlocks(n.Kind) {
				out = append(out, n)
			}
			return n.Kind.IsBlock()
		})
		return out
	}

	for step := 0; step < 300; step++ {
		leaves := d.LeafBlocks()
		var err error
		switch rng.Intn(5) {
		case 0:
			bs := branches()
			parent := bs[rng.Intn(len(bs))]
			var before *Node
			if len(parent.Children) > 0 && rng.Intn(2) == 0 {
				before = parent.Children[rng.Intn(len(parent.Children))]
			}
			err = d.InsertNodes(parent, []*Node{NewNode(TextBlock, NewText("n"))}, before)
		case 1:
			if len(leaves) > 1 {
				l := leaves[rng.Intn(len(leaves))]
				err = d.RemoveChild(d.Parent(l), l)
			}
		case 2:
			l := leaves[rng.Intn(len(leaves))]
			_, err = d.WrapBlock([]Kind{Quote, Indent}[rng.Intn(2)], l)
		case 3:
			bs := branches()[1:]
			if len(bs) > 0 {
				err = d.RemoveThisBlockShell(bs[rng.Intn(len(bs))])
			}
		case 4:
			l := leaves[rng.Intn(len(leaves))]
			bs := branches()
			dst := bs[rng.Intn(len(bs))]
			err = d.MoveNodes(dst, []*Node{l}, nil)
		}
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}

		d.Rebuild()
		d.Root().Walk(func(n *Node) bool {
			p, ok := d.Index().Path(n.Hash)
			if !ok {
				t.Fatalf("step %d: %s not indexed", step, n.Hash)
			}
			if got, _ := NodeAt(d.Root(), p); got != n {
				t.Fatalf("step %d: path %v resolves to %v, want %s", step, p, got, n.Hash)
			}
			return true
		})
		if err := d.Check(); err != nil {
			t.Fatalf("step %d: check: %v", step, err)
		}
	}
}
