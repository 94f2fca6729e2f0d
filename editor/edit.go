package editor

import (
	"errors"
	"maps"
	"slices"

	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/mdpage/internal/grapheme"
	"github.com/iw2rmb/mdpage/page"
)

// triggers convert a TextBlock when Space follows them at line start.
var triggers = map[string]page.Kind{
	"#": page.H1,
	"-": page.Dot,
	">": page.Quote,
}

// KeyDown runs the edit bound to ev. It returns true when the host must
// prevent the default action.
func (ed *Editor) KeyDown(ev KeyEvent) bool {
	if !ed.view.Ready() {
		return false
	}
	km := ed.keys
	if key.Matches(ev, km.Modifier) {
		return false
	}
	c, err := ed.sel.Read()
	if err != nil {
		ed.log.Debug().Err(err).Str("key", ev.String()).Msg("keydown ignored")
		return false
	}

	switch {
	case key.Matches(ev, km.Left):
		ed.sel.Move("backward", "character")
		return true
	case key.Matches(ev, km.Right):
		ed.sel.Move("forward", "character")
		return true
	case key.Matches(ev, km.Up):
		ed.sel.Move("backward", "line")
		return true
	case key.Matches(ev, km.Down):
		ed.sel.Move("forward", "line")
		return true
	case key.Matches(ev, km.ShiftLeft):
		ed.sel.Extend("backward", "character")
		return true
	case key.Matches(ev, km.ShiftRight):
		ed.sel.Extend("forward", "character")
		return true
	case key.Matches(ev, km.ShiftUp):
		ed.sel.Extend("backward", "line")
		return true
	case key.Matches(ev, km.ShiftDown):
		ed.sel.Extend("forward", "line")
		return true
	}

	if c.Kind == SelectRange || ed.fatal != nil {
		return true
	}

	t, ok := ed.doc.Node(c.Hash)
	if !ok || t.Kind != page.RawText {
		ed.log.Warn().Str("hash", c.Hash).Str("key", ev.String()).Msg("caret is not on a text span")
		return true
	}
	off := min(max(c.Offset, 0), grapheme.Len(t.Text()))
	at := Position{Hash: t.Hash, Offset: off}

	switch {
	case key.Matches(ev, km.Backspace):
		ed.edit("backspace", at, func() (*page.Node, int, error) { return ed.backspace(t, off) })
	case key.Matches(ev, km.Enter):
		ed.edit("enter", at, func() (*page.Node, int, error) { return ed.enter(t, off) })
	case key.Matches(ev, km.Space):
		if k, ok := ed.triggerAt(t, off); ok {
			ed.edit("convert", at, func() (*page.Node, int, error) { return ed.convert(t, k) })
			break
		}
		ed.edit("insert", at, func() (*page.Node, int, error) { return ed.insert(t, off, " ") })
	case ev.Printable():
		ed.edit("insert", at, func() (*page.Node, int, error) { return ed.insert(t, off, ev.Key) })
	default:
		return false
	}
	return true
}

// edit runs fn as one change. On success the index is rebuilt, the window
// reconciled and the caret placed where fn left it. A failing edit is
// reverted and the caret goes back to at.
func (ed *Editor) edit(name string, at Position, fn func() (*page.Node, int, error)) {
	ed.doc.Begin()
	caret, off, err := fn()
	change, changed := ed.doc.Commit()
	if err != nil {
		ed.rollback(name, err, change, changed, at)
		return
	}

	if ed.doc.Index().Stale() {
		ed.doc.Rebuild()
	}
	ed.view.Reconcile()
	pos := ed.placeCaret(caret, off)
	if ed.cfg.Verify {
		ed.verify()
	}
	if changed {
		ed.log.Debug().
			Str("edit", name).
			Int("ops", len(change.Ops)).
			Uint64("version", change.VersionAfter).
			Msg("edit applied")
		if ed.cfg.OnChange != nil {
			ed.cfg.OnChange(buildChangeEvent(ed.doc, change, pos))
		}
	}
}

func (ed *Editor) rollback(name string, err error, change page.Change, changed bool, at Position) {
	ed.log.Error().Err(err).Str("edit", name).Msg("edit failed, model left unchanged")
	if changed {
		if rerr := ed.doc.Revert(change); rerr != nil {
			ed.log.Error().Err(rerr).Str("edit", name).Msg("revert failed")
			ed.verify()
		}
	}
	if ed.doc.Index().Stale() {
		ed.doc.Rebuild()
	}
	ed.view.Reconcile()
	if n, ok := ed.doc.Node(at.Hash); ok {
		ed.placeCaret(n, at.Offset)
	}
	if errors.Is(err, page.ErrIDSpaceExhausted) {
		ed.fail(err)
	}
}

func (ed *Editor) placeCaret(n *page.Node, off int) Position {
	if n == nil {
		return Position{}
	}
	ed.view.Reveal(ed.doc.Block(n))
	if err := ed.sel.CaretAt(n, off); err != nil {
		ed.log.Warn().Err(err).Msg("caret not placed")
		return Position{}
	}
	return Position{Hash: n.Hash, Offset: off}
}

// verify checks the model and the window and marks the blocks named by
// structure errors.
func (ed *Editor) verify() {
	err := errors.Join(ed.doc.Check(), ed.view.Check())
	if err == nil {
		return
	}
	ed.log.Error().Err(err).Msg("invariant check failed")
	ed.markBroken(structureErrors(err))
}

func (ed *Editor) markBroken(errs []*page.StructureError) {
	for _, se := range errs {
		if n, ok := ed.doc.Node(se.Hash); ok {
			ed.view.MarkCorrupt(n, "‼️ "+se.Reason)
		}
	}
}

func structureErrors(err error) []*page.StructureError {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*page.StructureError
		for _, e := range joined.Unwrap() {
			out = append(out, structureErrors(e)...)
		}
		return out
	}
	var se *page.StructureError
	if errors.As(err, &se) {
		return []*page.StructureError{se}
	}
	return nil
}

func (ed *Editor) insert(t *page.Node, off int, s string) (*page.Node, int, error) {
	if err := ed.doc.SetText(t, grapheme.Insert(t.Text(), off, s)); err != nil {
		return nil, 0, err
	}
	return t, off + grapheme.Len(s), nil
}

// deleteBefore removes the grapheme cluster that ends at off.
func (ed *Editor) deleteBefore(t *page.Node, off int) (*page.Node, int, error) {
	n := grapheme.ClusterBefore(t.Text(), off)
	if n == 0 {
		return t, off, nil
	}
	if err := ed.doc.SetText(t, grapheme.Delete(t.Text(), off-n, off)); err != nil {
		return nil, 0, err
	}
	return t, off - n, nil
}

func (ed *Editor) backspace(t *page.Node, off int) (*page.Node, int, error) {
	if off > 0 {
		return ed.deleteBefore(t, off)
	}
	b := ed.lineStart(t)
	if b == nil {
		return ed.deleteAcross(t)
	}
	if b.Kind != page.TextBlock {
		return t, 0, ed.doc.ChangeKind(b, page.TextBlock)
	}

	o := ed.doc.Parent(b)
	switch {
	case page.IsFirstChild(o, b) && o.Kind == page.Page:
		return t, 0, nil
	case page.IsFirstChild(o, b):
		return t, 0, ed.doc.RemoveThisBlockShell(o)
	case o.Kind != page.Page:
		return t, 0, ed.splitOuter(o, b)
	default:
		return ed.mergeIntoPrev(b, t)
	}
}

// lineStart returns the leaf block of t when offset 0 of t is the start of
// the block's text, and nil otherwise.
func (ed *Editor) lineStart(t *page.Node) *page.Node {
	b := ed.doc.Block(t)
	for _, x := range page.Texts(b) {
		if x == t {
			return b
		}
		if x.Text() != "" {
			return nil
		}
	}
	return nil
}

// deleteAcross deletes the last cluster of the nearest non-empty span
// before t in the same block.
func (ed *Editor) deleteAcross(t *page.Node) (*page.Node, int, error) {
	texts := page.Texts(ed.doc.Block(t))
	i := slices.Index(texts, t)
	for j := i - 1; j >= 0; j-- {
		if l := grapheme.Len(texts[j].Text()); l > 0 {
			return ed.deleteBefore(texts[j], l)
		}
	}
	return t, 0, nil
}

// splitOuter moves b and the blocks after it out of o. The blocks that
// followed b are regrouped in a new block of o's kind.
func (ed *Editor) splitOuter(o, b *page.Node) error {
	g := ed.doc.Parent(o)
	i := page.IndexOf(o, b)
	moving := slices.Clone(o.Children[i:])
	if err := ed.doc.MoveNodes(g, moving, page.NextChild(g, o)); err != nil {
		return err
	}
	if len(moving) == 1 {
		return nil
	}
	_, err := ed.doc.WrapBlock(o.Kind, moving[1:]...)
	return err
}

func (ed *Editor) mergeIntoPrev(b, t *page.Node) (*page.Node, int, error) {
	p := ed.doc.PrevBlockLeaf(b)
	if p == nil || p.Kind == page.Table {
		return t, 0, nil
	}
	ed.view.EnsureAttached(p)

	m := merger{doc: ed.doc}
	if err := m.into(p, b); err != nil {
		return nil, 0, err
	}
	if err := ed.doc.RemoveChild(ed.doc.Parent(b), b); err != nil {
		return nil, 0, err
	}
	if m.caret == nil {
		last := page.LastText(p)
		return last, grapheme.Len(last.Text()), nil
	}
	return m.caret, m.off, nil
}

// merger joins the span tree of one leaf block onto the end of another.
type merger struct {
	doc   *page.Doc
	caret *page.Node
	off   int
}

// into walks the last-child chain of dst and the first-child chain of src in
// lockstep. Matching branch spans are unified, a matching RawText pair is
// concatenated, and whatever is left of src is moved to the end of dst.
func (m *merger) into(dst, src *page.Node) error {
	dl, sf := dst.LastChild(), src.FirstChild()
	if dl != nil && sf != nil && dl.Kind == sf.Kind {
		switch {
		case dl.Kind == page.RawText:
			if m.caret == nil {
				m.caret, m.off = dl, grapheme.Len(dl.Text())
			}
			if err := m.doc.SetText(dl, dl.Text()+sf.Text()); err != nil {
				return err
			}
			if err := m.doc.RemoveChild(src, sf); err != nil {
				return err
			}
		case dl.Kind.IsBranch() && maps.Equal(dl.Content, sf.Content):
			if err := m.into(dl, sf); err != nil {
				return err
			}
			if err := m.doc.RemoveChild(src, sf); err != nil {
				return err
			}
		}
	}

	rest := slices.Clone(src.Children)
	if len(rest) == 0 {
		return nil
	}
	if m.caret == nil {
		if first := page.FirstText(rest[0]); first != nil {
			m.caret, m.off = first, 0
		}
	}
	return m.doc.MoveNodes(dst, rest, nil)
}

// enter splits the leaf block holding t at off. Every span between t and
// the block is cloned, and the siblings after the split point move into the
// clones.
func (ed *Editor) enter(t *page.Node, off int) (*page.Node, int, error) {
	l := ed.doc.Block(t)
	outer := ed.doc.Parent(l)
	if l == nil || outer == nil {
		return t, off, nil
	}

	type level struct {
		src       *page.Node
		followers []*page.Node
	}
	var levels []level
	for cur := t; ; {
		p := ed.doc.Parent(cur)
		i := page.IndexOf(p, cur)
		levels = append(levels, level{src: p, followers: slices.Clone(p.Children[i+1:])})
		if p == l {
			break
		}
		cur = p
	}

	left, right := grapheme.Cut(t.Text(), off)
	rightRaw, err := ed.doc.NewText(right)
	if err != nil {
		return nil, 0, err
	}
	clones := make([]*page.Node, len(levels))
	chain := rightRaw
	for i, lv := range levels {
		c, err := ed.doc.NewNode(lv.src.Kind, chain)
		if err != nil {
			return nil, 0, err
		}
		c.Content = maps.Clone(lv.src.Content)
		clones[i] = c
		chain = c
	}
	newL := chain
	if newL.Kind == page.Check {
		delete(newL.Content, page.CheckedKey)
	}

	if err := ed.doc.SetText(t, left); err != nil {
		return nil, 0, err
	}
	if err := ed.doc.InsertNodes(outer, []*page.Node{newL}, page.NextChild(outer, l)); err != nil {
		return nil, 0, err
	}
	for i, lv := range levels {
		if len(lv.followers) == 0 {
			continue
		}
		if err := ed.doc.MoveNodes(clones[i], lv.followers, nil); err != nil {
			return nil, 0, err
		}
	}
	return rightRaw, 0, nil
}

// triggerAt reports the conversion for Space typed at off in t: the caret
// must follow a trigger that is the first character of a TextBlock.
func (ed *Editor) triggerAt(t *page.Node, off int) (page.Kind, bool) {
	if off != 1 {
		return page.Unknown, false
	}
	b := ed.doc.Block(t)
	if b == nil || b.Kind != page.TextBlock || page.FirstText(b) != t {
		return page.Unknown, false
	}
	first, _ := grapheme.Cut(t.Text(), 1)
	k, ok := triggers[first]
	return k, ok
}

// convert drops the trigger character and retypes its block. Quote wraps
// the block, since a Quote holds blocks.
func (ed *Editor) convert(t *page.Node, k page.Kind) (*page.Node, int, error) {
	b := ed.doc.Block(t)
	if err := ed.doc.SetText(t, grapheme.Delete(t.Text(), 0, 1)); err != nil {
		return nil, 0, err
	}
	if k == page.Quote {
		_, err := ed.doc.WrapBlock(page.Quote, b)
		return t, 0, err
	}
	return t, 0, ed.doc.ChangeKind(b, k)
}
