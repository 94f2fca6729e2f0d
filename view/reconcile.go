package view

import (
	"github.com/iw2rmb/mdpage/page"
)

// Init performs the initial render. The host calls it from an animation
// frame, once the spacers and the page element have been laid out.
//
// The whole tree is mounted and every leaf block measured, then everything
// but the block named by topHash (or the first leaf block) is virtualized,
// the top block is scrolled into view and offset by scrollOffset, and the
// window is reconciled.
func (e *Engine) Init(topHash string, scrollOffset float64) {
	root := e.doc.Root()
	for _, c := range root.Children {
		e.pageEl.AppendChild(e.factory.Mount(c))
	}
	all := e.doc.LeafBlocks()
	for _, l := range all {
		l.Height = l.Elem.Rect().Height
	}
	e.ready = true
	if len(all) == 0 {
		e.top, e.bot = nil, nil
		e.topPad, e.botPad = 0, 0
		e.syncPads()
		return
	}

	top := all[0]
	if n, ok := e.doc.Node(topHash); ok && n.Kind.IsLeafBlock() {
		top = n
	} else if topHash != "" {
		e.log.Warn().Str("hash", topHash).Msg("saved top block not found, starting at first block")
	}

	e.topPad, e.botPad = 0, 0
	before := true
	for _, l := range all {
		if l == top {
			before = false
			continue
		}
		if before {
			e.topPad += e.unit(l)
		} else {
			e.botPad += e.unit(l)
		}
		e.detach(l)
	}
	e.top, e.bot = top, top
	e.syncPads()

	top.Elem.ScrollIntoView()
	if scrollOffset != 0 {
		e.port.SetScrollTop(e.port.ScrollTop() + scrollOffset)
	}
	e.log.Debug().
		Str("top", top.Hash).
		Float64("top_pad", e.topPad).
		Float64("bot_pad", e.botPad).
		Int("leaves", len(all)).
		Msg("initial render")
	e.Reconcile()
}

// Reconcile attaches and detaches boundary blocks until both ends of the
// window satisfy the margins. A call made while a reconciliation is running
// is coalesced into it.
func (e *Engine) Reconcile() {
	if !e.ready {
		return
	}
	if e.busy {
		e.pending = true
		return
	}
	e.busy = true
	defer func() { e.busy = false }()
	for {
		e.pending = false
		e.reconcile()
		if !e.pending {
			return
		}
	}
}

func (e *Engine) reconcile() {
	if e.dirty || !e.boundariesLive() {
		e.repair()
	}
	if e.top == nil {
		return
	}
	limit := 4*e.doc.Index().Len() + 16
	for i := 0; ; i++ {
		if i > limit {
			e.log.Warn().Int("steps", i).Msg("reconcile did not quiesce")
			return
		}
		top := e.stepTop()
		bot := e.stepBot()
		if !top && !bot {
			return
		}
	}
}

func (e *Engine) stepTop() bool {
	r := e.top.Elem.Rect()
	view := e.viewTop()
	tT, tB := r.Top-view, r.Bottom-view
	switch {
	case tT > -e.opt.AddMargin:
		prev := e.doc.PrevBlockLeaf(e.top)
		if prev == nil {
			return false
		}
		e.topPad -= e.unit(prev)
		e.attach(prev)
		e.top = prev
	case tB < -e.opt.RemoveMargin && e.top != e.bot:
		next := e.doc.NextBlockLeaf(e.top)
		if next == nil {
			return false
		}
		old := e.top
		e.detach(old)
		e.topPad += e.unit(old)
		e.top = next
	default:
		return false
	}
	e.syncPads()
	return true
}

func (e *Engine) stepBot() bool {
	r := e.bot.Elem.Rect()
	view := e.viewBottom()
	bT, bB := r.Top-view, r.Bottom-view
	switch {
	case bB < e.opt.AddMargin:
		next := e.doc.NextBlockLeaf(e.bot)
		if next == nil {
			return false
		}
		e.botPad -= e.unit(next)
		e.attach(next)
		e.bot = next
	case bT > e.opt.RemoveMargin && e.bot != e.top:
		prev := e.doc.PrevBlockLeaf(e.bot)
		if prev == nil {
			return false
		}
		old := e.bot
		e.detach(old)
		e.botPad += e.unit(old)
		e.bot = prev
	default:
		return false
	}
	e.syncPads()
	return true
}

// EnsureAttached extends the window until leaf is attached.
func (e *Engine) EnsureAttached(leaf *page.Node) {
	if !e.ready || leaf == nil || !leaf.Kind.IsLeafBlock() || leaf.Elem != nil {
		return
	}
	if !e.boundariesLive() {
		e.repair()
		if leaf.Elem != nil {
			return
		}
	}
	if e.doc.Before(leaf, e.top) {
		for e.top != leaf {
			prev := e.doc.PrevBlockLeaf(e.top)
			if prev == nil {
				break
			}
			e.topPad -= e.unit(prev)
			e.attach(prev)
			e.top = prev
		}
	} else {
		for e.bot != leaf {
			next := e.doc.NextBlockLeaf(e.bot)
			if next == nil {
				break
			}
			e.botPad -= e.unit(next)
			e.attach(next)
			e.bot = next
		}
	}
	e.syncPads()
}

// Reveal scrolls the viewport by the least amount that shows leaf, then
// reconciles the window.
func (e *Engine) Reveal(leaf *page.Node) {
	if !e.ready || leaf == nil || !leaf.Kind.IsLeafBlock() {
		return
	}
	e.EnsureAttached(leaf)
	if leaf.Elem == nil {
		return
	}
	r := leaf.Elem.Rect()
	top, bot := e.viewTop(), e.viewBottom()
	delta := 0.0
	switch {
	case r.Top < top:
		delta = r.Top - top
	case r.Bottom > bot:
		delta = r.Bottom - bot
		if r.Height > bot-top {
			delta = r.Top - top
		}
	}
	if delta != 0 {
		e.port.SetScrollTop(e.port.ScrollTop() + delta)
	}
	e.Reconcile()
}

func (e *Engine) boundariesLive() bool {
	if e.top == nil || e.bot == nil {
		return len(e.doc.LeafBlocks()) == 0
	}
	for _, b := range []*page.Node{e.top, e.bot} {
		if !e.doc.Contains(b) || !b.Kind.IsLeafBlock() || b.Elem == nil || !b.Elem.IsConnected() {
			return false
		}
	}
	return true
}

// repair recomputes the boundaries and both pads from the tree. It is the
// fallback for edits that leave the window in a state the hooks could not
// follow.
func (e *Engine) repair() {
	e.dirty = false
	root := e.doc.Root()
	root.Walk(func(n *page.Node) bool {
		if n != root && n.Elem != nil && !n.Elem.IsConnected() {
			n.ClearElems()
			return false
		}
		return true
	})
	all := e.doc.LeafBlocks()
	first, last := -1, -1
	for i, l := range all {
		if l.Elem != nil && l.Elem.IsConnected() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	e.log.Warn().Int("first", first).Int("last", last).Msg("recomputing window boundaries")
	if len(all) == 0 {
		e.top, e.bot = nil, nil
		e.topPad, e.botPad = 0, 0
		e.syncPads()
		return
	}
	if first < 0 {
		first, last = 0, 0
	}
	for _, l := range all[first : last+1] {
		e.attach(l)
	}
	e.topPad, e.botPad = 0, 0
	for i, l := range all {
		if i >= first && i <= last {
			continue
		}
		if l.Elem != nil {
			e.detach(l)
		} else if l.Height == 0 {
			e.measure(l)
		}
		if i < first {
			e.topPad += e.unit(l)
		} else {
			e.botPad += e.unit(l)
		}
	}
	e.top, e.bot = all[first], all[last]
	e.syncPads()
	e.syncMarks()
}
