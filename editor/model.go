package editor

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/internal/logger"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
	"github.com/iw2rmb/mdpage/view"
)

// ErrNoHost is returned by New when the config lacks a host document or a
// scroll port.
var ErrNoHost = errors.New("editor: host document and scroll port are required")

// Editor is an editable page rendered into a host scroll element.
//
// All methods must be called from the host's UI task.
type Editor struct {
	cfg  Config
	log  zerolog.Logger
	keys KeyMap

	host dom.Document
	doc  *page.Doc
	view *view.Engine
	sel  *Bridge

	// broken lists the damage found in the loaded state. It is marked on
	// the page by the initial render.
	broken []*page.StructureError
	fatal  error
}

// New builds the page from cfg.State and installs it into cfg.Port. The
// initial render runs on the next animation frame.
func New(cfg Config) (*Editor, error) {
	if cfg.Host == nil || cfg.Port == nil {
		return nil, ErrNoHost
	}
	root := cfg.State.Root()
	if page.FirstLeafBlock(root) == nil {
		root.Children = append(root.Children, page.NewNode(page.TextBlock, page.NewText("")))
	}
	doc, err := page.New(root, page.Options{Rand: cfg.Rand})
	if err != nil {
		return nil, fmt.Errorf("editor: load state: %w", err)
	}
	log := logger.Component(cfg.Logger, "edit")
	var broken []*page.StructureError
	if err := doc.Check(); err != nil {
		log.Error().Err(err).Msg("saved page is damaged, loading what is readable")
		broken = structureErrors(err)
	}

	keys := cfg.KeyMap
	if len(keys.Enter.Keys()) == 0 {
		keys = DefaultKeyMap()
	}
	ed := &Editor{
		cfg:    cfg,
		log:    log,
		keys:   keys,
		host:   cfg.Host,
		doc:    doc,
		broken: broken,
	}
	ed.view = view.New(doc, render.New(cfg.Host), cfg.Port, view.Options{
		AddMargin:    cfg.AddMargin,
		RemoveMargin: cfg.RemoveMargin,
		Gutter:       cfg.Gutter,
		InnateScale:  cfg.InnateScale,
		Logger:       cfg.Logger,
	})
	ed.sel = NewBridge(cfg.Host, ed.view.PageElement())
	cfg.Host.RequestAnimationFrame(ed.init)
	return ed, nil
}

func (ed *Editor) init() {
	st := ed.cfg.State
	ed.view.Init(st.TopHash, st.TopScrollOffset)
	ed.markBroken(ed.broken)
	vs := ed.view.State()
	ed.log.Debug().
		Float64("saved_top_pad", st.TopPad).
		Float64("saved_bot_pad", st.BotPad).
		Float64("top_pad", vs.TopPad).
		Float64("bot_pad", vs.BotPad).
		Int("attached", vs.Attached).
		Msg("page ready")
	if _, err := ed.sel.Read(); err == nil {
		return
	}
	// the restored scroll position wins over caret visibility
	if top := ed.view.Top(); top != nil {
		if err := ed.sel.CaretAt(page.FirstText(top), 0); err != nil {
			ed.log.Warn().Err(err).Msg("initial caret not placed")
		}
	}
}

// Ready reports whether the initial render has run.
func (ed *Editor) Ready() bool { return ed.view.Ready() }

// Scroll is the host's scroll handler.
func (ed *Editor) Scroll() { ed.view.Reconcile() }

func (ed *Editor) Doc() *page.Doc { return ed.doc }

func (ed *Editor) View() *view.Engine { return ed.view }

func (ed *Editor) Selection() *Bridge { return ed.sel }

func (ed *Editor) KeyMap() KeyMap { return ed.keys }

// Err returns the error that ended the session, if any. After it is set
// edits are refused; navigation keeps working.
func (ed *Editor) Err() error { return ed.fatal }

func (ed *Editor) fail(err error) {
	if ed.fatal != nil {
		return
	}
	ed.fatal = err
	ed.log.Error().Err(err).Msg("editing disabled")
	if ed.cfg.OnError != nil {
		ed.cfg.OnError(err)
	}
}

// Caret returns the caret position when the selection is a caret inside
// the page.
func (ed *Editor) Caret() (Position, bool) {
	c, err := ed.sel.Read()
	if err != nil || c.Kind != SelectCaret {
		return Position{}, false
	}
	return Position{Hash: c.Hash, Offset: c.Offset}, true
}

// SetCaret places the caret at offset in the RawText named by hash,
// scrolling its block into view.
func (ed *Editor) SetCaret(p Position) error {
	n, ok := ed.doc.Node(p.Hash)
	if !ok {
		return fmt.Errorf("set caret: %w: %s", page.ErrDetached, p.Hash)
	}
	if n.Kind != page.RawText {
		return page.ErrNotText
	}
	if ed.placeCaret(n, p.Offset) == (Position{}) {
		return fmt.Errorf("set caret: %s is not attached", p.Hash)
	}
	return nil
}

// Snapshot returns the current document and window in persisted form.
func (ed *Editor) Snapshot() State {
	st := State{Nodes: nodeStates(ed.doc.Root().Children)}
	if !ed.view.Ready() {
		st.TopHash = ed.cfg.State.TopHash
		st.TopPad, st.BotPad = ed.cfg.State.TopPad, ed.cfg.State.BotPad
		st.TopScrollOffset = ed.cfg.State.TopScrollOffset
		return st
	}
	vs := ed.view.State()
	st.TopHash = vs.TopHash
	st.TopPad, st.BotPad = vs.TopPad, vs.BotPad
	st.TopScrollOffset = vs.TopScrollOffset
	return st
}

// Markdown renders the document as markdown.
func (ed *Editor) Markdown() string { return page.Markdown(ed.doc.Root()) }
