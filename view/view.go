// Package view keeps the attached window of a page in the host DOM.
//
// Only a contiguous run of leaf blocks, from the top boundary to the bottom
// boundary, has live elements. The heights of the virtualized blocks above
// and below the run are stood in for by two spacer elements, so the scroll
// extent of the container always equals the height of the fully rendered
// page.
package view

import (
	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/dom"
	"github.com/iw2rmb/mdpage/internal/logger"
	"github.com/iw2rmb/mdpage/page"
	"github.com/iw2rmb/mdpage/render"
)

const (
	// AddMargin is how close to the viewport edge a boundary block may come
	// before the next block on that side is attached.
	AddMargin = 20
	// RemoveMargin is how far past the viewport edge a boundary block must
	// be before it is virtualized.
	RemoveMargin = 50
	// Gutter is the fixed space between the page and the bottom spacer.
	Gutter = 50
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	AddMargin    float64 // default: AddMargin
	RemoveMargin float64 // default: RemoveMargin
	Gutter       float64 // default: Gutter
	// InnateScale multiplies page.Kind.InnateHeight, for hosts whose pixel
	// unit differs from the browser's (default: 1).
	InnateScale float64

	Logger zerolog.Logger
}

// Engine is the virtualization engine. It implements page.Binder so
// structural primitives keep the attached window consistent.
type Engine struct {
	doc     *page.Doc
	factory *render.Factory
	port    dom.ScrollPort
	opt     Options
	log     zerolog.Logger

	pageEl   dom.Element
	topPadEl dom.Element
	gutterEl dom.Element
	botPadEl dom.Element

	top, bot       *page.Node
	topPad, botPad float64

	// marks holds the corruption marks by block hash. They outlive
	// virtualization.
	marks map[string]*mark

	ready   bool
	busy    bool
	pending bool
	dirty   bool
}

var _ page.Binder = (*Engine)(nil)

// New installs the spacers, the page element and the gutter into port and
// binds the engine to doc. Nothing is attached until Init.
func New(doc *page.Doc, factory *render.Factory, port dom.ScrollPort, opt Options) *Engine {
	if opt.AddMargin == 0 {
		opt.AddMargin = AddMargin
	}
	if opt.RemoveMargin == 0 {
		opt.RemoveMargin = RemoveMargin
	}
	if opt.Gutter == 0 {
		opt.Gutter = Gutter
	}
	if opt.InnateScale == 0 {
		opt.InnateScale = 1
	}
	e := &Engine{
		doc:     doc,
		factory: factory,
		port:    port,
		opt:     opt,
		log:     logger.Component(opt.Logger, "view"),
		marks:   map[string]*mark{},
	}

	e.topPadEl = factory.Spacer(render.TypeTopPad, 0)
	e.pageEl = factory.Shell(doc.Root())
	e.gutterEl = factory.Spacer(render.TypeGutter, opt.Gutter)
	e.botPadEl = factory.Spacer(render.TypeBotPad, 0)
	port.AppendChild(e.topPadEl)
	port.AppendChild(e.pageEl)
	port.AppendChild(e.gutterEl)
	port.AppendChild(e.botPadEl)

	doc.Bind(e)
	return e
}

// PageElement returns the contenteditable page element.
func (e *Engine) PageElement() dom.Element { return e.pageEl }

func (e *Engine) Doc() *page.Doc { return e.doc }

func (e *Engine) Factory() *render.Factory { return e.factory }

// Ready reports whether Init has run.
func (e *Engine) Ready() bool { return e.ready }

// Top returns the uppermost attached leaf block.
func (e *Engine) Top() *page.Node { return e.top }

// Bot returns the lowermost attached leaf block.
func (e *Engine) Bot() *page.Node { return e.bot }

func (e *Engine) TopPad() float64 { return e.topPad }

func (e *Engine) BotPad() float64 { return e.botPad }

// Busy reports whether a reconciliation is running.
func (e *Engine) Busy() bool { return e.busy }

// Innate returns the scaled innate height of k.
func (e *Engine) Innate(k page.Kind) float64 {
	return k.InnateHeight() * e.opt.InnateScale
}

// unit is the space a virtualized leaf block stands for in a spacer.
func (e *Engine) unit(leaf *page.Node) float64 {
	return leaf.Height + e.Innate(leaf.Kind)
}

func (e *Engine) syncPads() {
	if e.topPad < 0 {
		e.topPad = 0
	}
	if e.botPad < 0 {
		e.botPad = 0
	}
	render.SetHeight(e.topPadEl, e.topPad)
	render.SetHeight(e.botPadEl, e.botPad)
}

// State is the scroll position of the window, in the shape hosts persist.
type State struct {
	TopHash string
	TopPad  float64
	BotPad  float64
	// TopScrollOffset is how far the viewport top sits below the top of the
	// top boundary's element.
	TopScrollOffset float64
	Attached        int
}

func (e *Engine) State() State {
	st := State{TopPad: e.topPad, BotPad: e.botPad}
	if e.top != nil {
		st.TopHash = e.top.Hash
		if e.top.Elem != nil {
			st.TopScrollOffset = e.viewTop() - e.top.Elem.Rect().Top
		}
	}
	for _, l := range e.doc.LeafBlocks() {
		if l.Elem != nil {
			st.Attached++
		}
	}
	return st
}

func (e *Engine) viewTop() float64 { return e.port.Rect().Top }

func (e *Engine) viewBottom() float64 { return e.port.Rect().Top + e.port.ClientHeight() }
