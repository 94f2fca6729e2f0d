package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/dom/memdom"
	"github.com/iw2rmb/mdpage/editor"
	"github.com/iw2rmb/mdpage/internal/config"
	"github.com/iw2rmb/mdpage/page"
)

// chromeHeight is the number of terminal rows below the page: the status
// line and the help line.
const chromeHeight = 2

// wheelStep is how many lines one mouse wheel notch scrolls.
const wheelStep = 3

// frameMsg runs the host's pending animation frames.
type frameMsg struct{}

func nextFrame() tea.Msg { return frameMsg{} }

type model struct {
	cfg  *config.Config
	log  zerolog.Logger
	path string

	host *memdom.Document
	port *memdom.Element
	ed   *editor.Editor

	vp     viewport.Model
	help   help.Model
	keys   appKeys
	styles Styles

	status string
	// markdown is set when the user asked for an export; main prints it
	// after the program exits.
	markdown string
}

func newModel(cfg *config.Config, log zerolog.Logger, st editor.State) (*model, error) {
	term := cfg.Terminal
	host := memdom.New(memdom.Options{
		Width:         term.Width,
		LineHeight:    1,
		BottomMargins: page.InnateHeights(term.InnateScale),
	})
	height := max(term.Height-chromeHeight, 1)
	port := host.NewScrollPort(float64(height))
	host.Body().AppendChild(port)

	m := &model{
		cfg:    cfg,
		log:    log,
		path:   term.Snapshot,
		host:   host,
		port:   port,
		vp:     viewport.New(term.Width+markerWidth, height),
		help:   help.New(),
		keys:   defaultAppKeys(),
		styles: DefaultStyles(),
	}
	ed, err := editor.New(editor.Config{
		Host:         host,
		Port:         port,
		State:        st,
		KeyMap:       m.keys.editor,
		AddMargin:    cfg.View.AddMargin,
		RemoveMargin: cfg.View.RemoveMargin,
		Gutter:       cfg.View.Gutter,
		InnateScale:  term.InnateScale,
		Verify:       cfg.View.Verify,
		Logger:       log,
		OnError: func(err error) {
			m.status = "editing disabled: " + err.Error()
		},
	})
	if err != nil {
		return nil, err
	}
	m.ed = ed
	return m, nil
}

func (m *model) Init() tea.Cmd { return nextFrame }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.host.Flush()
	case tea.WindowSizeMsg:
		height := max(msg.Height-chromeHeight, 1)
		m.port.SetClientHeight(float64(height))
		m.vp.Width, m.vp.Height = msg.Width, height
		m.help.Width = msg.Width
		m.ed.Scroll()
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll(-wheelStep)
		case tea.MouseButtonWheelDown:
			m.scroll(wheelStep)
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Save):
			m.save()
		case key.Matches(msg, m.keys.Markdown):
			m.markdown = m.ed.Markdown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.PageUp):
			m.scroll(-m.port.ClientHeight())
		case key.Matches(msg, m.keys.PageDown):
			m.scroll(m.port.ClientHeight())
		default:
			for _, ev := range keyEvents(msg) {
				m.ed.KeyDown(ev)
			}
		}
	}
	return m, nil
}

func (m *model) scroll(delta float64) {
	m.port.SetScrollTop(m.port.ScrollTop() + delta)
	m.ed.Scroll()
}

func (m *model) save() {
	if err := saveState(m.path, m.ed.Snapshot()); err != nil {
		m.log.Error().Err(err).Str("path", m.path).Msg("save failed")
		m.status = "save failed: " + err.Error()
		return
	}
	m.log.Info().Str("path", m.path).Uint64("version", m.ed.Doc().Version()).Msg("page saved")
	m.status = "saved " + m.path
}

func (m *model) View() string {
	if !m.ed.Ready() {
		return "loading…"
	}
	m.vp.SetContent(strings.Join(m.lines(), "\n"))
	m.vp.SetYOffset(0)
	return m.vp.View() + "\n" + m.statusLine() + "\n" + m.help.View(m.keys)
}

// lines returns the rows of the viewport: the attached page lines shifted
// by the scroll position, with blank rows for the parts covered by spacers.
func (m *model) lines() []string {
	pageLines := newPainter(m.host, m.ed.Doc(), m.styles).Page(m.ed.View().PageElement().(*memdom.Element))
	first := int(m.port.ScrollTop() - m.ed.View().TopPad())
	height := int(m.port.ClientHeight())

	out := make([]string, 0, height)
	for y := first; y < first+height; y++ {
		if y < 0 || y >= len(pageLines) {
			out = append(out, "")
			continue
		}
		out = append(out, pageLines[y])
	}
	return out
}

func (m *model) statusLine() string {
	vs := m.ed.View().State()
	caret := "no caret"
	if pos, ok := m.ed.Caret(); ok {
		caret = fmt.Sprintf("%s:%d", pos.Hash, pos.Offset)
	}
	s := fmt.Sprintf("v%d  %s  blocks %d/%d  pads %.0f/%.0f",
		m.ed.Doc().Version(), caret, vs.Attached, len(m.ed.Doc().LeafBlocks()), vs.TopPad, vs.BotPad)
	if m.status != "" {
		s += "  " + m.status
	}
	return m.styles.Status.Render(s)
}
