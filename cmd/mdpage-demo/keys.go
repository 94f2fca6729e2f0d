package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/mdpage/editor"
	"github.com/iw2rmb/mdpage/internal/grapheme"
)

// appKeys are the host's own bindings; everything else goes to the editor.
type appKeys struct {
	Save     key.Binding
	Quit     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Markdown key.Binding

	editor editor.KeyMap
}

func defaultAppKeys() appKeys {
	return appKeys{
		Save:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Markdown: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "export markdown")),
		editor:   editor.DefaultKeyMap(),
	}
}

func (k appKeys) ShortHelp() []key.Binding {
	return append(k.editor.ShortHelp(), k.Save, k.Quit)
}

func (k appKeys) FullHelp() [][]key.Binding {
	return append(k.editor.FullHelp(), []key.Binding{k.PageUp, k.PageDown, k.Save, k.Markdown, k.Quit})
}

// keyEvents translates a terminal key into editor key events. Pasted or
// multi-rune input becomes one event per grapheme cluster. Alt chords are
// reported as meta chords, which the editor leaves alone.
func keyEvents(msg tea.KeyMsg) []editor.KeyEvent {
	switch msg.Type {
	case tea.KeyRunes:
		var out []editor.KeyEvent
		for _, g := range grapheme.Split(string(msg.Runes)) {
			out = append(out, editor.KeyEvent{Key: g, Meta: msg.Alt})
		}
		return out
	case tea.KeySpace:
		return []editor.KeyEvent{{Key: " ", Code: editor.CodeSpace, Meta: msg.Alt}}
	}

	ev, ok := namedKeys[msg.Type]
	if !ok {
		return nil
	}
	ev.Meta = msg.Alt
	return []editor.KeyEvent{ev}
}

var namedKeys = map[tea.KeyType]editor.KeyEvent{
	tea.KeyBackspace:  {Key: "Backspace", Code: editor.CodeBackspace},
	tea.KeyEnter:      {Key: "Enter", Code: editor.CodeEnter},
	tea.KeyTab:        {Key: "Tab", Code: editor.CodeTab},
	tea.KeyShiftTab:   {Key: "Tab", Code: editor.CodeTab, Shift: true},
	tea.KeyLeft:       {Key: "ArrowLeft", Code: editor.CodeLeft},
	tea.KeyRight:      {Key: "ArrowRight", Code: editor.CodeRight},
	tea.KeyUp:         {Key: "ArrowUp", Code: editor.CodeUp},
	tea.KeyDown:       {Key: "ArrowDown", Code: editor.CodeDown},
	tea.KeyShiftLeft:  {Key: "ArrowLeft", Code: editor.CodeLeft, Shift: true},
	tea.KeyShiftRight: {Key: "ArrowRight", Code: editor.CodeRight, Shift: true},
	tea.KeyShiftUp:    {Key: "ArrowUp", Code: editor.CodeUp, Shift: true},
	tea.KeyShiftDown:  {Key: "ArrowDown", Code: editor.CodeDown, Shift: true},
}
