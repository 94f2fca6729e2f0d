package editor

import (
	"strings"

	"github.com/iw2rmb/mdpage/internal/grapheme"
)

// Key codes the edit engine dispatches on.
const (
	CodeBackspace = 8
	CodeTab       = 9
	CodeEnter     = 13
	CodeShift     = 16
	CodeSpace     = 32
	CodeLeft      = 37
	CodeUp        = 38
	CodeRight     = 39
	CodeDown      = 40
	CodeMeta      = 93
)

// KeyEvent is a host keydown event.
type KeyEvent struct {
	// Key is the produced text for printable keys ("a", "É", " ") and the
	// key name otherwise ("Backspace", "ArrowLeft").
	Key  string
	Code int

	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
}

var codeNames = map[int]string{
	CodeBackspace: "backspace",
	CodeTab:       "tab",
	CodeEnter:     "enter",
	CodeShift:     "shift",
	CodeSpace:     "space",
	CodeLeft:      "left",
	CodeUp:        "up",
	CodeRight:     "right",
	CodeDown:      "down",
	CodeMeta:      "meta",
}

// String is the normalized key name bindings match against, e.g. "enter",
// "shift+left", "ctrl+c" or "x".
func (ev KeyEvent) String() string {
	name, ok := codeNames[ev.Code]
	if !ok {
		name = ev.Key
	}
	var sb strings.Builder
	if ev.Ctrl && name != "ctrl" {
		sb.WriteString("ctrl+")
	}
	if ev.Alt && !ev.Printable() {
		sb.WriteString("alt+")
	}
	if ev.Meta && ev.Code != CodeMeta {
		sb.WriteString("meta+")
	}
	// shift is part of the produced text for printable keys
	if ev.Shift && ok && ev.Code != CodeShift {
		sb.WriteString("shift+")
	}
	sb.WriteString(name)
	return sb.String()
}

// Printable reports whether the event produces exactly one character that
// is inserted as text.
func (ev KeyEvent) Printable() bool {
	if ev.Ctrl || ev.Meta {
		return false
	}
	switch ev.Code {
	case CodeBackspace, CodeTab, CodeEnter, CodeShift, CodeMeta,
		CodeLeft, CodeUp, CodeRight, CodeDown:
		return false
	}
	return grapheme.Count(ev.Key) == 1 && !isControl(ev.Key)
}

func isControl(s string) bool {
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return true
		}
	}
	return false
}
