package memdom

import (
	"github.com/iw2rmb/mdpage/dom"
)

// Text is an in-memory character-data node.
type Text struct {
	nodeBase
	data []rune
}

var _ dom.Text = (*Text)(nil)

func (t *Text) Same(other dom.Node) bool {
	o, ok := other.(*Text)
	return ok && o == t
}

func (t *Text) Data() string { return string(t.data) }

func (t *Text) SetData(s string) { t.data = []rune(s) }

func (t *Text) Len() int { return len(t.data) }

func (t *Text) InsertData(offset int, s string) {
	offset = clampInt(offset, 0, len(t.data))
	ins := []rune(s)
	out := make([]rune, 0, len(t.data)+len(ins))
	out = append(out, t.data[:offset]...)
	out = append(out, ins...)
	out = append(out, t.data[offset:]...)
	t.data = out
}

func (t *Text) DeleteData(offset, count int) {
	offset = clampInt(offset, 0, len(t.data))
	end := clampInt(offset+count, offset, len(t.data))
	t.data = append(t.data[:offset:offset], t.data[end:]...)
}

// Remove detaches the text node from its parent.
func (t *Text) Remove() { t.detach() }

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
