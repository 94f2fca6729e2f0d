package memdom

import (
	"github.com/iw2rmb/mdpage/dom"
)

// Selection is an in-memory selection with at most one range.
type Selection struct {
	doc *Document

	anchor    node
	anchorOff int
	focus     node
	focusOff  int
	ranges    int
}

var _ dom.Selection = (*Selection)(nil)

func (s *Selection) AnchorNode() dom.Node {
	if s.anchor == nil {
		return nil
	}
	return s.anchor
}

func (s *Selection) AnchorOffset() int { return s.anchorOff }

func (s *Selection) FocusNode() dom.Node {
	if s.focus == nil {
		return nil
	}
	return s.focus
}

func (s *Selection) FocusOffset() int { return s.focusOff }

func (s *Selection) IsCollapsed() bool {
	if s.ranges == 0 {
		return true
	}
	return s.anchor == s.focus && s.anchorOff == s.focusOff
}

func (s *Selection) RangeCount() int { return s.ranges }

func (s *Selection) RemoveAllRanges() {
	s.anchor, s.focus = nil, nil
	s.anchorOff, s.focusOff = 0, 0
	s.ranges = 0
}

func (s *Selection) AddCaret(n dom.Node, offset int) {
	s.SetRange(n, offset, n, offset)
}

// SetRange installs a range from (anchor, anchorOff) to (focus, focusOff).
func (s *Selection) SetRange(anchor dom.Node, anchorOff int, focus dom.Node, focusOff int) {
	s.anchor, s.anchorOff = asNode(anchor), anchorOff
	s.focus, s.focusOff = asNode(focus), focusOff
	s.ranges = 1
	if s.anchor == nil {
		s.ranges = 0
	}
}

// Modify supports alter "move" and "extend", directions "forward" /
// "backward" (and "left" / "right"), granularities "character" and "line".
func (s *Selection) Modify(alter, direction, granularity string) {
	if s.ranges == 0 || s.focus == nil {
		return
	}
	cur, ok := s.focus.(*Text)
	if !ok {
		return
	}
	forward := direction == "forward" || direction == "right"

	texts := s.doc.textNodes()
	i := -1
	for j, t := range texts {
		if t == cur {
			i = j
			break
		}
	}
	if i < 0 {
		return
	}

	next, off := cur, s.focusOff
	switch granularity {
	case "line":
		next, off = lineStep(texts, i, off, forward)
	default:
		next, off = charStep(texts, i, off, forward)
	}

	s.focus, s.focusOff = next, off
	if alter != "extend" {
		s.anchor, s.anchorOff = next, off
	}
}

func charStep(texts []*Text, i, off int, forward bool) (*Text, int) {
	cur := texts[i]
	if forward {
		if off < cur.Len() {
			return cur, off + 1
		}
		if i+1 >= len(texts) {
			return cur, off
		}
		next := texts[i+1]
		if blockOf(next) == blockOf(cur) {
			return next, clampInt(1, 0, next.Len())
		}
		return next, 0
	}
	if off > 0 {
		return cur, off - 1
	}
	if i == 0 {
		return cur, off
	}
	prev := texts[i-1]
	if blockOf(prev) == blockOf(cur) {
		return prev, clampInt(prev.Len()-1, 0, prev.Len())
	}
	return prev, prev.Len()
}

func lineStep(texts []*Text, i, off int, forward bool) (*Text, int) {
	block := blockOf(texts[i])
	if forward {
		for j := i + 1; j < len(texts); j++ {
			if blockOf(texts[j]) != block {
				return texts[j], clampInt(off, 0, texts[j].Len())
			}
		}
		return texts[i], off
	}
	for j := i - 1; j >= 0; j-- {
		b := blockOf(texts[j])
		if b == block {
			continue
		}
		// first text node of the previous block
		k := j
		for k > 0 && blockOf(texts[k-1]) == b {
			k--
		}
		return texts[k], clampInt(off, 0, texts[k].Len())
	}
	return texts[i], off
}

func blockOf(t *Text) *Element {
	for p := t.parent; p != nil; p = p.parent {
		if p.isBlock() {
			return p
		}
	}
	return nil
}

func (d *Document) textNodes() []*Text {
	var out []*Text
	var walk func(e *Element)
	walk = func(e *Element) {
		for _, c := range e.children {
			switch v := c.(type) {
			case *Text:
				out = append(out, v)
			case *Element:
				walk(v)
			}
		}
	}
	walk(d.body)
	return out
}
