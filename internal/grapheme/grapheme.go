// Package grapheme holds the text measurements shared by the document model
// and the headless layout: grapheme clusters, code-point offsets and
// terminal-cell widths.
package grapheme

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Split returns grapheme clusters for text in visual order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, utf8.RuneCountInString(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Len returns the length of text in code points. Caret offsets in the
// document model are counted in code points.
func Len(text string) int {
	return utf8.RuneCountInString(text)
}

// Insert returns text with s spliced in at code-point offset off.
func Insert(text string, off int, s string) string {
	rs := []rune(text)
	off = clamp(off, 0, len(rs))
	return string(rs[:off]) + s + string(rs[off:])
}

// Cut splits text at code-point offset off.
func Cut(text string, off int) (left, right string) {
	rs := []rune(text)
	off = clamp(off, 0, len(rs))
	return string(rs[:off]), string(rs[off:])
}

// Delete removes the code points in [start, end).
func Delete(text string, start, end int) string {
	rs := []rune(text)
	start = clamp(start, 0, len(rs))
	end = clamp(end, start, len(rs))
	return string(rs[:start]) + string(rs[end:])
}

// ClusterBefore returns the number of code points in the grapheme cluster
// that ends at code-point offset off. It is 0 when off is at the start.
func ClusterBefore(text string, off int) int {
	if off <= 0 || text == "" {
		return 0
	}
	pos := 0
	last := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n := utf8.RuneCountInString(g.Str())
		if pos+n > off {
			// off splits a cluster; only the part before off goes.
			return off - pos
		}
		pos += n
		last = n
		if pos == off {
			return last
		}
	}
	return last
}

// Width returns the terminal-cell width of text.
func Width(text string) int {
	w := 0
	for _, c := range Split(text) {
		w += clusterWidth(c)
	}
	return w
}

func clusterWidth(c string) int {
	w := runewidth.StringWidth(c)
	if w < 0 {
		w = 0
	}
	if w == 0 {
		if fallback := uniseg.StringWidth(c); fallback > w {
			w = fallback
		}
	}
	return w
}

func clamp(v, lo, hi int) int {
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
