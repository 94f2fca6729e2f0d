// Package jsdom implements the dom host contract over the browser DOM.
//
// Browser offsets count UTF-16 code units while the contract counts code
// points; the adapter converts at every text and selection boundary.
package jsdom

import "unicode/utf8"

// toUTF16 converts a code-point offset in s to a UTF-16 offset.
func toUTF16(s string, cp int) int {
	u := 0
	for _, r := range s {
		if cp <= 0 {
			break
		}
		u += utf16Len(r)
		cp--
	}
	return u
}

// fromUTF16 converts a UTF-16 offset in s to a code-point offset. An offset
// inside a surrogate pair rounds down.
func fromUTF16(s string, u int) int {
	cp := 0
	for _, r := range s {
		n := utf16Len(r)
		if u < n {
			break
		}
		u -= n
		cp++
	}
	return cp
}

func utf16Len(r rune) int {
	if r >= 0x10000 && r <= utf8.MaxRune {
		return 2
	}
	return 1
}
