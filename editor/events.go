package editor

import "github.com/iw2rmb/mdpage/page"

type ChangeEvent struct {
	Version uint64
	// Caret is where the edit left the caret; empty when it could not be
	// placed.
	Caret Position

	// Change lists the primitives the edit applied; hosts derive inverses
	// from it.
	Change page.Change
}

func buildChangeEvent(d *page.Doc, c page.Change, caret Position) ChangeEvent {
	return ChangeEvent{
		Version: d.Version(),
		Caret:   caret,
		Change:  c,
	}
}
