package editor

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/dom"
)

// Config configures an Editor. Zero values select defaults.
type Config struct {
	// Host is the document the page is rendered into.
	Host dom.Document
	// Port is the scroll element that receives the spacers and the page.
	Port dom.ScrollPort

	// State is the initial document and scroll position.
	State State

	KeyMap KeyMap // default: DefaultKeyMap()

	// Window tuning, forwarded to view.Options.
	AddMargin    float64
	RemoveMargin float64
	Gutter       float64
	InnateScale  float64

	// Rand seeds the identifier issuer (default: crypto/rand).
	Rand io.Reader

	// Verify runs the model and window invariant checks after every edit
	// and marks broken blocks with a diagnostic placeholder.
	Verify bool

	Logger zerolog.Logger

	// OnChange is called after every edit that changed the model.
	OnChange func(ChangeEvent)
	// OnError is called once when the session hits an unrecoverable error.
	OnError func(error)
}
