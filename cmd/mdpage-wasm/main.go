//go:build js && wasm

// Command mdpage-wasm installs the editor into a browser page. The page
// needs a fixed-height scrollable element with id "mdpage"; its
// data-markdown attribute, or a JSON snapshot in the global mdpageState,
// seeds the document.
//
// The program exposes mdpageSnapshot() and mdpageMarkdown() to scripts and
// dispatches an "mdpage:change" event on the element after every edit.
package main

import (
	"encoding/json"
	"os"
	"syscall/js"

	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/dom/jsdom"
	"github.com/iw2rmb/mdpage/editor"
	"github.com/iw2rmb/mdpage/internal/logger"
)

const portID = "mdpage"

func main() {
	log := logger.New(logger.Config{Level: logLevel(), Output: os.Stderr})
	host := jsdom.New()
	port := host.ElementByID(portID)
	if port == nil {
		log.Error().Str("id", portID).Msg("scroll element not found")
		return
	}

	st, err := initialState(port)
	if err != nil {
		log.Error().Err(err).Msg("bad initial state, starting empty")
	}
	ed, err := editor.New(editor.Config{
		Host:   host,
		Port:   port,
		State:  st,
		Logger: log,
		OnChange: func(ev editor.ChangeEvent) {
			detail := js.Global().Get("Object").New()
			detail.Set("version", float64(ev.Version))
			detail.Set("hash", ev.Caret.Hash)
			detail.Set("offset", ev.Caret.Offset)
			opts := js.Global().Get("Object").New()
			opts.Set("detail", detail)
			port.Value().Call("dispatchEvent", js.Global().Get("CustomEvent").New("mdpage:change", opts))
		},
		OnError: func(err error) {
			js.Global().Get("console").Call("error", "mdpage: "+err.Error())
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("editor not created")
		return
	}

	onKey := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := args[0]
		if ed.KeyDown(keyEvent(ev)) {
			ev.Call("preventDefault")
		}
		return nil
	})
	onScroll := js.FuncOf(func(js.Value, []js.Value) any {
		ed.Scroll()
		return nil
	})
	port.Value().Call("addEventListener", "keydown", onKey)
	port.Value().Call("addEventListener", "scroll", onScroll)

	js.Global().Set("mdpageSnapshot", js.FuncOf(func(js.Value, []js.Value) any {
		raw, err := json.Marshal(ed.Snapshot())
		if err != nil {
			log.Error().Err(err).Msg("snapshot")
			return js.Null()
		}
		return string(raw)
	}))
	js.Global().Set("mdpageMarkdown", js.FuncOf(func(js.Value, []js.Value) any {
		return ed.Markdown()
	}))

	log.Info().Int("blocks", len(ed.Doc().LeafBlocks())).Msg("editor installed")
	select {}
}

func initialState(port *jsdom.Element) (editor.State, error) {
	if raw := js.Global().Get("mdpageState"); raw.Type() == js.TypeString {
		var st editor.State
		if err := json.Unmarshal([]byte(raw.String()), &st); err != nil {
			return editor.State{}, err
		}
		return st, nil
	}
	md, _ := port.Attr("data-markdown")
	return editor.StateFromMarkdown(md), nil
}

func keyEvent(ev js.Value) editor.KeyEvent {
	return editor.KeyEvent{
		Key:   ev.Get("key").String(),
		Code:  ev.Get("keyCode").Int(),
		Shift: ev.Get("shiftKey").Bool(),
		Ctrl:  ev.Get("ctrlKey").Bool(),
		Alt:   ev.Get("altKey").Bool(),
		Meta:  ev.Get("metaKey").Bool(),
	}
}

func logLevel() string {
	if v := js.Global().Get("mdpageLogLevel"); v.Type() == js.TypeString {
		return v.String()
	}
	return zerolog.LevelWarnValue
}
