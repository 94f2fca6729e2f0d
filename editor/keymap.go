package editor

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor key bindings. Bindings match KeyEvent.String.
type KeyMap struct {
	Left, Right, Up, Down                     key.Binding
	ShiftLeft, ShiftRight, ShiftUp, ShiftDown key.Binding

	Backspace key.Binding
	Enter     key.Binding
	Space     key.Binding

	// Modifier keys pressed alone.
	Modifier key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "line up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "line down")),

		ShiftLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("shift+←", "select left")),
		ShiftRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("shift+→", "select right")),
		ShiftUp:    key.NewBinding(key.WithKeys("shift+up"), key.WithHelp("shift+↑", "select up")),
		ShiftDown:  key.NewBinding(key.WithKeys("shift+down"), key.WithHelp("shift+↓", "select down")),

		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete left / join blocks")),
		Enter:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "split block")),
		Space:     key.NewBinding(key.WithKeys("space", "shift+space"), key.WithHelp("space", "space / convert trigger")),

		Modifier: key.NewBinding(key.WithKeys("shift", "tab", "shift+tab", "meta")),
	}
}

// ShortHelp lists the bindings a host shows in a one-line help bar.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Enter, km.Backspace, km.Space, km.Up, km.Down}
}

// FullHelp groups every documented binding.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Left, km.Right, km.Up, km.Down},
		{km.ShiftLeft, km.ShiftRight, km.ShiftUp, km.ShiftDown},
		{km.Enter, km.Backspace, km.Space},
	}
}
