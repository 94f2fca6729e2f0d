package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/mdpage/editor"
)

const welcome = `# mdpage
Type to edit. Enter splits a block, Backspace at the start of a block joins it to the one above.
## Triggers
Type # then space at the start of a plain block for a heading, - for a list item, > for a quote.
- **bold**, *italic*, ==highlight== and ` + "`code`" + ` spans survive splits and joins
[ ] check items start unchecked after Enter
> quoted blocks split around the caret
Ctrl+S saves the page, Ctrl+E prints it as markdown, Ctrl+Q quits.`

// loadState reads the snapshot at path. With importPath set the page is
// built from that markdown file instead. A missing snapshot yields the
// welcome page.
func loadState(path, importPath string) (editor.State, error) {
	if importPath != "" {
		raw, err := os.ReadFile(importPath)
		if err != nil {
			return editor.State{}, fmt.Errorf("read markdown: %w", err)
		}
		return editor.StateFromMarkdown(string(raw)), nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return editor.StateFromMarkdown(welcome), nil
	}
	if err != nil {
		return editor.State{}, fmt.Errorf("read snapshot: %w", err)
	}
	var st editor.State
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return editor.State{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return st, nil
}

// saveState writes st to path through a temporary file in the same
// directory.
func saveState(path string, st editor.State) error {
	raw, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mdpage-*.yaml")
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
