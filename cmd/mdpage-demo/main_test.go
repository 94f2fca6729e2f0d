package main

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage/editor"
	"github.com/iw2rmb/mdpage/internal/config"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func testModel(t *testing.T, markdown string) *model {
	t.Helper()
	cfg := config.Default()
	cfg.Terminal.Width = 20
	cfg.Terminal.Height = 12
	cfg.Terminal.Snapshot = t.TempDir() + "/page.yaml"
	cfg.View.AddMargin, cfg.View.RemoveMargin, cfg.View.Gutter = 2, 5, 2
	cfg.View.Verify = true
	m, err := newModel(cfg, zerolog.Nop(), editor.StateFromMarkdown(markdown))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(m.Init()())
	return m
}

func send(m *model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestModel_TypingShowsInView(t *testing.T) {
	m := testModel(t, "hello")
	if !m.ed.Ready() {
		t.Fatalf("editor not ready after the first frame")
	}
	send(m, tea.KeyMsg{Type: tea.KeyRight}, runes("X"), tea.KeyMsg{Type: tea.KeySpace})
	if got, want := m.ed.Markdown(), "hX ello"; got != want {
		t.Fatalf("markdown=%q, want %q", got, want)
	}
	view := m.View()
	if !strings.Contains(view, "hX ello") {
		t.Fatalf("view does not show the text:\n%s", view)
	}
	if got := strings.Count(view, "\n"); got != 11 {
		t.Fatalf("view has %d line breaks, want 11", got)
	}
}

func TestModel_TriggersAndSplit(t *testing.T) {
	m := testModel(t, "")
	send(m, runes("#"), tea.KeyMsg{Type: tea.KeySpace}, runes("Top"), tea.KeyMsg{Type: tea.KeyEnter}, runes("-"), tea.KeyMsg{Type: tea.KeySpace})
	// the dash trigger only fires in plain blocks
	if got, want := m.ed.Markdown(), "# Top\n# - "; got != want {
		t.Fatalf("markdown=%q, want %q", got, want)
	}
	back := tea.KeyMsg{Type: tea.KeyBackspace}
	send(m, back, back, back)
	if got, want := m.ed.Markdown(), "# Top\n"; got != want {
		t.Fatalf("markdown=%q, want %q", got, want)
	}
	send(m, back)
	if got, want := m.ed.Markdown(), "# Top"; got != want {
		t.Fatalf("markdown=%q, want %q", got, want)
	}
}

func TestModel_ScrollKeepsWindowSmall(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "line"
	}
	m := testModel(t, strings.Join(lines, "\n"))
	send(m, tea.KeyMsg{Type: tea.KeyPgDown}, tea.KeyMsg{Type: tea.KeyPgDown},
		tea.MouseMsg{Button: tea.MouseButtonWheelDown})
	if err := m.ed.View().Check(); err != nil {
		t.Fatalf("view check: %v", err)
	}
	if got := m.port.ScrollTop(); got != 23 {
		t.Fatalf("scroll top=%v, want 23", got)
	}
	if n := m.ed.View().State().Attached; n >= 100 {
		t.Fatalf("attached=%d, want a window", n)
	}
	if view := m.View(); !strings.Contains(view, "line") {
		t.Fatalf("scrolled view is empty:\n%s", view)
	}
}

func TestModel_SaveAndReload(t *testing.T) {
	m := testModel(t, "- one\n[x] two")
	send(m, runes("!"), tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.HasPrefix(m.status, "saved") {
		t.Fatalf("status=%q, want saved", m.status)
	}
	st, err := loadState(m.path, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	root := st.Root()
	if got, want := len(root.Children), 2; got != want {
		t.Fatalf("blocks=%d, want %d", got, want)
	}
	if st.Nodes[0].Hash != m.ed.Doc().LeafBlocks()[0].Hash {
		t.Fatalf("saved hash %q, want %q", st.Nodes[0].Hash, m.ed.Doc().LeafBlocks()[0].Hash)
	}
}

func TestModel_ExportQuits(t *testing.T) {
	m := testModel(t, "a **b**")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if cmd == nil {
		t.Fatalf("export did not quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("export returned %T, want a quit", cmd())
	}
	if m.markdown != "a **b**" {
		t.Fatalf("markdown=%q", m.markdown)
	}
}

func TestModel_Resize(t *testing.T) {
	m := testModel(t, "x")
	send(m, tea.WindowSizeMsg{Width: 40, Height: 30})
	if got := m.port.ClientHeight(); got != 28 {
		t.Fatalf("client height=%v, want 28", got)
	}
	if got := strings.Count(m.View(), "\n"); got != 29 {
		t.Fatalf("view rows=%d, want 30", got+1)
	}
}

func TestRun_ExportAndVersion(t *testing.T) {
	dir := t.TempDir()
	md := dir + "/in.md"
	if err := os.WriteFile(md, []byte("# T\n> q"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out strings.Builder
	if err := run([]string{"-config", dir + "/none.toml", "-import", md, "-export"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got, want := out.String(), "# T\n> q\n"; got != want {
		t.Fatalf("export=%q, want %q", got, want)
	}

	out.Reset()
	if err := run([]string{"-version"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "v") {
		t.Fatalf("version=%q", out.String())
	}
}
