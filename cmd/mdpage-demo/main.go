// Command mdpage-demo edits a page in the terminal. The page is laid out by
// the headless host, one text line per pixel, and painted with lipgloss.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/iw2rmb/mdpage"
	"github.com/iw2rmb/mdpage/internal/config"
	"github.com/iw2rmb/mdpage/internal/logger"
	"github.com/iw2rmb/mdpage/page"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "mdpage-demo:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("mdpage-demo", flag.ContinueOnError)
	configPath := fs.String("config", "mdpage.toml", "configuration file")
	snapshot := fs.String("snapshot", "", "page snapshot (overrides terminal.snapshot)")
	importPath := fs.String("import", "", "start from a markdown file")
	export := fs.Bool("export", false, "print the page as markdown and exit")
	version := fs.Bool("version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *version {
		fmt.Fprintln(stdout, mdpage.VersionTag())
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *snapshot != "" {
		cfg.Terminal.Snapshot = *snapshot
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, closeLog, err := openLogger(cfg.Logging, *export)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := loadState(cfg.Terminal.Snapshot, *importPath)
	if err != nil {
		return err
	}
	if *export {
		fmt.Fprintln(stdout, page.Markdown(st.Root()))
		return nil
	}

	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	m, err := newModel(cfg, log, st)
	if err != nil {
		return err
	}
	log.Info().Str("snapshot", cfg.Terminal.Snapshot).Int("blocks", len(m.ed.Doc().LeafBlocks())).Msg("starting")
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return err
	}
	if m.markdown != "" {
		fmt.Fprintln(stdout, m.markdown)
	}
	return nil
}

// openLogger logs to the configured file. Without one the terminal UI
// discards log lines, while the non-interactive export logs to stderr.
func openLogger(cfg config.LoggingConfig, export bool) (zerolog.Logger, func(), error) {
	lc := logger.Config{Level: cfg.Level, Pretty: cfg.Pretty}
	closeFn := func() {}
	switch {
	case cfg.File != "":
		f, err := logger.File(cfg.File)
		if err != nil {
			return zerolog.Nop(), closeFn, fmt.Errorf("open log file: %w", err)
		}
		lc.Output = f
		closeFn = func() { f.Close() }
	case export:
		lc.Output = os.Stderr
	default:
		lc.Output = io.Discard
	}
	return logger.New(lc), closeFn, nil
}
