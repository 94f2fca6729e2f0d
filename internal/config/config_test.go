package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 20.0, cfg.View.AddMargin)
	assert.Equal(t, 50.0, cfg.View.RemoveMargin)
	assert.Equal(t, 50.0, cfg.View.Gutter)
	assert.Equal(t, "page.yaml", cfg.Terminal.Snapshot)
}

func TestLoad_Missing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_TOML(t *testing.T) {
	path := write(t, "mdpage.toml", `
[logging]
level = "debug"
pretty = true

[view]
add_margin = 2
remove_margin = 6
verify = true

[terminal]
height = 40
snapshot = "notes.yaml"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Pretty)
	assert.Equal(t, 2.0, cfg.View.AddMargin)
	assert.Equal(t, 6.0, cfg.View.RemoveMargin)
	assert.Equal(t, 50.0, cfg.View.Gutter, "unset keys keep their default")
	assert.True(t, cfg.View.Verify)
	assert.Equal(t, 40, cfg.Terminal.Height)
	assert.Equal(t, 80, cfg.Terminal.Width)
	assert.Equal(t, "notes.yaml", cfg.Terminal.Snapshot)
	require.NoError(t, cfg.Validate())
}

func TestLoad_UnknownTOMLKey(t *testing.T) {
	path := write(t, "mdpage.toml", "[view]\nadd_marginn = 3\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "view.add_marginn")
}

func TestLoad_YAMLAndJSON(t *testing.T) {
	y := write(t, "mdpage.yaml", "terminal:\n  width: 100\n")
	cfg, err := Load(y)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Terminal.Width)

	j := write(t, "mdpage.json", `{"logging": {"level": "warn"}}`)
	cfg, err = Load(j)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_Malformed(t *testing.T) {
	_, err := Load(write(t, "bad.toml", "[view\n"))
	require.Error(t, err)
	_, err = Load(write(t, "bad.json", "{"))
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MDPAGE_LOG_LEVEL", "error")
	t.Setenv("MDPAGE_SNAPSHOT", "/tmp/x.yaml")
	t.Setenv("MDPAGE_VERIFY", "true")
	t.Setenv("MDPAGE_LOG_FILE", "")

	cfg, err := Load(write(t, "mdpage.toml", "[logging]\nlevel = \"debug\"\n"))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "/tmp/x.yaml", cfg.Terminal.Snapshot)
	assert.True(t, cfg.View.Verify)
	assert.Empty(t, cfg.Logging.File)

	t.Setenv("MDPAGE_VERIFY", "maybe")
	cfg = Default()
	cfg.ApplyEnvOverrides()
	assert.False(t, cfg.View.Verify)
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Logging.File = "mdpage.log"
	cfg.Terminal.InnateScale = 0.5
	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "loud"
	cfg.View.AddMargin = 30
	cfg.View.RemoveMargin = 10
	cfg.View.Gutter = -1
	cfg.Terminal.Width = 4
	cfg.Terminal.Snapshot = ""

	err := cfg.Validate()
	require.Error(t, err)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"logging.level",
		"view.remove_margin",
		"view.gutter",
		"terminal.width",
		"terminal.snapshot",
	}, fields)
	assert.Contains(t, err.Error(), "config: logging.level: unknown level \"loud\"")
}
