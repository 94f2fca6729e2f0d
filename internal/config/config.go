// Package config loads the host configuration of the mdpage programs.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes the environment variables that override file values.
const EnvPrefix = "MDPAGE_"

// Config holds the complete host configuration.
type Config struct {
	Logging  LoggingConfig  `toml:"logging" json:"logging" yaml:"logging"`
	View     ViewConfig     `toml:"view" json:"view" yaml:"view"`
	Terminal TerminalConfig `toml:"terminal" json:"terminal" yaml:"terminal"`
}

// LoggingConfig configures internal/logger.
type LoggingConfig struct {
	// Level is debug, info, warn, error or disabled.
	Level  string `toml:"level" json:"level" yaml:"level"`
	Pretty bool   `toml:"pretty" json:"pretty" yaml:"pretty"`
	// File receives the log when set; stderr otherwise.
	File string `toml:"file" json:"file" yaml:"file"`
}

// ViewConfig tunes the attached window. Values are in host pixels.
type ViewConfig struct {
	AddMargin    float64 `toml:"add_margin" json:"add_margin" yaml:"add_margin"`
	RemoveMargin float64 `toml:"remove_margin" json:"remove_margin" yaml:"remove_margin"`
	Gutter       float64 `toml:"gutter" json:"gutter" yaml:"gutter"`
	// Verify checks the model and window invariants after every edit.
	Verify bool `toml:"verify" json:"verify" yaml:"verify"`
}

// TerminalConfig configures the terminal demo, where one text line is one
// pixel.
type TerminalConfig struct {
	Width       int     `toml:"width" json:"width" yaml:"width"`
	Height      int     `toml:"height" json:"height" yaml:"height"`
	InnateScale float64 `toml:"innate_scale" json:"innate_scale" yaml:"innate_scale"`
	// Snapshot is the YAML file the page is loaded from and saved to.
	Snapshot string `toml:"snapshot" json:"snapshot" yaml:"snapshot"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		View: ViewConfig{
			AddMargin:    20,
			RemoveMargin: 50,
			Gutter:       50,
		},
		Terminal: TerminalConfig{
			Width:       80,
			Height:      24,
			InnateScale: 0.25,
			Snapshot:    "page.yaml",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file yields the defaults. The format follows the extension; TOML
// is assumed for any other.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.ApplyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch filepath.Ext(path) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
		if undec := md.Undecoded(); len(undec) > 0 {
			return nil, fmt.Errorf("decode TOML: unknown key %q", undec[0].String())
		}
	}
	cfg.ApplyEnvOverrides()
	return cfg, nil
}

// Save writes c to path as TOML.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode TOML: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies MDPAGE_* environment variables. Values that do
// not parse are ignored.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FILE"); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvPrefix + "SNAPSHOT"); v != "" {
		c.Terminal.Snapshot = v
	}
	if v := os.Getenv(EnvPrefix + "VERIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.View.Verify = b
		}
	}
}
