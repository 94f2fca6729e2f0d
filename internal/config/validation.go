package config

import (
	"fmt"
	"strings"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var logLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
}

// Validate reports every invalid field as ValidationErrors.
func (c *Config) Validate() error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !logLevels[strings.ToLower(c.Logging.Level)] {
		add("logging.level", "unknown level %q", c.Logging.Level)
	}

	v := c.View
	if v.AddMargin < 0 {
		add("view.add_margin", "must not be negative")
	}
	if v.RemoveMargin < 0 {
		add("view.remove_margin", "must not be negative")
	}
	// remove_margin >= add_margin
	if v.RemoveMargin > 0 && v.AddMargin > 0 && v.RemoveMargin < v.AddMargin {
		add("view.remove_margin", "%v is below add_margin %v", v.RemoveMargin, v.AddMargin)
	}
	if v.Gutter < 0 {
		add("view.gutter", "must not be negative")
	}

	term := c.Terminal
	if term.Width < 10 {
		add("terminal.width", "must be at least 10, got %d", term.Width)
	}
	if term.Height < 3 {
		add("terminal.height", "must be at least 3, got %d", term.Height)
	}
	if term.InnateScale < 0 {
		add("terminal.innate_scale", "must not be negative")
	}
	if term.Snapshot == "" {
		add("terminal.snapshot", "is required")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
