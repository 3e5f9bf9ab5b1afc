package config

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding/htmlindex"

	"werscore/internal/alignment"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWeights(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if _, err := htmlindex.Get(c.Input.Encoding); err != nil {
		return fmt.Errorf("input.encoding: unsupported encoding %q", c.Input.Encoding)
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWeights() error {
	w := c.Weights
	if w.Insert < 0 || w.Delete < 0 || w.Substitute < 0 {
		return errors.New("weights.insert, weights.delete and weights.substitute must be >= 0")
	}
	if w.Insert == 0 && w.Delete == 0 && w.Substitute == 0 {
		return errors.New("weights must not all be zero")
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Limits.MaxWords < 0 {
		return errors.New("limits.max_words must be >= 0")
	}
	if c.Limits.MaxChars < 0 {
		return errors.New("limits.max_chars must be >= 0")
	}
	return nil
}

func (c *Config) validateReport() error {
	if _, err := alignment.ParseFormat(c.Report.Format); err != nil {
		return fmt.Errorf("report.format: %w", err)
	}
	switch c.Report.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("report.color: unsupported value %q (want auto, always or never)", c.Report.Color)
	}
	return nil
}

func (c *Config) validateHistory() error {
	if c.History.KeepDays < 0 {
		return errors.New("history.keep_days must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
