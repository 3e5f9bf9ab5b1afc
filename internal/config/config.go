package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"werscore/internal/editdist"
	"werscore/internal/normalize"
	"werscore/internal/scoring"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Normalize mirrors normalize.Options for the config file.
type Normalize struct {
	RemoveAccents     bool `toml:"remove_accents"`
	RemovePunctuation bool `toml:"remove_punctuation"`
}

// Weights holds the edit costs used for alignment traces.
type Weights struct {
	Insert     int `toml:"insert"`
	Delete     int `toml:"delete"`
	Substitute int `toml:"substitute"`
}

// Limits bounds input sizes before quadratic alignment starts.
type Limits struct {
	MaxWords int `toml:"max_words"` // 0 disables
	MaxChars int `toml:"max_chars"` // 0 disables
}

// Input controls transcript decoding.
type Input struct {
	Encoding string `toml:"encoding"`
}

// Report contains alignment output settings.
type Report struct {
	Format     string `toml:"format"`
	Color      string `toml:"color"` // auto, always, never
	Width      int    `toml:"width"`
	CharCounts bool   `toml:"char_counts"`
}

// History contains run history settings.
type History struct {
	Enabled  bool   `toml:"enabled"`
	Path     string `toml:"path"`
	KeepDays int    `toml:"keep_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for werscore.
//
// Configuration sections:
//   - Paths: data and log directories
//   - Normalize: accent and punctuation handling before scoring
//   - Weights: edit costs for alignment traces (scores always use unit costs)
//   - Limits: maximum word and character counts per transcript
//   - Input: transcript character encoding
//   - Report: alignment layout, colour and wrapping
//   - History: SQLite run history
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Normalize Normalize `toml:"normalize"`
	Weights   Weights   `toml:"weights"`
	Limits    Limits    `toml:"limits"`
	Input     Input     `toml:"input"`
	Report    Report    `toml:"report"`
	History   History   `toml:"history"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/werscore/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("werscore.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ScoringOptions converts the normalize, weights and limits sections into
// scoring options.
func (c *Config) ScoringOptions() scoring.Options {
	return scoring.Options{
		Normalize: normalize.Options{
			RemoveAccents:     c.Normalize.RemoveAccents,
			RemovePunctuation: c.Normalize.RemovePunctuation,
		},
		Weights: editdist.Weights{
			Insert:     c.Weights.Insert,
			Delete:     c.Weights.Delete,
			Substitute: c.Weights.Substitute,
		},
		MaxWords:   c.Limits.MaxWords,
		MaxChars:   c.Limits.MaxChars,
		CharCounts: c.Report.CharCounts,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
