package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"werscore/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "werscore")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.History.Path != filepath.Join(wantData, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.History.Path)
	}
	if cfg.Paths.LogDir != "" {
		t.Fatalf("expected empty log dir by default, got %q", cfg.Paths.LogDir)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if cfg.Weights.Insert != 1 || cfg.Weights.Delete != 1 || cfg.Weights.Substitute != 1 {
		t.Fatalf("expected unit weights, got %+v", cfg.Weights)
	}
	if cfg.Report.Format != "table" || cfg.Report.Color != "auto" || cfg.Report.Width != 100 {
		t.Fatalf("unexpected report defaults: %+v", cfg.Report)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(tempHome, "config.toml")
	payload := map[string]any{
		"paths": map[string]any{
			"data_dir": "~/scores",
			"log_dir":  "~/scores/logs",
		},
		"normalize": map[string]any{
			"remove_accents":     true,
			"remove_punctuation": true,
		},
		"weights": map[string]any{
			"insert":     1,
			"delete":     2,
			"substitute": 3,
		},
		"limits": map[string]any{
			"max_words": 50,
			"max_chars": 0,
		},
		"input": map[string]any{
			"encoding": "Windows-1252",
		},
		"report": map[string]any{
			"format":      "PAIRWISE",
			"color":       "never",
			"width":       72,
			"char_counts": true,
		},
		"logging": map[string]any{
			"format": "json",
			"level":  "debug",
		},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "scores") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "scores", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.History.Path != filepath.Join(tempHome, "scores", "history.db") {
		t.Fatalf("history path should follow data dir, got %q", cfg.History.Path)
	}
	if cfg.Input.Encoding != "windows-1252" {
		t.Fatalf("expected lowercased encoding, got %q", cfg.Input.Encoding)
	}
	if cfg.Report.Format != "pairwise" || cfg.Report.Width != 72 {
		t.Fatalf("unexpected report: %+v", cfg.Report)
	}

	opts := cfg.ScoringOptions()
	if !opts.Normalize.RemoveAccents || !opts.Normalize.RemovePunctuation {
		t.Fatalf("normalize options not carried: %+v", opts.Normalize)
	}
	if opts.Weights.Delete != 2 || opts.Weights.Substitute != 3 {
		t.Fatalf("weights not carried: %+v", opts.Weights)
	}
	if opts.MaxWords != 50 || opts.MaxChars != 0 || !opts.CharCounts {
		t.Fatalf("limits not carried: %+v", opts)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())
	historyPath := filepath.Join(tempHome, "elsewhere", "runs.db")
	t.Setenv("WERSCORE_HISTORY_PATH", historyPath)
	t.Setenv("WERSCORE_LOG_LEVEL", "WARN")
	t.Setenv("WERSCORE_LOG_FORMAT", "json")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.History.Path != historyPath {
		t.Fatalf("history path = %q, want %q", cfg.History.Path, historyPath)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "json" {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"negative weight", "[weights]\ninsert = -1\n", "must be >= 0"},
		{"zero weights", "[weights]\ninsert = 0\ndelete = 0\nsubstitute = 0\n", "must not all be zero"},
		{"negative limit", "[limits]\nmax_words = -5\n", "limits.max_words"},
		{"bad format", "[report]\nformat = \"xml\"\n", "report.format"},
		{"bad color", "[report]\ncolor = \"sometimes\"\n", "report.color"},
		{"bad encoding", "[input]\nencoding = \"klingon\"\n", "input.encoding"},
		{"bad log level", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"negative keep days", "[history]\nkeep_days = -1\n", "history.keep_days"},
		{"unknown field", "[report]\nstyle = \"fancy\"\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempHome := t.TempDir()
			t.Setenv("HOME", tempHome)
			path := filepath.Join(tempHome, "config.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	path := filepath.Join(tempHome, "nested", "config.toml")

	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	def := config.Default()
	if cfg.Limits != def.Limits || cfg.Weights != def.Weights || cfg.History.KeepDays != def.History.KeepDays {
		t.Fatalf("sample config drifted from defaults: %+v", cfg)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath = %q", got)
	}
}
