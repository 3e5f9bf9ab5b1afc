package testsupport

import (
	"path/filepath"
	"testing"

	"werscore/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Colour is off and logs stay on stderr unless an option says otherwise.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.History.Path = filepath.Join(base, "data", "history.db")
	cfgVal.Report.Color = "never"
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLogDir routes file logs into a temp directory.
func WithLogDir() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.LogDir = filepath.Join(b.baseDir, "logs")
	}
}

// WithoutHistory disables the run history store.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// WithNormalization toggles accent and punctuation stripping.
func WithNormalization(removeAccents, removePunctuation bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Normalize.RemoveAccents = removeAccents
		b.cfg.Normalize.RemovePunctuation = removePunctuation
	}
}

// WithReportFormat sets the default alignment layout.
func WithReportFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.Format = format
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
