package config

const (
	defaultDataDir         = "~/.local/share/werscore"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultReportFormat    = "table"
	defaultReportColor     = "auto"
	defaultReportWidth     = 100
	defaultInputEncoding   = "utf-8"
	defaultMaxWords        = 10000
	defaultMaxChars        = 200000
	defaultHistoryFileName = "history.db"
	defaultHistoryKeepDays = 90
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Weights: Weights{
			Insert:     1,
			Delete:     1,
			Substitute: 1,
		},
		Limits: Limits{
			MaxWords: defaultMaxWords,
			MaxChars: defaultMaxChars,
		},
		Input: Input{
			Encoding: defaultInputEncoding,
		},
		Report: Report{
			Format: defaultReportFormat,
			Color:  defaultReportColor,
			Width:  defaultReportWidth,
		},
		History: History{
			Enabled:  true,
			KeepDays: defaultHistoryKeepDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
