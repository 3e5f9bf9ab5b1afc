// Package logging assembles the slog loggers used by werscore.
//
// It owns the console and JSON handlers, level parsing and output routing,
// plus context helpers that tag log lines with run and pair identifiers.
// NewNop returns a silent logger for tests and library callers that do not
// log.
package logging
