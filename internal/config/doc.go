// Package config loads, normalizes, and validates werscore configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// WERSCORE_LOG_LEVEL and WERSCORE_HISTORY_PATH. The Config type gathers every
// knob the CLI needs: normalization flags, edit weights, input size limits,
// report layout, run history and logging.
//
// Always obtain settings through this package so commands receive expanded
// paths, canonical enum values, and clear validation errors.
package config
