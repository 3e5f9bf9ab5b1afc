// Package preflight checks that the directories and history database a
// werscore invocation needs are usable.
//
// The CLI "config validate" command runs RunAll and reports each Result.
// Checks are gated by configuration: an unset log directory or disabled
// history is skipped.
package preflight
