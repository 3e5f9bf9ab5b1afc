// Package main hosts the werscore CLI entrypoint and command graph.
//
// The Cobra command tree scores transcripts (eval), prints alignments
// (align), runs manifests (batch), previews normalization (normalize), and
// manages the run history and configuration file. Configuration, logging
// and the history store are resolved once per invocation in commandContext
// so subcommands only parse flags and render results.
package main
