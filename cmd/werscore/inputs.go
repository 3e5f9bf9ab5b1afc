package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"werscore/internal/config"
	"werscore/internal/normalize"
	"werscore/internal/scoring"
	"werscore/internal/textio"
)

// inputFlags are shared by commands that read a reference and hypothesis.
type inputFlags struct {
	literal           bool
	encoding          string
	removeAccents     bool
	removePunctuation bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.literal, "text", "t", false, "Treat arguments as transcript text instead of file paths")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "Transcript encoding label (default from config)")
	cmd.Flags().BoolVar(&f.removeAccents, "accents", false, "Strip accents and fold word-final a to e")
	cmd.Flags().BoolVar(&f.removePunctuation, "punct", false, "Remove punctuation before scoring")
}

// readOne returns arg verbatim in literal mode, otherwise the transcript at
// that path.
func (f *inputFlags) readOne(cfg *config.Config, arg string) (string, error) {
	if f.literal {
		return arg, nil
	}
	path, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return "", err
	}
	encoding := f.encoding
	if encoding == "" {
		encoding = cfg.Input.Encoding
	}
	return textio.ReadTranscript(path, textio.Options{Encoding: encoding})
}

func (f *inputFlags) readPair(cfg *config.Config, refArg, hypArg string) (ref, hyp string, err error) {
	if ref, err = f.readOne(cfg, refArg); err != nil {
		return "", "", fmt.Errorf("reference: %w", err)
	}
	if hyp, err = f.readOne(cfg, hypArg); err != nil {
		return "", "", fmt.Errorf("hypothesis: %w", err)
	}
	return ref, hyp, nil
}

// scoringOptions layers the command flags over the configured defaults.
// Flags only ever switch normalization steps on.
func (f *inputFlags) scoringOptions(cfg *config.Config) scoring.Options {
	opts := cfg.ScoringOptions()
	opts.Normalize.RemoveAccents = opts.Normalize.RemoveAccents || f.removeAccents
	opts.Normalize.RemovePunctuation = opts.Normalize.RemovePunctuation || f.removePunctuation
	return opts
}

func (f *inputFlags) normalizeOptions(cfg *config.Config, mode normalize.Mode) normalize.Options {
	opts := f.scoringOptions(cfg).Normalize
	opts.Mode = mode
	return opts
}

// sourcePath is recorded in history; literal text has no path.
func (f *inputFlags) sourcePath(arg string) string {
	if f.literal {
		return ""
	}
	path, err := config.ExpandPath(strings.TrimSpace(arg))
	if err != nil {
		return arg
	}
	return path
}
