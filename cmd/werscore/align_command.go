package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"werscore/internal/alignment"
	"werscore/internal/config"
	"werscore/internal/editdist"
	"werscore/internal/normalize"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		inputs     inputFlags
		formatFlag string
		modeFlag   string
		colorFlag  string
		outputPath string
		width      int
	)

	cmd := &cobra.Command{
		Use:   "align REFERENCE HYPOTHESIS",
		Short: "Show the token alignment between two transcripts",
		Long: "Align prints one row per edit operation. Formats: " +
			strings.Join(formatNames(), ", ") + ".",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			format, err := alignment.ParseFormat(firstNonEmpty(formatFlag, cfg.Report.Format))
			if err != nil {
				return err
			}
			mode, err := normalize.ParseMode(modeFlag)
			if err != nil {
				return err
			}

			ref, hyp, err := inputs.readPair(cfg, args[0], args[1])
			if err != nil {
				return err
			}
			rows, err := alignRows(cfg, inputs.normalizeOptions(cfg, mode), ref, hyp)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				path, err := config.ExpandPath(outputPath)
				if err != nil {
					return err
				}
				if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				file, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				w = file
			}

			color := false
			if outputPath == "" {
				color, err = resolveColor(firstNonEmpty(colorFlag, cfg.Report.Color), w)
				if err != nil {
					return err
				}
			}
			if width <= 0 {
				width = cfg.Report.Width
			}

			rendered, err := alignment.Write(rows, alignment.FormatOptions{Format: format, Color: color, Width: width})
			if err != nil {
				return err
			}
			if !strings.HasSuffix(rendered, "\n") {
				rendered += "\n"
			}
			if _, err := io.WriteString(w, rendered); err != nil {
				return fmt.Errorf("write alignment: %w", err)
			}
			if outputPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s alignment to %s\n", format, outputPath)
			}
			return nil
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format (default from config)")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "word", "Token granularity: word or char")
	cmd.Flags().StringVar(&colorFlag, "color", "", "Colour mode: auto, always or never (default from config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the alignment to a file instead of stdout")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width for pairwise output (default from config)")
	return cmd
}

// alignRows normalizes both sides and aligns them with the configured
// weights and length limit for the chosen granularity.
func alignRows(cfg *config.Config, opts normalize.Options, ref, hyp string) ([]alignment.Row, error) {
	refTokens, err := normalize.Normalize(ref, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize reference: %w", err)
	}
	hypTokens, err := normalize.Normalize(hyp, opts)
	if err != nil {
		return nil, fmt.Errorf("normalize hypothesis: %w", err)
	}

	scoringOpts := cfg.ScoringOptions()
	limit := scoringOpts.MaxWords
	if opts.Mode == normalize.ModeChar {
		limit = scoringOpts.MaxChars
	}
	res, err := editdist.Align(refTokens, hypTokens, editdist.Options{
		Weights:   scoringOpts.Weights,
		MaxLength: limit,
	})
	if err != nil {
		return nil, err
	}
	return alignment.Render(refTokens, hypTokens, res.Trace)
}

func formatNames() []string {
	formats := alignment.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
