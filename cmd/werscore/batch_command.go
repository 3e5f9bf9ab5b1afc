package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"werscore/internal/batch"
	"werscore/internal/history"
	"werscore/internal/logging"
)

type batchOutput struct {
	RunID string `json:"run_id,omitempty"`
	*batch.Result
}

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		noHistory  bool
		label      string
		encoding   string
		accents    bool
		punct      bool
	)

	cmd := &cobra.Command{
		Use:   "batch MANIFEST",
		Short: "Score every pair listed in a manifest",
		Long: "Batch reads a YAML (.yaml/.yml), TOML (.toml) or pipe-delimited text manifest.\n" +
			"Text manifests hold one \"reference | hypothesis\" pair per line.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			manifest, err := batch.LoadManifest(args[0])
			if err != nil {
				return err
			}

			opts := cfg.ScoringOptions()
			opts.Normalize.RemoveAccents = opts.Normalize.RemoveAccents || accents
			opts.Normalize.RemovePunctuation = opts.Normalize.RemovePunctuation || punct

			runner := batch.NewRunner(opts, firstNonEmpty(encoding, cfg.Input.Encoding), logger)
			result, err := runner.Run(cmd.Context(), manifest)
			if err != nil {
				return err
			}

			run := &history.Run{
				Kind:              history.KindBatch,
				Label:             firstNonEmpty(label, manifest.Name),
				ReferencePath:     manifest.Path,
				Pairs:             len(result.Pairs),
				Failed:            result.Failed,
				WER:               result.WER,
				CER:               result.CER,
				RemoveAccents:     opts.Normalize.RemoveAccents,
				RemovePunctuation: opts.Normalize.RemovePunctuation,
			}
			runID := recordRun(cmd.Context(), ctx, cfg, logger, run, noHistory)

			if jsonOutput {
				return writeJSON(cmd, batchOutput{RunID: runID, Result: result})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, renderBatchPairs(result))
			fmt.Fprintln(w)
			fmt.Fprintf(w, "Corpus (%d scored, %d failed)\n", result.Scored, result.Failed)
			fmt.Fprintln(w, renderScores(result.WER, result.CER))
			if runID != "" {
				fmt.Fprintf(w, "Run ID: %s\n", runID)
			}
			if result.Failed > 0 {
				logging.WarnWithContext(logger, "batch finished with failures", "batch_partial",
					logging.Error(fmt.Errorf("%d of %d pairs failed", result.Failed, len(result.Pairs))))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the run (default manifest name)")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Transcript encoding label for file pairs")
	cmd.Flags().BoolVar(&accents, "accents", false, "Strip accents and fold word-final a to e")
	cmd.Flags().BoolVar(&punct, "punct", false, "Remove punctuation before scoring")
	return cmd
}

func renderBatchPairs(result *batch.Result) string {
	rows := make([][]string, 0, len(result.Pairs))
	for _, pr := range result.Pairs {
		if pr.Evaluation == nil {
			rows = append(rows, []string{pr.Name, "-", "-", "-", pr.Error})
			continue
		}
		ev := pr.Evaluation
		rows = append(rows, []string{
			pr.Name,
			ev.WER.String(),
			ev.CER.String(),
			strconv.Itoa(ev.WER.Denominator),
			"",
		})
	}
	return renderTable(
		[]string{"Pair", "WER", "CER", "Words", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}
