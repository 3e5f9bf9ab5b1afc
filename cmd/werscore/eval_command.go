package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"werscore/internal/config"
	"werscore/internal/history"
	"werscore/internal/logging"
	"werscore/internal/scoring"
)

type evalOutput struct {
	RunID      string                    `json:"run_id,omitempty"`
	WER        scoring.Score             `json:"wer"`
	CER        scoring.Score             `json:"cer"`
	Reference  []string                  `json:"reference_words"`
	Hypothesis []string                  `json:"hypothesis_words"`
	Tokens     []scoring.TokenComparison `json:"token_comparison,omitempty"`
}

func newEvalCommand(ctx *commandContext) *cobra.Command {
	var (
		inputs        inputFlags
		jsonOutput    bool
		noHistory     bool
		label         string
		compareTokens bool
		charCounts    bool
	)

	cmd := &cobra.Command{
		Use:   "eval REFERENCE HYPOTHESIS",
		Short: "Compute WER and CER for a transcript pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			ref, hyp, err := inputs.readPair(cfg, args[0], args[1])
			if err != nil {
				return err
			}
			opts := inputs.scoringOptions(cfg)
			opts.CharCounts = opts.CharCounts || charCounts

			ev, err := scoring.Evaluate(ref, hyp, opts)
			if err != nil {
				return err
			}

			out := evalOutput{
				WER:        ev.WER,
				CER:        ev.CER,
				Reference:  ev.Reference,
				Hypothesis: ev.Hypothesis,
			}
			if compareTokens {
				out.Tokens = scoring.CompareTokens(ev.Reference, ev.Hypothesis)
			}

			run := &history.Run{
				Kind:              history.KindEval,
				Label:             label,
				ReferencePath:     inputs.sourcePath(args[0]),
				HypothesisPath:    inputs.sourcePath(args[1]),
				WER:               ev.WER,
				CER:               ev.CER,
				RemoveAccents:     opts.Normalize.RemoveAccents,
				RemovePunctuation: opts.Normalize.RemovePunctuation,
			}
			out.RunID = recordRun(cmd.Context(), ctx, cfg, logger, run, noHistory)

			if jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			fmt.Fprint(w, renderScores(ev.WER, ev.CER))
			fmt.Fprintln(w)
			if compareTokens {
				fmt.Fprint(w, renderTokenComparison(out.Tokens))
				fmt.Fprintln(w)
			}
			if out.RunID != "" {
				fmt.Fprintf(w, "Run ID: %s\n", out.RunID)
			}
			return nil
		},
	}

	inputs.register(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record this run")
	cmd.Flags().StringVar(&label, "label", "", "Label stored with the run")
	cmd.Flags().BoolVar(&compareTokens, "compare-tokens", false, "Also score tokens pairwise by position")
	cmd.Flags().BoolVar(&charCounts, "char-counts", false, "Compute per-kind character counts")
	return cmd
}

// recordRun stores run and returns its ID. History failures are logged and
// do not fail the command.
func recordRun(c context.Context, ctx *commandContext, cfg *config.Config, logger *slog.Logger, run *history.Run, disabled bool) string {
	store, err := ctx.openHistory(disabled)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			slog.String("path", cfg.History.Path), logging.Error(err))
		return ""
	}
	if store == nil {
		return ""
	}
	defer store.Close()

	if c == nil {
		c = context.Background()
	}
	if err := store.Record(c, run); err != nil {
		logging.WarnWithContext(logger, "history write failed", "history_record_failed", logging.Error(err))
		return ""
	}
	logging.WithContext(logging.ContextWithRunID(c, run.ID), logger).Debug("run recorded",
		slog.String("kind", string(run.Kind)),
		slog.String("wer", run.WER.String()),
	)
	return run.ID
}

func renderScores(wer, cer scoring.Score) string {
	rows := [][]string{scoreRow("WER", wer), scoreRow("CER", cer)}
	return renderTable(
		[]string{"Metric", "Rate", "Errors", "Length", "Sub", "Del", "Ins"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func scoreRow(name string, s scoring.Score) []string {
	row := []string{name, s.String(), strconv.Itoa(s.Distance), strconv.Itoa(s.Denominator), "-", "-", "-"}
	if s.Counts != nil {
		row[4] = strconv.Itoa(s.Counts.Substitutions)
		row[5] = strconv.Itoa(s.Counts.Deletions)
		row[6] = strconv.Itoa(s.Counts.Insertions)
	}
	return row
}

func renderTokenComparison(tokens []scoring.TokenComparison) string {
	rows := make([][]string, 0, len(tokens))
	for i, tc := range tokens {
		rows = append(rows, []string{strconv.Itoa(i + 1), tc.Ref, tc.Hyp, tc.Score.String()})
	}
	return renderTable(
		[]string{"#", "Reference", "Hypothesis", "CER"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
	)
}
