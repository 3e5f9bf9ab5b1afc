package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"werscore/internal/normalize"
)

type normalizeOutput struct {
	Mode   string   `json:"mode"`
	Text   string   `json:"text"`
	Tokens []string `json:"tokens"`
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var (
		inputs     inputFlags
		modeFlag   string
		jsonOutput bool
		listTokens bool
	)

	cmd := &cobra.Command{
		Use:   "normalize INPUT",
		Short: "Print a transcript as the scorer sees it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			mode, err := normalize.ParseMode(modeFlag)
			if err != nil {
				return err
			}
			raw, err := inputs.readOne(cfg, args[0])
			if err != nil {
				return err
			}

			opts := inputs.normalizeOptions(cfg, mode)
			text, err := normalize.Text(raw, opts)
			if err != nil {
				return err
			}
			out := normalizeOutput{Mode: mode.String(), Text: text, Tokens: normalize.Tokenize(text, mode)}

			if jsonOutput {
				return writeJSON(cmd, out)
			}
			w := cmd.OutOrStdout()
			if listTokens {
				rows := make([][]string, 0, len(out.Tokens))
				for i, tok := range out.Tokens {
					rows = append(rows, []string{strconv.Itoa(i + 1), strconv.Quote(tok)})
				}
				fmt.Fprintln(w, renderTable([]string{"#", "Token"}, rows, []columnAlignment{alignRight, alignLeft}))
				return nil
			}
			fmt.Fprintln(w, out.Text)
			fmt.Fprintf(w, "%d %s tokens\n", len(out.Tokens), out.Mode)
			return nil
		},
	}

	inputs.register(cmd)
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "word", "Token granularity: word or char")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON")
	cmd.Flags().BoolVar(&listTokens, "tokens", false, "List tokens in a table")
	return cmd
}
