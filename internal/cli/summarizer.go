package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/ruversi-tools/internal/bench"
	"github.com/daryltucker/ruversi-tools/internal/model"
)

const summarizerModes = `mode:
  search : summarize a search speed log.
  learn : [no longer supported!] summarize a learning speed log.
  game : summarize a game(duel) speed log.
  help : show this help.`

// NewSummarizerCmd builds the benchmark-summarizer root command.
func NewSummarizerCmd() *cobra.Command {
	var (
		flags  commonFlags
		export exportFlags
	)

	cmd := &cobra.Command{
		Use:   "benchmark-summarizer <mode>",
		Short: "Summarize a saved benchmark log read from stdin",
		Long: `Reads a log written by benchmark-runner from stdin and prints the same
statistics the live run printed.

` + summarizerModes,
		Example:       `  benchmark-summarizer search < speedcheck20240720154803.txt`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode := modeOf(args)
			switch mode {
			case "search", "game":
			case "learn":
				fmt.Fprintln(cmd.OutOrStdout(), "deprecated.")
				return nil
			default:
				return cmd.Help()
			}

			flags.setupLogger(cmd)

			exp, err := export.open()
			if err != nil {
				return err
			}
			defer exp.Close()

			out := cmd.OutOrStdout()
			in := cmd.InOrStdin()

			if mode == "search" {
				return bench.ReplaySearch(in, func(r model.SearchResult) error {
					if err := bench.WriteSearchResult(out, r); err != nil {
						return err
					}
					return exp.Write(r)
				})
			}
			return bench.ReplayGame(in, func(r model.GameResult) error {
				if err := bench.WriteGameResult(out, r); err != nil {
					return err
				}
				return exp.Write(r)
			})
		},
	}

	flags.register(cmd)
	export.register(cmd)
	return cmd
}

// ExecuteSummarizer runs benchmark-summarizer.
func ExecuteSummarizer() error {
	return NewSummarizerCmd().Execute()
}
