/*
PURPOSE:
  Defines the benchmark-runner command.
  Drives the external engine through cargo and prints speed statistics.

REQUIREMENTS:
  User-specified:
  - benchmark-runner <mode>, mode in {search, learn, game, help}.
  - Unknown or missing mode prints help.
  - FEATURES env var selects cargo features.

  Implementation-discovered:
  - Every run leaves a timestamped log that benchmark-summarizer can replay.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/benchmark-runner/main.go
  - Calls: internal/engine.Runner

ERROR HANDLING:
  - Engine failures abort the run and are returned to main.go.

USAGE:
  FEATURES=--features=avx benchmark-runner search
*/

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/ruversi-tools/internal/engine"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

const runnerModes = `mode:
  search : measure searching speed.
  learn : [no longer supported!] measure learning speed.
  game : measure game(duel) speed.
  help : show this help.`

// NewRunnerCmd builds the benchmark-runner root command.
func NewRunnerCmd() *cobra.Command {
	var (
		flags  commonFlags
		export exportFlags
	)

	cmd := &cobra.Command{
		Use:   "benchmark-runner <mode>",
		Short: "Measure engine search and game speed",
		Long: `Runs the engine repeatedly through cargo and prints timing statistics.
Set FEATURES (e.g. --features=avx) to pass cargo features through.

` + runnerModes,
		Example: `  benchmark-runner search
  FEATURES=--features=avx benchmark-runner game --csv game.csv`,
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

			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			exp, err := export.open()
			if err != nil {
				return err
			}
			defer exp.Close()

			logPath := engine.ResultFileName(cfg.Bench.ResultPrefix, time.Now())
			logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("failed to open result log %s: %w", logPath, err)
			}
			defer logFile.Close()
			output.Logger.Info("Benchmark started", "mode", mode, "log", logPath, "runs", cfg.Bench.Runs)

			r := &engine.Runner{
				Engine: engine.New(cfg.Bench),
				Out:    cmd.OutOrStdout(),
				Log:    logFile,
			}

			if mode == "search" {
				results, err := r.Search(cmd.Context())
				if err != nil {
					return err
				}
				return exportSearch(exp, results)
			}

			results, err := r.Game(cmd.Context())
			if err != nil {
				return err
			}
			return exportGame(exp, results)
		},
	}

	flags.register(cmd)
	export.register(cmd)
	return cmd
}

// ExecuteRunner runs benchmark-runner.
func ExecuteRunner() error {
	return NewRunnerCmd().Execute()
}
