/*
PURPOSE:
  Shared plumbing for the three Cobra root commands (artifact-sync,
  benchmark-runner, benchmark-summarizer).

REQUIREMENTS:
  User-specified:
  - Each tool is its own binary with a positional mode where applicable.

  Implementation-discovered:
  - All tools accept --config and --verbose.
  - An unknown mode prints help instead of failing.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/artifact-sync, cmd/benchmark-runner, cmd/benchmark-summarizer
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error to main.go for exit code handling.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daryltucker/ruversi-tools/internal/config"
	"github.com/daryltucker/ruversi-tools/internal/model"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

// commonFlags are the persistent flags every tool has.
type commonFlags struct {
	cfgFile string
	verbose bool
}

func (f *commonFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.cfgFile, "config", "", "config file (default is ./ruversi_tools.yaml or ./tools.yaml)")
	cmd.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}

// setupLogger applies --verbose.
func (f *commonFlags) setupLogger(cmd *cobra.Command) {
	output.SetLogger(output.NewLogger(cmd.ErrOrStderr(), f.verbose))
}

// load applies --verbose and reads the configuration.
func (f *commonFlags) load(cmd *cobra.Command) (*config.Config, error) {
	f.setupLogger(cmd)
	return config.Load(f.cfgFile)
}

// modeOf returns the first positional argument, defaulting to "help".
func modeOf(args []string) string {
	if len(args) == 0 {
		return "help"
	}
	return args[0]
}

// exportFlags are the optional result files of the benchmark tools.
type exportFlags struct {
	csvPath  string
	jsonPath string
}

func (f *exportFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.csvPath, "csv", "", "also write results to this CSV file")
	cmd.Flags().StringVar(&f.jsonPath, "json", "", "also write results to this JSON Lines file")
}

// exporter fans results out to the requested files.
type exporter struct {
	csv  *output.CSVWriter
	json *output.JSONWriter
}

func (f *exportFlags) open() (*exporter, error) {
	e := &exporter{}
	if f.csvPath != "" {
		w, err := output.NewCSVWriter(f.csvPath)
		if err != nil {
			return nil, fmt.Errorf("failed to init CSV writer at %s: %w", f.csvPath, err)
		}
		e.csv = w
	}
	if f.jsonPath != "" {
		w, err := output.NewJSONWriter(f.jsonPath)
		if err != nil {
			e.Close()
			return nil, fmt.Errorf("failed to init JSON writer at %s: %w", f.jsonPath, err)
		}
		e.json = w
	}
	return e, nil
}

func (e *exporter) Write(r output.Record) error {
	if e.csv != nil {
		if err := e.csv.Write(r); err != nil {
			return fmt.Errorf("failed to write result to CSV: %w", err)
		}
	}
	if e.json != nil {
		if err := e.json.Write(r); err != nil {
			return fmt.Errorf("failed to write result to JSON: %w", err)
		}
	}
	return nil
}

func (e *exporter) Close() {
	if e.csv != nil {
		e.csv.Close()
	}
	if e.json != nil {
		e.json.Close()
	}
}

func exportSearch(e *exporter, results []model.SearchResult) error {
	for _, r := range results {
		if err := e.Write(r); err != nil {
			return err
		}
	}
	return nil
}

func exportGame(e *exporter, results []model.GameResult) error {
	for _, r := range results {
		if err := e.Write(r); err != nil {
			return err
		}
	}
	return nil
}
