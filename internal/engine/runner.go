/*
PURPOSE:
  High-level runner that orchestrates the engine benchmarks.
  Loops positions -> repetitions (search) or repetitions (game) and prints
  statistics.

REQUIREMENTS:
  User-specified:
  - Search: repeat each position, report throughput and elapsed statistics.
  - Game: build once, repeat duels, report msec per game.
  - Keep a log that benchmark-summarizer can replay to the same numbers.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine/client.go, internal/bench

ERROR HANDLING:
  - Any engine failure or unparseable result aborts the run immediately.

IMPLEMENTATION RULES:
  - Strictly sequential; one engine process at a time.
*/

package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/daryltucker/ruversi-tools/internal/bench"
	"github.com/daryltucker/ruversi-tools/internal/model"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

// ResultFileName is the timestamped log name for a run started at t.
func ResultFileName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s%s.txt", prefix, t.Format("20060102150405"))
}

// Runner drives the benchmarks. Out receives the human report, Log receives
// the replayable record of the run.
type Runner struct {
	Engine *Engine
	Out    io.Writer
	Log    io.Writer
}

// echo writes msg to both the report and the log.
func (r *Runner) echo(msg string) error {
	if _, err := fmt.Fprintln(r.Out, msg); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.Log, msg)
	return err
}

// Search benchmarks every configured position.
func (r *Runner) Search(ctx context.Context) ([]model.SearchResult, error) {
	cfg := r.Engine.Config
	fmt.Fprintf(r.Out, "features: %s\n", cfg.Features)

	type segment struct {
		position string
		nodes    int
		elapsed  []int
	}
	segments := make([]segment, 0, len(cfg.Positions))

	for _, rfen := range cfg.Positions {
		if err := r.echo(bench.BeginPrefix + rfen); err != nil {
			return nil, err
		}

		seg := segment{position: rfen}
		for j := 0; j < cfg.Runs; j++ {
			line, err := r.Engine.Search(ctx, rfen)
			if err != nil {
				return nil, err
			}
			nodes, msec, err := bench.ParseSearchLine(line)
			if err != nil {
				return nil, err
			}
			if _, err := fmt.Fprintln(r.Log, line); err != nil {
				return nil, err
			}
			seg.nodes = nodes
			seg.elapsed = append(seg.elapsed, msec)
			fmt.Fprintf(r.Out, " %d", j)
		}
		fmt.Fprintln(r.Out)

		if err := r.echo(bench.EndPrefix + rfen); err != nil {
			return nil, err
		}
		output.Logger.Debug("Position done", "rfen", rfen, "samples", seg.elapsed)
		segments = append(segments, seg)
	}

	results := make([]model.SearchResult, 0, len(segments))
	for _, seg := range segments {
		res, err := bench.NewSearchResult(seg.position, seg.nodes, seg.elapsed)
		if err != nil {
			return nil, fmt.Errorf("summarize %s: %w", seg.position, err)
		}
		if err := bench.WriteSearchResult(r.Out, res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Game builds the engine and times the configured number of duels.
func (r *Runner) Game(ctx context.Context) ([]model.GameResult, error) {
	cfg := r.Engine.Config
	fmt.Fprintf(r.Out, "features: %s\n", cfg.Features)

	if err := r.Engine.Build(ctx); err != nil {
		return nil, err
	}

	results := make([]model.GameResult, 0, cfg.Runs)
	for j := 0; j < cfg.Runs; j++ {
		fmt.Fprintf(r.Out, "%d ", j)

		text, elapsed, err := r.Engine.Duel(ctx)
		if err != nil {
			return nil, err
		}
		elapsed = elapsed.Round(time.Microsecond)

		lines := bench.SplitLines(text)
		games, err := bench.GamesFromOutput(lines)
		if err != nil {
			return nil, err
		}

		// Summary lines sit at the end of the duel output.
		from := len(lines)
		for from > 0 {
			from--
			if _, ok, _ := bench.ParseTotalLine(lines[from]); ok {
				break
			}
		}
		for _, l := range lines[from:] {
			fmt.Fprintln(r.Out, l)
		}

		for _, l := range lines {
			if _, err := fmt.Fprintln(r.Log, l); err != nil {
				return nil, err
			}
		}
		if _, err := fmt.Fprintln(r.Log, bench.FormatElapsed(elapsed)); err != nil {
			return nil, err
		}

		res := bench.NewGameResult(j, games, elapsed)
		if err := bench.WriteGameResult(r.Out, res); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
