/*
PURPOSE:
  Thin client around the external Ruversi engine, driven through cargo.
  Builds the engine, runs a single-position search and runs a duel.

REQUIREMENTS:
  User-specified:
  - Search: fixed depth and eval table, last output line carries the result.
  - Duel: fixed level/depth, full output plus wall time.
  - FEATURES env var is passed through to cargo.

  Implementation-discovered:
  - stderr of the engine is noise (cargo progress); it is discarded.
  - Command execution sits behind an interface so the runner can be tested
    without cargo.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go
  - Uses: internal/config

ERROR HANDLING:
  - Non-zero exit aborts the benchmark (*CommandError). No retries.

USAGE:
  e := engine.New(cfg.Bench)
  line, err := e.Search(ctx, rfen)
*/

package engine

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/daryltucker/ruversi-tools/internal/bench"
	"github.com/daryltucker/ruversi-tools/internal/config"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

// Commander runs an external command and returns its stdout.
type Commander interface {
	Output(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecCommander runs commands with os/exec.
type ExecCommander struct{}

// Output implements Commander. stderr is discarded.
func (ExecCommander) Output(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Output()
}

// CommandError reports a failed engine invocation.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("`%s` is failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Engine handles invocations of the external engine.
type Engine struct {
	Config config.BenchConfig
	Cmd    Commander
	Now    func() time.Time
}

// New creates a new Engine.
func New(cfg config.BenchConfig) *Engine {
	return &Engine{
		Config: cfg,
		Cmd:    ExecCommander{},
		Now:    time.Now,
	}
}

// Features returns the cargo feature arguments.
func (e *Engine) Features() []string {
	return strings.Fields(e.Config.Features)
}

func (e *Engine) cargoArgs(sub string, engineArgs ...string) []string {
	args := append([]string{sub, "--release"}, e.Features()...)
	if len(engineArgs) > 0 {
		args = append(args, "--")
		args = append(args, engineArgs...)
	}
	return args
}

func (e *Engine) run(ctx context.Context, args []string) (string, error) {
	output.Logger.Debug("Running engine", "cmd", e.Config.Cargo, "args", args)
	out, err := e.Cmd.Output(ctx, e.Config.EngineDir, e.Config.Cargo, args...)
	if err != nil {
		return "", &CommandError{
			Command: e.Config.Cargo + " " + strings.Join(args, " "),
			Err:     err,
		}
	}
	return string(out), nil
}

// Build compiles the engine once in release mode.
func (e *Engine) Build(ctx context.Context) error {
	_, err := e.run(ctx, e.cargoArgs("build"))
	return err
}

// Search runs one search from rfen and returns the last output line.
func (e *Engine) Search(ctx context.Context, rfen string) (string, error) {
	out, err := e.run(ctx, e.cargoArgs("run",
		"--rfen", rfen,
		"--depth", strconv.Itoa(e.Config.SearchDepth),
		"--ev1", e.Config.EvalFile,
	))
	if err != nil {
		return "", err
	}
	lines := bench.SplitLines(out)
	if len(lines) == 0 {
		return "", &bench.ParseError{Line: "", Reason: "engine printed nothing"}
	}
	return lines[len(lines)-1], nil
}

// Duel plays one engine-vs-engine match and returns its output and wall time.
func (e *Engine) Duel(ctx context.Context) (string, time.Duration, error) {
	args := e.cargoArgs("run",
		"--silent",
		"--duel", strconv.Itoa(e.Config.DuelLevel),
		"--depth", strconv.Itoa(e.Config.GameDepth),
		"--ev1", e.Config.EvalFile,
		"--ev2", e.Config.EvalFile,
	)

	start := e.Now()
	out, err := e.run(ctx, args)
	elapsed := e.Now().Sub(start)
	if err != nil {
		return "", 0, err
	}
	return out, elapsed, nil
}
