package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/ruversi-tools/internal/bench"
	"github.com/daryltucker/ruversi-tools/internal/config"
	"github.com/daryltucker/ruversi-tools/internal/model"
)

type call struct {
	dir  string
	name string
	args []string
}

// fakeCommander answers every invocation with the next queued output.
type fakeCommander struct {
	calls   []call
	outputs []string
	failAt  int // 1-based call number that fails; 0 never
}

func (f *fakeCommander) Output(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{dir: dir, name: name, args: args})
	if f.failAt == len(f.calls) {
		return nil, errors.New("exit status 101")
	}
	if len(f.outputs) == 0 {
		return nil, nil
	}
	out := f.outputs[0]
	f.outputs = f.outputs[1:]
	return []byte(out), nil
}

func steppingClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		cur := now
		now = now.Add(step)
		return cur
	}
}

func testConfig() config.BenchConfig {
	cfg := config.DefaultConfig().Bench
	cfg.Runs = 3
	cfg.Positions = []string{"8/8/8/3Aa3/3aA3/8/8/8 b"}
	cfg.Features = "--features=avx  --no-default-features"
	return cfg
}

func searchOutput(nodes, msec int) string {
	return fmt.Sprintf("Hello, reversi world!\nmode:Rfen\n@@'s turn.\nval:26.44183 %d nodes. @@d6[]a4@@b6 %dmsec\n", nodes, msec)
}

func TestEngineArgs(t *testing.T) {
	fc := &fakeCommander{outputs: []string{searchOutput(100, 1)}}
	e := New(testConfig())
	e.Cmd = fc

	line, err := e.Search(context.Background(), "8/8/8/3Aa3/3aA3/8/8/8 b")
	require.NoError(t, err)
	assert.Equal(t, "val:26.44183 100 nodes. @@d6[]a4@@b6 1msec", line)

	require.Len(t, fc.calls, 1)
	assert.Equal(t, "cargo", fc.calls[0].name)
	assert.Equal(t, []string{
		"run", "--release", "--features=avx", "--no-default-features", "--",
		"--rfen", "8/8/8/3Aa3/3aA3/8/8/8 b", "--depth", "11", "--ev1", "data/evaltable.txt",
	}, fc.calls[0].args)

	require.NoError(t, e.Build(context.Background()))
	assert.Equal(t, []string{"build", "--release", "--features=avx", "--no-default-features"}, fc.calls[1].args)
}

func TestEngineSearchEmptyOutput(t *testing.T) {
	e := New(testConfig())
	e.Cmd = &fakeCommander{outputs: []string{"\n\n"}}
	_, err := e.Search(context.Background(), "x")
	var pe *bench.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRunnerSearch(t *testing.T) {
	fc := &fakeCommander{outputs: []string{
		searchOutput(257230, 10),
		searchOutput(257230, 20),
		searchOutput(257230, 30),
	}}
	e := New(testConfig())
	e.Cmd = fc

	var out, log bytes.Buffer
	r := &Runner{Engine: e, Out: &out, Log: &log}
	results, err := r.Search(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, 257230, results[0].Nodes)
	assert.Equal(t, []int{10, 20, 30}, results[0].Samples)
	assert.InDelta(t, 8.16, results[0].StdDev, 0.005)
	assert.Contains(t, out.String(), "Begin RFEN:8/8/8/3Aa3/3aA3/8/8/8 b")
	assert.Contains(t, out.String(), " 0 1 2\n")
	assert.Contains(t, out.String(), "257230 nodes / 20.00 +- 8.16 msec (10 -- 30)")

	// replaying the log must give the same statistics
	var replayed []model.SearchResult
	require.NoError(t, bench.ReplaySearch(strings.NewReader(log.String()), func(res model.SearchResult) error {
		replayed = append(replayed, res)
		return nil
	}))
	assert.Equal(t, results, replayed)
}

func TestRunnerSearchAbortsOnFailure(t *testing.T) {
	fc := &fakeCommander{outputs: []string{searchOutput(1, 1)}, failAt: 2}
	e := New(testConfig())
	e.Cmd = fc

	var out, log bytes.Buffer
	r := &Runner{Engine: e, Out: &out, Log: &log}
	_, err := r.Search(context.Background())

	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Command, "cargo run --release")
	assert.Len(t, fc.calls, 2)
}

func TestRunnerSearchAbortsOnGarbage(t *testing.T) {
	e := New(testConfig())
	e.Cmd = &fakeCommander{outputs: []string{"panic: something\n"}}

	var out, log bytes.Buffer
	r := &Runner{Engine: e, Out: &out, Log: &log}
	_, err := r.Search(context.Background())
	var pe *bench.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRunnerGame(t *testing.T) {
	duel := "ev1:data/evaltable.txt\nev2:data/evaltable.txt\ntotal,8,win,4,draw,0,lose,4,balance,0,8,50.00%,R,+0.0\nev1 @@,win,0,draw,0,lose,4\nev1 [],win,4,draw,0,lose,0\n"
	fc := &fakeCommander{outputs: []string{"", duel, duel, duel}}
	e := New(testConfig())
	e.Cmd = fc
	e.Now = steppingClock(4 * time.Second)

	var out, log bytes.Buffer
	r := &Runner{Engine: e, Out: &out, Log: &log}
	results, err := r.Game(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "build", fc.calls[0].args[0])
	assert.Contains(t, fc.calls[1].args, "--duel")
	for _, res := range results {
		assert.Equal(t, 8, res.Games)
		assert.InDelta(t, 500.0, res.MsecPerGame(), 1e-9)
	}
	assert.Contains(t, out.String(), "500.00 msec/game = 4000.0 / 8")
	assert.Contains(t, out.String(), "total,8,win,4,draw,0,lose,4,balance,0,8,50.00%,R,+0.0\nev1 @@,win,0,draw,0,lose,4\nev1 [],win,4,draw,0,lose,0\n")
	assert.NotContains(t, out.String(), "ev2:data/evaltable.txt")

	var replayed []model.GameResult
	require.NoError(t, bench.ReplayGame(strings.NewReader(log.String()), func(res model.GameResult) error {
		replayed = append(replayed, res)
		return nil
	}))
	assert.Equal(t, results, replayed)
}

func TestRunnerGameBuildFailure(t *testing.T) {
	fc := &fakeCommander{failAt: 1}
	e := New(testConfig())
	e.Cmd = fc

	var out, log bytes.Buffer
	r := &Runner{Engine: e, Out: &out, Log: &log}
	_, err := r.Game(context.Background())
	assert.Error(t, err)
	assert.Len(t, fc.calls, 1)
}

func TestResultFileName(t *testing.T) {
	ts := time.Date(2024, 7, 20, 15, 48, 3, 0, time.UTC)
	assert.Equal(t, "speedcheck20240720154803.txt", ResultFileName("speedcheck", ts))
}
