// Package bench turns engine benchmark output into statistics. The live
// runner and the log summarizer share this code, so replaying a saved log
// yields the same numbers as the run that produced it.
package bench

import (
	"errors"
	"math"
	"time"

	"github.com/daryltucker/ruversi-tools/internal/model"
)

// ErrNoSamples is returned when a segment closes without any sample.
var ErrNoSamples = errors.New("no samples")

// Summary describes a sample set.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64 // population standard deviation
	Min    int
	Max    int
}

// Summarize computes mean, population standard deviation and range.
func Summarize(samples []int) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}

	var sum, sq float64
	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		f := float64(v)
		sum += f
		sq += f * f
		lo = min(lo, v)
		hi = max(hi, v)
	}

	n := float64(len(samples))
	mean := sum / n
	variance := sq/n - mean*mean
	if variance < 0 {
		// rounding on near-constant samples
		variance = 0
	}

	return Summary{
		Count:  len(samples),
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    lo,
		Max:    hi,
	}, nil
}

// NewSearchResult summarizes the elapsed times collected for one position.
func NewSearchResult(position string, nodes int, elapsed []int) (model.SearchResult, error) {
	s, err := Summarize(elapsed)
	if err != nil {
		return model.SearchResult{}, err
	}
	return model.SearchResult{
		Position: position,
		Nodes:    nodes,
		Samples:  append([]int(nil), elapsed...),
		Mean:     s.Mean,
		StdDev:   s.StdDev,
		Min:      s.Min,
		Max:      s.Max,
	}, nil
}

// NewGameResult rounds elapsed to 0.1 msec and pairs it with the game count.
// A non-positive game count is treated as a single game.
func NewGameResult(run, games int, elapsed time.Duration) model.GameResult {
	if games <= 0 {
		games = 1
	}
	tenths := math.Floor(elapsed.Seconds()*10000 + 0.5)
	return model.GameResult{
		Run:         run,
		Games:       games,
		ElapsedMsec: tenths / 10,
	}
}
