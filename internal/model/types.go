/*
PURPOSE:
  Defines the core data structures shared by the artifact and benchmark tools.

REQUIREMENTS:
  User-specified:
  - Artifact records carry a name and an archive download URL.
  - Search results carry node count and elapsed-time statistics.
  - Game results carry game count and wall time.

  Implementation-discovered:
  - Need JSON tags for --json output.
  - Need CSV header/row mapping for --csv output.

ARCHITECTURE INTEGRATION:
  - Used by: internal/artifact, internal/bench, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go
*/

package model

import (
	"fmt"
	"strconv"
)

// Artifact is one entry of the CI artifact listing.
type Artifact struct {
	Name        string `json:"name"`
	DownloadURL string `json:"archive_download_url"`
}

// SearchResult holds the statistics of one benchmarked position.
type SearchResult struct {
	Position string  `json:"rfen"`
	Nodes    int     `json:"nodes"`
	Samples  []int   `json:"elapsed_msec"`
	Mean     float64 `json:"mean_msec"`
	StdDev   float64 `json:"stddev_msec"`
	Min      int     `json:"min_msec"`
	Max      int     `json:"max_msec"`
}

// Speed is the throughput in nodes per millisecond.
func (r SearchResult) Speed() float64 {
	return float64(r.Nodes) / r.Mean
}

// CSVHeader implements output.Record.
func (r SearchResult) CSVHeader() []string {
	return []string{"rfen", "nodes", "runs", "speed_nodes_per_msec", "mean_msec", "stddev_msec", "min_msec", "max_msec"}
}

// CSVRow implements output.Record.
func (r SearchResult) CSVRow() []string {
	return []string{
		r.Position,
		strconv.Itoa(r.Nodes),
		strconv.Itoa(len(r.Samples)),
		fmt.Sprintf("%.2f", r.Speed()),
		fmt.Sprintf("%.2f", r.Mean),
		fmt.Sprintf("%.2f", r.StdDev),
		strconv.Itoa(r.Min),
		strconv.Itoa(r.Max),
	}
}

// GameResult holds the timing of one duel invocation.
type GameResult struct {
	Run         int     `json:"run"`
	Games       int     `json:"games"`
	ElapsedMsec float64 `json:"elapsed_msec"` // rounded to 0.1 msec
}

// MsecPerGame is the average wall time of one game in milliseconds.
func (r GameResult) MsecPerGame() float64 {
	return r.ElapsedMsec / float64(r.Games)
}

// CSVHeader implements output.Record.
func (r GameResult) CSVHeader() []string {
	return []string{"run", "games", "elapsed_msec", "msec_per_game"}
}

// CSVRow implements output.Record.
func (r GameResult) CSVRow() []string {
	return []string{
		strconv.Itoa(r.Run),
		strconv.Itoa(r.Games),
		fmt.Sprintf("%.1f", r.ElapsedMsec),
		fmt.Sprintf("%.2f", r.MsecPerGame()),
	}
}
