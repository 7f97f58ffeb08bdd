package bench

import (
	"fmt"
	"io"

	"github.com/daryltucker/ruversi-tools/internal/model"
)

// WriteSearchResult prints the two-line summary of a position.
func WriteSearchResult(w io.Writer, r model.SearchResult) error {
	_, err := fmt.Fprintf(w, "speed: %.2f nodes/msec\n%d nodes / %.2f +- %.2f msec (%d -- %d)\n",
		r.Speed(), r.Nodes, r.Mean, r.StdDev, r.Min, r.Max)
	return err
}

// WriteGameResult prints the per-game timing of one duel run.
func WriteGameResult(w io.Writer, r model.GameResult) error {
	_, err := fmt.Fprintf(w, "%.2f msec/game = %.1f / %d\n", r.MsecPerGame(), r.ElapsedMsec, r.Games)
	return err
}
