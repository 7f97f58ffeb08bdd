package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/daryltucker/ruversi-tools/internal/model"
	"github.com/daryltucker/ruversi-tools/internal/output"
)

const maxLineSize = 1 << 20

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return sc
}

// ReplaySearch walks a search log and calls emit at every "End RFEN:" line
// with statistics over the samples seen since the preceding "Begin RFEN:".
func ReplaySearch(r io.Reader, emit func(model.SearchResult) error) error {
	var (
		position string
		nodes    int
		elapsed  []int
	)

	sc := newScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, SearchPrefix):
			n, ms, err := ParseSearchLine(line)
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			nodes = n
			elapsed = append(elapsed, ms)

		case strings.HasPrefix(line, BeginPrefix):
			position = strings.TrimPrefix(line, BeginPrefix)
			nodes = 0
			elapsed = nil

		case strings.HasPrefix(line, EndPrefix):
			res, err := NewSearchResult(position, nodes, elapsed)
			if errors.Is(err, ErrNoSamples) {
				output.Logger.Warn("Segment has no samples, skipping", "line", lineNo, "rfen", strings.TrimPrefix(line, EndPrefix))
				continue
			}
			if err != nil {
				return err
			}
			if err := emit(res); err != nil {
				return err
			}
		}
	}
	return sc.Err()
}

// ReplayGame walks a game log. Every elapsed marker closes one duel run; its
// game count comes from the last total record before the marker.
func ReplayGame(r io.Reader, emit func(model.GameResult) error) error {
	games := 1
	run := 0

	sc := newScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()

		if n, ok, err := ParseTotalLine(line); ok {
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
			games = n
			continue
		}

		d, ok, err := ParseElapsed(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if !ok {
			continue
		}
		if err := emit(NewGameResult(run, games, d)); err != nil {
			return err
		}
		run++
		games = 1
	}
	return sc.Err()
}
