package bench

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Line markers shared by the runner's log and the summarizer.
const (
	SearchPrefix  = "val:"
	BeginPrefix   = "Begin RFEN:"
	EndPrefix     = "End RFEN:"
	TotalPrefix   = "total,"
	ElapsedPrefix = "elapsed,"
)

var (
	// val:26.44183 257230 nodes. @@d6[]a4@@b6 337msec
	searchLineRe = regexp.MustCompile(` (\d+) nodes\. .* (\d+)msec`)
	// total,8,win,4,draw,0,lose,4,balance,0,8,50.00%,R,+0.0
	totalLineRe = regexp.MustCompile(`^total,(\d+),`)
)

// ParseError reports benchmark output that lacks the expected fields.
type ParseError struct {
	Line   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable benchmark line (%s): %q", e.Reason, e.Line)
}

// ParseSearchLine extracts the node count and elapsed milliseconds of a
// search result line.
func ParseSearchLine(line string) (nodes, msec int, err error) {
	m := searchLineRe.FindStringSubmatch(line)
	if m == nil {
		return 0, 0, &ParseError{Line: line, Reason: "no node count / msec"}
	}
	if nodes, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, &ParseError{Line: line, Reason: "node count out of range"}
	}
	if msec, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, &ParseError{Line: line, Reason: "msec out of range"}
	}
	return nodes, msec, nil
}

// ParseTotalLine reads the game count of a duel summary line. ok is false
// for lines that are not a total record.
func ParseTotalLine(line string) (games int, ok bool, err error) {
	if !strings.HasPrefix(line, TotalPrefix) {
		return 0, false, nil
	}
	m := totalLineRe.FindStringSubmatch(line)
	if m == nil {
		return 0, true, &ParseError{Line: line, Reason: "no game count"}
	}
	games, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, true, &ParseError{Line: line, Reason: "game count out of range"}
	}
	return games, true, nil
}

// GamesFromOutput returns the game count of the last total record in a
// duel's output, or 1 when the output has none.
func GamesFromOutput(lines []string) (int, error) {
	for i := len(lines) - 1; i >= 0; i-- {
		games, ok, err := ParseTotalLine(lines[i])
		if err != nil {
			return 0, err
		}
		if ok {
			return games, nil
		}
	}
	return 1, nil
}

// FormatElapsed renders the elapsed marker at microsecond precision.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%s%.6f", ElapsedPrefix, d.Round(time.Microsecond).Seconds())
}

// ParseElapsed reads an elapsed marker written by FormatElapsed.
func ParseElapsed(line string) (time.Duration, bool, error) {
	rest, found := strings.CutPrefix(line, ElapsedPrefix)
	if !found {
		return 0, false, nil
	}
	sec, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil || sec < 0 {
		return 0, true, &ParseError{Line: line, Reason: "bad elapsed seconds"}
	}
	return time.Duration(math.Round(sec*1e6)) * time.Microsecond, true, nil
}

// SplitLines splits captured output, dropping trailing empty lines.
func SplitLines(text string) []string {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
