package artifact

import (
	"bufio"
	"context"
	"io"
	"regexp"
	"strconv"

	"github.com/daryltucker/ruversi-tools/internal/output"
)

var indexRe = regexp.MustCompile(`N(\d+)_`)

// Fetcher downloads one archive.
type Fetcher interface {
	Download(ctx context.Context, url, name string) (Outcome, error)
}

// Extractor unpacks one downloaded archive.
type Extractor interface {
	Unzip(name string) (int, error)
}

// State is the dispatcher's working state while it reads one log.
type State struct {
	// Pending is the archive file name waiting for its URL line.
	Pending string
	// Remaining counts the URL lines still allowed to trigger a download.
	Remaining int
	// Seen marks artifact indices already handled.
	Seen []bool
}

// NewState returns a State with a dedup table of tableSize entries.
func NewState(tableSize, maxArchives int) *State {
	return &State{
		Remaining: maxArchives,
		Seen:      make([]bool, tableSize),
	}
}

// Report counts what a dispatch pass did.
type Report struct {
	Downloaded int `json:"downloaded"`
	Existing   int `json:"existing"`
	Rejected   int `json:"rejected"`
	Failed     int `json:"failed"`
	Unzipped   int `json:"unzipped"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
}

// Dispatcher turns artifact log lines into downloads and extractions.
type Dispatcher struct {
	fetch   Fetcher
	extract Extractor
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(f Fetcher, x Extractor) *Dispatcher {
	return &Dispatcher{fetch: f, extract: x}
}

// Dispatch reads the artifact log from r until it is exhausted or
// st.Remaining reaches zero.
func (d *Dispatcher) Dispatch(ctx context.Context, r io.Reader, st *State) (Report, error) {
	var rep Report

	sc := bufio.NewScanner(r)
	// entry lines hold whatever URL the provider returned
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		if d.HandleLine(ctx, sc.Text(), st, &rep) {
			break
		}
	}
	return rep, sc.Err()
}

// HandleLine processes one log line. It returns true once the archive
// budget is used up.
func (d *Dispatcher) HandleLine(ctx context.Context, line string, st *State, rep *Report) bool {
	if m := nameLineRe.FindStringSubmatch(line); m != nil {
		d.handleName(m[1], st, rep)
		return false
	}

	m := urlLineRe.FindStringSubmatch(line)
	if m == nil || st.Pending == "" {
		return false
	}

	name := st.Pending
	outcome, err := d.fetch.Download(ctx, m[1], name)
	switch {
	case err != nil || outcome == OutcomeFailed:
		rep.Failed++
		output.Logger.Warn("Download failed", "file", name, "url", m[1], "error", err)
	case outcome == OutcomeRejected:
		rep.Rejected++
	case outcome == OutcomeExists:
		rep.Existing++
	case outcome == OutcomeDownloaded:
		rep.Downloaded++
		if n, err := d.extract.Unzip(name); err != nil {
			output.Logger.Warn("Unzip failed", "file", name, "error", err)
		} else {
			rep.Unzipped++
			output.Logger.Debug("Unzipped archive", "file", name, "entries", n)
		}
	}

	st.Pending = ""
	st.Remaining--
	return st.Remaining <= 0
}

func (d *Dispatcher) handleName(name string, st *State, rep *Report) {
	st.Pending = ""

	m := indexRe.FindStringSubmatch(name)
	if m == nil {
		rep.Invalid++
		return
	}

	idx, err := strconv.Atoi(m[1])
	if err != nil || idx >= len(st.Seen) {
		rep.Invalid++
		output.Logger.Warn("Artifact index out of range", "name", name, "index", m[1], "table_size", len(st.Seen))
		return
	}

	if st.Seen[idx] {
		rep.Duplicates++
		return
	}

	st.Seen[idx] = true
	st.Pending = name + ".zip"
}
