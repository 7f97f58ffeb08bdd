/*
PURPOSE:
  Writes benchmark results to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Optional CSV export of search and game statistics (--csv).

  Implementation-discovered:
  - Search and game rows have different columns; the header comes from the
    first record written.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Consumes: internal/model.SearchResult, internal/model.GameResult

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (a benchmark can be interrupted midway).

USAGE:
  w, err := output.NewCSVWriter("results.csv")
  w.Write(result)
  w.Close()
*/

package output

import (
	"encoding/csv"
	"os"
)

// Record is a row that knows its own CSV layout.
type Record interface {
	CSVHeader() []string
	CSVRow() []string
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &CSVWriter{
		file:   f,
		writer: csv.NewWriter(f),
	}, nil
}

// Write writes a single record, preceded by the header on first use.
func (cw *CSVWriter) Write(r Record) error {
	if !cw.wroteHeader {
		if err := cw.writer.Write(r.CSVHeader()); err != nil {
			return err
		}
		cw.wroteHeader = true
	}

	if err := cw.writer.Write(r.CSVRow()); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
