/*
PURPOSE:
  Writes benchmark results to a JSON Lines file (NDJSON).

REQUIREMENTS:
  User-specified:
  - JSON output for easier parsing (--json).

  Implementation-discovered:
  - JSON Lines is append-friendly; one result per line.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
*/

package output

import (
	"encoding/json"
	"os"
)

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(v any) error {
	return jw.encoder.Encode(v)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
