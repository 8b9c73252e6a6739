package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// ReadCSV parses CSV bytes into a Table. The first record is the header.
// Ragged records are tolerated; short rows are padded to header width.
func ReadCSV(data []byte) (*Table, error) {
	return readDelimited(data, ',')
}

// ReadTSV is ReadCSV with a tab delimiter.
func ReadTSV(data []byte) (*Table, error) {
	return readDelimited(data, '\t')
}

func readDelimited(data []byte, comma rune) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = comma
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: empty file, no header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	t := New(header)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("csv: read row %d: %w", t.Len()+2, err)
		}
		row := make([]string, len(rec))
		copy(row, rec)
		t.Append(row)
	}
	return t, nil
}

// CSVWriter is the append-only CSV counterpart of XLSXWriter. Styling
// hints are ignored; CSV has no formatting.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) WriteHeader(cols []string) error { return c.w.Write(cols) }

func (c *CSVWriter) WriteRow(cells []string) error { return c.w.Write(cells) }

func (c *CSVWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}
