// Package table holds the in-memory tabular model and the spreadsheet
// codecs (xlsx and csv) used by the validation pipeline. Cells are kept
// as the raw strings read from the source file; numeric interpretation
// happens on demand so the original values can be re-emitted untouched.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a header row plus data rows. Headers are matched verbatim,
// trailing spaces included.
type Table struct {
	Headers []string
	rows    [][]string
	index   map[string]int
}

// New creates an empty table with the given header row.
func New(headers []string) *Table {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return &Table{Headers: headers, index: idx}
}

// Append adds one data row, padding short rows to the header width.
func (t *Table) Append(row []string) {
	if len(row) < len(t.Headers) {
		tmp := make([]string, len(t.Headers))
		copy(tmp, row)
		row = tmp
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the cells of row i. The slice is owned by the table.
func (t *Table) Row(i int) []string { return t.rows[i] }

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Cell returns the raw cell value at (row i, column name), or "" when the
// column does not exist or the row is short.
func (t *Table) Cell(i int, name string) string {
	j, ok := t.index[name]
	if !ok || j >= len(t.rows[i]) {
		return ""
	}
	return t.rows[i][j]
}

// Number parses the cell at (row i, column name) as a float64. Empty and
// whitespace-only cells report ok=false with no error (missing value); a
// non-empty cell that is not a number is a hard error that aborts the
// whole run.
func (t *Table) Number(i int, name string) (v float64, ok bool, err error) {
	raw := strings.TrimSpace(t.Cell(i, name))
	if raw == "" {
		return 0, false, nil
	}
	v, perr := strconv.ParseFloat(raw, 64)
	if perr != nil {
		return 0, false, fmt.Errorf("column %q row %d: %q is not numeric", name, i+2, raw)
	}
	return v, true, nil
}
