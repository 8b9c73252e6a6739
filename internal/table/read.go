package table

import (
	"fmt"
	"os"
	"strings"
)

// ReadBytes dispatches on the file name extension, mirroring how uploads
// arrive with a name but no path.
func ReadBytes(name string, data []byte) (*Table, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return ReadXLSX(data)
	case strings.HasSuffix(lower, ".csv"):
		return ReadCSV(data)
	case strings.HasSuffix(lower, ".tsv"):
		return ReadTSV(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s (want .xlsx or .csv)", name)
	}
}

// ReadFile loads and parses a spreadsheet from disk.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ReadBytes(path, data)
}
