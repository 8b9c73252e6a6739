// Package qa implements the chunked validation engine: group keying, the
// ordered battery of checks, the chunk processor, and the streaming
// orchestrator that keeps peak memory bounded to one batch of groups.
package qa

import (
	"fmt"

	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

// Index holds the group keying of a full table: one key per row, the
// unique keys in first-occurrence order, and a key → row-indices map.
// It is computed once up front and never mutated; batching slices Order
// and looks rows up here instead of re-filtering the table per chunk.
type Index struct {
	Keys  []string
	Order []string
	Rows  map[string][]int
}

// BuildIndex derives the group key for every row by joining ChemicalID
// and PartNumber with an underscore. It fails when either identifying
// column is absent.
func BuildIndex(t *table.Table) (*Index, error) {
	if _, ok := t.Col(schema.ChemicalID); !ok {
		return nil, fmt.Errorf("keying: missing column %q", schema.ChemicalID)
	}
	if _, ok := t.Col(schema.PartNumber); !ok {
		return nil, fmt.Errorf("keying: missing column %q", schema.PartNumber)
	}
	idx := &Index{
		Keys: make([]string, t.Len()),
		Rows: make(map[string][]int),
	}
	for i := 0; i < t.Len(); i++ {
		key := t.Cell(i, schema.ChemicalID) + "_" + t.Cell(i, schema.PartNumber)
		idx.Keys[i] = key
		if _, seen := idx.Rows[key]; !seen {
			idx.Order = append(idx.Order, key)
		}
		idx.Rows[key] = append(idx.Rows[key], i)
	}
	return idx, nil
}
