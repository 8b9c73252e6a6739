package qa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

// chunk is one batch of complete groups: the working unit of the
// pipeline. Every grouped check sees all of a group's rows together; no
// group ever straddles two chunks.
type chunk struct {
	tab    *table.Table
	groups []group
	rows   []int // all row indices of the batch, input order
	notes  *findings
}

// group is one component record: every row sharing a group key, plus the
// homogeneous-material sub-grouping several checks aggregate over.
type group struct {
	key  string
	rows []int
	mats []material
}

// material collects the rows of one (group, homogeneous-material-name)
// pair. Names are matched lower-cased.
type material struct {
	name string
	rows []int
}

// newChunk assembles the working state for one batch of group keys. The
// material sub-index is built here once instead of inside each check.
func newChunk(t *table.Table, idx *Index, keys []string) *chunk {
	c := &chunk{tab: t, notes: newFindings()}
	for _, key := range keys {
		rows := idx.Rows[key]
		g := group{key: key, rows: rows}
		byName := make(map[string]int)
		for _, r := range rows {
			name := strings.ToLower(t.Cell(r, schema.HomogeneousMaterialName))
			mi, ok := byName[name]
			if !ok {
				mi = len(g.mats)
				byName[name] = mi
				g.mats = append(g.mats, material{name: name})
			}
			g.mats[mi].rows = append(g.mats[mi].rows, r)
		}
		c.groups = append(c.groups, g)
		c.rows = append(c.rows, rows...)
	}
	sort.Ints(c.rows)
	return c
}

// process runs the full check battery, in registry order, exactly once.
// Running it twice over the same chunk would duplicate every finding; the
// orchestrator guarantees single execution. The first failing check
// aborts the run.
func (c *chunk) process() error {
	for _, ck := range checks {
		if err := ck.run(c); err != nil {
			return err
		}
	}
	return nil
}

// sum adds the named column over rows. Empty cells count as zero, the
// way a spreadsheet SUM treats blanks; non-numeric text is a hard error.
func (c *chunk) sum(rows []int, col string) (float64, error) {
	var total float64
	for _, r := range rows {
		v, ok, err := c.tab.Number(r, col)
		if err != nil {
			return 0, err
		}
		if ok {
			total += v
		}
	}
	return total, nil
}

// numKey renders a float so that distinct values map to distinct tokens
// when counting unique masses.
func numKey(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
