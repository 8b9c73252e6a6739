package qa

import (
	"fmt"
	"strings"
	"time"

	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

// DefaultGroupsPerChunk is how many whole groups one batch carries. The
// knob trades throughput against peak memory; batching counts groups,
// never raw rows, so grouped checks always see complete groups.
const DefaultGroupsPerChunk = 20

// Sink receives the annotated output one row at a time, in emission
// order. Implementations are append-only; the orchestrator never asks
// for anything back.
type Sink interface {
	WriteHeader(cols []string) error
	WriteRow(cells []string) error
}

// Options tunes a pipeline run.
type Options struct {
	// GroupsPerChunk overrides DefaultGroupsPerChunk when > 0.
	GroupsPerChunk int
	// Progress, when set, is called after each batch with the number of
	// batches done and the total. Convenience only; never affects the
	// run's outcome.
	Progress func(done, total int)
}

// Summary reports what a completed run covered.
type Summary struct {
	Rows    int
	Groups  int
	Chunks  int
	Elapsed time.Duration
}

// Run validates the whole table and streams annotated rows into sink.
// The full table is keyed once up front; unique group keys are then
// sliced into fixed-size batches, each batch is processed through every
// check in registry order, and its rows are appended to the sink before
// the next batch starts. Strictly sequential; the first error anywhere
// aborts the run with no partial-output guarantee.
func Run(t *table.Table, sink Sink, opt Options) (*Summary, error) {
	start := time.Now()
	if err := schema.Require(t.Headers); err != nil {
		return nil, err
	}
	idx, err := BuildIndex(t)
	if err != nil {
		return nil, err
	}

	size := opt.GroupsPerChunk
	if size <= 0 {
		size = DefaultGroupsPerChunk
	}

	// Output columns: the input columns plus the comment column. When
	// the input already carries a comment column it is reused in place
	// and its cell value seeds each row's findings.
	commentCol, hasComment := t.Col(schema.Comment)
	header := t.Headers
	if !hasComment {
		header = make([]string, 0, len(t.Headers)+1)
		header = append(header, t.Headers...)
		header = append(header, schema.Comment)
	}
	if err := sink.WriteHeader(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	total := (len(idx.Order) + size - 1) / size
	sum := &Summary{Groups: len(idx.Order), Chunks: total}
	for b := 0; b*size < len(idx.Order); b++ {
		hi := (b + 1) * size
		if hi > len(idx.Order) {
			hi = len(idx.Order)
		}
		ch := newChunk(t, idx, idx.Order[b*size:hi])
		if err := ch.process(); err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", b+1, total, err)
		}
		for _, r := range ch.rows {
			seed := ""
			if hasComment {
				seed = strings.TrimSpace(t.Cell(r, schema.Comment))
			}
			src := t.Row(r)
			out := make([]string, len(header))
			copy(out, src)
			if hasComment {
				out[commentCol] = ch.notes.comment(r, seed)
			} else {
				out[len(out)-1] = ch.notes.comment(r, seed)
			}
			if err := sink.WriteRow(out); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+2, err)
			}
			sum.Rows++
		}
		if opt.Progress != nil {
			opt.Progress(b+1, total)
		}
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}
