package qa

import (
	"errors"
	"fmt"
	"testing"

	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

func TestRunOutputInvariants(t *testing.T) {
	rows := []specRow{
		passingRow("A", "1"),
		halfRow("B", "2"), halfRow("B", "2"),
		passingRow("C", "3"),
	}
	tab := buildTable(t, rows)
	sink := runQA(t, rows)

	if len(sink.rows) != tab.Len() {
		t.Fatalf("output rows = %d, want %d", len(sink.rows), tab.Len())
	}
	if len(sink.header) != len(tab.Headers)+1 {
		t.Fatalf("output columns = %d, want %d", len(sink.header), len(tab.Headers)+1)
	}
	for i, h := range tab.Headers {
		if sink.header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, sink.header[i], h)
		}
	}
	if sink.header[len(sink.header)-1] != schema.Comment {
		t.Fatalf("last header = %q, want %q", sink.header[len(sink.header)-1], schema.Comment)
	}
	// Original cells re-emitted untouched, in input order.
	for i := 0; i < tab.Len(); i++ {
		for j := range tab.Headers {
			if sink.rows[i][j] != tab.Row(i)[j] {
				t.Fatalf("cell (%d,%d) = %q, want %q", i, j, sink.rows[i][j], tab.Row(i)[j])
			}
		}
	}
}

func TestRunBatchesByGroupCount(t *testing.T) {
	// 45 distinct keys with the default 20 groups per batch -> 3 batches.
	var rows []specRow
	for i := 0; i < 45; i++ {
		rows = append(rows, passingRow(fmt.Sprintf("C%02d", i), "1"))
	}
	var ticks [][2]int
	sink := &memSink{}
	sum, err := Run(buildTable(t, rows), sink, Options{
		Progress: func(done, total int) { ticks = append(ticks, [2]int{done, total}) },
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Chunks != 3 {
		t.Fatalf("chunks = %d, want 3", sum.Chunks)
	}
	if sum.Groups != 45 || sum.Rows != 45 {
		t.Fatalf("summary = %+v, want 45 groups and rows", sum)
	}
	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(ticks) != len(want) {
		t.Fatalf("progress ticks = %v, want %v", ticks, want)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("tick %d = %v, want %v", i, ticks[i], want[i])
		}
	}
	// Input order preserved across batch boundaries.
	for i := 0; i < 45; i++ {
		if sink.rows[i][0] != fmt.Sprintf("C%02d", i) {
			t.Fatalf("row %d chem = %q, want C%02d", i, sink.rows[i][0], i)
		}
	}
}

func TestRunInterleavedGroupsKeepInputOrderWithinBatch(t *testing.T) {
	// Rows of A_1 and B_2 interleave; both land in the same batch, so
	// the output must follow input order, not group order.
	rows := []specRow{
		halfRow("A", "1"),
		halfRow("B", "2"),
		halfRow("A", "1"),
		halfRow("B", "2"),
	}
	sink := runQA(t, rows)
	got := []string{sink.rows[0][0], sink.rows[1][0], sink.rows[2][0], sink.rows[3][0]}
	want := []string{"A", "B", "A", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row order = %v, want %v", got, want)
		}
	}
}

func TestRunMissingColumnsAborts(t *testing.T) {
	tab := table.New([]string{schema.ChemicalID, schema.PartNumber})
	tab.Append([]string{"A", "1"})
	_, err := Run(tab, &memSink{}, Options{})
	if err == nil {
		t.Fatalf("expected schema error")
	}
	var missing *schema.MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingColumnsError", err)
	}
	if len(missing.Columns) != len(schema.Required)-2 {
		t.Fatalf("missing = %v", missing.Columns)
	}
}

func TestRunSeedsExistingCommentColumn(t *testing.T) {
	headers := append(append([]string(nil), schema.Required...), schema.Comment)
	tab := table.New(headers)
	r := passingRow("A", "1")
	r.rev = "Not Latest"
	tab.Append([]string{
		r.chem, r.part, r.count, r.rev, r.mat, r.matMass, r.mass,
		r.homPct, r.homPPM, r.compPct, r.compPPM,
		r.profile, r.summation, "manual note",
	})
	sink := &memSink{}
	if _, err := Run(tab, sink, Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sink.header) != len(headers) {
		t.Fatalf("comment column duplicated: %v", sink.header)
	}
	want := "manual note" + commentDelim + msgRevFlag
	if got := sink.rows[0][len(headers)-1]; got != want {
		t.Fatalf("comment = %q, want %q", got, want)
	}
}

func TestBuildIndexKeysAndOrder(t *testing.T) {
	tab := buildTable(t, []specRow{
		passingRow("X", "9"),
		passingRow("A", "1"),
		passingRow("X", "9"),
	})
	idx, err := BuildIndex(tab)
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if idx.Keys[0] != "X_9" || idx.Keys[1] != "A_1" {
		t.Fatalf("keys = %v", idx.Keys)
	}
	if len(idx.Order) != 2 || idx.Order[0] != "X_9" || idx.Order[1] != "A_1" {
		t.Fatalf("order = %v, want first-occurrence order", idx.Order)
	}
	if rows := idx.Rows["X_9"]; len(rows) != 2 || rows[0] != 0 || rows[1] != 2 {
		t.Fatalf("rows for X_9 = %v", rows)
	}
}

func TestBuildIndexMissingIdentifier(t *testing.T) {
	tab := table.New([]string{schema.ChemicalID})
	if _, err := BuildIndex(tab); err == nil {
		t.Fatalf("expected error for missing PartNumber")
	}
}
