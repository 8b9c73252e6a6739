package table

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func writeWorkbook(t *testing.T, header []string, rows [][]string, highlight []string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := NewXLSXWriter(&buf)
	w.Highlight = highlight
	if err := w.WriteHeader(header); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	for _, r := range rows {
		if err := w.WriteRow(r); err != nil {
			t.Fatalf("WriteRow: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return buf.Bytes()
}

func TestXLSXWriteThenRead(t *testing.T) {
	header := []string{"ChemicalID", "Mass ", "Note"}
	rows := [][]string{
		{"A-100", "1.5", "ok & <fine>"},
		{"B 200", "", "trailing space kept "},
		{"C", "300", ""},
	}
	data := writeWorkbook(t, header, rows, []string{"Note"})

	tab, err := ReadXLSX(data)
	if err != nil {
		t.Fatalf("ReadXLSX: %v", err)
	}
	if len(tab.Headers) != len(header) {
		t.Fatalf("headers = %#v", tab.Headers)
	}
	for i, h := range header {
		if tab.Headers[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, tab.Headers[i], h)
		}
	}
	if tab.Len() != len(rows) {
		t.Fatalf("rows = %d, want %d", tab.Len(), len(rows))
	}
	for i, want := range rows {
		for j, cell := range want {
			if got := tab.Row(i)[j]; got != cell {
				t.Fatalf("cell (%d,%d) = %q, want %q", i, j, got, cell)
			}
		}
	}
	// Numeric cell survives as a number.
	if v, ok, err := tab.Number(0, "Mass "); err != nil || !ok || v != 1.5 {
		t.Fatalf("Number = %v %v %v", v, ok, err)
	}
}

func TestXLSXHighlightStylesHeader(t *testing.T) {
	data := writeWorkbook(t, []string{"A", "Automated QA Comment"}, nil, []string{"Automated QA Comment"})
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	sheet := string(zipEntry(zr, "xl/worksheets/sheet1.xml"))
	// The styled header cell references cellXfs entry 1 (the red font);
	// the plain column must not.
	if !strings.Contains(sheet, `<c r="B1" s="1"`) {
		t.Fatalf("comment header not styled: %s", sheet)
	}
	if strings.Contains(sheet, `<c r="A1" s="1"`) {
		t.Fatalf("plain header styled: %s", sheet)
	}
	styles := string(zipEntry(zr, "xl/styles.xml"))
	if !strings.Contains(styles, "FFFF0000") {
		t.Fatalf("styles missing red font: %s", styles)
	}
}

func TestReadBytesDispatch(t *testing.T) {
	csv := []byte("A,B\n1,2\n")
	tab, err := ReadBytes("input.csv", csv)
	if err != nil {
		t.Fatalf("ReadBytes csv: %v", err)
	}
	if tab.Len() != 1 || tab.Cell(0, "B") != "2" {
		t.Fatalf("csv table = %#v", tab)
	}
	if _, err := ReadBytes("input.docx", nil); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported file type error, got %v", err)
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	if err := w.WriteHeader([]string{"A", "B "}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := w.WriteRow([]string{"1", "x, y"}); err != nil {
		t.Fatalf("WriteRow: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	tab, err := ReadCSV(buf.Bytes())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tab.Headers[1] != "B " {
		t.Fatalf("trailing-space header lost: %#v", tab.Headers)
	}
	if tab.Cell(0, "B ") != "x, y" {
		t.Fatalf("cell = %q", tab.Cell(0, "B "))
	}
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	if _, err := ReadXLSX([]byte("definitely not a zip")); err == nil {
		t.Fatalf("expected error for non-zip input")
	}
}
