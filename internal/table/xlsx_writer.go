package table

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// XLSXWriter is an append-only workbook writer. The header row is written
// once, then data rows one at a time; the worksheet XML is streamed
// straight into the zip entry so the annotated table is never buffered a
// second time. Call Close to finish the archive.
type XLSXWriter struct {
	zw    *zip.Writer
	sheet io.Writer
	// Highlight lists header values to render with the red "failure
	// signal" font.
	Highlight []string

	row    int
	ncols  int
	closed bool
}

// NewXLSXWriter starts a workbook on w. Static parts (content types,
// relationships, workbook, styles) are written up front; the worksheet
// entry stays open for appends.
func NewXLSXWriter(w io.Writer) *XLSXWriter {
	return &XLSXWriter{zw: zip.NewWriter(w)}
}

const (
	xlsxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/xl/workbook.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"/><Override PartName="/xl/worksheets/sheet1.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"/><Override PartName="/xl/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"/></Types>`

	xlsxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="xl/workbook.xml"/></Relationships>`

	xlsxWorkbook = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets><sheet name="QA" sheetId="1" r:id="rId1"/></sheets></workbook>`

	xlsxWorkbookRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/><Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/></Relationships>`

	// Font 1 / cell style 1 is the red header font for appended columns.
	xlsxStyles = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<styleSheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><fonts count="2"><font><sz val="11"/><name val="Calibri"/></font><font><sz val="11"/><name val="Calibri"/><color rgb="FFFF0000"/></font></fonts><fills count="2"><fill><patternFill patternType="none"/></fill><fill><patternFill patternType="gray125"/></fill></fills><borders count="1"><border/></borders><cellStyleXfs count="1"><xf numFmtId="0" fontId="0" fillId="0" borderId="0"/></cellStyleXfs><cellXfs count="2"><xf numFmtId="0" fontId="0" fillId="0" borderId="0" xfId="0"/><xf numFmtId="0" fontId="1" fillId="0" borderId="0" xfId="0" applyFont="1"/></cellXfs></styleSheet>`
)

// WriteHeader writes the static workbook parts and the header row.
func (x *XLSXWriter) WriteHeader(cols []string) error {
	if x.sheet != nil {
		return fmt.Errorf("xlsx: header already written")
	}
	static := []struct{ name, body string }{
		{"[Content_Types].xml", xlsxContentTypes},
		{"_rels/.rels", xlsxRootRels},
		{"xl/workbook.xml", xlsxWorkbook},
		{"xl/_rels/workbook.xml.rels", xlsxWorkbookRels},
		{"xl/styles.xml", xlsxStyles},
	}
	for _, p := range static {
		w, err := x.zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("xlsx: create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(w, p.body); err != nil {
			return fmt.Errorf("xlsx: write %s: %w", p.name, err)
		}
	}
	sheet, err := x.zw.Create("xl/worksheets/sheet1.xml")
	if err != nil {
		return fmt.Errorf("xlsx: create sheet: %w", err)
	}
	x.sheet = sheet
	x.ncols = len(cols)
	if _, err := io.WriteString(sheet, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>`); err != nil {
		return fmt.Errorf("xlsx: write sheet prolog: %w", err)
	}

	mark := make(map[string]bool, len(x.Highlight))
	for _, h := range x.Highlight {
		mark[h] = true
	}
	var sb strings.Builder
	x.row++
	sb.WriteString(`<row r="1">`)
	for i, c := range cols {
		style := ""
		if mark[c] {
			style = ` s="1"`
		}
		fmt.Fprintf(&sb, `<c r="%s"%s t="inlineStr"><is><t xml:space="preserve">%s</t></is></c>`,
			cellRef(i, x.row), style, escapeXML(c))
	}
	sb.WriteString(`</row>`)
	_, err = io.WriteString(sheet, sb.String())
	return err
}

// WriteRow appends one data row. Cells that parse as numbers are written
// as numeric cells, everything else as inline strings.
func (x *XLSXWriter) WriteRow(cells []string) error {
	if x.sheet == nil {
		return fmt.Errorf("xlsx: WriteRow before WriteHeader")
	}
	x.row++
	var sb strings.Builder
	fmt.Fprintf(&sb, `<row r="%d">`, x.row)
	for i, c := range cells {
		if c == "" {
			continue
		}
		ref := cellRef(i, x.row)
		if _, err := strconv.ParseFloat(c, 64); err == nil {
			fmt.Fprintf(&sb, `<c r="%s"><v>%s</v></c>`, ref, c)
		} else {
			fmt.Fprintf(&sb, `<c r="%s" t="inlineStr"><is><t xml:space="preserve">%s</t></is></c>`, ref, escapeXML(c))
		}
	}
	sb.WriteString(`</row>`)
	_, err := io.WriteString(x.sheet, sb.String())
	return err
}

// Close finishes the worksheet and the zip archive.
func (x *XLSXWriter) Close() error {
	if x.closed {
		return nil
	}
	x.closed = true
	if x.sheet != nil {
		if _, err := io.WriteString(x.sheet, `</sheetData></worksheet>`); err != nil {
			return fmt.Errorf("xlsx: write sheet epilog: %w", err)
		}
	}
	return x.zw.Close()
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func escapeXML(s string) string { return xmlReplacer.Replace(s) }

// cellRef builds an A1-style reference from a 0-based column and a
// 1-based row.
func cellRef(col, row int) string {
	name := ""
	n := col
	for {
		name = string(rune('A'+n%26)) + name
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return name + strconv.Itoa(row)
}
