package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chemsmart/fmdqa/internal/config"
	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Global{
		ChunkSize:   20,
		ListenAddr:  ":0",
		MaxUploadMB: 8,
	}
	return New(cfg, zerolog.Nop())
}

func workbookBytes(t *testing.T, header []string, rows [][]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := table.NewXLSXWriter(&buf)
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

func uploadRequest(t *testing.T, name string, payload []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestValidateAndDownload(t *testing.T) {
	srv := testServer(t)

	header := append([]string(nil), schema.Required...)
	payload := workbookBytes(t, header, [][]string{
		// single-row group that passes every check
		{"A", "1", "1", "Latest", "gold", "10", "10", "100", "1000000", "100", "1000000", "10", "10"},
		// stale revision flag
		{"B", "2", "1", "Not Latest", "gold", "10", "10", "100", "1000000", "100", "1000000", "10", "10"},
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "fmd.xlsx", payload))
	if rec.Code != http.StatusOK {
		t.Fatalf("validate status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp validateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Rows != 2 || resp.Groups != 2 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.File != "fmd_checked.xlsx" {
		t.Fatalf("artifact name = %q", resp.File)
	}

	dl := httptest.NewRecorder()
	srv.Handler().ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/"+resp.ID, nil))
	if dl.Code != http.StatusOK {
		t.Fatalf("download status = %d", dl.Code)
	}
	if ct := dl.Header().Get("Content-Type"); ct != xlsxMIME {
		t.Fatalf("content type = %q", ct)
	}

	out, err := table.ReadXLSX(dl.Body.Bytes())
	if err != nil {
		t.Fatalf("parse artifact: %v", err)
	}
	if out.Headers[len(out.Headers)-1] != schema.Comment {
		t.Fatalf("artifact headers = %#v", out.Headers)
	}
	if got := out.Cell(0, schema.Comment); got != "" {
		t.Fatalf("clean row comment = %q", got)
	}
	if got := out.Cell(1, schema.Comment); got != "FMDRevFlag is Not Latest" {
		t.Fatalf("stale row comment = %q", got)
	}
}

func TestValidateMissingColumnsIs422(t *testing.T) {
	srv := testServer(t)
	payload := workbookBytes(t, []string{"ChemicalID", "PartNumber"}, [][]string{{"A", "1"}})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "bad.xlsx", payload))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Fatalf("empty error message")
	}
}

func TestValidateUnreadableFileIs400(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, "junk.xlsx", []byte("not a workbook")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestValidateWithoutFileFieldIs400(t *testing.T) {
	srv := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/validate", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=xyz")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestDownloadUnknownArtifactIs404(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/artifacts/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
