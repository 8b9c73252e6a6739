package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/chemsmart/fmdqa/internal/qa"
	"github.com/chemsmart/fmdqa/internal/schema"
	"github.com/chemsmart/fmdqa/internal/table"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type validateResponse struct {
	ID        string `json:"id"`
	File      string `json:"file"`
	Rows      int    `json:"rows"`
	Groups    int    `json:"groups"`
	ElapsedMS int64  `json:"elapsed_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleValidate accepts a multipart "file" field, runs the full check
// battery, and stores the annotated workbook for download. Schema errors
// come back as 422 with the descriptive message; unreadable files as
// 400; anything else is a generic 500 (details only in the log).
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxUploadMB)<<20)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.respondErr(w, http.StatusBadRequest, "missing multipart field 'file'")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.respondErr(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	tab, err := table.ReadBytes(hdr.Filename, data)
	if err != nil {
		s.respondErr(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	xw := table.NewXLSXWriter(&buf)
	xw.Highlight = []string{schema.Comment}
	sum, err := qa.Run(tab, xw, qa.Options{
		GroupsPerChunk: s.cfg.ChunkSize,
		Progress: func(done, total int) {
			s.log.Debug().Int("batch", done).Int("total", total).Msg("chunk processed")
		},
	})
	if err != nil {
		var missing *schema.MissingColumnsError
		if errors.As(err, &missing) {
			s.respondErr(w, http.StatusUnprocessableEntity, missing.Error())
			return
		}
		s.log.Error().Err(err).Str("file", hdr.Filename).Msg("validation failed")
		s.respondErr(w, http.StatusInternalServerError, "validation failed")
		return
	}
	if err := xw.Close(); err != nil {
		s.log.Error().Err(err).Msg("finalize artifact")
		s.respondErr(w, http.StatusInternalServerError, "validation failed")
		return
	}

	name := strings.TrimSuffix(path.Base(hdr.Filename), path.Ext(hdr.Filename)) + "_checked.xlsx"
	id := s.store.Put(name, buf.Bytes())
	s.log.Info().
		Str("file", hdr.Filename).
		Int("rows", sum.Rows).
		Int("groups", sum.Groups).
		Dur("elapsed", sum.Elapsed).
		Msg("validated")

	s.respondJSON(w, http.StatusOK, validateResponse{
		ID:        id,
		File:      name,
		Rows:      sum.Rows,
		Groups:    sum.Groups,
		ElapsedMS: sum.Elapsed.Milliseconds(),
	})
}

// handleDownload streams a finished artifact as an attachment.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.store.Get(id)
	if !ok {
		s.respondErr(w, http.StatusNotFound, "artifact not found")
		return
	}
	w.Header().Set("Content-Type", xlsxMIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.Data)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) respondErr(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}
