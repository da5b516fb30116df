package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/coredoc/internal/nlp"
	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// multipartMemory is the part of a multipart form kept in memory; the rest
// spills to temporary files.
const multipartMemory = 32 << 20

type processRequest struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Title string `json:"title"`
}

// upload is a validated file from a multipart form.
type upload struct {
	filename string
	title    string
	data     []byte
}

// handleProcess runs the pipeline synchronously on raw text (JSON body) or
// on an uploaded file (multipart form) and returns the document.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var text, title, filename string
	switch mediaType {
	case "application/json":
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Type != "text" || strings.TrimSpace(req.Text) == "" {
			jsonError(w, "invalid request", http.StatusBadRequest)
			return
		}
		text, title = req.Text, req.Title

	case "multipart/form-data":
		up, ok := s.readUpload(w, r)
		if !ok {
			return
		}
		p, err := parser.ForFile(up.filename, s.parsers)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		src, err := p.Parse(bytes.NewReader(up.data), up.filename)
		if err != nil {
			jsonError(w, "failed to parse file: "+err.Error(), http.StatusUnprocessableEntity)
			return
		}
		text, title, filename = src.Text, up.title, up.filename
		if title == "" {
			title = src.Title
		}
		if title == "" {
			title = up.filename
		}

	default:
		jsonError(w, "invalid content type", http.StatusBadRequest)
		return
	}

	start := time.Now()
	doc := s.orchestrator.Processor().Process(text, title)
	s.orchestrator.Stats().Record(time.Since(start), doc.Document.TotalChunks)
	s.docs.Put(doc, filename)

	s.log.Info("document processed",
		"doc_id", doc.Document.ID,
		"chunks", doc.Document.TotalChunks,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"document":      doc,
		"processing_id": uuid.NewString(),
	})
}

// handleUpload queues an uploaded file for background processing.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	if up.title == "" {
		up.title = up.filename
	}

	job := pipeline.NewJob(nlp.ShortHash(up.title), up.filename, up.title, up.data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"document_id":   job.DocID,
		"processing_id": job.ID,
		"message":       "Document queued for processing",
		"title":         job.Title,
	})
}

func (s *Server) handleProcessingStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "processingID"))
	if job == nil {
		jsonError(w, "processing job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

// readUpload reads the "file" and "title" fields of a multipart form,
// enforcing the upload limit and the supported extensions. On failure it
// has already written the error response.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return upload{}, false
		}
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return upload{}, false
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return upload{}, false
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return upload{}, false
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return upload{}, false
	}

	return upload{
		filename: filename,
		title:    strings.TrimSpace(r.FormValue("title")),
		data:     data,
	}, true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
