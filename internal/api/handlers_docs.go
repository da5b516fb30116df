package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/query"
	"github.com/dgallion1/coredoc/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"documents": s.docs.List()})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.docs.Delete(docID); err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.log.Info("document deleted", "doc_id", docID)
	writeJSON(w, http.StatusOK, map[string]any{"deleted": docID})
}

func (s *Server) handleDocumentStats(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, query.Stats(doc))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := query.DefaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   q,
		"results": query.Search(doc, q, limit),
	})
}

func (s *Server) handleGetChunk(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.lookup(w, r)
	if !ok {
		return
	}
	chunkID := chi.URLParam(r, "chunkID")
	chunk, err := query.Chunk(doc, chunkID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	crumbs, err := query.Breadcrumbs(doc, chunkID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chunk":       chunk,
		"breadcrumbs": crumbs,
	})
}

// lookup loads the document named by the docID route parameter, writing a
// 404 when it is unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (doctree.Document, bool) {
	doc, err := s.docs.Get(chi.URLParam(r, "docID"))
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return doc, false
	}
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return doc, false
	}
	return doc, true
}
