package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dgallion1/coredoc/internal/doctree"
)

// ErrNotFound is returned for unknown document ids.
var ErrNotFound = errors.New("document not found")

// Processor is reported as the producer of every stored document.
const Processor = "coredoc"

// Entry is a processed document together with its bookkeeping.
type Entry struct {
	Document doctree.Document
	Filename string
	StoredAt time.Time
}

// Summary is the listing view of a stored document.
type Summary struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	ChunkCount         int     `json:"chunk_count"`
	CoveragePercentage float64 `json:"coverage_percentage"`
	CreatedAt          string  `json:"created_at"`
	Filename           string  `json:"filename,omitempty"`
	Processor          string  `json:"processor"`
}

// DocumentStore is a thread-safe in-memory document registry with TTL
// eviction. Nothing is written to disk.
type DocumentStore struct {
	mu   sync.Mutex
	docs map[string]*Entry
	ttl  time.Duration
	now  func() time.Time
}

func New(ttl time.Duration) *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores doc under its document id, replacing any earlier document with
// the same id.
func (s *DocumentStore) Put(doc doctree.Document, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.Document.ID] = &Entry{
		Document: doc,
		Filename: filename,
		StoredAt: s.now(),
	}
}

func (s *DocumentStore) Get(id string) (doctree.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.docs[id]
	if !ok {
		return doctree.Document{}, ErrNotFound
	}
	return e.Document, nil
}

func (s *DocumentStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// List returns summaries of all stored documents, newest first.
func (s *DocumentStore) List() []Summary {
	s.mu.Lock()
	entries := make([]*Entry, 0, len(s.docs))
	for _, e := range s.docs {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].StoredAt.Equal(entries[j].StoredAt) {
			return entries[i].StoredAt.After(entries[j].StoredAt)
		}
		return entries[i].Document.Document.ID < entries[j].Document.Document.ID
	})

	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		m := e.Document.Document
		out = append(out, Summary{
			ID:                 m.ID,
			Title:              m.Title,
			ChunkCount:         m.TotalChunks,
			CoveragePercentage: m.CoveragePercentage,
			CreatedAt:          m.CreatedAt,
			Filename:           e.Filename,
			Processor:          Processor,
		})
	}
	return out
}

// Len returns the number of stored documents.
func (s *DocumentStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

// Cleanup removes expired documents.
func (s *DocumentStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.docs {
		if now.Sub(e.StoredAt) > s.ttl {
			delete(s.docs, id)
		}
	}
}
