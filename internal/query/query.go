// Package query answers read-only questions about a processed document:
// aggregate statistics, term search and navigation paths.
package query

import (
	"errors"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/coredoc/internal/doctree"
)

const (
	// WordsPerMinute is the reading speed used for reading-time estimates.
	WordsPerMinute = 200

	// DefaultSearchLimit caps search results when no limit is given.
	DefaultSearchLimit = 10

	titleWeight   = 3
	keywordWeight = 2
)

var ErrChunkNotFound = errors.New("chunk not found")

// DocumentStats summarizes a document for display.
type DocumentStats struct {
	TotalChunks         int            `json:"total_chunks"`
	TotalCharacters     int            `json:"total_characters"`
	AvgChunkSize        float64        `json:"avg_chunk_size"`
	ChunksByLevel       map[int]int    `json:"chunks_by_level"`
	KeywordDistribution map[string]int `json:"keyword_distribution"`
	HierarchyDepth      int            `json:"hierarchy_depth"`
	ReadingTimeTotal    int            `json:"reading_time_total"` // Seconds
	CoveragePercentage  float64        `json:"coverage_percentage"`
}

// SearchResult is one chunk matching a search query.
type SearchResult struct {
	ChunkID   string   `json:"chunkId"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Relevance int      `json:"relevance"`
	Keywords  []string `json:"keywords"`
}

// BreadcrumbItem is one step on the path from the root to a chunk.
type BreadcrumbItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Level int    `json:"level"`
}

// Stats computes aggregate statistics. Keyword distribution counts the
// chunks each keyword term appears in.
func Stats(doc doctree.Document) DocumentStats {
	st := DocumentStats{
		TotalChunks:         len(doc.Chunks),
		ChunksByLevel:       make(map[int]int),
		KeywordDistribution: make(map[string]int),
		CoveragePercentage:  doc.Document.CoveragePercentage,
	}
	words := 0
	for _, c := range doc.Chunks {
		st.TotalCharacters += utf8.RuneCountInString(c.Content)
		st.ChunksByLevel[c.Level]++
		st.HierarchyDepth = max(st.HierarchyDepth, c.Level)
		for _, kw := range c.Keywords {
			st.KeywordDistribution[kw.Term]++
		}
		words += len(strings.Fields(c.Content))
	}
	if st.TotalChunks > 0 {
		st.AvgChunkSize = float64(st.TotalCharacters) / float64(st.TotalChunks)
	}
	st.ReadingTimeTotal = ReadingTime(words)
	return st
}

// ReadingTime converts a word count to whole seconds, rounding up.
func ReadingTime(words int) int {
	return int(math.Ceil(float64(words) * 60 / WordsPerMinute))
}

// Search ranks chunks by case-insensitive occurrences of the query terms.
// Title hits weigh 3, keyword hits 2 and content hits 1. Chunks without any
// hit are left out; ties keep creation order.
func Search(doc doctree.Document, q string, limit int) []SearchResult {
	terms := strings.Fields(strings.ToLower(q))
	results := []SearchResult{}
	if len(terms) == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	for _, c := range doc.Chunks {
		title := strings.ToLower(c.Title)
		content := strings.ToLower(c.Content)
		score := 0
		for _, term := range terms {
			score += titleWeight * strings.Count(title, term)
			score += strings.Count(content, term)
			for _, kw := range c.Keywords {
				if strings.Contains(kw.Term, term) {
					score += keywordWeight
				}
			}
		}
		if score == 0 {
			continue
		}
		kws := make([]string, len(c.Keywords))
		for i, kw := range c.Keywords {
			kws[i] = kw.Term
		}
		results = append(results, SearchResult{
			ChunkID:   c.ID,
			Title:     c.Title,
			Content:   c.Content,
			Relevance: score,
			Keywords:  kws,
		})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return b.Relevance - a.Relevance
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Chunk returns the chunk with the given id.
func Chunk(doc doctree.Document, id string) (doctree.Chunk, error) {
	for _, c := range doc.Chunks {
		if c.ID == id {
			return c, nil
		}
	}
	return doctree.Chunk{}, ErrChunkNotFound
}

// Breadcrumbs returns the path from the chunk's root ancestor down to the
// chunk itself.
func Breadcrumbs(doc doctree.Document, id string) ([]BreadcrumbItem, error) {
	byID := make(map[string]*doctree.Chunk, len(doc.Chunks))
	for i := range doc.Chunks {
		byID[doc.Chunks[i].ID] = &doc.Chunks[i]
	}
	c, ok := byID[id]
	if !ok {
		return nil, ErrChunkNotFound
	}

	var path []BreadcrumbItem
	seen := make(map[string]bool)
	for c != nil && !seen[c.ID] {
		seen[c.ID] = true
		path = append(path, BreadcrumbItem{ID: c.ID, Title: c.Title, Level: c.Level})
		c = byID[c.ParentID()]
	}
	slices.Reverse(path)
	return path, nil
}
