package assemble

import (
	"time"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/nlp"
)

const (
	// SummaryLimit is the longest summary kept before truncation, in characters.
	SummaryLimit = 200

	// NoSummary stands in for chunks without any sentence.
	NoSummary = "No summary available"
)

// Assemble fills in relationships, summaries and context strings for chunks
// (in place, in master order) and wraps them into a document.
func Assemble(chunks []doctree.Chunk, title string, tok nlp.Tokenizer, now time.Time) doctree.Document {
	// Chunk indices grouped by parent id, in master order. Root chunks group
	// under "".
	byParent := make(map[string][]int)
	for i := range chunks {
		p := chunks[i].ParentID()
		byParent[p] = append(byParent[p], i)
	}

	maxDepth := 0
	rootID := ""
	for i := range chunks {
		c := &chunks[i]

		children := []string{}
		for _, j := range byParent[c.ID] {
			children = append(children, chunks[j].ID)
		}

		prev, next := neighbours(chunks, byParent[c.ParentID()], i)

		refs := make([]string, 0, len(c.EmbeddedLinks))
		for _, l := range c.EmbeddedLinks {
			refs = append(refs, l.TargetPageID)
		}

		c.Relationships = doctree.Relationships{
			Parent:     c.ParentPageID,
			Children:   children,
			Prev:       prev,
			Next:       next,
			References: refs,
		}
		c.Summary = Summary(c.Content, tok)
		c.Context = "Part of " + title + ", section on " + c.Title

		if c.Level > maxDepth {
			maxDepth = c.Level
		}
		if rootID == "" && c.ParentPageID == nil {
			rootID = c.ID
		}
	}

	return doctree.Document{
		Document: doctree.Metadata{
			ID:                 nlp.ShortHash(title),
			Title:              title,
			TotalChunks:        len(chunks),
			RootChunkID:        rootID,
			CreatedAt:          now.UTC().Format(time.RFC3339),
			MaxDepth:           maxDepth,
			CoveragePercentage: 100.0,
		},
		Chunks: chunks,
	}
}

// neighbours returns the ids of the siblings immediately before and after
// chunk i, given all chunks sharing its parent in master order.
func neighbours(chunks []doctree.Chunk, group []int, i int) (prev, next *string) {
	for k, j := range group {
		if j != i {
			continue
		}
		if k > 0 {
			prev = doctree.StringPtr(chunks[group[k-1]].ID)
		}
		if k < len(group)-1 {
			next = doctree.StringPtr(chunks[group[k+1]].ID)
		}
		break
	}
	return prev, next
}

// Summary returns the first sentence of content, cut to SummaryLimit
// characters with a trailing ellipsis.
func Summary(content string, tok nlp.Tokenizer) string {
	sents := tok.Sentences(content)
	if len(sents) == 0 {
		return NoSummary
	}
	first := []rune(sents[0])
	if len(first) > SummaryLimit {
		return string(first[:SummaryLimit]) + "..."
	}
	return sents[0]
}
