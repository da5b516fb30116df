package doctree

import "strconv"

// Outline is the section tree of a document before chunking. Sections live in
// a flat arena and refer to each other by index.
type Outline struct {
	Sections []Section // Arena, in document order
	Roots    []int     // Indices of top-level sections
}

// Section is a heading-delimited span of raw content.
type Section struct {
	Title    string
	Lines    []string // Raw content lines, headings excluded
	Level    int      // Heading level; scale depends on the heading style
	Style    HeadingStyle
	Children []int // Indices into Outline.Sections
}

// HeadingStyle records which heading heuristic produced a section.
type HeadingStyle string

const (
	StyleNone     HeadingStyle = ""
	StyleMarkdown HeadingStyle = "markdown"
	StyleCaps     HeadingStyle = "caps"
	StyleNumbered HeadingStyle = "numbered"
	StyleRoman    HeadingStyle = "roman"
)

// Document is the assembled knowledge graph for one input text.
type Document struct {
	Document Metadata `json:"document"`
	Chunks   []Chunk  `json:"chunks"`
}

// Metadata describes a processed document as a whole.
type Metadata struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	TotalChunks        int     `json:"total_chunks"`
	RootChunkID        string  `json:"root_chunk_id"`
	CreatedAt          string  `json:"created_at"`
	MaxDepth           int     `json:"max_depth"`
	CoveragePercentage float64 `json:"coverage_percentage"`
}

// Chunk is a size-bounded, addressable unit of document content.
type Chunk struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Content        string        `json:"content"`
	Level          int           `json:"level"` // Depth in the section tree, not the heading level
	ParentPageID   *string       `json:"parent_page_id"`
	CharacterCount int           `json:"character_count"`
	Keywords       []Keyword     `json:"keywords"`
	EmbeddedLinks  []Link        `json:"embedded_links"`
	Relationships  Relationships `json:"relationships"`
	Summary        string        `json:"summary"`
	Context        string        `json:"context"`
}

// Keyword is a salient term of one chunk. Scores are only comparable within
// the chunk that produced them.
type Keyword struct {
	Term            string  `json:"term"`
	ImportanceScore float64 `json:"importance_score"`
	Positions       []int   `json:"positions"` // Empty for phrases
}

// Link is a directed reference from one chunk to another, keyed by a term
// both chunks share.
type Link struct {
	Keyword      string `json:"keyword"`
	TargetPageID string `json:"target_page_id"`
	ContextHint  string `json:"context_hint"`
}

// Relationships holds the structural neighbours of a chunk.
type Relationships struct {
	Parent     *string  `json:"parent"`
	Children   []string `json:"children"`
	Prev       *string  `json:"prev"`
	Next       *string  `json:"next"`
	References []string `json:"references"`
}

// ChunkID formats the id of the n-th chunk in creation order.
func ChunkID(n int) string {
	return "chunk_" + strconv.Itoa(n)
}

// ParentID returns the chunk's parent id, or "" for a root chunk.
func (c *Chunk) ParentID() string {
	if c.ParentPageID == nil {
		return ""
	}
	return *c.ParentPageID
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
