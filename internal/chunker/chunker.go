package chunker

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/nlp"
)

// Config controls chunking behavior.
type Config struct {
	MinChunkSize int // Accepted for compatibility; splitting never consults it.
	MaxChunkSize int // Sections longer than this (in characters) are split.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MinChunkSize: 500,
		MaxChunkSize: 2000,
	}
}

// frame is one pending visit in the pre-order walk.
type frame struct {
	section  int
	parentID *string
	depth    int
}

// Partition walks the outline in pre-order and produces size-bounded chunks.
// Depth counts tree levels from each root, independent of heading levels.
func Partition(outline *doctree.Outline, cfg Config, tok nlp.Tokenizer) []doctree.Chunk {
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = DefaultConfig().MaxChunkSize
	}

	var chunks []doctree.Chunk

	// Explicit work-list; roots and children are pushed in reverse so they pop
	// in document order.
	stack := make([]frame, 0, len(outline.Roots))
	for i := len(outline.Roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{section: outline.Roots[i]})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		section := &outline.Sections[f.section]
		content := strings.Join(section.Lines, "\n")

		parts := []string{content}
		if utf8.RuneCountInString(content) > cfg.MaxChunkSize {
			if split := SplitSentences(content, cfg.MaxChunkSize, tok); len(split) > 0 {
				parts = split
			}
		}

		// Children hang off the first part only.
		childParent := doctree.StringPtr(doctree.ChunkID(len(chunks)))
		for i, part := range parts {
			title := section.Title
			if len(parts) > 1 {
				title = section.Title + " (Part " + strconv.Itoa(i+1) + ")"
			}
			chunks = append(chunks, newChunk(len(chunks), title, part, f.depth, f.parentID))
		}

		for i := len(section.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				section:  section.Children[i],
				parentID: childParent,
				depth:    f.depth + 1,
			})
		}
	}

	return chunks
}

func newChunk(n int, title, content string, depth int, parentID *string) doctree.Chunk {
	return doctree.Chunk{
		ID:             doctree.ChunkID(n),
		Title:          title,
		Content:        content,
		Level:          depth,
		ParentPageID:   parentID,
		CharacterCount: utf8.RuneCountInString(content),
		Keywords:       []doctree.Keyword{},
		EmbeddedLinks:  []doctree.Link{},
	}
}

// SplitSentences groups the sentences of text into pieces. A piece is
// flushed before a sentence that would push the summed sentence length past
// maxSize. A single sentence longer than maxSize becomes its own oversized piece.
func SplitSentences(text string, maxSize int, tok nlp.Tokenizer) []string {
	var result []string
	var current []string
	currentSize := 0

	for _, sent := range tok.Sentences(text) {
		size := utf8.RuneCountInString(sent)

		if currentSize+size > maxSize && len(current) > 0 {
			result = append(result, strings.Join(current, " "))
			current = current[:0]
			currentSize = 0
		}

		current = append(current, sent)
		currentSize += size
	}

	if len(current) > 0 {
		result = append(result, strings.Join(current, " "))
	}

	return result
}
