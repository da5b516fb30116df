package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/nlp"
)

func newTokenizer(t *testing.T) nlp.Tokenizer {
	t.Helper()
	tok, err := nlp.NewEnglish()
	if err != nil {
		t.Fatalf("load tokenizer: %v", err)
	}
	return tok
}

// manySentences returns n short sentences joined by spaces.
func manySentences(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "Item %d keeps the rhythm going.", i)
	}
	return sb.String()
}

func TestPartition_SmallSectionFitsOneChunk(t *testing.T) {
	outline := &doctree.Outline{
		Sections: []doctree.Section{
			{Title: "Section", Lines: []string{"First line here.", "Second line here."}},
		},
		Roots: []int{0},
	}

	chunks := Partition(outline, DefaultConfig(), newTokenizer(t))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	c := chunks[0]
	if c.ID != "chunk_0" {
		t.Errorf("expected id chunk_0, got %q", c.ID)
	}
	if c.Title != "Section" {
		t.Errorf("expected title %q, got %q", "Section", c.Title)
	}
	if c.Content != "First line here.\nSecond line here." {
		t.Errorf("expected lines joined by newline, got %q", c.Content)
	}
	if c.CharacterCount != len([]rune(c.Content)) {
		t.Errorf("character count %d does not match content length %d", c.CharacterCount, len([]rune(c.Content)))
	}
	if c.ParentPageID != nil {
		t.Errorf("expected nil parent, got %q", *c.ParentPageID)
	}
	if c.Level != 0 {
		t.Errorf("expected depth 0, got %d", c.Level)
	}
}

func TestPartition_LargeSectionSplitIntoParts(t *testing.T) {
	outline := &doctree.Outline{
		Sections: []doctree.Section{
			{Title: "Big", Lines: []string{manySentences(40)}, Children: []int{1}},
			{Title: "Child", Lines: []string{"Child content."}, Level: 1},
		},
		Roots: []int{0},
	}
	cfg := Config{MinChunkSize: 500, MaxChunkSize: 200}

	chunks := Partition(outline, cfg, newTokenizer(t))

	if len(chunks) < 3 {
		t.Fatalf("expected at least 2 parts plus the child, got %d chunks", len(chunks))
	}

	parts := chunks[:len(chunks)-1]
	for i, c := range parts {
		want := fmt.Sprintf("Big (Part %d)", i+1)
		if c.Title != want {
			t.Errorf("part %d: expected title %q, got %q", i, want, c.Title)
		}
		if c.ParentPageID != nil {
			t.Errorf("part %d: expected nil parent", i)
		}
		if c.Level != 0 {
			t.Errorf("part %d: expected depth 0, got %d", i, c.Level)
		}
	}

	child := chunks[len(chunks)-1]
	if child.Title != "Child" {
		t.Fatalf("expected child chunk last, got %q", child.Title)
	}
	if child.ParentPageID == nil || *child.ParentPageID != "chunk_0" {
		t.Errorf("expected child to attach under the first part chunk_0, got %v", child.ParentPageID)
	}
	if child.Level != 1 {
		t.Errorf("expected child depth 1, got %d", child.Level)
	}

	// Sequential ids.
	for i, c := range chunks {
		if c.ID != doctree.ChunkID(i) {
			t.Errorf("chunk %d: expected id %q, got %q", i, doctree.ChunkID(i), c.ID)
		}
	}
}

func TestPartition_OversizedSingleSentenceKeepsBareTitle(t *testing.T) {
	long := "This sentence " + strings.Repeat("goes on ", 40) + "forever."
	outline := &doctree.Outline{
		Sections: []doctree.Section{{Title: "Run-on", Lines: []string{long}}},
		Roots:    []int{0},
	}

	chunks := Partition(outline, Config{MaxChunkSize: 50}, newTokenizer(t))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Title != "Run-on" {
		t.Errorf("expected bare title for single part, got %q", chunks[0].Title)
	}
	if chunks[0].Content != long {
		t.Errorf("expected sentence emitted unmodified")
	}
}

func TestPartition_DepthIgnoresHeadingLevelGaps(t *testing.T) {
	outline := &doctree.Outline{
		Sections: []doctree.Section{
			{Title: "Top", Level: 0, Lines: []string{"a."}, Children: []int{1}},
			{Title: "Deep", Level: 5, Lines: []string{"b."}, Children: []int{2}},
			{Title: "Deeper", Level: 6, Lines: []string{"c."}},
		},
		Roots: []int{0},
	}

	chunks := Partition(outline, DefaultConfig(), newTokenizer(t))

	wantDepth := []int{0, 1, 2}
	wantParent := []string{"", "chunk_0", "chunk_1"}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Level != wantDepth[i] {
			t.Errorf("chunk %d: expected depth %d, got %d", i, wantDepth[i], c.Level)
		}
		if c.ParentID() != wantParent[i] {
			t.Errorf("chunk %d: expected parent %q, got %q", i, wantParent[i], c.ParentID())
		}
	}
}

func TestPartition_PreOrderAcrossRoots(t *testing.T) {
	outline := &doctree.Outline{
		Sections: []doctree.Section{
			{Title: "R1", Lines: []string{"x."}, Children: []int{1, 2}},
			{Title: "R1.a", Level: 1, Lines: []string{"x."}},
			{Title: "R1.b", Level: 1, Lines: []string{"x."}},
			{Title: "R2", Lines: []string{"x."}},
		},
		Roots: []int{0, 3},
	}

	chunks := Partition(outline, DefaultConfig(), newTokenizer(t))

	want := []string{"R1", "R1.a", "R1.b", "R2"}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d", len(want), len(chunks))
	}
	for i, w := range want {
		if chunks[i].Title != w {
			t.Errorf("chunk %d: expected %q, got %q", i, w, chunks[i].Title)
		}
	}
	if chunks[3].ParentPageID != nil {
		t.Errorf("expected second root to have no parent")
	}
}

func TestPartition_EmptyContent(t *testing.T) {
	outline := &doctree.Outline{
		Sections: []doctree.Section{{Title: "Main Content", Lines: []string{""}}},
		Roots:    []int{0},
	}

	chunks := Partition(outline, DefaultConfig(), newTokenizer(t))

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "" || chunks[0].CharacterCount != 0 {
		t.Errorf("expected empty content, got %q (%d)", chunks[0].Content, chunks[0].CharacterCount)
	}
	if chunks[0].Keywords == nil || chunks[0].EmbeddedLinks == nil {
		t.Errorf("expected non-nil keyword and link slices")
	}
}

func TestPartition_DefaultConfigFallback(t *testing.T) {
	// Zero-value config should be replaced with defaults.
	outline := &doctree.Outline{
		Sections: []doctree.Section{{Title: "Doc", Lines: []string{manySentences(20)}}},
		Roots:    []int{0},
	}

	chunks := Partition(outline, Config{}, newTokenizer(t))

	if len(chunks) != 1 {
		t.Errorf("expected 1 chunk under the default max size, got %d", len(chunks))
	}
}

func TestSplitSentences(t *testing.T) {
	text := "Alpha beta gamma. Delta epsilon zeta. Eta theta iota."

	got := SplitSentences(text, 40, newTokenizer(t))

	want := []string{"Alpha beta gamma. Delta epsilon zeta.", "Eta theta iota."}
	if len(got) != len(want) {
		t.Fatalf("expected %d pieces, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("piece %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestSplitSentences_PreservesAllText(t *testing.T) {
	text := manySentences(30)

	pieces := SplitSentences(text, 100, newTokenizer(t))

	if strings.Join(pieces, " ") != text {
		t.Errorf("expected pieces to rejoin into the original text")
	}
}
