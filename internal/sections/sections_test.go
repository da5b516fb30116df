package sections

import (
	"testing"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses spaces and tabs", "a  \t b", "a b"},
		{"trims lines", "  # Title  \n  body ", "# Title\nbody"},
		{"collapses blank line runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"keeps single blank line", "a\n\nb", "a\n\nb"},
		{"crlf", "a\r\nb\r\n", "a\nb"},
		{"whitespace only", " \n\t\n ", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestMatchHeading(t *testing.T) {
	tests := []struct {
		line  string
		title string
		level int
		style doctree.HeadingStyle
		ok    bool
	}{
		{"# Overview", "Overview", 0, doctree.StyleMarkdown, true},
		{"### Deep Dive", "Deep Dive", 2, doctree.StyleMarkdown, true},
		{"## Use C# today", "Use C# today", 2, doctree.StyleMarkdown, true},
		{"# F# and C#", "F# and C#", 2, doctree.StyleMarkdown, true},
		{"#nospace", "", 0, doctree.StyleNone, false},
		{"INTRODUCTION", "INTRODUCTION", 1, doctree.StyleCaps, true},
		{"GETTING STARTED", "GETTING STARTED", 1, doctree.StyleCaps, true},
		{"A", "", 0, doctree.StyleNone, false},
		{"1 Scope", "1 Scope", 0, doctree.StyleNumbered, true},
		{"1. Scope", "1. Scope", 1, doctree.StyleNumbered, true},
		{"2.3. Details here.", "2.3. Details here.", 3, doctree.StyleNumbered, true},
		{"4.1.2.3. Very deep", "4.1.2.3. Very deep", 3, doctree.StyleNumbered, true},
		{"IV. Results", "IV. Results", 2, doctree.StyleRoman, true},
		{"Plain body text.", "", 0, doctree.StyleNone, false},
		{"", "", 0, doctree.StyleNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			title, level, style, ok := MatchHeading(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.style, style)
		})
	}
}

func TestMatchHeading_PriorityOrder(t *testing.T) {
	// An all-caps markdown heading is classified as markdown, not caps.
	_, level, style, ok := MatchHeading("## SUMMARY")
	require.True(t, ok)
	assert.Equal(t, doctree.StyleMarkdown, style)
	assert.Equal(t, 1, level)

	// "II. RESULTS" is not all-caps because of the dot, so roman wins.
	_, _, style, ok = MatchHeading("II. RESULTS")
	require.True(t, ok)
	assert.Equal(t, doctree.StyleRoman, style)
}

func TestExtract_MarkdownTree(t *testing.T) {
	text := "# A\nAlpha one. Alpha two.\n## B\nBeta one. Beta two.\n## C\nGamma one. Gamma two."
	out := Extract(text)

	require.Len(t, out.Sections, 3)
	require.Equal(t, []int{0}, out.Roots)
	assert.Equal(t, "A", out.Sections[0].Title)
	assert.Equal(t, []int{1, 2}, out.Sections[0].Children)
	assert.Equal(t, []string{"Beta one. Beta two."}, out.Sections[1].Lines)
	assert.Empty(t, out.Sections[2].Children)
}

func TestExtract_HashInsideTitleDeepensLevel(t *testing.T) {
	text := "# Languages\nSome languages.\n## Go\nGo is small.\n# Using C#\nC# is large."
	out := Extract(text)

	require.Len(t, out.Sections, 3)
	require.Equal(t, []int{0}, out.Roots)
	assert.Equal(t, []int{1, 2}, out.Sections[0].Children)
	assert.Equal(t, "Using C#", out.Sections[2].Title)
	assert.Equal(t, 1, out.Sections[2].Level)
}

func TestExtract_IntroBeforeFirstHeading(t *testing.T) {
	out := Extract("Preamble text.\n# Body\nBody text.")

	require.Len(t, out.Sections, 2)
	assert.Equal(t, IntroTitle, out.Sections[0].Title)
	assert.Equal(t, 0, out.Sections[0].Level)
	// The intro has level 0, same as "# Body", so both are roots.
	assert.Equal(t, []int{0, 1}, out.Roots)
}

func TestExtract_HeadingWithoutContentIsDropped(t *testing.T) {
	out := Extract("# Empty\n## Filled\nSome text here.")

	require.Len(t, out.Sections, 1)
	assert.Equal(t, "Filled", out.Sections[0].Title)
	assert.Equal(t, []int{0}, out.Roots)
}

func TestExtract_EmptyInputFallsBack(t *testing.T) {
	out := Extract("")

	require.Len(t, out.Sections, 1)
	assert.Equal(t, FallbackTitle, out.Sections[0].Title)
	assert.Equal(t, []string{""}, out.Sections[0].Lines)
	assert.Equal(t, []int{0}, out.Roots)
}

func TestExtract_HeadingsOnlyFallsBack(t *testing.T) {
	out := Extract("# One\n# Two")

	require.Len(t, out.Sections, 1)
	assert.Equal(t, FallbackTitle, out.Sections[0].Title)
	assert.Equal(t, []string{"# One", "# Two"}, out.Sections[0].Lines)
}

func TestExtract_MixedStylesKeepOwnScales(t *testing.T) {
	// caps=1, roman=2, markdown "#"=0: the markdown heading pops everything.
	text := "OVERVIEW\nText a.\nI. First\nText b.\n# Fresh\nText c."
	out := Extract(text)

	require.Len(t, out.Sections, 3)
	assert.Equal(t, []int{0, 2}, out.Roots)
	assert.Equal(t, []int{1}, out.Sections[0].Children)
	assert.Equal(t, doctree.StyleRoman, out.Sections[1].Style)
}

func TestBuildHierarchy(t *testing.T) {
	flat := []doctree.Section{
		{Title: "a", Level: 0},
		{Title: "b", Level: 2},
		{Title: "c", Level: 1}, // sibling of b, child of a
		{Title: "d", Level: 2}, // child of c
		{Title: "e", Level: 0}, // new root
		{Title: "f", Level: 0}, // new root
	}
	out := BuildHierarchy(flat)

	assert.Equal(t, []int{0, 4, 5}, out.Roots)
	assert.Equal(t, []int{1, 2}, out.Sections[0].Children)
	assert.Equal(t, []int{3}, out.Sections[2].Children)
	assert.Empty(t, out.Sections[1].Children)
	assert.Empty(t, out.Sections[4].Children)
}

func TestBuildHierarchy_Empty(t *testing.T) {
	out := BuildHierarchy(nil)
	assert.Empty(t, out.Roots)
	assert.Empty(t, out.Sections)
}
