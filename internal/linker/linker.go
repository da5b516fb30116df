package linker

import (
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/dgallion1/coredoc/internal/doctree"
)

// MaxLinks caps the embedded links of a chunk.
const MaxLinks = 5

// ContextHint is the human-readable hint attached to a link for term.
func ContextHint(term string) string {
	return "Related content about " + term
}

// Build compares every ordered pair of chunks and sets each chunk's
// EmbeddedLinks. Links are directed: A may link to B without B linking back.
func Build(chunks []doctree.Chunk) {
	terms := termSets(chunks)

	for i := range chunks {
		a := &chunks[i]
		v := newVerifier(a.Content)
		var links []doctree.Link

		for j := range chunks {
			if i == j {
				continue
			}
			best, ok := bestShared(a.Keywords, terms[j])
			if !ok || !v.occurs(best) {
				continue
			}
			links = append(links, newLink(best, chunks[j].ID))
		}

		a.EmbeddedLinks = capLinks(links)
	}
}

// BuildIndexed produces the same links as Build, visiting only the chunks
// that share at least one term with the source chunk.
func BuildIndexed(chunks []doctree.Chunk) {
	terms := termSets(chunks)

	index := make(map[string][]int)
	for j, set := range terms {
		for term := range set {
			index[term] = append(index[term], j)
		}
	}

	for i := range chunks {
		a := &chunks[i]
		v := newVerifier(a.Content)

		seen := make(map[int]bool)
		var candidates []int
		for _, kw := range a.Keywords {
			for _, j := range index[kw.Term] {
				if j != i && !seen[j] {
					seen[j] = true
					candidates = append(candidates, j)
				}
			}
		}
		sort.Ints(candidates)

		var links []doctree.Link
		for _, j := range candidates {
			best, ok := bestShared(a.Keywords, terms[j])
			if !ok || !v.occurs(best) {
				continue
			}
			links = append(links, newLink(best, chunks[j].ID))
		}

		a.EmbeddedLinks = capLinks(links)
	}
}

func termSets(chunks []doctree.Chunk) []map[string]bool {
	sets := make([]map[string]bool, len(chunks))
	for i, c := range chunks {
		set := make(map[string]bool, len(c.Keywords))
		for _, kw := range c.Keywords {
			set[kw.Term] = true
		}
		sets[i] = set
	}
	return sets
}

// bestShared picks the shared term with the highest score in the source
// chunk's own keyword list. On equal scores the earlier-ranked term wins.
func bestShared(source []doctree.Keyword, target map[string]bool) (string, bool) {
	best := -1
	for i, kw := range source {
		if !target[kw.Term] {
			continue
		}
		if best < 0 || kw.ImportanceScore > source[best].ImportanceScore {
			best = i
		}
	}
	if best < 0 {
		return "", false
	}
	return source[best].Term, true
}

func newLink(term, target string) doctree.Link {
	return doctree.Link{
		Keyword:      term,
		TargetPageID: target,
		ContextHint:  ContextHint(term),
	}
}

// capLinks orders links by keyword length, longest first, and keeps MaxLinks.
func capLinks(links []doctree.Link) []doctree.Link {
	sort.SliceStable(links, func(i, j int) bool {
		return utf8.RuneCountInString(links[i].Keyword) > utf8.RuneCountInString(links[j].Keyword)
	})
	if len(links) > MaxLinks {
		links = links[:MaxLinks]
	}
	if links == nil {
		links = []doctree.Link{}
	}
	return links
}

// verifier checks whole-word, case-insensitive occurrence of terms in one
// chunk's content, caching the result per term. Word boundaries are
// Unicode-aware: any letter, digit or underscore counts as a word character.
type verifier struct {
	content string
	cache   map[string]bool
}

func newVerifier(content string) *verifier {
	return &verifier{content: content, cache: make(map[string]bool)}
}

func (v *verifier) occurs(term string) bool {
	if ok, hit := v.cache[term]; hit {
		return ok
	}
	re := regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])` + regexp.QuoteMeta(term) + `(?:$|[^\p{L}\p{N}_])`)
	ok := re.MatchString(v.content)
	v.cache[term] = ok
	return ok
}
