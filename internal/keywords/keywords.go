package keywords

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/nlp"
)

// MaxKeywords caps the keyword list of a chunk.
const MaxKeywords = 10

var (
	phrasePattern = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)\b`)

	honorifics = map[string]bool{"Mr": true, "Mrs": true, "Dr": true, "Ms": true, "Prof": true}
)

// Extractor ranks the salient terms of a chunk: repeated content words and
// capitalized multi-word phrases.
type Extractor struct {
	tok       nlp.Tokenizer
	stopwords nlp.Stopwords
}

func NewExtractor(tok nlp.Tokenizer, stopwords nlp.Stopwords) *Extractor {
	return &Extractor{tok: tok, stopwords: stopwords}
}

// Extract returns up to MaxKeywords keywords in descending importance.
func (e *Extractor) Extract(content string) []doctree.Keyword {
	words := e.retainedWords(content)
	if len(words) == 0 {
		return []doctree.Keyword{}
	}
	total := float64(len(words))

	// Frequencies, with terms in first-occurrence order.
	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	var keywords []doctree.Keyword
	for _, w := range order {
		if freq[w] <= 1 {
			continue
		}
		keywords = append(keywords, doctree.Keyword{
			Term:            w,
			ImportanceScore: float64(freq[w]) / total,
			Positions:       positions(words, w),
		})
	}

	lower := strings.ToLower(content)
	for _, phrase := range Phrases(content) {
		count := strings.Count(lower, strings.ToLower(phrase))
		if count == 0 {
			continue
		}
		keywords = append(keywords, doctree.Keyword{
			Term:            phrase,
			ImportanceScore: float64(count*len(strings.Fields(phrase))) / total,
			Positions:       []int{},
		})
	}

	// Stable: on equal scores words stay ahead of phrases.
	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].ImportanceScore > keywords[j].ImportanceScore
	})
	if len(keywords) > MaxKeywords {
		keywords = keywords[:MaxKeywords]
	}
	if keywords == nil {
		keywords = []doctree.Keyword{}
	}
	return keywords
}

// retainedWords lower-cases and tokenizes content, keeping alphanumeric
// non-stopword tokens longer than three characters.
func (e *Extractor) retainedWords(content string) []string {
	var out []string
	for _, w := range e.tok.Words(strings.ToLower(content)) {
		if utf8.RuneCountInString(w) <= 3 || !isAlnum(w) || e.stopwords.Contains(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Phrases returns the distinct runs of two or more capitalized words in
// text, in first-occurrence order, skipping runs that open with an honorific.
func Phrases(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range phrasePattern.FindAllStringSubmatch(text, -1) {
		p := m[1]
		if seen[p] || honorifics[strings.Fields(p)[0]] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func positions(words []string, term string) []int {
	var pos []int
	for i, w := range words {
		if w == term {
			pos = append(pos, i)
		}
	}
	return pos
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
