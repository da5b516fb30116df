package nlp

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed stopwords_en.txt
var englishStopwords string

// Stopwords is a set of lower-case words excluded from keyword extraction.
type Stopwords map[string]struct{}

// Contains reports whether w is a stopword. w must already be lower-cased.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// EnglishStopwords returns a fresh copy of the built-in English list.
func EnglishStopwords() Stopwords {
	s, _ := readStopwords(strings.NewReader(englishStopwords))
	return s
}

// LoadStopwords reads a stopword list from path: one word per line, blank
// lines and lines starting with '#' ignored.
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()

	s, err := readStopwords(f)
	if err != nil {
		return nil, fmt.Errorf("read stopwords %s: %w", path, err)
	}
	return s, nil
}

func readStopwords(r io.Reader) (Stopwords, error) {
	s := make(Stopwords)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		s[strings.ToLower(w)] = struct{}{}
	}
	return s, scanner.Err()
}
