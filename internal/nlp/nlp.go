package nlp

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/jdkato/prose/tokenize"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// Tokenizer segments English text into sentences and words.
type Tokenizer interface {
	Sentences(text string) []string
	Words(text string) []string
}

// English is a Punkt sentence splitter followed by a Penn Treebank word
// tokenizer run over each sentence.
type English struct {
	sentences *sentences.DefaultSentenceTokenizer
	words     *tokenize.TreebankWordTokenizer
}

// NewEnglish loads the English Punkt model.
func NewEnglish() (*English, error) {
	st, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("load english sentence model: %w", err)
	}
	return &English{
		sentences: st,
		words:     tokenize.NewTreebankWordTokenizer(),
	}, nil
}

// Sentences returns the trimmed, non-empty sentences of text in order.
func (e *English) Sentences(text string) []string {
	var out []string
	for _, s := range e.sentences.Tokenize(text) {
		t := strings.TrimSpace(s.Text)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Words returns the word tokens of text in order.
func (e *English) Words(text string) []string {
	var out []string
	for _, s := range e.Sentences(text) {
		out = append(out, e.words.Tokenize(s)...)
	}
	return out
}

// ShortHash returns the first 8 hex characters of the MD5 digest of s.
func ShortHash(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}
