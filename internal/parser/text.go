package parser

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// TextParser handles plain text files. The text is passed through as is;
// heading detection happens later.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not valid UTF-8", filename)
	}
	return &Source{Title: Stem(filename), Text: string(data)}, nil
}
