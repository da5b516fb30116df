package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgallion1/coredoc/internal/assemble"
	"github.com/dgallion1/coredoc/internal/chunker"
	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/keywords"
	"github.com/dgallion1/coredoc/internal/linker"
	"github.com/dgallion1/coredoc/internal/nlp"
	"github.com/dgallion1/coredoc/internal/sections"
)

// UntitledDocument replaces an empty title.
const UntitledDocument = "Untitled Document"

// ProgressFunc receives the stage being entered and the overall progress in
// percent.
type ProgressFunc func(stage Stage, progress int)

// Stage names one step of document processing.
type Stage string

const (
	StageSections   Stage = "extracting_sections"
	StageChunking   Stage = "chunking"
	StageKeywords   Stage = "extracting_keywords"
	StageLinking    Stage = "building_links"
	StageAssembling Stage = "assembling"
)

// Processor turns plain text into a linked chunk document. A Processor holds
// no per-document state and is safe for concurrent use.
type Processor struct {
	cfg       chunker.Config
	tok       nlp.Tokenizer
	stopwords nlp.Stopwords
	extractor *keywords.Extractor
	now       func() time.Time
	indexed   bool
}

type Option func(*Processor)

// WithClock sets the clock used for the creation timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// WithTokenizer replaces the English tokenizer.
func WithTokenizer(tok nlp.Tokenizer) Option {
	return func(p *Processor) { p.tok = tok }
}

// WithStopwords replaces the English stopword list.
func WithStopwords(sw nlp.Stopwords) Option {
	return func(p *Processor) { p.stopwords = sw }
}

// WithIndexedLinks builds links through an inverted term index instead of
// comparing every chunk pair. The output is identical.
func WithIndexedLinks() Option {
	return func(p *Processor) { p.indexed = true }
}

// NewProcessor loads the tokenizer unless one is supplied. A tokenizer that
// cannot be loaded is fatal to the caller.
func NewProcessor(cfg chunker.Config, opts ...Option) (*Processor, error) {
	p := &Processor{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.tok == nil {
		tok, err := nlp.NewEnglish()
		if err != nil {
			return nil, fmt.Errorf("init tokenizer: %w", err)
		}
		p.tok = tok
	}
	if p.stopwords == nil {
		p.stopwords = nlp.EnglishStopwords()
	}
	p.extractor = keywords.NewExtractor(p.tok, p.stopwords)
	return p, nil
}

// Process runs every stage over text and returns the assembled document.
func (p *Processor) Process(text, title string) doctree.Document {
	return p.Run(text, title, nil)
}

// Run is Process with a progress callback, which may be nil.
func (p *Processor) Run(text, title string, progress ProgressFunc) doctree.Document {
	report := func(s Stage, pct int) {
		if progress != nil {
			progress(s, pct)
		}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = UntitledDocument
	}

	report(StageSections, 10)
	outline := sections.Extract(sections.Normalize(text))

	report(StageChunking, 30)
	chunks := chunker.Partition(outline, p.cfg, p.tok)

	report(StageKeywords, 50)
	for i := range chunks {
		chunks[i].Keywords = p.extractor.Extract(chunks[i].Content)
	}

	report(StageLinking, 70)
	if p.indexed {
		linker.BuildIndexed(chunks)
	} else {
		linker.Build(chunks)
	}

	report(StageAssembling, 90)
	return assemble.Assemble(chunks, title, p.tok, p.now())
}

// FromConfig builds a Processor from the service configuration, loading the
// stopword list from StopwordsFile when one is set.
func FromConfig(cfg config.Config, opts ...Option) (*Processor, error) {
	if cfg.StopwordsFile != "" {
		sw, err := nlp.LoadStopwords(cfg.StopwordsFile)
		if err != nil {
			return nil, err
		}
		opts = append([]Option{WithStopwords(sw)}, opts...)
	}
	return NewProcessor(chunker.Config{
		MinChunkSize: cfg.MinChunkSize,
		MaxChunkSize: cfg.MaxChunkSize,
	}, opts...)
}
