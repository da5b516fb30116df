package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/karrick/godirwalk"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dgallion1/coredoc/internal/parser"
)

const (
	// OutputSuffix is appended to the input stem to name each output file.
	OutputSuffix = ".coredoc.json"

	// IndexFile names the aggregate index written next to the outputs.
	IndexFile = "index.json"
)

// BatchOptions configures a folder run.
type BatchOptions struct {
	Dir        string
	OutDir     string   // Defaults to Dir
	Extensions []string // Defaults to .txt
	MinChars   int      // Shorter inputs are skipped
	Workers    int
	Parsers    parser.Options
}

// IndexEntry describes one processed file in index.json.
type IndexEntry struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Chunks   int    `json:"chunks"`
	Created  string `json:"created"`
}

// Index is the aggregate listing written after a batch run.
type Index struct {
	Documents []IndexEntry `json:"documents"`
	Total     int          `json:"total"`
	CreatedAt string       `json:"created_at"`
}

// FileResult is the outcome for one input file. Exactly one of Err,
// Skipped or a non-empty Output is set.
type FileResult struct {
	Path     string
	Title    string
	Output   string
	Chunks   int
	MaxDepth int
	Created  string
	Skipped  string // Reason the file was not processed
	Err      error
}

// BatchReport summarizes a folder run.
type BatchReport struct {
	Results   []FileResult
	Index     Index
	IndexPath string // Empty when no document was processed
}

// Processed returns the number of files that produced a document.
func (r *BatchReport) Processed() int {
	return len(r.Index.Documents)
}

// Batch processes every matching file in a directory, writing one
// <stem>.coredoc.json per input and an index.json for the run. A failing
// file is reported and left out of the index; it never stops the run.
type Batch struct {
	proc *Processor
	log  *slog.Logger
	now  func() time.Time
}

func NewBatch(proc *Processor, log *slog.Logger) *Batch {
	return &Batch{proc: proc, log: log, now: time.Now}
}

func (b *Batch) Run(ctx context.Context, opts BatchOptions) (*BatchReport, error) {
	if opts.OutDir == "" {
		opts.OutDir = opts.Dir
	}
	opts.Extensions = normalizeExtensions(opts.Extensions)
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".txt"}
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	paths, err := discover(opts.Dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	b.log.Info("batch started", "dir", opts.Dir, "files", len(paths), "workers", opts.Workers)

	results := make([]FileResult, len(paths))
	work := make(chan int)
	var wg sync.WaitGroup
	for w, n := 0, min(opts.Workers, max(len(paths), 1)); w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				results[i] = b.processFile(paths[i], opts)
			}
		}()
	}

feed:
	for i := range paths {
		select {
		case work <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &BatchReport{
		Results: results,
		Index: Index{
			Documents: []IndexEntry{},
			CreatedAt: b.now().UTC().Format(time.RFC3339),
		},
	}
	for _, r := range results {
		if r.Output == "" {
			continue
		}
		report.Index.Documents = append(report.Index.Documents, IndexEntry{
			Filename: filepath.Base(r.Output),
			Title:    r.Title,
			Chunks:   r.Chunks,
			Created:  r.Created,
		})
	}
	report.Index.Total = len(report.Index.Documents)

	if report.Index.Total > 0 {
		report.IndexPath = filepath.Join(opts.OutDir, IndexFile)
		if err := writeJSON(report.IndexPath, report.Index); err != nil {
			return report, fmt.Errorf("write index: %w", err)
		}
	}

	b.log.Info("batch finished", "processed", report.Index.Total, "files", len(paths))
	return report, nil
}

func (b *Batch) processFile(path string, opts BatchOptions) FileResult {
	log := b.log.With("file", path)
	res := FileResult{Path: path}

	p, err := parser.ForFile(path, opts.Parsers)
	if err != nil {
		res.Err = err
		log.Warn("skipping file", "error", err)
		return res
	}
	f, err := os.Open(path)
	if err != nil {
		res.Err = fmt.Errorf("open: %w", err)
		log.Error("read failed", "error", err)
		return res
	}
	src, err := p.Parse(f, path)
	f.Close()
	if err != nil {
		res.Err = err
		log.Error("parse failed", "error", err)
		return res
	}

	if n := utf8.RuneCountInString(src.Text); n < opts.MinChars {
		res.Skipped = fmt.Sprintf("too short (%d < %d characters)", n, opts.MinChars)
		log.Info("skipping file", "reason", res.Skipped)
		return res
	}

	res.Title = TitleFromFilename(path)
	doc := b.proc.Process(src.Text, res.Title)

	out := filepath.Join(opts.OutDir, parser.Stem(path)+OutputSuffix)
	if err := writeJSON(out, doc); err != nil {
		res.Err = fmt.Errorf("write output: %w", err)
		log.Error("write failed", "error", err)
		return res
	}

	res.Output = out
	res.Chunks = doc.Document.TotalChunks
	res.MaxDepth = doc.Document.MaxDepth
	res.Created = doc.Document.CreatedAt
	log.Info("file processed", "chunks", res.Chunks, "max_depth", res.MaxDepth, "output", out)
	return res
}

// discover lists the files directly inside dir whose extension matches,
// sorted by path. Subdirectories are not entered.
// normalizeExtensions lower-cases each extension and adds the leading dot
// when it is missing, so "MD" and ".md" select the same files.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func discover(dir string, exts []string) ([]string, error) {
	root := filepath.Clean(dir)
	var paths []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		Unsorted: true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if filepath.Clean(path) == root {
					return nil
				}
				return godirwalk.SkipThis
			}
			if strings.HasSuffix(path, OutputSuffix) {
				return nil
			}
			if slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				paths = append(paths, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	slices.Sort(paths)
	return paths, nil
}

// TitleFromFilename derives a document title from a file name: the stem with
// dashes and underscores as spaces, in title case.
func TitleFromFilename(path string) string {
	stem := strings.NewReplacer("-", " ", "_", " ").Replace(parser.Stem(path))
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Title(language.English).String(stem)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
