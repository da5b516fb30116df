package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/coredoc/internal/doctree"
	"github.com/dgallion1/coredoc/internal/pipeline"
)

func TestDocument(t *testing.T) {
	var buf bytes.Buffer
	doc := doctree.Document{Document: doctree.Metadata{ID: "abcd1234", Title: "Rivers", TotalChunks: 7, MaxDepth: 2}}

	Document(&buf, doc, "out.json", 1500*time.Millisecond)

	out := buf.String()
	for _, want := range []string{"Rivers", "abcd1234", "Total chunks:", "7", "out.json", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestBatch(t *testing.T) {
	var buf bytes.Buffer
	rep := &pipeline.BatchReport{
		Results: []pipeline.FileResult{
			{Path: "/in/a.txt", Output: "/out/a.coredoc.json", Chunks: 3, MaxDepth: 1},
			{Path: "/in/b.txt", Skipped: "too short (10 < 1000 characters)"},
			{Path: "/in/c.txt", Err: errors.New("invalid utf-8")},
		},
		Index:     pipeline.Index{Documents: []pipeline.IndexEntry{{Filename: "a.coredoc.json"}}, Total: 1},
		IndexPath: "/out/index.json",
	}

	Batch(&buf, rep, time.Second)

	out := buf.String()
	for _, want := range []string{"a.txt", "3 chunks", "too short", "invalid utf-8", "Processed:", "/out/index.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestBatch_NoIndex(t *testing.T) {
	var buf bytes.Buffer
	Batch(&buf, &pipeline.BatchReport{}, 0)

	if !strings.Contains(buf.String(), "index not written") {
		t.Errorf("expected missing index notice, got:\n%s", buf.String())
	}
}
