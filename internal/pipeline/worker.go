package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/store"
)

// Worker processes a single document job.
type Worker struct {
	proc    *Processor
	docs    *store.DocumentStore
	stats   *Stats
	parsers parser.Options
	log     *slog.Logger
}

func NewWorker(proc *Processor, docs *store.DocumentStore, stats *Stats, parsers parser.Options, log *slog.Logger) *Worker {
	return &Worker{
		proc:    proc,
		docs:    docs,
		stats:   stats,
		parsers: parsers,
		log:     log,
	}
}

// Process parses the uploaded file, runs the processor over it and stores
// the resulting document. A failure leaves nothing in the document store.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("processing_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)

	if err := ctx.Err(); err != nil {
		job.Fail("queued", err)
		return
	}

	start := time.Now()
	job.Start()

	// Phase 1: Parse
	job.SetStage("parsing", 5)
	p, err := parser.ForFile(job.Filename, w.parsers)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}
	src, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "parsing", fmt.Errorf("parse: %w", err))
		return
	}
	title := job.Title
	if title == "" {
		title = src.Title
	}

	// Phase 2: Build the chunk graph.
	doc := w.proc.Run(src.Text, title, func(stage Stage, progress int) {
		job.SetStage(string(stage), progress)
	})
	job.setDocumentID(doc.Document.ID)

	// Phase 3: Store
	job.SetStage("storing", 95)
	w.docs.Put(doc, job.Filename)

	elapsed := time.Since(start)
	w.stats.Record(elapsed, doc.Document.TotalChunks)
	log.Info("document processed",
		"chunks", doc.Document.TotalChunks,
		"max_depth", doc.Document.MaxDepth,
		"duration_ms", elapsed.Milliseconds(),
	)
	job.Complete(fmt.Sprintf("Processed %d chunks", doc.Document.TotalChunks))
}

func (w *Worker) fail(log *slog.Logger, job *Job, stage string, err error) {
	log.Error("processing failed", "stage", stage, "error", err)
	w.stats.RecordFailure()
	job.Fail(stage, err)
}
