package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/nlp"
	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.WorkerCount = 2
	cfg.MaxQueueSize = 4
	return cfg
}

// waitDone polls until the job leaves the pending and processing states.
func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status == StatusCompleted || snap.Status == StatusFailed {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesUpload(t *testing.T) {
	docs := store.New(time.Hour)
	orch := NewOrchestrator(testConfig(), newProcessor(t), docs, discardLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	text := "# Rivers\nRivers carve canyons. Rivers feed lakes.\n## Deltas\nDeltas form where rivers slow."
	job := NewJob(nlp.ShortHash("Waterways"), "waterways.md", "Waterways", []byte(text))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", snap.Status, snap.Error)
	}
	if snap.Progress != 100 {
		t.Errorf("expected progress 100, got %d", snap.Progress)
	}

	doc, err := docs.Get(snap.DocumentID)
	if err != nil {
		t.Fatalf("expected stored document: %v", err)
	}
	if doc.Document.Title != "Waterways" {
		t.Errorf("expected title %q, got %q", "Waterways", doc.Document.Title)
	}
	if doc.Document.TotalChunks != 2 {
		t.Errorf("expected 2 chunks, got %d", doc.Document.TotalChunks)
	}
	if got := orch.Stats().Snapshot().Documents; got != 1 {
		t.Errorf("expected 1 recorded document, got %d", got)
	}
	if orch.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable by id")
	}
}

func TestOrchestrator_TitleFromParser(t *testing.T) {
	docs := store.New(time.Hour)
	orch := NewOrchestrator(testConfig(), newProcessor(t), docs, discardLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	html := "<html><head><title>Bird Guide</title></head><body><h1>Owls</h1><p>Owls hunt at night.</p></body></html>"
	job := NewJob("", "guide.html", "", []byte(html))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", snap.Status, snap.Error)
	}
	if snap.DocumentID != nlp.ShortHash("Bird Guide") {
		t.Errorf("expected document id derived from the html title, got %q", snap.DocumentID)
	}
}

func TestOrchestrator_UnsupportedFormatFails(t *testing.T) {
	docs := store.New(time.Hour)
	orch := NewOrchestrator(testConfig(), newProcessor(t), docs, discardLogger())
	orch.Start(context.Background())
	defer orch.Stop()

	job := NewJob("x", "payload.exe", "Payload", []byte("MZ"))
	if err := orch.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}

	snap := waitDone(t, job)
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", snap.Status)
	}
	if snap.Stage != "parsing" || snap.Error == "" {
		t.Errorf("expected parsing failure with message, got %s/%q", snap.Stage, snap.Error)
	}
	if docs.Len() != 0 {
		t.Error("expected no document stored for a failed job")
	}
	if got := orch.Stats().Snapshot().Failures; got != 1 {
		t.Errorf("expected 1 recorded failure, got %d", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	orch := NewOrchestrator(cfg, newProcessor(t), store.New(time.Hour), discardLogger())

	if err := orch.Submit(NewJob("a", "a.txt", "A", nil)); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b", "b.txt", "B", nil)
	err := orch.Submit(second)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if second.Snapshot().Status != StatusFailed {
		t.Error("expected rejected job to be marked failed")
	}
	if orch.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", orch.QueueDepth())
	}
}

func TestWorker_CancelledContext(t *testing.T) {
	w := NewWorker(newProcessor(t), store.New(time.Hour), NewStats(time.Hour), parser.Options{}, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("a", "a.txt", "A", []byte("text"))
	w.Process(ctx, job)

	if job.Snapshot().Status != StatusFailed {
		t.Error("expected job to fail when the context is cancelled")
	}
}
