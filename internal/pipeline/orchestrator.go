package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/coredoc/internal/config"
	"github.com/dgallion1/coredoc/internal/parser"
	"github.com/dgallion1/coredoc/internal/store"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("processing queue is full")

// cleanupInterval is how often expired jobs and documents are evicted.
const cleanupInterval = 5 * time.Minute

// Orchestrator runs uploaded documents through the Processor on a pool of
// workers. Each job is handled start to finish by a single worker.
type Orchestrator struct {
	jobs    *JobStore
	docs    *store.DocumentStore
	queue   chan *Job
	proc    *Processor
	stats   *Stats
	log     *slog.Logger
	cfg     config.Config
	parsers parser.Options

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline. Call Start to launch the workers.
func NewOrchestrator(cfg config.Config, proc *Processor, docs *store.DocumentStore, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:    NewJobStore(cfg.JobTTL),
		docs:    docs,
		queue:   make(chan *Job, cfg.MaxQueueSize),
		proc:    proc,
		stats:   NewStats(time.Hour),
		log:     log,
		cfg:     cfg,
		parsers: parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i, n := 0, o.cfg.WorkerCount; i < n; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.proc, o.docs, o.stats, o.parsers, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job and document cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				o.docs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queued", ErrQueueFull)
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Processor returns the processor shared by all workers, for synchronous use
// by API handlers.
func (o *Orchestrator) Processor() *Processor {
	return o.proc
}

// Stats returns the rolling processing statistics.
func (o *Orchestrator) Stats() *Stats {
	return o.stats
}
