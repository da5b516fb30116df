package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the state of a processing job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job tracks the processing of one uploaded document.
type Job struct {
	mu sync.Mutex

	ID       string
	DocID    string
	Filename string
	Title    string

	Status   JobStatus
	Stage    string
	Progress int
	Message  string
	Error    string

	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time

	// Internal: not serialized.
	fileData []byte
}

// NewJob creates a pending job with a fresh processing id.
func NewJob(docID, filename, title string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		DocID:     docID,
		Filename:  filename,
		Title:     title,
		Status:    StatusPending,
		Stage:     "queued",
		Message:   "Waiting for a worker",
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs. Jobs still waiting or running are kept.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		done := job.Status == StatusCompleted || job.Status == StatusFailed
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if done && expired {
			delete(s.jobs, id)
		}
	}
}

// Start marks the job as picked up by a worker.
func (j *Job) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.Status = StatusProcessing
	j.Stage = "starting"
	j.Message = "Processing started"
	j.StartedAt = now
	j.UpdatedAt = now
}

// SetStage records the current stage and overall progress in percent.
func (j *Job) SetStage(stage string, progress int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Stage = stage
	j.Progress = min(max(progress, 0), 100)
	j.UpdatedAt = time.Now()
}

// Complete marks the job as finished successfully.
func (j *Job) Complete(message string) {
	j.finish(StatusCompleted, message, "")
}

// Fail marks the job as failed.
func (j *Job) Fail(stage string, err error) {
	j.mu.Lock()
	j.Stage = stage
	j.mu.Unlock()
	j.finish(StatusFailed, "Processing failed", err.Error())
}

func (j *Job) finish(status JobStatus, message, errMsg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.Status = status
	j.Message = message
	j.Error = errMsg
	if status == StatusCompleted {
		j.Stage = "done"
		j.Progress = 100
	}
	j.CompletedAt = now
	j.UpdatedAt = now
	j.fileData = nil
}

func (j *Job) setDocumentID(id string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.DocID = id
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string     `json:"id"`
	DocumentID  string     `json:"document_id"`
	Filename    string     `json:"filename"`
	Title       string     `json:"title"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	Stage       string     `json:"stage"`
	Message     string     `json:"message"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:          j.ID,
		DocumentID:  j.DocID,
		Filename:    j.Filename,
		Title:       j.Title,
		Status:      j.Status,
		Progress:    j.Progress,
		Stage:       j.Stage,
		Message:     j.Message,
		Error:       j.Error,
		StartedAt:   timePtr(j.StartedAt),
		CompletedAt: timePtr(j.CompletedAt),
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
