package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/google/uuid"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusOutlining JobStatus = "outlining"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// File is one uploaded source file. Files are outlined in the order given.
type File struct {
	Name string
	Data []byte
}

// Job tracks the state of a single outline build.
type Job struct {
	mu sync.Mutex

	ID       string           `json:"job_id"`
	Status   JobStatus        `json:"status"`
	Phase    string           `json:"phase"`
	Settings outline.Settings `json:"settings"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files     []File
	fileNames []string
	result    *Result
	errors    []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalFiles     int      `json:"total_files"`
	FilesProcessed int      `json:"files_processed"`
	Documents      int      `json:"documents"`
	Headings       int      `json:"headings"`
	Pages          int      `json:"pages"`
	Errors         []string `json:"errors"`
}

// NewJob creates a queued job for files.
func NewJob(files []File, settings outline.Settings) *Job {
	now := time.Now()
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Settings:  settings,
		Progress:  Progress{TotalFiles: len(files)},
		CreatedAt: now,
		UpdatedAt: now,
		files:     files,
		fileNames: names,
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

// Len returns the number of jobs held.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.updatedAt()) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

func (j *Job) updatedAt() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// FileProcessed counts one more parsed file.
func (j *Job) FileProcessed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.FilesProcessed++
	j.UpdatedAt = time.Now()
}

// DocumentAdded records a document that joined the outline.
func (j *Job) DocumentAdded(headings, pages int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.Documents++
	j.Progress.Headings += headings
	j.Progress.Pages += pages
	j.UpdatedAt = time.Now()
}

// Files returns the uploaded files.
func (j *Job) Files() []File {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// complete stores the result and drops the raw file bytes, which are no
// longer needed once every document is rendered.
func (j *Job) complete(res *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.files = nil
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Result returns the finished outline, or nil while the job is running or
// after it failed.
func (j *Job) Result() *Result {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string           `json:"job_id"`
	Status    JobStatus        `json:"status"`
	Phase     string           `json:"phase"`
	Files     []string         `json:"files"`
	Settings  outline.Settings `json:"settings"`
	Progress  Progress         `json:"progress"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	return JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Files:    append([]string{}, j.fileNames...),
		Settings: j.Settings,
		Progress: Progress{
			TotalFiles:     j.Progress.TotalFiles,
			FilesProcessed: j.Progress.FilesProcessed,
			Documents:      j.Progress.Documents,
			Headings:       j.Progress.Headings,
			Pages:          j.Progress.Pages,
			Errors:         errs,
		},
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
