package handler

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// LoadJobStatus represents the lifecycle of a URL load.
type LoadJobStatus string

const (
	LoadJobQueued     LoadJobStatus = "queued"
	LoadJobRunning    LoadJobStatus = "running"
	LoadJobCompleted  LoadJobStatus = "completed"
	LoadJobFailed     LoadJobStatus = "failed"
	LoadJobSuperseded LoadJobStatus = "superseded"
)

// LoadJob keeps track of a URL fetch while it runs in the background.
type LoadJob struct {
	ID         string
	SessionID  string
	Source     string
	Status     LoadJobStatus
	Error      string
	ErrorCode  int
	DocumentID string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (j LoadJob) Done() bool {
	return j.Status == LoadJobCompleted || j.Status == LoadJobFailed || j.Status == LoadJobSuperseded
}

// Finished jobs are kept this long for their status page.
const jobRetention = 15 * time.Minute

// LoadJobManager stores load job states indexed by job ID.
type LoadJobManager struct {
	mu   sync.RWMutex
	jobs map[string]*LoadJob
	now  func() time.Time
}

func NewLoadJobManager() *LoadJobManager {
	return &LoadJobManager{
		jobs: make(map[string]*LoadJob),
		now:  time.Now,
	}
}

// NewJob registers a queued job for the session.
func (m *LoadJobManager) NewJob(sessionID, source string) LoadJob {
	job := &LoadJob{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Source:    source,
		Status:    LoadJobQueued,
		CreatedAt: m.now(),
		UpdatedAt: m.now(),
	}

	m.mu.Lock()
	m.pruneLocked()
	m.jobs[job.ID] = job
	m.mu.Unlock()
	return *job
}

// pruneLocked drops finished jobs older than jobRetention.
func (m *LoadJobManager) pruneLocked() {
	cutoff := m.now().Add(-jobRetention)
	for id, job := range m.jobs {
		if job.Done() && job.UpdatedAt.Before(cutoff) {
			delete(m.jobs, id)
		}
	}
}

// ForgetSession drops every job of a session. A job still running finishes
// without a record.
func (m *LoadJobManager) ForgetSession(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, job := range m.jobs {
		if job.SessionID == sessionID {
			delete(m.jobs, id)
		}
	}
}

func (m *LoadJobManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.jobs)
}

func (m *LoadJobManager) SetRunning(jobID string) {
	m.updateJob(jobID, func(job *LoadJob) {
		job.Status = LoadJobRunning
	})
}

// CompleteJob records the id of the document the job committed.
func (m *LoadJobManager) CompleteJob(jobID, documentID string) {
	m.updateJob(jobID, func(job *LoadJob) {
		job.Status = LoadJobCompleted
		job.DocumentID = documentID
	})
}

// SupersedeJob marks a job whose result arrived after a newer load began.
func (m *LoadJobManager) SupersedeJob(jobID string) {
	m.updateJob(jobID, func(job *LoadJob) {
		job.Status = LoadJobSuperseded
	})
}

// FailJob records a failure with a user-facing message and HTTP status.
func (m *LoadJobManager) FailJob(jobID string, err error, code int) {
	m.updateJob(jobID, func(job *LoadJob) {
		job.Status = LoadJobFailed
		job.Error = err.Error()
		job.ErrorCode = code
	})
}

// GetJob returns a copy of the job.
func (m *LoadJobManager) GetJob(jobID string) (LoadJob, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return LoadJob{}, false
	}
	return *job, true
}

func (m *LoadJobManager) updateJob(jobID string, update func(job *LoadJob)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}

	update(job)
	job.UpdatedAt = m.now()
}
