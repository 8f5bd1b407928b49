// Package data provides the job store implementations behind the core.JobStore
// port: the default in-process map and an optional Redis backend.
package data

import (
	"context"
	"sync"

	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/core"
	"github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/domain/model"
	apperrors "github.com/bhave-harshal-3000/masumi-makecom-proxy/internal/errors"
)

// MemoryJobStore implements core.JobStore with an in-process map. This is the
// default backend: job state is volatile and does not survive a restart,
// which is an accepted limitation of the proxy.
//
// A single mutex guards the table. Reads and writes hand out deep copies, so
// holders of a returned job can never race the store, and an update never
// exposes a half-applied transition to a concurrent reader.
type MemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[string]*model.Job
}

// NewMemoryJobStore creates an empty in-memory job store.
func NewMemoryJobStore() *MemoryJobStore {
	return &MemoryJobStore{jobs: make(map[string]*model.Job)}
}

// Create inserts a new job. Returns a conflict error if the id is already
// present. Duplicate ids should not occur with uuid generation; the check is
// defensive.
func (s *MemoryJobStore) Create(_ context.Context, job *model.Job) error {
	if job == nil || job.ID == "" {
		return apperrors.Validation("job id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return apperrors.Conflictf("job %s already exists", job.ID)
	}
	s.jobs[job.ID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job, or a not-found error.
func (s *MemoryJobStore) Get(_ context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok {
		return nil, apperrors.NotFoundf("job %s not found", id)
	}
	return job.Clone(), nil
}

// Update applies mutate atomically. The mutator runs against a private copy of
// the stored job; only when it succeeds does the copy replace the stored
// record, so a rejected transition leaves the prior state fully intact.
func (s *MemoryJobStore) Update(_ context.Context, id string, mutate core.JobMutator) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[id]
	if !ok {
		return nil, apperrors.NotFoundf("job %s not found", id)
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		return nil, err
	}
	s.jobs[id] = next
	return next.Clone(), nil
}

// Len reports the number of stored jobs. Used by tests and the availability
// surface.
func (s *MemoryJobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
