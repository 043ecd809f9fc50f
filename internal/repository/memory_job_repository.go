// internal/repository/memory_job_repository.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"escpos-service/internal/model"
)

// memoryJobRepository keeps jobs in process memory when no database is configured
type memoryJobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*model.PrintJob
}

// NewMemoryJobRepository creates an in-memory job repository
func NewMemoryJobRepository() JobRepository {
	return &memoryJobRepository{jobs: make(map[uuid.UUID]*model.PrintJob)}
}

func (r *memoryJobRepository) Create(_ context.Context, job *model.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *memoryJobRepository) Update(_ context.Context, job *model.PrintJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; !exists {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}
	r.jobs[job.ID] = copyJob(job)
	return nil
}

func (r *memoryJobRepository) GetByID(_ context.Context, id uuid.UUID) (*model.PrintJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return copyJob(job), nil
}

func (r *memoryJobRepository) List(_ context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error) {
	r.mu.RLock()
	matched := make([]*model.PrintJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		if filter.PrinterID != "" && job.PrinterID != filter.PrinterID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		matched = append(matched, copyJob(job))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := filter.Offset
	if start > total {
		start = total
	}
	end := total
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	return matched[start:end], total, nil
}

// copyJob isolates stored jobs from caller mutation; the document is
// shared since nothing mutates it after submission
func copyJob(job *model.PrintJob) *model.PrintJob {
	c := *job
	return &c
}
