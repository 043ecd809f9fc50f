// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"escpos-service/internal/model"
)

// ErrNotFound is returned when a job does not exist
var ErrNotFound = errors.New("not found")

// JobRepository defines print job data access operations
type JobRepository interface {
	Create(ctx context.Context, job *model.PrintJob) error
	Update(ctx context.Context, job *model.PrintJob) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.PrintJob, error)

	// List returns one page of jobs, newest first, and the total match count
	List(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error)
}
