// internal/repository/job_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/database"
	"escpos-service/internal/model"
)

const jobColumns = `id, printer_id, status, document, bytes_written, attempts,
	error_code, error_message, created_at, completed_at`

// jobRepository implements JobRepository on postgres
type jobRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewJobRepository creates a postgres backed job repository
func NewJobRepository(db *database.DB, logger *zap.Logger) JobRepository {
	return &jobRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new job
func (r *jobRepository) Create(ctx context.Context, job *model.PrintJob) error {
	query := `
		INSERT INTO print_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		job.ID, job.PrinterID, job.Status, job.Document, job.BytesWritten,
		job.Attempts, job.ErrorCode, job.ErrorMessage, job.CreatedAt, job.CompletedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create job", zap.Error(err), zap.String("job_id", job.ID.String()))
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// Update stores the mutable fields of a job
func (r *jobRepository) Update(ctx context.Context, job *model.PrintJob) error {
	query := `
		UPDATE print_jobs SET
			status = $2, bytes_written = $3, attempts = $4,
			error_code = $5, error_message = $6, completed_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		job.ID, job.Status, job.BytesWritten, job.Attempts,
		job.ErrorCode, job.ErrorMessage, job.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrNotFound)
	}
	return nil
}

// GetByID retrieves a job by ID
func (r *jobRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE id = $1`

	job, err := scanJob(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job, nil
}

// List retrieves jobs with filtering and pagination
func (r *jobRepository) List(ctx context.Context, filter *model.JobFilter) ([]*model.PrintJob, int, error) {
	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.PrinterID != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("printer_id = $%d", argIndex))
		args = append(args, filter.PrinterID)
		argIndex++
	}
	if filter.Status != "" {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM print_jobs " + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM print_jobs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, whereClause, argIndex, argIndex+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := []*model.PrintJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, total, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.PrintJob, error) {
	job := &model.PrintJob{}
	err := row.Scan(
		&job.ID, &job.PrinterID, &job.Status, &job.Document, &job.BytesWritten,
		&job.Attempts, &job.ErrorCode, &job.ErrorMessage, &job.CreatedAt, &job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return job, nil
}
