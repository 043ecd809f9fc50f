// internal/model/job.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the status of a print job
type JobStatus string

const (
	JobStatusPending  JobStatus = "PENDING"
	JobStatusPrinting JobStatus = "PRINTING"
	JobStatusSuccess  JobStatus = "SUCCESS"
	JobStatusFailed   JobStatus = "FAILED"
)

// PrintJob is one document sent to one printer
type PrintJob struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	PrinterID    string     `json:"printer_id" db:"printer_id"`
	Status       JobStatus  `json:"status" db:"status"`
	Document     JSONObject `json:"document" db:"document"`
	BytesWritten int        `json:"bytes_written" db:"bytes_written"`
	Attempts     int        `json:"attempts" db:"attempts"`
	ErrorCode    *string    `json:"error_code,omitempty" db:"error_code"`
	ErrorMessage *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// IsCompleted checks if the job has reached a final status
func (j *PrintJob) IsCompleted() bool {
	return j.Status == JobStatusSuccess || j.Status == JobStatusFailed
}

// DurationMs returns the job duration in milliseconds, or nil while running
func (j *PrintJob) DurationMs() *int64 {
	if j.CompletedAt == nil {
		return nil
	}
	ms := j.CompletedAt.Sub(j.CreatedAt).Milliseconds()
	return &ms
}

// JobFilter narrows a job listing
type JobFilter struct {
	PrinterID string
	Status    JobStatus
	Limit     int
	Offset    int
}
