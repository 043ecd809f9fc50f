// internal/service/job_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/document"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/utils"
	"escpos-service/pkg/escpos"
)

const maxListLimit = 1000

// JobService renders documents and delivers them to printers
type JobService struct {
	jobRepo   repository.JobRepository
	registry  *PrinterRegistry
	config    config.JobsConfig
	publisher EventPublisher
	logger    *utils.ServiceLogger
}

// NewJobService creates a new job service instance
func NewJobService(
	jobRepo repository.JobRepository,
	registry *PrinterRegistry,
	cfg config.JobsConfig,
	publisher EventPublisher,
	logger *zap.Logger,
) *JobService {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if cfg.RetryAttempts < 1 {
		cfg.RetryAttempts = 1
	}
	return &JobService{
		jobRepo:   jobRepo,
		registry:  registry,
		config:    cfg,
		publisher: publisher,
		logger:    utils.NewServiceLogger(logger, "job-service"),
	}
}

// Submit prints doc on printerID. The returned job is non-nil whenever a
// job record was created, including failed jobs; the error then carries
// the escpos error code of the failure.
func (s *JobService) Submit(ctx context.Context, printerID string, doc *document.Document) (*model.PrintJob, error) {
	printer, err := s.registry.Get(printerID)
	if err != nil {
		return nil, err
	}

	body, err := documentObject(doc)
	if err != nil {
		return nil, err
	}

	job := &model.PrintJob{
		ID:        uuid.New(),
		PrinterID: printerID,
		Status:    model.JobStatusPending,
		Document:  body,
		CreatedAt: time.Now(),
	}
	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	jobLogger := utils.NewJobLogger(s.logger.Logger, job.ID.String(), printerID)
	jobLogger.Start(zap.Int("commands", len(doc.Commands)), zap.String("model", printer.Model.String()))
	s.publisher.Publish(model.NewJobEvent(model.EventJobStarted, job))

	err = s.runLocked(ctx, printer, job, doc, jobLogger)

	s.finish(job, err)
	if err != nil {
		jobLogger.Error(err, zap.Int("attempts", job.Attempts))
		s.publisher.Publish(model.NewJobEvent(model.EventJobFailed, job))
		return job, err
	}

	jobLogger.Success(zap.Int("bytes", job.BytesWritten), zap.Int("attempts", job.Attempts))
	s.publisher.Publish(model.NewJobEvent(model.EventJobCompleted, job))
	return job, nil
}

func (s *JobService) runLocked(ctx context.Context, printer *Printer, job *model.PrintJob, doc *document.Document, jobLogger *utils.JobLogger) error {
	printer.mutex.Lock()
	defer printer.mutex.Unlock()
	return s.run(ctx, printer, job, doc, jobLogger)
}

// run renders and flushes with retry. Rendering failures never reach the
// device; a failed flush keeps the buffer so the next attempt resends it.
func (s *JobService) run(ctx context.Context, printer *Printer, job *model.PrintJob, doc *document.Document, jobLogger *utils.JobLogger) error {
	if err := checkDocumentModel(doc, printer.Model); err != nil {
		return err
	}

	p := escpos.NewPrinter(printer.Conn, printer.Model,
		escpos.WithLogger(printer.logger.Logger),
		escpos.WithCharset(printer.Charset),
	)
	if err := document.NewRenderer(printer.PaperWidth()).Render(p, doc); err != nil {
		return err
	}

	job.Status = model.JobStatusPrinting
	s.update(job)

	var lastErr error
	for attempt := 1; attempt <= s.config.RetryAttempts; attempt++ {
		job.Attempts = attempt
		n := p.Len()

		lastErr = s.flush(ctx, printer, p)
		if lastErr == nil {
			job.BytesWritten = n
			return nil
		}
		jobLogger.Attempt(attempt, lastErr)

		if attempt == s.config.RetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return &escpos.Error{Code: escpos.CodeIO, Message: "job cancelled", Wrapped: ctx.Err()}
		case <-time.After(s.config.RetryDelay):
		}
	}
	return lastErr
}

func (s *JobService) flush(ctx context.Context, printer *Printer, p *escpos.Printer) error {
	if s.config.FlushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.FlushTimeout)
		defer cancel()
	}
	if err := s.registry.ensureOpen(ctx, printer); err != nil {
		return &escpos.Error{Code: escpos.CodeIO, Message: "open", Wrapped: err}
	}
	return p.Flush(ctx)
}

func (s *JobService) finish(job *model.PrintJob, err error) {
	completedAt := time.Now()
	job.CompletedAt = &completedAt

	if err != nil {
		job.Status = model.JobStatusFailed
		code := string(escpos.CodeOf(err))
		if code == "" {
			code = "INTERNAL_ERROR"
		}
		msg := err.Error()
		job.ErrorCode = &code
		job.ErrorMessage = &msg
	} else {
		job.Status = model.JobStatusSuccess
	}
	s.update(job)
}

// update persists job state; the job outcome does not depend on it
func (s *JobService) update(job *model.PrintJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		s.logger.Error("Failed to update job", zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

// GetJob retrieves job details
func (s *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.PrintJob, error) {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("job not found: %w", err)
	}
	return job, nil
}

// ListJobs lists jobs newest first and returns the total match count
func (s *JobService) ListJobs(ctx context.Context, filter model.JobFilter) ([]*model.PrintJob, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = s.config.ListLimit
	}
	if filter.Limit <= 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	jobs, total, err := s.jobRepo.List(ctx, &filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, total, nil
}

// Encode renders doc for modelName without touching any printer. An empty
// modelName falls back to the document's model.
func (s *JobService) Encode(doc *document.Document, modelName, charsetName string, paperWidth int) ([]byte, error) {
	if modelName == "" {
		modelName = doc.Model
	}
	m, err := escpos.ParseModel(modelName)
	if err != nil {
		return nil, err
	}
	if err := checkDocumentModel(doc, m); err != nil {
		return nil, err
	}

	var opts []escpos.Option
	if charsetName != "" {
		cs, err := escpos.ParseCharset(charsetName)
		if err != nil {
			return nil, err
		}
		opts = append(opts, escpos.WithCharset(cs))
	}
	return document.NewRenderer(paperWidth).Encode(doc, m, opts...)
}

// checkDocumentModel rejects a document written for a different model
func checkDocumentModel(doc *document.Document, m escpos.Model) error {
	if doc.Model == "" {
		return nil
	}
	want, err := escpos.ParseModel(doc.Model)
	if err != nil {
		return err
	}
	if want != m {
		return escpos.NewError(escpos.CodeInvalidParameter,
			"document targets model %s, printer is %s", want, m)
	}
	return nil
}

func documentObject(doc *document.Document) (model.JSONObject, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	var obj model.JSONObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return obj, nil
}
