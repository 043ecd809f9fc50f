// internal/handler/job_handler.go
package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-service/internal/document"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// maxDocumentSize bounds a request body
const maxDocumentSize = 1 << 20

// JobHandler handles print job requests
type JobHandler struct {
	jobService *service.JobService
	logger     *utils.ServiceLogger
}

// NewJobHandler creates a new job handler
func NewJobHandler(jobService *service.JobService, logger *zap.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     utils.NewServiceLogger(logger, "job-handler"),
	}
}

// RegisterRoutes registers job routes
func (h *JobHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/printers/:printer_id/jobs", h.SubmitJob)

	jobs := router.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:job_id", h.GetJob)
	}
}

// SubmitJob prints a document
// @Summary Submit print job
// @Description Render a document for the printer's model and send it, retrying failed flushes
// @Tags Jobs
// @Accept json
// @Produce json
// @Param printer_id path string true "Printer ID"
// @Param request body document.Document true "Document"
// @Success 201 {object} utils.APIResponse{data=model.PrintJob} "Job printed"
// @Failure 400 {object} utils.APIResponse "Invalid document"
// @Failure 404 {object} utils.APIResponse "Printer not found"
// @Failure 422 {object} utils.APIResponse{data=model.PrintJob} "Feature not supported by the printer model"
// @Failure 502 {object} utils.APIResponse{data=model.PrintJob} "Printer unreachable"
// @Router /printers/{printer_id}/jobs [post]
func (h *JobHandler) SubmitJob(c *gin.Context) {
	doc, ok := h.readDocument(c)
	if !ok {
		return
	}

	job, err := h.jobService.Submit(c.Request.Context(), c.Param("printer_id"), doc)
	if err != nil {
		if errors.Is(err, service.ErrPrinterNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Printer not found", err)
			return
		}
		if job == nil {
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to submit job", err)
			return
		}
		utils.EncodingErrorResponseWithData(c, "Print job failed", err, job)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Job printed successfully", job)
}

// readDocument decodes the request body; on failure it has already responded
func (h *JobHandler) readDocument(c *gin.Context) (*document.Document, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxDocumentSize+1))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Failed to read request body", err)
		return nil, false
	}
	if len(body) > maxDocumentSize {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Document too large", nil)
		return nil, false
	}

	doc, err := document.Decode(body)
	if err != nil {
		utils.EncodingErrorResponse(c, "Invalid document", err)
		return nil, false
	}
	return doc, true
}

// ListJobs lists print jobs
// @Summary List jobs
// @Description Print jobs, newest first
// @Tags Jobs
// @Produce json
// @Param printer_id query string false "Filter by printer"
// @Param status query string false "Filter by status" Enums(PENDING, PRINTING, SUCCESS, FAILED)
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} utils.APIResponse{data=object{jobs=[]model.PrintJob,total=int}} "Jobs retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Router /jobs [get]
func (h *JobHandler) ListJobs(c *gin.Context) {
	filter := model.JobFilter{
		PrinterID: c.Query("printer_id"),
		Status:    model.JobStatus(strings.ToUpper(c.Query("status"))),
	}
	if limit := c.Query("limit"); limit != "" {
		l, err := strconv.Atoi(limit)
		if err != nil || l < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		filter.Limit = l
	}
	if offset := c.Query("offset"); offset != "" {
		o, err := strconv.Atoi(offset)
		if err != nil || o < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid offset", err)
			return
		}
		filter.Offset = o
	}

	jobs, total, err := h.jobService.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list jobs", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Jobs retrieved successfully", gin.H{
		"jobs":  jobs,
		"total": total,
	})
}

// GetJob returns one job
// @Summary Get job
// @Tags Jobs
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} utils.APIResponse{data=model.PrintJob} "Job retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid job ID"
// @Failure 404 {object} utils.APIResponse "Job not found"
// @Router /jobs/{job_id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid job ID", err)
		return
	}

	job, err := h.jobService.GetJob(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "Job not found", err)
			return
		}
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get job", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job retrieved successfully", job)
}
