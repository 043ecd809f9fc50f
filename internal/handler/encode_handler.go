// internal/handler/encode_handler.go
package handler

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"escpos-service/internal/document"
	"escpos-service/internal/service"
	"escpos-service/internal/utils"
)

// EncodeRequest asks for the bytes of a document without printing it
type EncodeRequest struct {
	Model      string          `json:"model" example:"EPSON"`
	Charset    string          `json:"charset,omitempty" example:"PC858"`
	PaperWidth int             `json:"paper_width,omitempty" example:"48"`
	Document   json.RawMessage `json:"document" swaggertype:"object"`
}

// EncodeResponse carries the encoded bytes
type EncodeResponse struct {
	Model string `json:"model"`
	Bytes int    `json:"bytes"`
	Hex   string `json:"hex"`
}

// EncodeHandler serves dry-run encoding
type EncodeHandler struct {
	jobService *service.JobService
	logger     *utils.ServiceLogger
}

// NewEncodeHandler creates a new encode handler
func NewEncodeHandler(jobService *service.JobService, logger *zap.Logger) *EncodeHandler {
	return &EncodeHandler{
		jobService: jobService,
		logger:     utils.NewServiceLogger(logger, "encode-handler"),
	}
}

// RegisterRoutes registers encode routes
func (h *EncodeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/encode", h.Encode)
}

// Encode renders a document to bytes without touching any printer
// @Summary Encode document
// @Description Dry run: returns the command bytes a document produces for a model. With format=raw the bytes are returned as application/octet-stream.
// @Tags Encode
// @Accept json
// @Produce json,octet-stream
// @Param format query string false "Response format" Enums(hex, raw) default(hex)
// @Param request body EncodeRequest true "Encode request"
// @Success 200 {object} utils.APIResponse{data=EncodeResponse} "Document encoded"
// @Failure 400 {object} utils.APIResponse "Invalid document or parameter"
// @Failure 422 {object} utils.APIResponse "Feature not supported by the model"
// @Router /encode [post]
func (h *EncodeHandler) Encode(c *gin.Context) {
	var req EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	doc, err := document.Decode(req.Document)
	if err != nil {
		utils.EncodingErrorResponse(c, "Invalid document", err)
		return
	}

	out, err := h.jobService.Encode(doc, req.Model, req.Charset, req.PaperWidth)
	if err != nil {
		utils.EncodingErrorResponse(c, "Failed to encode document", err)
		return
	}

	if c.Query("format") == "raw" {
		c.Data(http.StatusOK, "application/octet-stream", out)
		return
	}

	model := req.Model
	if model == "" {
		model = doc.Model
	}
	utils.SuccessResponse(c, http.StatusOK, "Document encoded", EncodeResponse{
		Model: model,
		Bytes: len(out),
		Hex:   hex.EncodeToString(out),
	})
}
