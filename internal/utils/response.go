// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"escpos-service/pkg/escpos"
)

// APIResponse represents standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id,omitempty"`
}

// APIError represents error information
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// SuccessResponse sends a successful response
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *gin.Context, statusCode int, message string, err error) {
	apiError := &APIError{
		Code:    getErrorCode(statusCode),
		Message: message,
	}
	if err != nil {
		apiError.Details = err.Error()
	}

	c.JSON(statusCode, APIResponse{
		Success:   false,
		Message:   message,
		Error:     apiError,
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

// EncodingErrorResponse sends an error response for an escpos error, using
// its code and details; other errors become 500.
func EncodingErrorResponse(c *gin.Context, message string, err error) {
	EncodingErrorResponseWithData(c, message, err, nil)
}

// EncodingErrorResponseWithData is EncodingErrorResponse carrying data, such
// as the failed job record
func EncodingErrorResponseWithData(c *gin.Context, message string, err error, data interface{}) {
	var e *escpos.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success:   false,
			Message:   message,
			Data:      data,
			Error:     &APIError{Code: getErrorCode(http.StatusInternalServerError), Message: message, Details: err.Error()},
			Timestamp: time.Now(),
			RequestID: getRequestID(c),
		})
		return
	}

	statusCode := StatusForCode(e.Code)
	c.JSON(statusCode, APIResponse{
		Success: false,
		Message: message,
		Data:    data,
		Error: &APIError{
			Code:    string(e.Code),
			Message: message,
			Details: err.Error(),
			Fields:  e.Details,
		},
		Timestamp: time.Now(),
		RequestID: getRequestID(c),
	})
}

// StatusForCode maps an escpos error code to an HTTP status
func StatusForCode(code escpos.ErrorCode) int {
	switch code {
	case escpos.CodeInvalidParameter, escpos.CodeOutOfRange, escpos.CodeInvalidBarcodeContent:
		return http.StatusBadRequest
	case escpos.CodeUnsupportedFeature:
		return http.StatusUnprocessableEntity
	case escpos.CodeIO:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if requestID, ok := c.Get("request_id"); ok {
		if s, ok := requestID.(string); ok {
			return s
		}
	}
	return ""
}

// getErrorCode returns error code based on HTTP status
func getErrorCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusUnprocessableEntity:
		return "UNPROCESSABLE_ENTITY"
	case http.StatusInternalServerError:
		return "INTERNAL_SERVER_ERROR"
	case http.StatusBadGateway:
		return "BAD_GATEWAY"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return "UNKNOWN_ERROR"
	}
}
