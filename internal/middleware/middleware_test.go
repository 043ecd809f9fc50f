package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"escpos-service/internal/config"
	"escpos-service/internal/utils"
)

func newRouter(logger *zap.Logger, security config.SecurityConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(utils.NewServiceLogger(logger, "http-server")))
	r.Use(RecoveryMiddleware(logger))
	r.Use(CORSMiddleware(&security))

	r.GET("/ok", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "ok", nil)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := newRouter(zap.NewNop(), config.SecurityConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, generated, body.RequestID)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRecoveryAndLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(zap.New(core), config.SecurityConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
	requests := logs.FilterMessage("API request").All()
	require.Len(t, requests, 1)
	assert.Equal(t, int64(http.StatusInternalServerError), requests[0].ContextMap()["status_code"])
}

func TestCORS(t *testing.T) {
	r := newRouter(zap.NewNop(), config.SecurityConfig{AllowedOrigins: []string{"https://pos.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://pos.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://pos.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	open := newRouter(zap.NewNop(), config.SecurityConfig{AllowedOrigins: []string{"*"}})
	req = httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	w = httptest.NewRecorder()
	open.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestLoggingUsesRouteTemplate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := newRouter(zap.New(core), config.SecurityConfig{})
	r.GET("/jobs/:job_id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/jobs/a", "/jobs/b", "/live", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	requests := logs.FilterMessage("API request").All()
	require.Len(t, requests, 3)
	assert.Equal(t, "/jobs/:job_id", requests[0].ContextMap()["path"])
	assert.Equal(t, "/jobs/:job_id", requests[1].ContextMap()["path"])
	assert.Equal(t, "/missing", requests[2].ContextMap()["path"])
	assert.Equal(t, int64(http.StatusNotFound), requests[2].ContextMap()["status_code"])
}
