package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/document"
	"escpos-service/internal/model"
	"escpos-service/internal/repository"
	"escpos-service/internal/service"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type testServer struct {
	router   *gin.Engine
	jobs     *service.JobService
	registry *service.PrinterRegistry
	bus      *EventBus
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	bus := NewEventBus(logger)
	go bus.Start()
	t.Cleanup(bus.Stop)

	registry, err := service.NewPrinterRegistry([]config.PrinterConfig{
		{ID: "front", Model: "SNBC", ConnectionType: "MEMORY"},
		{ID: "label", Model: "P3", ConnectionType: "MEMORY"},
	}, config.PortConfig{}, bus, logger)
	require.NoError(t, err)

	jobs := service.NewJobService(repository.NewMemoryJobRepository(), registry, config.JobsConfig{
		RetryAttempts: 1,
		ListLimit:     50,
	}, bus, logger)

	cfg := &config.Config{App: config.AppConfig{Name: "escpos-service", Version: "test"}}

	router := gin.New()
	NewHealthHandler(nil, registry, cfg, logger).RegisterRoutes(&router.RouterGroup)
	api := router.Group("/api/v1")
	NewPrinterHandler(registry, logger).RegisterRoutes(api)
	NewJobHandler(jobs, logger).RegisterRoutes(api)
	NewEncodeHandler(jobs, logger).RegisterRoutes(api)
	ws := NewWebSocketHandler(bus, registry, []string{"*"}, logger)
	t.Cleanup(ws.Close)
	ws.RegisterRoutes(router.Group("/ws"))

	return &testServer{router: router, jobs: jobs, registry: registry, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

const receiptBody = `{"commands":[{"type":"init"},{"type":"text","text":"hi"},{"type":"cut"}]}`

func TestPrinterRoutes(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodGet, "/api/v1/printers", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var printers []model.PrinterInfo
	require.NoError(t, json.Unmarshal(resp.Data, &printers))
	require.Len(t, printers, 2)
	assert.Equal(t, "SNBC", printers[0].Model)

	w, resp = s.do(t, http.MethodGet, "/api/v1/printers/label", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var info model.PrinterInfo
	require.NoError(t, json.Unmarshal(resp.Data, &info))
	assert.Equal(t, "P3", info.Model)
	assert.False(t, info.Connected)

	w, _ = s.do(t, http.MethodGet, "/api/v1/printers/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitJobRoute(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/printers/front/jobs", receiptBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var job model.PrintJob
	require.NoError(t, json.Unmarshal(resp.Data, &job))
	assert.Equal(t, model.JobStatusSuccess, job.Status)
	assert.Equal(t, 7, job.BytesWritten)

	w, resp = s.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID.String(), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = s.do(t, http.MethodGet, "/api/v1/jobs?printer_id=front&status=success", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Jobs  []model.PrintJob `json:"jobs"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	assert.Equal(t, 1, list.Total)
}

func TestSubmitJobErrors(t *testing.T) {
	s := newTestServer(t)

	fullCut := `{"commands":[{"type":"init"},{"type":"cut","mode":"full"}]}`
	w, resp := s.do(t, http.MethodPost, "/api/v1/printers/label/jobs", fullCut)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNSUPPORTED_FEATURE", resp.Error.Code)
	var job model.PrintJob
	require.NoError(t, json.Unmarshal(resp.Data, &job))
	assert.Equal(t, model.JobStatusFailed, job.Status)

	w, resp = s.do(t, http.MethodPost, "/api/v1/printers/front/jobs", `{"commands":[{"type":"nope"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/printers/front/jobs", `{"commands":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)

	w, _ = s.do(t, http.MethodPost, "/api/v1/printers/nope/jobs", receiptBody)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/jobs/2b1f1a9e-1c34-4a43-9d4c-3a4e7f0b9c11", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/v1/jobs?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEncodeRoute(t *testing.T) {
	s := newTestServer(t)

	w, resp := s.do(t, http.MethodPost, "/api/v1/encode", `{"model":"SNBC","document":`+receiptBody+`}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var enc EncodeResponse
	require.NoError(t, json.Unmarshal(resp.Data, &enc))
	assert.Equal(t, "1b4068691d5601", enc.Hex)
	assert.Equal(t, 7, enc.Bytes)

	w, _ = s.do(t, http.MethodPost, "/api/v1/encode?format=raw", `{"model":"SNBC","document":`+receiptBody+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte{0x1B, 0x40, 'h', 'i', 0x1D, 0x56, 0x01}, w.Body.Bytes())

	badBarcode := `{"model":"EPSON","document":{"commands":[{"type":"barcode","symbology":"EAN13","text":"12AB"}]}}`
	w, resp = s.do(t, http.MethodPost, "/api/v1/encode", badBarcode)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_BARCODE_CONTENT", resp.Error.Code)

	w, resp = s.do(t, http.MethodPost, "/api/v1/encode", `{"model":"ZEBRA","document":`+receiptBody+`}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_PARAMETER", resp.Error.Code)
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "disabled", health.Checks["database"].Status)
	assert.Contains(t, health.Checks["printers"].Data, "front")

	w, _ = s.do(t, http.MethodGet, "/health/db", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = s.do(t, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodGet, "/live", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEventBus(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	go bus.Start()

	failed := bus.Subscribe(model.EventJobFailed)
	all := bus.Subscribe("")

	job := &model.PrintJob{PrinterID: "front", Status: model.JobStatusSuccess}
	bus.Publish(model.NewJobEvent(model.EventJobCompleted, job))
	job.Status = model.JobStatusFailed
	bus.Publish(model.NewJobEvent(model.EventJobFailed, job))

	receive := func(ch <-chan model.Event) model.Event {
		select {
		case e := <-ch:
			return e
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for event")
			return model.Event{}
		}
	}

	assert.Equal(t, model.EventJobCompleted, receive(all).EventType)
	assert.Equal(t, model.EventJobFailed, receive(all).EventType)
	assert.Equal(t, model.EventJobFailed, receive(failed).EventType)

	bus.Unsubscribe(failed)
	_, open := <-failed
	assert.False(t, open)

	bus.Stop()
	_, open = <-all
	assert.False(t, open)
	bus.Stop()
}

func TestWebSocketEvents(t *testing.T) {
	s := newTestServer(t)
	srv := httptest.NewServer(s.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/events?printer_id=front"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var hello WebSocketMessage
	require.NoError(t, conn.ReadJSON(&hello))
	assert.Equal(t, "printers", hello.Type)

	require.NoError(t, conn.WriteJSON(WebSocketMessage{
		Type: "subscribe",
		Data: map[string]interface{}{"event_type": string(model.EventJobCompleted)},
	}))
	var ack WebSocketMessage
	require.NoError(t, conn.ReadJSON(&ack))
	assert.Equal(t, "subscribed", ack.Type)

	doc, err := document.Decode([]byte(receiptBody))
	require.NoError(t, err)
	_, err = s.jobs.Submit(context.Background(), "label", doc)
	require.NoError(t, err)
	_, err = s.jobs.Submit(context.Background(), "front", doc)
	require.NoError(t, err)

	var msg struct {
		Type string      `json:"type"`
		Data model.Event `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "event", msg.Type)
	assert.Equal(t, model.EventJobCompleted, msg.Data.EventType)
	assert.Equal(t, "front", msg.Data.PrinterID)

	resp, err := http.Get(srv.URL + "/ws/events?printer_id=nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://pos.example.com"})
	req := httptest.NewRequest(http.MethodGet, "/ws/events", bytes.NewReader(nil))
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://pos.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))
}
