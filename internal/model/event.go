// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventJobStarted          EventType = "JOB_STARTED"
	EventJobCompleted        EventType = "JOB_COMPLETED"
	EventJobFailed           EventType = "JOB_FAILED"
	EventPrinterConnected    EventType = "PRINTER_CONNECTED"
	EventPrinterDisconnected EventType = "PRINTER_DISCONNECTED"
)

// Event is published on the event bus and streamed to websocket clients
type Event struct {
	ID        uuid.UUID  `json:"id"`
	EventType EventType  `json:"event_type"`
	PrinterID string     `json:"printer_id"`
	JobID     *uuid.UUID `json:"job_id,omitempty"`
	Data      JSONObject `json:"data,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
	Severity  string     `json:"severity"` // INFO, WARNING, ERROR
}

// NewJobEvent builds an event describing job
func NewJobEvent(eventType EventType, job *PrintJob) Event {
	severity := "INFO"
	if eventType == EventJobFailed {
		severity = "ERROR"
	}

	data := JSONObject{
		"status":        job.Status,
		"bytes_written": job.BytesWritten,
		"attempts":      job.Attempts,
	}
	if job.ErrorCode != nil {
		data["error_code"] = *job.ErrorCode
	}
	if job.ErrorMessage != nil {
		data["error_message"] = *job.ErrorMessage
	}
	if d := job.DurationMs(); d != nil {
		data["duration_ms"] = *d
	}

	id := job.ID
	return Event{
		ID:        uuid.New(),
		EventType: eventType,
		PrinterID: job.PrinterID,
		JobID:     &id,
		Data:      data,
		Timestamp: time.Now(),
		Severity:  severity,
	}
}

// NewPrinterEvent builds an event about a printer connection
func NewPrinterEvent(eventType EventType, printerID string, data JSONObject) Event {
	return Event{
		ID:        uuid.New(),
		EventType: eventType,
		PrinterID: printerID,
		Data:      data,
		Timestamp: time.Now(),
		Severity:  "INFO",
	}
}
