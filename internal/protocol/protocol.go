// internal/protocol/protocol.go
package protocol

import (
	"context"
	"strings"
	"sync"
	"time"

	"escpos-service/pkg/escpos"
)

// ConnectionType represents how a printer is attached
type ConnectionType string

const (
	ConnectionTypeSerial ConnectionType = "SERIAL"
	ConnectionTypeUSB    ConnectionType = "USB"
	ConnectionTypeTCP    ConnectionType = "TCP"
	ConnectionTypeFile   ConnectionType = "FILE"
	ConnectionTypeMemory ConnectionType = "MEMORY"
)

// ParseConnectionType normalizes a configured connection type
func ParseConnectionType(s string) ConnectionType {
	return ConnectionType(strings.ToUpper(strings.TrimSpace(s)))
}

// DeviceProtocol is a write-only printer connection. It is the escpos.Sink
// the printer writes to, plus its lifecycle.
type DeviceProtocol interface {
	escpos.Sink

	// Connection lifecycle
	Open(ctx context.Context) error
	Close() error
	IsOpen() bool

	GetProtocolType() ConnectionType
	Stats() ProtocolStats
}

// ProtocolStats provides protocol-level statistics
type ProtocolStats struct {
	BytesWritten   int64         `json:"bytes_written"`
	OperationCount int64         `json:"operation_count"`
	ErrorCount     int64         `json:"error_count"`
	LastActivity   time.Time     `json:"last_activity"`
	AverageLatency time.Duration `json:"average_latency"`
	IsConnected    bool          `json:"is_connected"`
}

// statsTracker is embedded by every connection
type statsTracker struct {
	statsMu sync.Mutex
	stats   ProtocolStats
}

func (t *statsTracker) Stats() ProtocolStats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

func (t *statsTracker) setConnected(connected bool) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats.IsConnected = connected
	if connected {
		t.stats.LastActivity = time.Now()
	}
}

func (t *statsTracker) recordWrite(n int, latency time.Duration) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats.BytesWritten += int64(n)
	t.stats.OperationCount++
	t.stats.LastActivity = time.Now()
	if t.stats.AverageLatency == 0 {
		t.stats.AverageLatency = latency
	} else {
		t.stats.AverageLatency = (t.stats.AverageLatency + latency) / 2
	}
}

func (t *statsTracker) recordError() {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats.ErrorCount++
}
