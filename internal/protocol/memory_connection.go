// internal/protocol/memory_connection.go
package protocol

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryConnection keeps everything written in memory. It backs dry runs and
// tests; FailWrites and FailFlushes inject errors.
type MemoryConnection struct {
	statsTracker
	mutex     sync.Mutex
	open      bool
	buf       bytes.Buffer
	flushes   int
	failWrite []error
	failFlush []error
}

// NewMemoryConnection creates an empty in-memory connection
func NewMemoryConnection() *MemoryConnection {
	return &MemoryConnection{}
}

// FailWrites queues errors returned by the next Write calls, one per call
func (mc *MemoryConnection) FailWrites(errs ...error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.failWrite = append(mc.failWrite, errs...)
}

// FailFlushes queues errors returned by the next Flush calls, one per call
func (mc *MemoryConnection) FailFlushes(errs ...error) {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.failFlush = append(mc.failFlush, errs...)
}

// Open marks the connection open
func (mc *MemoryConnection) Open(ctx context.Context) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.open = true
	mc.setConnected(true)
	return nil
}

// Close marks the connection closed; written data is kept
func (mc *MemoryConnection) Close() error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.open = false
	mc.setConnected(false)
	return nil
}

func (mc *MemoryConnection) IsOpen() bool {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return mc.open
}

func (mc *MemoryConnection) Write(ctx context.Context, data []byte) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if !mc.open {
		return fmt.Errorf("memory connection not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(mc.failWrite) > 0 {
		err := mc.failWrite[0]
		mc.failWrite = mc.failWrite[1:]
		mc.recordError()
		return err
	}

	startTime := time.Now()
	mc.buf.Write(data)
	mc.recordWrite(len(data), time.Since(startTime))
	return nil
}

func (mc *MemoryConnection) Flush(ctx context.Context) error {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()

	if !mc.open {
		return fmt.Errorf("memory connection not open")
	}
	if len(mc.failFlush) > 0 {
		err := mc.failFlush[0]
		mc.failFlush = mc.failFlush[1:]
		mc.recordError()
		return err
	}
	mc.flushes++
	return nil
}

// Bytes returns a copy of everything written so far
func (mc *MemoryConnection) Bytes() []byte {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return bytes.Clone(mc.buf.Bytes())
}

// Flushes returns the number of successful Flush calls
func (mc *MemoryConnection) Flushes() int {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	return mc.flushes
}

// Reset discards written data
func (mc *MemoryConnection) Reset() {
	mc.mutex.Lock()
	defer mc.mutex.Unlock()
	mc.buf.Reset()
	mc.flushes = 0
}

func (mc *MemoryConnection) GetProtocolType() ConnectionType {
	return ConnectionTypeMemory
}
