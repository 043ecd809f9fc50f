// internal/protocol/file_connection.go
package protocol

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// FileConnection writes to a device node such as /dev/usb/lp0, or to a
// regular file when capturing output
type FileConnection struct {
	statsTracker
	config *FileConfig
	file   *os.File
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewFileConnection creates a new device file connection
func NewFileConnection(config *FileConfig, logger *zap.Logger) *FileConnection {
	return &FileConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "file"),
			zap.String("path", config.Path),
		),
	}
}

// Open opens the file for writing
func (fc *FileConnection) Open(ctx context.Context) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if fc.file != nil {
		return nil
	}

	flags := os.O_WRONLY | os.O_CREATE
	if fc.config.Append {
		flags |= os.O_APPEND
	}
	file, err := os.OpenFile(fc.config.Path, flags, 0o644)
	if err != nil {
		fc.logger.Error("Failed to open device file", zap.Error(err))
		return fmt.Errorf("failed to open %s: %w", fc.config.Path, err)
	}

	fc.file = file
	fc.setConnected(true)
	fc.logger.Info("Device file opened")
	return nil
}

// Close closes the file
func (fc *FileConnection) Close() error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if fc.file == nil {
		return nil
	}

	err := fc.file.Close()
	fc.file = nil
	fc.setConnected(false)
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", fc.config.Path, err)
	}
	return nil
}

// IsOpen returns whether the file is open
func (fc *FileConnection) IsOpen() bool {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()
	return fc.file != nil
}

// Write writes data to the file
func (fc *FileConnection) Write(ctx context.Context, data []byte) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if fc.file == nil {
		return fmt.Errorf("device file not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	startTime := time.Now()
	n, err := fc.file.Write(data)
	if err != nil {
		fc.recordError()
		return fmt.Errorf("failed to write to %s: %w", fc.config.Path, err)
	}

	fc.recordWrite(n, time.Since(startTime))
	return nil
}

// Flush syncs the file. Character devices that do not support fsync are
// treated as flushed.
func (fc *FileConnection) Flush(ctx context.Context) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	if fc.file == nil {
		return fmt.Errorf("device file not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fc.file.Sync(); err != nil {
		if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTSUP) {
			return nil
		}
		fc.recordError()
		return fmt.Errorf("failed to sync %s: %w", fc.config.Path, err)
	}
	return nil
}

// GetProtocolType returns the protocol type
func (fc *FileConnection) GetProtocolType() ConnectionType {
	return ConnectionTypeFile
}
