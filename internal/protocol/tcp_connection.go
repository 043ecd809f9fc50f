// internal/protocol/tcp_connection.go
package protocol

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TCPConnection writes to a network printer, usually on raw port 9100
type TCPConnection struct {
	statsTracker
	config *TCPConfig
	conn   net.Conn
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewTCPConnection creates a new TCP connection
func NewTCPConnection(config *TCPConfig, logger *zap.Logger) *TCPConnection {
	return &TCPConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "tcp"),
			zap.String("host", config.Host),
			zap.Int("port", config.Port),
		),
	}
}

func (tc *TCPConnection) address() string {
	return net.JoinHostPort(tc.config.Host, strconv.Itoa(tc.config.Port))
}

// Open dials the printer
func (tc *TCPConnection) Open(ctx context.Context) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.conn != nil {
		return nil
	}

	dialer := &net.Dialer{Timeout: tc.config.Timeout}
	if tc.config.KeepAlive {
		dialer.KeepAlive = 30 * time.Second
	}

	var conn net.Conn
	var err error
	if tc.config.SSL {
		tlsDialer := &tls.Dialer{
			NetDialer: dialer,
			Config:    &tls.Config{ServerName: tc.config.Host},
		}
		conn, err = tlsDialer.DialContext(ctx, "tcp", tc.address())
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", tc.address())
	}
	if err != nil {
		tc.logger.Error("Failed to open TCP connection", zap.Error(err))
		return fmt.Errorf("failed to connect to %s: %w", tc.address(), err)
	}

	tc.conn = conn
	tc.setConnected(true)
	tc.logger.Info("TCP connection opened")
	return nil
}

// Close closes the TCP connection
func (tc *TCPConnection) Close() error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.conn == nil {
		return nil
	}

	err := tc.conn.Close()
	tc.conn = nil
	tc.setConnected(false)
	if err != nil {
		return fmt.Errorf("failed to close TCP connection: %w", err)
	}

	tc.logger.Info("TCP connection closed")
	return nil
}

// IsOpen returns whether the connection is open
func (tc *TCPConnection) IsOpen() bool {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()
	return tc.conn != nil
}

// Write sends data, bounded by the write timeout and the context deadline
func (tc *TCPConnection) Write(ctx context.Context, data []byte) error {
	tc.mutex.Lock()
	defer tc.mutex.Unlock()

	if tc.conn == nil {
		return fmt.Errorf("TCP connection not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline := time.Time{}
	if tc.config.WriteTimeout > 0 {
		deadline = time.Now().Add(tc.config.WriteTimeout)
	}
	if d, ok := ctx.Deadline(); ok && (deadline.IsZero() || d.Before(deadline)) {
		deadline = d
	}
	if err := tc.conn.SetWriteDeadline(deadline); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	startTime := time.Now()
	n, err := tc.conn.Write(data)
	if err != nil {
		tc.recordError()
		tc.logger.Error("TCP write failed", zap.Int("written", n), zap.Error(err))
		// a half-written stream cannot be resumed; reconnect on next open
		tc.conn.Close()
		tc.conn = nil
		tc.setConnected(false)
		return fmt.Errorf("failed to write to TCP connection: %w", err)
	}

	tc.recordWrite(n, time.Since(startTime))
	tc.logger.Debug("TCP write completed", zap.Int("bytes", n))
	return nil
}

// Flush is a liveness check; TCP has no user-space buffer to drain
func (tc *TCPConnection) Flush(ctx context.Context) error {
	if !tc.IsOpen() {
		return fmt.Errorf("TCP connection not open")
	}
	return ctx.Err()
}

// GetProtocolType returns the protocol type
func (tc *TCPConnection) GetProtocolType() ConnectionType {
	return ConnectionTypeTCP
}
