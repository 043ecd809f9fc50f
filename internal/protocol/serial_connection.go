// internal/protocol/serial_connection.go
package protocol

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialConnection writes to a printer on an RS-232 or USB-serial port
type SerialConnection struct {
	statsTracker
	config *SerialConfig
	port   serial.Port
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewSerialConnection creates a new serial connection
func NewSerialConnection(config *SerialConfig, logger *zap.Logger) *SerialConnection {
	return &SerialConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", config.Port),
		),
	}
}

// serialMode converts the configuration to a serial.Mode
func serialMode(config *SerialConfig) (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: config.BaudRate,
		DataBits: config.DataBits,
	}

	switch config.StopBits {
	case 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stop bits: %d", config.StopBits)
	}

	switch config.Parity {
	case "none", "":
		mode.Parity = serial.NoParity
	case "odd":
		mode.Parity = serial.OddParity
	case "even":
		mode.Parity = serial.EvenParity
	case "mark":
		mode.Parity = serial.MarkParity
	case "space":
		mode.Parity = serial.SpaceParity
	default:
		return nil, fmt.Errorf("invalid parity: %s", config.Parity)
	}

	return mode, nil
}

// Open opens the serial port
func (sc *SerialConnection) Open(ctx context.Context) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port != nil {
		return nil
	}

	mode, err := serialMode(sc.config)
	if err != nil {
		return err
	}

	port, err := serial.Open(sc.config.Port, mode)
	if err != nil {
		sc.logger.Error("Failed to open serial port", zap.Error(err))
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	sc.port = port
	sc.setConnected(true)
	sc.logger.Info("Serial port opened", zap.Int("baud_rate", sc.config.BaudRate))
	return nil
}

// Close closes the serial port
func (sc *SerialConnection) Close() error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port == nil {
		return nil
	}

	err := sc.port.Close()
	sc.port = nil
	sc.setConnected(false)
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}

	sc.logger.Info("Serial port closed")
	return nil
}

// IsOpen returns whether the connection is open
func (sc *SerialConnection) IsOpen() bool {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	return sc.port != nil
}

// Write writes data to the serial port
func (sc *SerialConnection) Write(ctx context.Context, data []byte) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port == nil {
		return fmt.Errorf("serial port not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	startTime := time.Now()
	written := 0
	for written < len(data) {
		n, err := sc.port.Write(data[written:])
		if err != nil {
			sc.recordError()
			sc.logger.Error("Serial write failed", zap.Int("written", written), zap.Error(err))
			return fmt.Errorf("failed to write to serial port: %w", err)
		}
		written += n
	}

	sc.recordWrite(written, time.Since(startTime))
	sc.logger.Debug("Serial write completed", zap.Int("bytes", written))
	return nil
}

// Flush waits until the port has transmitted everything written
func (sc *SerialConnection) Flush(ctx context.Context) error {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if sc.port == nil {
		return fmt.Errorf("serial port not open")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := sc.port.Drain(); err != nil {
		sc.recordError()
		return fmt.Errorf("failed to drain serial port: %w", err)
	}
	return nil
}

// GetProtocolType returns the protocol type
func (sc *SerialConnection) GetProtocolType() ConnectionType {
	return ConnectionTypeSerial
}
