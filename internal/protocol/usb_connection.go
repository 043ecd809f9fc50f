// internal/protocol/usb_connection.go
package protocol

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"
)

// USBConnection writes to the bulk OUT endpoint of a USB printer
type USBConnection struct {
	statsTracker
	config   *USBConfig
	usbCtx   *gousb.Context
	device   *gousb.Device
	intf     *gousb.Interface
	done     func()
	outEndpt *gousb.OutEndpoint
	logger   *zap.Logger
	mutex    sync.Mutex
}

// NewUSBConnection creates a new USB connection
func NewUSBConnection(config *USBConfig, logger *zap.Logger) *USBConnection {
	return &USBConnection{
		config: config,
		logger: logger.With(
			zap.String("protocol", "usb"),
			zap.String("vendor_id", config.VendorID),
			zap.String("product_id", config.ProductID),
		),
	}
}

// ParseUSBID parses a hex ID written as "0x04b8" or "04b8"
func ParseUSBID(hexStr string) (gousb.ID, error) {
	hexStr = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(hexStr)), "0x")
	id, err := strconv.ParseUint(hexStr, 16, 16)
	if err != nil {
		return 0, err
	}
	return gousb.ID(id), nil
}

// Open finds the device and claims its default interface
func (uc *USBConnection) Open(ctx context.Context) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.outEndpt != nil {
		return nil
	}

	vendorID, err := ParseUSBID(uc.config.VendorID)
	if err != nil {
		return fmt.Errorf("invalid vendor ID: %w", err)
	}
	productID, err := ParseUSBID(uc.config.ProductID)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}

	usbCtx := gousb.NewContext()
	device, err := usbCtx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		usbCtx.Close()
		return fmt.Errorf("failed to open USB device: %w", err)
	}
	if device == nil {
		usbCtx.Close()
		return fmt.Errorf("USB device not found (VID: %04X, PID: %04X)", uint16(vendorID), uint16(productID))
	}

	if err := device.SetAutoDetach(true); err != nil {
		uc.logger.Warn("Failed to enable kernel driver auto-detach", zap.Error(err))
	}

	intf, done, err := device.DefaultInterface()
	if err != nil {
		device.Close()
		usbCtx.Close()
		return fmt.Errorf("failed to claim interface: %w", err)
	}

	outEndpt, err := intf.OutEndpoint(uc.config.Endpoint)
	if err != nil {
		done()
		device.Close()
		usbCtx.Close()
		return fmt.Errorf("failed to get out endpoint: %w", err)
	}

	uc.usbCtx = usbCtx
	uc.device = device
	uc.intf = intf
	uc.done = done
	uc.outEndpt = outEndpt
	uc.setConnected(true)

	uc.logger.Info("USB connection opened", zap.Int("endpoint", uc.config.Endpoint))
	return nil
}

// Close releases the interface, the device and the libusb context
func (uc *USBConnection) Close() error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.outEndpt == nil {
		return nil
	}

	uc.done()
	var firstErr error
	if err := uc.device.Close(); err != nil {
		firstErr = fmt.Errorf("failed to close USB device: %w", err)
	}
	if err := uc.usbCtx.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close USB context: %w", err)
	}

	uc.outEndpt = nil
	uc.intf = nil
	uc.device = nil
	uc.usbCtx = nil
	uc.setConnected(false)

	uc.logger.Info("USB connection closed")
	return firstErr
}

// IsOpen returns whether the connection is open
func (uc *USBConnection) IsOpen() bool {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()
	return uc.outEndpt != nil
}

// Write performs a bulk transfer of data
func (uc *USBConnection) Write(ctx context.Context, data []byte) error {
	uc.mutex.Lock()
	defer uc.mutex.Unlock()

	if uc.outEndpt == nil {
		return fmt.Errorf("USB connection not open")
	}

	if uc.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.config.Timeout)
		defer cancel()
	}

	startTime := time.Now()
	n, err := uc.outEndpt.WriteContext(ctx, data)
	if err != nil {
		uc.recordError()
		uc.logger.Error("USB write failed", zap.Int("written", n), zap.Error(err))
		return fmt.Errorf("failed to write to USB device: %w", err)
	}
	if n != len(data) {
		uc.recordError()
		return fmt.Errorf("incomplete write: wrote %d of %d bytes", n, len(data))
	}

	uc.recordWrite(n, time.Since(startTime))
	uc.logger.Debug("USB write completed", zap.Int("bytes", n))
	return nil
}

// Flush is a no-op; bulk transfers complete synchronously
func (uc *USBConnection) Flush(ctx context.Context) error {
	if !uc.IsOpen() {
		return fmt.Errorf("USB connection not open")
	}
	return ctx.Err()
}

// GetProtocolType returns the protocol type
func (uc *USBConnection) GetProtocolType() ConnectionType {
	return ConnectionTypeUSB
}
