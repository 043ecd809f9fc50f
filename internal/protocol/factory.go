// internal/protocol/factory.go
package protocol

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"escpos-service/internal/config"
)

// CreateProtocol creates a connection from a printer's connection settings.
// Missing settings fall back to defaults.
func CreateProtocol(connectionType ConnectionType, settings map[string]interface{}, defaults config.PortConfig, logger *zap.Logger) (DeviceProtocol, error) {
	if err := ValidateConfig(connectionType, settings); err != nil {
		return nil, err
	}

	switch connectionType {
	case ConnectionTypeSerial:
		return createSerialProtocol(settings, defaults.Serial, logger)
	case ConnectionTypeUSB:
		return createUSBProtocol(settings, defaults.USB, logger)
	case ConnectionTypeTCP:
		return createTCPProtocol(settings, defaults.TCP, logger)
	case ConnectionTypeFile:
		return createFileProtocol(settings, logger)
	case ConnectionTypeMemory:
		return NewMemoryConnection(), nil
	default:
		return nil, fmt.Errorf("unsupported protocol type: %s", connectionType)
	}
}

func createSerialProtocol(settings map[string]interface{}, defaults config.SerialPortConfig, logger *zap.Logger) (DeviceProtocol, error) {
	serialConfig := &SerialConfig{
		Port:     stringValue(settings, "port_name"),
		BaudRate: intValue(settings, "baud_rate", defaults.BaudRate),
		DataBits: intValue(settings, "data_bits", defaults.DataBits),
		StopBits: intValue(settings, "stop_bits", defaults.StopBits),
		Parity:   stringValue(settings, "parity"),
		Timeout:  durationValue(settings, "timeout", defaults.Timeout),
	}
	if serialConfig.Parity == "" {
		serialConfig.Parity = defaults.Parity
	}
	if _, err := serialMode(serialConfig); err != nil {
		return nil, err
	}

	logger.Info("Creating serial protocol",
		zap.String("port", serialConfig.Port),
		zap.Int("baud_rate", serialConfig.BaudRate),
	)
	return NewSerialConnection(serialConfig, logger), nil
}

func createUSBProtocol(settings map[string]interface{}, defaults config.USBPortConfig, logger *zap.Logger) (DeviceProtocol, error) {
	usbConfig := &USBConfig{
		VendorID:  stringValue(settings, "vendor_id"),
		ProductID: stringValue(settings, "product_id"),
		Endpoint:  intValue(settings, "endpoint", 1),
		Timeout:   durationValue(settings, "timeout", defaults.Timeout),
	}

	logger.Info("Creating USB protocol",
		zap.String("vendor_id", usbConfig.VendorID),
		zap.String("product_id", usbConfig.ProductID),
	)
	return NewUSBConnection(usbConfig, logger), nil
}

func createTCPProtocol(settings map[string]interface{}, defaults config.TCPPortConfig, logger *zap.Logger) (DeviceProtocol, error) {
	tcpConfig := &TCPConfig{
		Host:         stringValue(settings, "host"),
		Port:         intValue(settings, "port", defaults.Port),
		SSL:          boolValue(settings, "ssl", false),
		KeepAlive:    boolValue(settings, "keep_alive", defaults.KeepAlive),
		Timeout:      durationValue(settings, "timeout", defaults.ConnectTimeout),
		WriteTimeout: durationValue(settings, "write_timeout", defaults.WriteTimeout),
	}

	logger.Info("Creating TCP protocol",
		zap.String("host", tcpConfig.Host),
		zap.Int("port", tcpConfig.Port),
		zap.Bool("ssl", tcpConfig.SSL),
	)
	return NewTCPConnection(tcpConfig, logger), nil
}

func createFileProtocol(settings map[string]interface{}, logger *zap.Logger) (DeviceProtocol, error) {
	fileConfig := &FileConfig{
		Path:   stringValue(settings, "path"),
		Append: boolValue(settings, "append", false),
	}
	logger.Info("Creating file protocol", zap.String("path", fileConfig.Path))
	return NewFileConnection(fileConfig, logger), nil
}

// ValidateConfig validates connection settings for a specific protocol type
func ValidateConfig(connectionType ConnectionType, settings map[string]interface{}) error {
	switch connectionType {
	case ConnectionTypeSerial:
		return validateSerialConfig(settings)
	case ConnectionTypeUSB:
		return validateUSBConfig(settings)
	case ConnectionTypeTCP:
		return validateTCPConfig(settings)
	case ConnectionTypeFile:
		if stringValue(settings, "path") == "" {
			return fmt.Errorf("file path is required")
		}
		return nil
	case ConnectionTypeMemory:
		return nil
	default:
		return fmt.Errorf("unsupported connection type: %s", connectionType)
	}
}

func validateSerialConfig(settings map[string]interface{}) error {
	if stringValue(settings, "port_name") == "" {
		return fmt.Errorf("serial port_name is required")
	}

	if _, ok := settings["baud_rate"]; ok {
		rate := intValue(settings, "baud_rate", 0)
		validRates := []int{1200, 2400, 4800, 9600, 19200, 38400, 57600, 115200}
		for _, validRate := range validRates {
			if rate == validRate {
				return nil
			}
		}
		return fmt.Errorf("invalid baud rate: %v", settings["baud_rate"])
	}
	return nil
}

func validateUSBConfig(settings map[string]interface{}) error {
	if _, err := ParseUSBID(stringValue(settings, "vendor_id")); err != nil {
		return fmt.Errorf("USB vendor_id is required as a hex ID: %w", err)
	}
	if _, err := ParseUSBID(stringValue(settings, "product_id")); err != nil {
		return fmt.Errorf("USB product_id is required as a hex ID: %w", err)
	}
	return nil
}

func validateTCPConfig(settings map[string]interface{}) error {
	if stringValue(settings, "host") == "" {
		return fmt.Errorf("TCP host is required")
	}

	if _, ok := settings["port"]; ok {
		port := intValue(settings, "port", 0)
		if port < 1 || port > 65535 {
			return fmt.Errorf("invalid port number: %v", settings["port"])
		}
	}
	return nil
}

// Settings decoded from YAML arrive as int, from JSON as float64, and from
// environment variables as string.

func stringValue(settings map[string]interface{}, key string) string {
	switch v := settings[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

func intValue(settings map[string]interface{}, key string, fallback int) int {
	switch v := settings[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func boolValue(settings map[string]interface{}, key string, fallback bool) bool {
	switch v := settings[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func durationValue(settings map[string]interface{}, key string, fallback time.Duration) time.Duration {
	switch v := settings[key].(type) {
	case time.Duration:
		return v
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
