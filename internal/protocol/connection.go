// internal/protocol/connection.go
package protocol

import "time"

// SerialConfig represents serial connection configuration
type SerialConfig struct {
	Port     string        `json:"port_name"`
	BaudRate int           `json:"baud_rate"`
	DataBits int           `json:"data_bits"`
	StopBits int           `json:"stop_bits"`
	Parity   string        `json:"parity"`
	Timeout  time.Duration `json:"timeout"`
}

// USBConfig represents USB connection configuration
type USBConfig struct {
	VendorID  string        `json:"vendor_id"`
	ProductID string        `json:"product_id"`
	Endpoint  int           `json:"endpoint"`
	Timeout   time.Duration `json:"timeout"`
}

// TCPConfig represents TCP connection configuration
type TCPConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	SSL          bool          `json:"ssl"`
	KeepAlive    bool          `json:"keep_alive"`
	Timeout      time.Duration `json:"timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// FileConfig represents a printer exposed as a device file such as /dev/usb/lp0
type FileConfig struct {
	Path   string `json:"path"`
	Append bool   `json:"append"`
}
