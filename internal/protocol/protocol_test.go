package protocol

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/pkg/escpos"
)

var defaultPorts = config.PortConfig{
	Serial: config.SerialPortConfig{BaudRate: 9600, DataBits: 8, StopBits: 1, Parity: "none", Timeout: time.Second},
	TCP:    config.TCPPortConfig{Port: 9100, ConnectTimeout: time.Second, WriteTimeout: time.Second},
	USB:    config.USBPortConfig{Timeout: time.Second},
}

func TestMemoryConnectionAsSink(t *testing.T) {
	ctx := context.Background()
	conn := NewMemoryConnection()
	require.NoError(t, conn.Open(ctx))

	p := escpos.NewPrinter(conn, escpos.ModelEpson)
	_, err := p.Init()
	require.NoError(t, err)
	_, err = p.TextLine("hello")
	require.NoError(t, err)

	require.NoError(t, p.Flush(ctx))
	assert.Equal(t, append([]byte{0x1B, 0x40}, "hello\n"...), conn.Bytes())
	assert.Equal(t, 1, conn.Flushes())

	stats := conn.Stats()
	assert.Equal(t, int64(8), stats.BytesWritten)
	assert.Equal(t, int64(1), stats.OperationCount)
	assert.True(t, stats.IsConnected)
}

func TestMemoryConnectionInjectedFailures(t *testing.T) {
	ctx := context.Background()
	conn := NewMemoryConnection()
	require.NoError(t, conn.Open(ctx))

	boom := errors.New("paper jam")
	conn.FailWrites(boom)
	conn.FailFlushes(boom)

	p := escpos.NewPrinter(conn, escpos.ModelEpson)
	_, err := p.Text("retry me")
	require.NoError(t, err)

	err = p.Flush(ctx)
	assert.True(t, errors.Is(err, escpos.ErrIO))
	assert.True(t, errors.Is(err, boom))
	assert.Empty(t, conn.Bytes())

	// write succeeds, flush fails: bytes reached the device but the printer keeps its buffer
	err = p.Flush(ctx)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 8, p.Len())

	conn.Reset()
	require.NoError(t, p.Flush(ctx))
	assert.Equal(t, []byte("retry me"), conn.Bytes())
	assert.Equal(t, int64(2), conn.Stats().ErrorCount)
}

func TestMemoryConnectionClosed(t *testing.T) {
	conn := NewMemoryConnection()
	assert.Error(t, conn.Write(context.Background(), []byte{0x00}))
	assert.Error(t, conn.Flush(context.Background()))
	assert.False(t, conn.IsOpen())
}

func TestFileConnection(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lp0")

	conn, err := CreateProtocol(ConnectionTypeFile, map[string]interface{}{"path": path}, defaultPorts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ConnectionTypeFile, conn.GetProtocolType())

	assert.Error(t, conn.Write(ctx, []byte("x")))

	require.NoError(t, conn.Open(ctx))
	require.NoError(t, conn.Write(ctx, []byte{0x1B, 0x40}))
	require.NoError(t, conn.Flush(ctx))
	require.NoError(t, conn.Close())
	assert.False(t, conn.IsOpen())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x40}, data)
}

func TestTCPConnection(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	received := make(chan []byte, 1)
	go func() {
		c, err := listener.Accept()
		if err != nil {
			return
		}
		defer c.Close()
		data, _ := io.ReadAll(c)
		received <- data
	}()

	addr := listener.Addr().(*net.TCPAddr)
	conn, err := CreateProtocol(ConnectionTypeTCP, map[string]interface{}{
		"host": "127.0.0.1",
		"port": addr.Port,
	}, defaultPorts, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, conn.Open(ctx))
	assert.True(t, conn.IsOpen())

	p := escpos.NewPrinter(conn, escpos.ModelEpson)
	_, err = p.Init()
	require.NoError(t, err)
	_, err = p.PartialCut()
	require.NoError(t, err)
	require.NoError(t, p.Flush(ctx))
	require.NoError(t, conn.Close())

	select {
	case data := <-received:
		assert.Equal(t, []byte{0x1B, 0x40, 0x1D, 0x56, 0x01}, data)
	case <-time.After(5 * time.Second):
		t.Fatal("printer did not receive data")
	}
	assert.Equal(t, int64(5), conn.Stats().BytesWritten)
}

func TestTCPConnectionNotOpen(t *testing.T) {
	conn := NewTCPConnection(&TCPConfig{Host: "127.0.0.1", Port: 9100}, zap.NewNop())
	assert.Error(t, conn.Write(context.Background(), []byte{0x00}))
	assert.Error(t, conn.Flush(context.Background()))
}

func TestSerialMode(t *testing.T) {
	mode, err := serialMode(&SerialConfig{BaudRate: 19200, DataBits: 8, StopBits: 1, Parity: "even"})
	require.NoError(t, err)
	assert.Equal(t, serial.OneStopBit, mode.StopBits)
	assert.Equal(t, serial.EvenParity, mode.Parity)
	assert.Equal(t, 19200, mode.BaudRate)

	mode, err = serialMode(&SerialConfig{BaudRate: 9600, DataBits: 7, StopBits: 2})
	require.NoError(t, err)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.NoParity, mode.Parity)

	_, err = serialMode(&SerialConfig{StopBits: 3})
	assert.Error(t, err)

	_, err = serialMode(&SerialConfig{StopBits: 1, Parity: "weird"})
	assert.Error(t, err)
}

func TestCreateProtocolDefaults(t *testing.T) {
	conn, err := CreateProtocol(ConnectionTypeSerial, map[string]interface{}{
		"port_name": "/dev/ttyUSB0",
		"baud_rate": "19200",
	}, defaultPorts, zap.NewNop())
	require.NoError(t, err)

	sc, ok := conn.(*SerialConnection)
	require.True(t, ok)
	assert.Equal(t, 19200, sc.config.BaudRate)
	assert.Equal(t, 8, sc.config.DataBits)
	assert.Equal(t, "none", sc.config.Parity)

	conn, err = CreateProtocol(ConnectionTypeTCP, map[string]interface{}{"host": "printer.local"}, defaultPorts, zap.NewNop())
	require.NoError(t, err)
	tc := conn.(*TCPConnection)
	assert.Equal(t, 9100, tc.config.Port)
	assert.Equal(t, "printer.local:9100", tc.address())

	conn, err = CreateProtocol(ConnectionTypeUSB, map[string]interface{}{
		"vendor_id":  "0x04b8",
		"product_id": "0202",
	}, defaultPorts, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ConnectionTypeUSB, conn.GetProtocolType())
	assert.False(t, conn.IsOpen())
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name     string
		connType ConnectionType
		settings map[string]interface{}
		valid    bool
	}{
		{"serial ok", ConnectionTypeSerial, map[string]interface{}{"port_name": "COM3", "baud_rate": 115200}, true},
		{"serial missing port", ConnectionTypeSerial, map[string]interface{}{}, false},
		{"serial bad baud", ConnectionTypeSerial, map[string]interface{}{"port_name": "COM3", "baud_rate": 1234}, false},
		{"tcp ok", ConnectionTypeTCP, map[string]interface{}{"host": "10.0.0.2", "port": float64(9100)}, true},
		{"tcp missing host", ConnectionTypeTCP, map[string]interface{}{"port": 9100}, false},
		{"tcp bad port", ConnectionTypeTCP, map[string]interface{}{"host": "h", "port": 70000}, false},
		{"usb ok", ConnectionTypeUSB, map[string]interface{}{"vendor_id": "04b8", "product_id": "0x0e15"}, true},
		{"usb bad id", ConnectionTypeUSB, map[string]interface{}{"vendor_id": "zz", "product_id": "0e15"}, false},
		{"file missing path", ConnectionTypeFile, nil, false},
		{"memory", ConnectionTypeMemory, nil, true},
		{"bluetooth", ConnectionType("BLUETOOTH"), nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateConfig(tc.connType, tc.settings)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseConnectionType(t *testing.T) {
	assert.Equal(t, ConnectionTypeTCP, ParseConnectionType(" tcp "))
	assert.Equal(t, ConnectionTypeMemory, ParseConnectionType("memory"))
}
