// internal/model/printer.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"escpos-service/internal/protocol"
	"escpos-service/pkg/escpos"
)

// JSONObject type for PostgreSQL JSONB objects
type JSONObject map[string]interface{}

func (j *JSONObject) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported JSONObject source %T", value)
	}
	return json.Unmarshal(raw, j)
}

func (j JSONObject) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// PrinterInfo describes a configured printer and what its model can do
type PrinterInfo struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Model          string                  `json:"model"`
	Charset        string                  `json:"charset"`
	PaperWidth     int                     `json:"paper_width"`
	ConnectionType protocol.ConnectionType `json:"connection_type"`
	Connected      bool                    `json:"connected"`
	Features       []string                `json:"features"`
	Barcodes       []string                `json:"barcodes"`
	Stats          protocol.ProtocolStats  `json:"stats"`
}

// CapabilityNames lists the feature and barcode names supported by model
func CapabilityNames(model escpos.Model) (features, barcodes []string) {
	features = []string{}
	for _, f := range escpos.Features(model) {
		features = append(features, f.String())
	}
	barcodes = []string{}
	for _, s := range escpos.Symbologies(model) {
		barcodes = append(barcodes, s.String())
	}
	return features, barcodes
}
