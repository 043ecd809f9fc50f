// internal/document/document.go
package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"escpos-service/pkg/escpos"
)

// Command types accepted in a document
const (
	TypeInit         = "init"
	TypeAlign        = "align"
	TypeUnderline    = "underline"
	TypeBold         = "bold"
	TypeFont         = "font"
	TypeCharset      = "charset"
	TypeSize         = "size"
	TypeText         = "text"
	TypeLine         = "line"
	TypeFeed         = "feed"
	TypeLineSpacing  = "line_spacing"
	TypeControl      = "control"
	TypeRule         = "rule"
	TypeBarcode      = "barcode"
	TypeCut          = "cut"
	TypeDrawer       = "drawer"
	TypeReceiptItems = "receipt_items"
)

// DefaultPaperWidth is the character width of an 80mm roll in font A
const DefaultPaperWidth = 48

// Document is a print job body
type Document struct {
	Model    string    `json:"model,omitempty" example:"SNBC"`
	Commands []Command `json:"commands"`
}

// Command is one entry of a document. Which fields apply depends on Type.
type Command struct {
	Type string `json:"type" example:"text"`

	// align, underline, font, charset, control
	Value string `json:"value,omitempty"`
	// text, line, barcode
	Text string `json:"text,omitempty"`
	// bold
	On bool `json:"on,omitempty"`
	// size (multipliers), rule and receipt_items (characters), barcode (module width)
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// feed
	Lines int `json:"lines,omitempty"`
	// line_spacing; omitted restores the default spacing
	Dots *int `json:"dots,omitempty"`
	// cut: "partial" (default) or "full"
	Mode string `json:"mode,omitempty"`
	// drawer: 2 (default) or 5
	Pin int `json:"pin,omitempty"`

	// barcode
	Symbology string `json:"symbology,omitempty"`
	HRI       string `json:"hri,omitempty"`
	HRIFont   string `json:"hri_font,omitempty"`
	CodeSet   string `json:"code_set,omitempty"`

	// receipt_items
	Items      []ReceiptItem `json:"items,omitempty"`
	Currency   string        `json:"currency,omitempty"`
	TotalLabel string        `json:"total_label,omitempty"`
}

// ReceiptItem is one priced row of a receipt
type ReceiptItem struct {
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity" swaggertype:"string" example:"2"`
	UnitPrice decimal.Decimal `json:"unit_price" swaggertype:"string" example:"3.50"`
}

// Decode parses a JSON document, rejecting unknown fields
func Decode(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, escpos.NewError(escpos.CodeInvalidParameter, "invalid document: %v", err)
	}
	if len(doc.Commands) == 0 {
		return nil, escpos.NewError(escpos.CodeInvalidParameter, "document has no commands")
	}
	return &doc, nil
}

// RenderError reports which document command failed
type RenderError struct {
	Index int
	Type  string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("command %d (%s): %v", e.Index, e.Type, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}
