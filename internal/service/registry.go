// internal/service/registry.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"escpos-service/internal/config"
	"escpos-service/internal/document"
	"escpos-service/internal/model"
	"escpos-service/internal/protocol"
	"escpos-service/internal/utils"
	"escpos-service/pkg/escpos"
)

// ErrPrinterNotFound is returned for an unknown printer id
var ErrPrinterNotFound = errors.New("printer not found")

// EventPublisher receives job and printer events
type EventPublisher interface {
	Publish(event model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}

// Printer is a configured printer and its connection. Jobs for one printer
// run one at a time under mutex.
type Printer struct {
	Config  config.PrinterConfig
	Model   escpos.Model
	Charset escpos.Charset
	Conn    protocol.DeviceProtocol

	mutex  sync.Mutex
	logger *utils.PrinterLogger
}

// PaperWidth returns the configured character width, or the 80mm default
func (p *Printer) PaperWidth() int {
	if p.Config.PaperWidth > 0 {
		return p.Config.PaperWidth
	}
	return document.DefaultPaperWidth
}

// Info describes the printer and its capabilities
func (p *Printer) Info() model.PrinterInfo {
	features, barcodes := model.CapabilityNames(p.Model)
	return model.PrinterInfo{
		ID:             p.Config.ID,
		Name:           p.Config.Name,
		Model:          p.Model.String(),
		Charset:        p.Charset.String(),
		PaperWidth:     p.PaperWidth(),
		ConnectionType: p.Conn.GetProtocolType(),
		Connected:      p.Conn.IsOpen(),
		Features:       features,
		Barcodes:       barcodes,
		Stats:          p.Conn.Stats(),
	}
}

// PrinterRegistry holds every configured printer
type PrinterRegistry struct {
	printers  map[string]*Printer
	order     []string
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPrinterRegistry builds a connection for each configured printer.
// Connections are opened lazily by the first job.
func NewPrinterRegistry(printers []config.PrinterConfig, defaults config.PortConfig, publisher EventPublisher, logger *zap.Logger) (*PrinterRegistry, error) {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	r := &PrinterRegistry{
		printers:  make(map[string]*Printer, len(printers)),
		publisher: publisher,
		logger:    logger,
	}

	for _, pc := range printers {
		m, err := escpos.ParseModel(pc.Model)
		if err != nil {
			return nil, fmt.Errorf("printer %s: %w", pc.ID, err)
		}
		charset := escpos.CharsetPC437
		if pc.Charset != "" {
			if charset, err = escpos.ParseCharset(pc.Charset); err != nil {
				return nil, fmt.Errorf("printer %s: %w", pc.ID, err)
			}
		}

		connType := protocol.ParseConnectionType(pc.ConnectionType)
		conn, err := protocol.CreateProtocol(connType, pc.Connection, defaults, logger)
		if err != nil {
			return nil, fmt.Errorf("printer %s: %w", pc.ID, err)
		}

		r.printers[pc.ID] = &Printer{
			Config:  pc,
			Model:   m,
			Charset: charset,
			Conn:    conn,
			logger:  utils.NewPrinterLogger(logger, pc.ID, m.String(), string(connType)),
		}
		r.order = append(r.order, pc.ID)
	}

	logger.Info("Printer registry initialized", zap.Int("printers", len(r.order)))
	return r, nil
}

// Get returns the printer with id
func (r *PrinterRegistry) Get(id string) (*Printer, error) {
	p, ok := r.printers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPrinterNotFound, id)
	}
	return p, nil
}

// List returns printers in configuration order
func (r *PrinterRegistry) List() []*Printer {
	out := make([]*Printer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.printers[id])
	}
	return out
}

// Infos describes every printer
func (r *PrinterRegistry) Infos() []model.PrinterInfo {
	infos := make([]model.PrinterInfo, 0, len(r.order))
	for _, p := range r.List() {
		infos = append(infos, p.Info())
	}
	return infos
}

// ensureOpen opens p's connection if needed. Callers hold p.mutex.
func (r *PrinterRegistry) ensureOpen(ctx context.Context, p *Printer) error {
	if p.Conn.IsOpen() {
		return nil
	}
	if err := p.Conn.Open(ctx); err != nil {
		p.logger.LogConnection("open", err)
		return err
	}
	p.logger.LogConnection("open", nil)
	r.publisher.Publish(model.NewPrinterEvent(model.EventPrinterConnected, p.Config.ID, model.JSONObject{
		"connection_type": string(p.Conn.GetProtocolType()),
	}))
	return nil
}

// Close closes every open connection
func (r *PrinterRegistry) Close() error {
	var errs []error
	for _, p := range r.List() {
		p.mutex.Lock()
		if p.Conn.IsOpen() {
			err := p.Conn.Close()
			p.logger.LogConnection("close", err)
			if err != nil {
				errs = append(errs, fmt.Errorf("printer %s: %w", p.Config.ID, err))
			} else {
				r.publisher.Publish(model.NewPrinterEvent(model.EventPrinterDisconnected, p.Config.ID, nil))
			}
		}
		p.mutex.Unlock()
	}
	return errors.Join(errs...)
}
