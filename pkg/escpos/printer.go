// pkg/escpos/printer.go
package escpos

import (
	"context"

	"go.uber.org/zap"
)

// State is the formatting state tracked by a Printer
type State struct {
	Align     Alignment
	Underline UnderlineMode
	Bold      bool
	Font      Font
	Charset   Charset
	Width     int
	Height    int
}

// DefaultState is the power-on formatting state
func DefaultState() State {
	return State{
		Align:     AlignLeft,
		Underline: UnderlineOff,
		Font:      FontA,
		Charset:   CharsetPC437,
		Width:     1,
		Height:    1,
	}
}

// apply returns the state after cmd has been encoded successfully. Init
// restores defaults, the printer's power-on state.
func (s State) apply(cmd Command, defaults State) State {
	switch c := cmd.(type) {
	case Init:
		s = defaults
	case SetAlign:
		s.Align = c.Align
	case SetUnderline:
		s.Underline = c.Mode
	case SetBold:
		s.Bold = c.On
	case SetFont:
		s.Font = c.Font
	case SetCharset:
		s.Charset = c.Charset
	case SetSize:
		s.Width, s.Height = c.Width, c.Height
	}
	return s
}

// Option configures a Printer
type Option func(*Printer)

// WithLogger sets the logger used for flush diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(p *Printer) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCharset declares the code table the device starts with. No ESC t is emitted.
func WithCharset(c Charset) Option {
	return func(p *Printer) {
		if c.valid() {
			p.defaults.Charset = c
		}
	}
}

// Printer buffers encoded commands for one sink. It is not safe for
// concurrent use.
type Printer struct {
	sink     Sink
	model    Model
	state    State
	defaults State
	buf      []byte
	logger   *zap.Logger
}

// NewPrinter creates a printer that writes to sink using model's dialect
func NewPrinter(sink Sink, model Model, opts ...Option) *Printer {
	p := &Printer{
		sink:     sink,
		model:    model,
		defaults: DefaultState(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = p.defaults
	p.logger = p.logger.With(zap.String("model", model.String()))
	return p
}

// apply encodes cmd and, only on success, appends it and updates state
func (p *Printer) apply(cmd Command) (*Printer, error) {
	out, err := Encode(cmd, p.state, p.model)
	if err != nil {
		return p, err
	}
	p.buf = append(p.buf, out...)
	p.state = p.state.apply(cmd, p.defaults)
	return p, nil
}

// Do applies cmds in order and stops at the first error. Commands applied
// before the failing one stay buffered.
func (p *Printer) Do(cmds ...Command) error {
	for i, cmd := range cmds {
		if _, err := p.apply(cmd); err != nil {
			p.logger.Debug("Command rejected",
				zap.Int("index", i),
				zap.String("command", commandName(cmd)),
				zap.Error(err))
			return err
		}
	}
	return nil
}

func (p *Printer) Init() (*Printer, error) {
	return p.apply(Init{})
}

func (p *Printer) Align(a Alignment) (*Printer, error) {
	return p.apply(SetAlign{Align: a})
}

// AlignString parses "left", "center" or "right" and applies it
func (p *Printer) AlignString(s string) (*Printer, error) {
	a, err := ParseAlignment(s)
	if err != nil {
		return p, err
	}
	return p.Align(a)
}

func (p *Printer) Underline(mode UnderlineMode) (*Printer, error) {
	return p.apply(SetUnderline{Mode: mode})
}

func (p *Printer) Bold(on bool) (*Printer, error) {
	return p.apply(SetBold{On: on})
}

func (p *Printer) Font(f Font) (*Printer, error) {
	return p.apply(SetFont{Font: f})
}

func (p *Printer) Charset(c Charset) (*Printer, error) {
	return p.apply(SetCharset{Charset: c})
}

func (p *Printer) Size(width, height int) (*Printer, error) {
	return p.apply(SetSize{Width: width, Height: height})
}

// Text appends text translated through the active character set
func (p *Printer) Text(text string) (*Printer, error) {
	return p.apply(Text{Text: text})
}

func (p *Printer) TextLine(text string) (*Printer, error) {
	return p.apply(TextLine{Text: text})
}

func (p *Printer) Feed(lines int) (*Printer, error) {
	return p.apply(Feed{Lines: lines})
}

func (p *Printer) LineSpacing(dots int) (*Printer, error) {
	return p.apply(LineSpacing{Dots: dots})
}

func (p *Printer) DefaultLineSpacing() (*Printer, error) {
	return p.apply(DefaultLineSpacing{})
}

func (p *Printer) Control(code ControlCode) (*Printer, error) {
	return p.apply(Control{Code: code})
}

func (p *Printer) Rule(width int) (*Printer, error) {
	return p.apply(Rule{Width: width})
}

func (p *Printer) Barcode(spec BarcodeSpec) (*Printer, error) {
	return p.apply(Barcode{Spec: spec})
}

func (p *Printer) PartialCut() (*Printer, error) {
	return p.apply(PartialCut{})
}

func (p *Printer) FullCut() (*Printer, error) {
	return p.apply(FullCut{})
}

// CashDrawer pulses drawer pin 2 or 5
func (p *Printer) CashDrawer(pin int) (*Printer, error) {
	return p.apply(CashDrawer{Pin: pin})
}

func (p *Printer) Enable() (*Printer, error) {
	return p.apply(Enable{})
}

func (p *Printer) Disable() (*Printer, error) {
	return p.apply(Disable{})
}

// Flush writes the whole buffer to the sink and flushes it. The buffer is
// cleared only when both succeed; otherwise it is kept for a retry.
func (p *Printer) Flush(ctx context.Context) error {
	n := len(p.buf)
	if n > 0 {
		if err := p.sink.Write(ctx, p.buf); err != nil {
			p.logger.Warn("Sink write failed", zap.Int("bytes", n), zap.Error(err))
			return ioError("write", err)
		}
	}
	if err := p.sink.Flush(ctx); err != nil {
		p.logger.Warn("Sink flush failed", zap.Int("bytes", n), zap.Error(err))
		return ioError("flush", err)
	}

	p.buf = p.buf[:0]
	p.logger.Debug("Buffer flushed", zap.Int("bytes", n))
	return nil
}

// Bytes returns a copy of the buffered, unflushed bytes
func (p *Printer) Bytes() []byte {
	out := make([]byte, len(p.buf))
	copy(out, p.buf)
	return out
}

func (p *Printer) Len() int {
	return len(p.buf)
}

func (p *Printer) State() State {
	return p.state
}

func (p *Printer) Model() Model {
	return p.model
}

// Reset drops buffered bytes without writing them and restores the default state
func (p *Printer) Reset() {
	p.buf = p.buf[:0]
	p.state = p.defaults
}

func commandName(cmd Command) string {
	switch cmd.(type) {
	case Init:
		return "init"
	case SetAlign:
		return "align"
	case SetUnderline:
		return "underline"
	case SetBold:
		return "bold"
	case SetFont:
		return "font"
	case SetCharset:
		return "charset"
	case SetSize:
		return "size"
	case Text:
		return "text"
	case TextLine:
		return "line"
	case Feed:
		return "feed"
	case LineSpacing, DefaultLineSpacing:
		return "line_spacing"
	case Control:
		return "control"
	case Rule:
		return "rule"
	case Barcode:
		return "barcode"
	case PartialCut, FullCut:
		return "cut"
	case CashDrawer:
		return "drawer"
	case Enable, Disable:
		return "peripheral"
	default:
		return "unknown"
	}
}
