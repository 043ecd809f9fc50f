// internal/document/render.go
package document

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"escpos-service/pkg/escpos"
)

const (
	defaultBarcodeWidth  = 3
	defaultBarcodeHeight = 80
	defaultTotalLabel    = "TOTAL"
)

// Renderer turns documents into printer commands
type Renderer struct {
	paperWidth int
}

// NewRenderer creates a renderer for paper paperWidth characters wide
func NewRenderer(paperWidth int) *Renderer {
	if paperWidth <= 0 {
		paperWidth = DefaultPaperWidth
	}
	return &Renderer{paperWidth: paperWidth}
}

// Render applies every document command to p in order and stops at the first
// failure. Commands rendered before the failure stay in p's buffer.
func (r *Renderer) Render(p *escpos.Printer, doc *Document) error {
	for i, c := range doc.Commands {
		cmds, err := r.translate(c)
		if err == nil {
			err = p.Do(cmds...)
		}
		if err != nil {
			return &RenderError{Index: i, Type: c.Type, Err: err}
		}
	}
	return nil
}

// Encode renders doc for model into memory and returns the bytes
func (r *Renderer) Encode(doc *Document, model escpos.Model, opts ...escpos.Option) ([]byte, error) {
	p := escpos.NewPrinter(discard{}, model, opts...)
	if err := r.Render(p, doc); err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// translate maps one document command to encoder commands
func (r *Renderer) translate(c Command) ([]escpos.Command, error) {
	switch strings.ToLower(c.Type) {
	case TypeInit:
		return one(escpos.Init{}), nil

	case TypeAlign:
		a, err := escpos.ParseAlignment(c.Value)
		if err != nil {
			return nil, err
		}
		return one(escpos.SetAlign{Align: a}), nil

	case TypeUnderline:
		u, err := escpos.ParseUnderline(c.Value)
		if err != nil {
			return nil, err
		}
		return one(escpos.SetUnderline{Mode: u}), nil

	case TypeBold:
		return one(escpos.SetBold{On: c.On}), nil

	case TypeFont:
		f, err := escpos.ParseFont(c.Value)
		if err != nil {
			return nil, err
		}
		return one(escpos.SetFont{Font: f}), nil

	case TypeCharset:
		cs, err := escpos.ParseCharset(c.Value)
		if err != nil {
			return nil, err
		}
		return one(escpos.SetCharset{Charset: cs}), nil

	case TypeSize:
		return one(escpos.SetSize{Width: orDefault(c.Width, 1), Height: orDefault(c.Height, 1)}), nil

	case TypeText:
		return one(escpos.Text{Text: c.Text}), nil

	case TypeLine:
		return one(escpos.TextLine{Text: c.Text}), nil

	case TypeFeed:
		return one(escpos.Feed{Lines: c.Lines}), nil

	case TypeLineSpacing:
		if c.Dots == nil {
			return one(escpos.DefaultLineSpacing{}), nil
		}
		return one(escpos.LineSpacing{Dots: *c.Dots}), nil

	case TypeControl:
		code, err := escpos.ParseControl(c.Value)
		if err != nil {
			return nil, err
		}
		return one(escpos.Control{Code: code}), nil

	case TypeRule:
		return one(escpos.Rule{Width: orDefault(c.Width, r.paperWidth)}), nil

	case TypeBarcode:
		spec, err := barcodeSpec(c)
		if err != nil {
			return nil, err
		}
		return one(escpos.Barcode{Spec: spec}), nil

	case TypeCut:
		switch strings.ToLower(c.Mode) {
		case "", "partial":
			return one(escpos.PartialCut{}), nil
		case "full":
			return one(escpos.FullCut{}), nil
		}
		return nil, escpos.NewError(escpos.CodeInvalidParameter, "unknown cut mode %q", c.Mode)

	case TypeDrawer:
		return one(escpos.CashDrawer{Pin: orDefault(c.Pin, 2)}), nil

	case TypeReceiptItems:
		return r.receipt(c)

	default:
		return nil, escpos.NewError(escpos.CodeInvalidParameter, "unknown command type %q", c.Type)
	}
}

func barcodeSpec(c Command) (escpos.BarcodeSpec, error) {
	sym, err := escpos.ParseSymbology(c.Symbology)
	if err != nil {
		return escpos.BarcodeSpec{}, err
	}

	hri := escpos.HRIBelow
	if c.HRI != "" {
		if hri, err = escpos.ParseHRIPosition(c.HRI); err != nil {
			return escpos.BarcodeSpec{}, err
		}
	}

	font := escpos.HRIFontA
	if c.HRIFont != "" {
		if font, err = escpos.ParseHRIFont(c.HRIFont); err != nil {
			return escpos.BarcodeSpec{}, err
		}
	}

	codeSet, err := escpos.ParseCodeSet(c.CodeSet)
	if err != nil {
		return escpos.BarcodeSpec{}, err
	}

	return escpos.BarcodeSpec{
		Symbology: sym,
		Text:      c.Text,
		HRI:       hri,
		Font:      font,
		Width:     orDefault(c.Width, defaultBarcodeWidth),
		Height:    orDefault(c.Height, defaultBarcodeHeight),
		CodeSet:   codeSet,
	}, nil
}

// receipt lays out one line per item with the amount right-aligned, then a
// rule and the total
func (r *Renderer) receipt(c Command) ([]escpos.Command, error) {
	if len(c.Items) == 0 {
		return nil, escpos.NewError(escpos.CodeInvalidParameter, "receipt_items requires at least one item")
	}
	width := orDefault(c.Width, r.paperWidth)
	if width < 10 || width > 255 {
		return nil, escpos.NewError(escpos.CodeOutOfRange, "receipt width %d outside [10,255]", width)
	}

	cmds := make([]escpos.Command, 0, len(c.Items)+2)
	total := decimal.Zero
	for i, item := range c.Items {
		if strings.TrimSpace(item.Name) == "" {
			return nil, escpos.NewError(escpos.CodeInvalidParameter, "item %d has no name", i)
		}
		if !item.Quantity.IsPositive() {
			return nil, escpos.NewError(escpos.CodeInvalidParameter, "item %d quantity must be positive", i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, escpos.NewError(escpos.CodeInvalidParameter, "item %d unit price must not be negative", i)
		}

		amount := item.Quantity.Mul(item.UnitPrice)
		total = total.Add(amount)

		label := item.Name
		if !item.Quantity.Equal(decimal.NewFromInt(1)) {
			label += " x" + item.Quantity.String()
		}
		cmds = append(cmds, escpos.TextLine{Text: Columns(label, money(c.Currency, amount), width)})
	}

	totalLabel := c.TotalLabel
	if totalLabel == "" {
		totalLabel = defaultTotalLabel
	}
	cmds = append(cmds,
		escpos.Rule{Width: width},
		escpos.TextLine{Text: Columns(totalLabel, money(c.Currency, total), width)},
	)
	return cmds, nil
}

// Columns returns left and right separated by spaces to exactly width
// characters, truncating left when both do not fit
func Columns(left, right string, width int) string {
	rightLen := utf8.RuneCountInString(right)
	avail := width - rightLen - 1
	if avail < 1 {
		return truncate(right, width)
	}
	left = truncate(left, avail)
	pad := width - utf8.RuneCountInString(left) - rightLen
	return left + strings.Repeat(" ", pad) + right
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func money(currency string, d decimal.Decimal) string {
	amount := d.StringFixed(2)
	switch utf8.RuneCountInString(currency) {
	case 0:
		return amount
	case 1:
		return currency + amount
	default:
		return currency + " " + amount
	}
}

func one(c escpos.Command) []escpos.Command {
	return []escpos.Command{c}
}

func orDefault(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
