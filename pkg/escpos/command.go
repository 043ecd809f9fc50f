// pkg/escpos/command.go
package escpos

import (
	"bytes"
	"strings"
)

// Control characters
const (
	HT  = 0x09
	LF  = 0x0A
	VT  = 0x0B
	FF  = 0x0C
	CR  = 0x0D
	ESC = 0x1B
	GS  = 0x1D
)

// ruleByte is the box-drawing horizontal line in PC437
const ruleByte = 0xC4

// Alignment is the ESC a justification value
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

var alignmentNames = []string{"left", "center", "right"}

func (a Alignment) String() string {
	if a.valid() {
		return alignmentNames[a]
	}
	return "invalid"
}

func (a Alignment) valid() bool {
	return a >= AlignLeft && a <= AlignRight
}

// ParseAlignment accepts "left", "center" or "right" in any case
func ParseAlignment(s string) (Alignment, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range alignmentNames {
		if n == name {
			return Alignment(i), nil
		}
	}
	return 0, invalidParameter("unknown alignment %q", s)
}

// UnderlineMode is the ESC - underline thickness
type UnderlineMode int

const (
	UnderlineOff UnderlineMode = iota
	UnderlineThin
	UnderlineThick
)

var underlineNames = []string{"off", "thin", "thick"}

func (u UnderlineMode) String() string {
	if u >= UnderlineOff && u <= UnderlineThick {
		return underlineNames[u]
	}
	return "invalid"
}

// ParseUnderline accepts "off", "thin" or "thick" in any case
func ParseUnderline(s string) (UnderlineMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range underlineNames {
		if n == name {
			return UnderlineMode(i), nil
		}
	}
	return 0, invalidParameter("unknown underline mode %q", s)
}

// Font is the ESC M character font
type Font int

const (
	FontA Font = iota
	FontB
	FontC
)

var fontNames = []string{"A", "B", "C"}

func (f Font) String() string {
	if f >= FontA && f <= FontC {
		return fontNames[f]
	}
	return "invalid"
}

// ParseFont accepts "a", "b" or "c" in any case
func ParseFont(s string) (Font, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, n := range fontNames {
		if n == name {
			return Font(i), nil
		}
	}
	return 0, invalidParameter("unknown font %q", s)
}

// ControlCode is a single-byte paper or cursor control character
type ControlCode byte

const (
	ControlLF ControlCode = LF
	ControlFF ControlCode = FF
	ControlCR ControlCode = CR
	ControlHT ControlCode = HT
	ControlVT ControlCode = VT
)

var controlNames = map[string]ControlCode{
	"LF": ControlLF,
	"FF": ControlFF,
	"CR": ControlCR,
	"HT": ControlHT,
	"VT": ControlVT,
}

// ParseControl accepts "LF", "FF", "CR", "HT" or "VT" in any case
func ParseControl(s string) (ControlCode, error) {
	if c, ok := controlNames[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	return 0, invalidParameter("unknown control code %q", s)
}

func (c ControlCode) valid() bool {
	switch c {
	case ControlLF, ControlFF, ControlCR, ControlHT, ControlVT:
		return true
	}
	return false
}

// Command is one encodable printer instruction. The set is closed.
type Command interface {
	command()
}

type (
	// Init resets the printer to its power-on mode
	Init struct{}
	// SetAlign selects justification
	SetAlign struct{ Align Alignment }
	// SetUnderline selects underline thickness
	SetUnderline struct{ Mode UnderlineMode }
	// SetBold toggles emphasized mode
	SetBold struct{ On bool }
	// SetFont selects the character font
	SetFont struct{ Font Font }
	// SetCharset selects the character code table used by Text
	SetCharset struct{ Charset Charset }
	// SetSize selects the character width and height multipliers (1-8)
	SetSize struct{ Width, Height int }
	// Text is printed through the active character set
	Text struct{ Text string }
	// TextLine is Text followed by a line feed
	TextLine struct{ Text string }
	// Feed prints the buffer and feeds Lines lines
	Feed struct{ Lines int }
	// LineSpacing sets the line spacing in motion units
	LineSpacing struct{ Dots int }
	// DefaultLineSpacing restores the default line spacing
	DefaultLineSpacing struct{}
	// Control emits a single control character
	Control struct{ Code ControlCode }
	// Rule prints a horizontal line Width characters wide
	Rule struct{ Width int }
	// Barcode prints a 1D barcode
	Barcode struct{ Spec BarcodeSpec }
	PartialCut struct{}
	FullCut    struct{}
	// CashDrawer pulses drawer kick-out connector pin 2 or 5
	CashDrawer struct{ Pin int }
	// Enable and Disable select whether the printer accepts data
	Enable  struct{}
	Disable struct{}
)

func (Init) command()               {}
func (SetAlign) command()           {}
func (SetUnderline) command()       {}
func (SetBold) command()            {}
func (SetFont) command()            {}
func (SetCharset) command()         {}
func (SetSize) command()            {}
func (Text) command()               {}
func (TextLine) command()           {}
func (Feed) command()               {}
func (LineSpacing) command()        {}
func (DefaultLineSpacing) command() {}
func (Control) command()            {}
func (Rule) command()               {}
func (Barcode) command()            {}
func (PartialCut) command()         {}
func (FullCut) command()            {}
func (CashDrawer) command()         {}
func (Enable) command()             {}
func (Disable) command()            {}

// Encode maps cmd to its protocol bytes for model. It validates everything
// before producing output and never mutates state.
func Encode(cmd Command, state State, model Model) ([]byte, error) {
	switch c := cmd.(type) {
	case Init:
		return []byte{ESC, 0x40}, nil

	case SetAlign:
		if !c.Align.valid() {
			return nil, invalidParameter("alignment %d", int(c.Align))
		}
		return []byte{ESC, 0x61, byte(c.Align)}, nil

	case SetUnderline:
		if c.Mode < UnderlineOff || c.Mode > UnderlineThick {
			return nil, invalidParameter("underline mode %d", int(c.Mode))
		}
		code, ok := UnderlineCode(model, c.Mode)
		if !ok {
			return nil, unsupported(model, "underline "+c.Mode.String())
		}
		return []byte{ESC, 0x2D, code}, nil

	case SetBold:
		if c.On {
			return []byte{ESC, 0x45, 0x01}, nil
		}
		return []byte{ESC, 0x45, 0x00}, nil

	case SetFont:
		switch c.Font {
		case FontA, FontB:
		case FontC:
			if !Supports(model, FeatureFontC) {
				return nil, unsupported(model, FeatureFontC.String())
			}
		default:
			return nil, invalidParameter("font %d", int(c.Font))
		}
		return []byte{ESC, 0x4D, byte(c.Font)}, nil

	case SetCharset:
		e, ok := charsets[c.Charset]
		if !ok {
			return nil, invalidParameter("character set %d", int(c.Charset))
		}
		return []byte{ESC, 0x74, e.code}, nil

	case SetSize:
		if c.Width < 1 || c.Width > 8 {
			return nil, outOfRange("width", c.Width, 1, 8)
		}
		if c.Height < 1 || c.Height > 8 {
			return nil, outOfRange("height", c.Height, 1, 8)
		}
		return []byte{GS, 0x21, byte((c.Width-1)<<4 | (c.Height - 1))}, nil

	case Text:
		return state.Charset.translate(c.Text)

	case TextLine:
		out, err := state.Charset.translate(c.Text)
		if err != nil {
			return nil, err
		}
		return append(out, LF), nil

	case Feed:
		if c.Lines < 0 || c.Lines > 255 {
			return nil, outOfRange("feed lines", c.Lines, 0, 255)
		}
		return []byte{ESC, 0x64, byte(c.Lines)}, nil

	case LineSpacing:
		if c.Dots < 0 || c.Dots > 255 {
			return nil, outOfRange("line spacing", c.Dots, 0, 255)
		}
		return []byte{ESC, 0x33, byte(c.Dots)}, nil

	case DefaultLineSpacing:
		return []byte{ESC, 0x32}, nil

	case Control:
		if !c.Code.valid() {
			return nil, invalidParameter("control code 0x%02X", byte(c.Code))
		}
		return []byte{byte(c.Code)}, nil

	case Rule:
		if c.Width < 1 || c.Width > 255 {
			return nil, outOfRange("rule width", c.Width, 1, 255)
		}
		return append(bytes.Repeat([]byte{ruleByte}, c.Width), LF), nil

	case Barcode:
		return EncodeBarcode(c.Spec, model)

	case PartialCut:
		return encodeCut(model, FeaturePartialCut)

	case FullCut:
		return encodeCut(model, FeatureFullCut)

	case CashDrawer:
		var pin byte
		switch c.Pin {
		case 2:
			pin = 0x00
		case 5:
			pin = 0x01
		default:
			return nil, invalidParameter("drawer pin %d, expected 2 or 5", c.Pin)
		}
		if !Supports(model, FeatureCashDrawer) {
			return nil, unsupported(model, FeatureCashDrawer.String())
		}
		return []byte{ESC, 0x70, pin, 0x19, 0x19}, nil

	case Enable:
		return encodePeripheral(model, true)

	case Disable:
		return encodePeripheral(model, false)

	default:
		return nil, invalidParameter("unknown command %T", cmd)
	}
}

func encodeCut(model Model, cut Feature) ([]byte, error) {
	mode, ok := CutMode(model, cut)
	if !ok {
		return nil, unsupported(model, cut.String())
	}
	return []byte{GS, 0x56, mode}, nil
}

func encodePeripheral(model Model, enable bool) ([]byte, error) {
	n, ok := PeripheralCode(model, enable)
	if !ok {
		return nil, unsupported(model, FeaturePeripheralSelect.String())
	}
	return []byte{ESC, 0x3D, n}, nil
}
