// pkg/escpos/barcode.go
package escpos

import (
	"fmt"
	"strings"
)

// Symbology is a 1D barcode encoding scheme
type Symbology int

const (
	UPCA Symbology = iota
	UPCE
	EAN13
	EAN8
	CODE39
	ITF
	CODABAR
	CODE93
	CODE128
)

var symbologyNames = []string{
	"UPC-A", "UPC-E", "EAN13", "EAN8", "CODE39", "ITF", "CODABAR", "CODE93", "CODE128",
}

func (s Symbology) String() string {
	if s >= UPCA && s <= CODE128 {
		return symbologyNames[s]
	}
	return "UNKNOWN"
}

// AllSymbologies lists every symbology in declaration order
func AllSymbologies() []Symbology {
	return []Symbology{UPCA, UPCE, EAN13, EAN8, CODE39, ITF, CODABAR, CODE93, CODE128}
}

// ParseSymbology accepts names like "EAN13", "upc-a" or "upca"
func ParseSymbology(s string) (Symbology, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "_", "-")
	for i, n := range symbologyNames {
		if n == name || strings.ReplaceAll(n, "-", "") == name {
			return Symbology(i), nil
		}
	}
	return 0, invalidParameter("unknown barcode symbology %q", s)
}

// HRIPosition places the human readable interpretation relative to the bars
type HRIPosition int

const (
	HRINone HRIPosition = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

var hriNames = []string{"none", "above", "below", "both"}

func (h HRIPosition) String() string {
	if h >= HRINone && h <= HRIBoth {
		return hriNames[h]
	}
	return "invalid"
}

// ParseHRIPosition accepts "none", "above", "below" or "both"
func ParseHRIPosition(s string) (HRIPosition, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "off" {
		return HRINone, nil
	}
	for i, n := range hriNames {
		if n == name {
			return HRIPosition(i), nil
		}
	}
	return 0, invalidParameter("unknown HRI position %q", s)
}

// HRIFont selects the font of the HRI characters
type HRIFont int

const (
	HRIFontA HRIFont = iota
	HRIFontB
)

// ParseHRIFont accepts "a" or "b" in any case
func ParseHRIFont(s string) (HRIFont, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return HRIFontA, nil
	case "B":
		return HRIFontB, nil
	}
	return 0, invalidParameter("unknown HRI font %q", s)
}

// CodeSet selects how CODE128 data is prefixed
type CodeSet int

const (
	// CodeSetNone sends the text untouched
	CodeSetNone CodeSet = iota
	CodeSetB
	CodeSetC
	// CodeSetAuto picks C for even-length digit strings and B otherwise
	CodeSetAuto
)

// ParseCodeSet accepts "none", "b", "c" or "auto" in any case
func ParseCodeSet(s string) (CodeSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return CodeSetNone, nil
	case "b":
		return CodeSetB, nil
	case "c":
		return CodeSetC, nil
	case "auto":
		return CodeSetAuto, nil
	}
	return 0, invalidParameter("unknown code set %q", s)
}

const (
	MinBarcodeWidth  = 2
	MaxBarcodeWidth  = 6
	MinBarcodeHeight = 1
	MaxBarcodeHeight = 255
)

// BarcodeSpec fully describes one barcode print request
type BarcodeSpec struct {
	Symbology Symbology
	Text      string
	HRI       HRIPosition
	Font      HRIFont
	Width     int
	Height    int
	CodeSet   CodeSet
}

// contentRule is the length and alphabet constraint of a symbology
type contentRule struct {
	lengths  []int // exact lengths allowed; empty means [min,max]
	min, max int
	alphabet string // empty means any 7-bit ASCII
	check    func(text string) string
}

const (
	digits        = "0123456789"
	code39Symbols = digits + "ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./"
	codabarChars  = digits + "ABCDabcd$+-./:"
)

var barcodeRules = map[Symbology]contentRule{
	UPCA:    {lengths: []int{11, 12}, alphabet: digits},
	UPCE:    {lengths: []int{6, 7, 8, 11, 12}, alphabet: digits},
	EAN13:   {lengths: []int{12, 13}, alphabet: digits},
	EAN8:    {lengths: []int{7, 8}, alphabet: digits},
	CODE39:  {min: 1, max: 255, alphabet: code39Symbols},
	ITF:     {min: 2, max: 254, alphabet: digits, check: evenLength},
	CODABAR: {min: 2, max: 255, alphabet: codabarChars, check: codabarStartStop},
	CODE93:  {min: 1, max: 255},
	CODE128: {min: 1, max: 253},
}

func evenLength(text string) string {
	if len(text)%2 != 0 {
		return "length must be even"
	}
	return ""
}

func codabarStartStop(text string) string {
	isStartStop := func(b byte) bool {
		return strings.IndexByte("ABCDabcd", b) >= 0
	}
	if !isStartStop(text[0]) || !isStartStop(text[len(text)-1]) {
		return "must start and end with A, B, C or D"
	}
	return ""
}

// validate returns an empty string when text satisfies the rule
func (r contentRule) validate(text string) string {
	n := len(text)
	if len(r.lengths) > 0 {
		ok := false
		for _, l := range r.lengths {
			if n == l {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Sprintf("length %d not in %v", n, r.lengths)
		}
	} else if n < r.min || n > r.max {
		return fmt.Sprintf("length %d outside [%d,%d]", n, r.min, r.max)
	}

	for i := 0; i < n; i++ {
		b := text[i]
		if r.alphabet == "" {
			if b > 0x7F {
				return fmt.Sprintf("byte 0x%02X at %d is not ASCII", b, i)
			}
			continue
		}
		if strings.IndexByte(r.alphabet, b) < 0 {
			return fmt.Sprintf("character %q at %d not allowed", b, i)
		}
	}

	if r.check != nil {
		return r.check(text)
	}
	return ""
}

// ValidateBarcodeText checks text against the content rule of sym
func ValidateBarcodeText(sym Symbology, text string) error {
	rule, ok := barcodeRules[sym]
	if !ok {
		return invalidParameter("unknown barcode symbology %d", int(sym))
	}
	if reason := rule.validate(text); reason != "" {
		return invalidBarcode(sym, reason)
	}
	return nil
}

// EncodeBarcode validates spec for model and returns the complete command
// group: HRI position, HRI font, width, height, then type and data.
func EncodeBarcode(spec BarcodeSpec, model Model) ([]byte, error) {
	if err := ValidateBarcodeText(spec.Symbology, spec.Text); err != nil {
		return nil, err
	}
	if spec.Width < MinBarcodeWidth || spec.Width > MaxBarcodeWidth {
		return nil, outOfRange("barcode width", spec.Width, MinBarcodeWidth, MaxBarcodeWidth)
	}
	if spec.Height < MinBarcodeHeight || spec.Height > MaxBarcodeHeight {
		return nil, outOfRange("barcode height", spec.Height, MinBarcodeHeight, MaxBarcodeHeight)
	}
	if spec.HRI < HRINone || spec.HRI > HRIBoth {
		return nil, invalidParameter("HRI position %d", int(spec.HRI))
	}
	if spec.Font != HRIFontA && spec.Font != HRIFontB {
		return nil, invalidParameter("HRI font %d", int(spec.Font))
	}
	typeCode, ok := BarcodeTypeCode(model, spec.Symbology)
	if !ok {
		return nil, unsupported(model, "barcode "+spec.Symbology.String())
	}

	data, err := barcodeData(spec)
	if err != nil {
		return nil, err
	}

	out := []byte{
		GS, 0x48, byte(spec.HRI),
		GS, 0x66, byte(spec.Font),
		GS, 0x77, byte(spec.Width),
		GS, 0x68, byte(spec.Height),
		GS, 0x6B, typeCode,
	}
	if typeCode >= functionB[UPCA] {
		if len(data) > 255 {
			return nil, invalidBarcode(spec.Symbology, fmt.Sprintf("encoded length %d exceeds 255", len(data)))
		}
		out = append(out, byte(len(data)))
		out = append(out, data...)
	} else {
		out = append(out, data...)
		out = append(out, 0x00)
	}
	return out, nil
}

// barcodeData applies the CODE128 code set prefix when requested
func barcodeData(spec BarcodeSpec) ([]byte, error) {
	if spec.Symbology != CODE128 || spec.CodeSet == CodeSetNone {
		return []byte(spec.Text), nil
	}

	set := spec.CodeSet
	if set == CodeSetAuto {
		set = CodeSetB
		if len(spec.Text)%2 == 0 && strings.Trim(spec.Text, digits) == "" {
			set = CodeSetC
		}
	}

	switch set {
	case CodeSetB:
		return append([]byte{'{', 'B'}, spec.Text...), nil
	case CodeSetC:
		packed, err := PackCodeSetC(spec.Text)
		if err != nil {
			return nil, err
		}
		return append([]byte{'{', 'C'}, packed...), nil
	default:
		return nil, invalidParameter("code set %d", int(spec.CodeSet))
	}
}

// PackCodeSetC converts pairs of digits to their numeric value ("12" -> 0x0C)
func PackCodeSetC(text string) ([]byte, error) {
	if strings.Trim(text, digits) != "" {
		return nil, invalidBarcode(CODE128, "code set C requires digits only")
	}
	if len(text)%2 != 0 {
		return nil, invalidBarcode(CODE128, "code set C requires an even number of digits")
	}
	out := make([]byte, 0, len(text)/2)
	for i := 0; i < len(text); i += 2 {
		out = append(out, (text[i]-'0')*10+(text[i+1]-'0'))
	}
	return out, nil
}
