// pkg/escpos/capability.go
package escpos

import "strings"

// Model identifies a printer command dialect
type Model int

const (
	ModelUnknown Model = iota
	ModelEpson         // Epson TM series, reference ESC/POS
	ModelSNBC          // SNBC BTP-R880NPV
	ModelP3            // Custom P3
	ModelEpic          // TransAct Epic 880
	ModelGeneric58     // 58mm printers without an auto-cutter
)

var modelNames = map[Model]string{
	ModelUnknown:   "UNKNOWN",
	ModelEpson:     "EPSON",
	ModelSNBC:      "SNBC",
	ModelP3:        "P3",
	ModelEpic:      "EPIC",
	ModelGeneric58: "GENERIC58",
}

func (m Model) String() string {
	if name, ok := modelNames[m]; ok {
		return name
	}
	return "UNKNOWN"
}

// Models lists every model with a capability table entry
func Models() []Model {
	return []Model{ModelEpson, ModelSNBC, ModelP3, ModelEpic, ModelGeneric58}
}

// ParseModel maps a model name (case-insensitive) to a Model
func ParseModel(s string) (Model, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for m, n := range modelNames {
		if m != ModelUnknown && n == name {
			return m, nil
		}
	}
	return ModelUnknown, invalidParameter("unknown printer model %q", s)
}

// Feature is a model-gated protocol capability
type Feature int

const (
	FeatureFullCut Feature = iota + 1
	FeaturePartialCut
	FeatureFontC
	FeatureCashDrawer
	FeaturePeripheralSelect
	FeatureBarcode
)

var featureNames = map[Feature]string{
	FeatureFullCut:          "full_cut",
	FeaturePartialCut:       "partial_cut",
	FeatureFontC:            "font_c",
	FeatureCashDrawer:       "cash_drawer",
	FeaturePeripheralSelect: "peripheral_select",
	FeatureBarcode:          "barcode",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "unknown_feature"
}

// capabilities is one row of the table. Absent entries mean unsupported.
type capabilities struct {
	cutModes      map[Feature]byte
	features      map[Feature]bool
	underline     map[UnderlineMode]byte
	peripheralOn  byte
	peripheralOff byte
	barcodes      map[Symbology]byte
}

// Function B type codes (GS k m n d1...dn)
var functionB = map[Symbology]byte{
	UPCA:    0x41,
	UPCE:    0x42,
	EAN13:   0x43,
	EAN8:    0x44,
	CODE39:  0x45,
	ITF:     0x46,
	CODABAR: 0x47,
	CODE93:  0x48,
	CODE128: 0x49,
}

var standardUnderline = map[UnderlineMode]byte{
	UnderlineOff:   0x00,
	UnderlineThin:  0x01,
	UnderlineThick: 0x02,
}

var capabilityTable = map[Model]capabilities{
	ModelEpson: {
		cutModes: map[Feature]byte{FeatureFullCut: 0x00, FeaturePartialCut: 0x01},
		features: map[Feature]bool{
			FeatureFontC:      true,
			FeatureCashDrawer: true,
			FeatureBarcode:    true,
		},
		underline: standardUnderline,
		barcodes:  functionB,
	},
	ModelSNBC: {
		cutModes: map[Feature]byte{FeatureFullCut: 0x00, FeaturePartialCut: 0x01},
		features: map[Feature]bool{
			FeatureCashDrawer:       true,
			FeaturePeripheralSelect: true,
			FeatureBarcode:          true,
		},
		underline:     standardUnderline,
		peripheralOn:  0x01,
		peripheralOff: 0x00,
		barcodes:      functionB,
	},
	ModelP3: {
		cutModes: map[Feature]byte{FeaturePartialCut: 0x01},
		features: map[Feature]bool{
			FeaturePeripheralSelect: true,
			FeatureBarcode:          true,
		},
		underline:     standardUnderline,
		peripheralOn:  0x01,
		peripheralOff: 0x02,
		// Function A, NUL terminated
		barcodes: map[Symbology]byte{
			UPCA:    0x00,
			UPCE:    0x01,
			EAN13:   0x02,
			EAN8:    0x03,
			CODE39:  0x04,
			ITF:     0x05,
			CODABAR: 0x06,
		},
	},
	ModelEpic: {
		cutModes: map[Feature]byte{FeatureFullCut: 0x00, FeaturePartialCut: 0x01},
		features: map[Feature]bool{
			FeatureCashDrawer: true,
			FeatureBarcode:    true,
		},
		underline: standardUnderline,
		barcodes: map[Symbology]byte{
			CODE39:  0x45,
			CODE128: 0x49,
		},
	},
	ModelGeneric58: {
		features: map[Feature]bool{
			FeatureBarcode: true,
		},
		underline: standardUnderline,
		barcodes: map[Symbology]byte{
			EAN13:   0x43,
			CODE39:  0x45,
			CODE128: 0x49,
		},
	},
}

// Supports reports whether model supports feature. Unknown combinations are unsupported.
func Supports(model Model, feature Feature) bool {
	caps, ok := capabilityTable[model]
	if !ok {
		return false
	}
	switch feature {
	case FeatureFullCut, FeaturePartialCut:
		_, ok := caps.cutModes[feature]
		return ok
	default:
		return caps.features[feature]
	}
}

// BarcodeTypeCode returns the GS k type code for symbology on model
func BarcodeTypeCode(model Model, sym Symbology) (byte, bool) {
	caps, ok := capabilityTable[model]
	if !ok || !caps.features[FeatureBarcode] {
		return 0, false
	}
	code, ok := caps.barcodes[sym]
	return code, ok
}

// CutMode returns the GS V mode byte for a cut feature on model
func CutMode(model Model, cut Feature) (byte, bool) {
	caps, ok := capabilityTable[model]
	if !ok {
		return 0, false
	}
	mode, ok := caps.cutModes[cut]
	return mode, ok
}

// UnderlineCode returns the ESC - parameter for mode on model
func UnderlineCode(model Model, mode UnderlineMode) (byte, bool) {
	caps, ok := capabilityTable[model]
	if !ok {
		return 0, false
	}
	code, ok := caps.underline[mode]
	return code, ok
}

// PeripheralCode returns the ESC = parameter that enables or disables the printer
func PeripheralCode(model Model, enable bool) (byte, bool) {
	if !Supports(model, FeaturePeripheralSelect) {
		return 0, false
	}
	caps := capabilityTable[model]
	if enable {
		return caps.peripheralOn, true
	}
	return caps.peripheralOff, true
}

// Symbologies lists the barcode symbologies model can print, in declaration order
func Symbologies(model Model) []Symbology {
	var out []Symbology
	for _, sym := range AllSymbologies() {
		if _, ok := BarcodeTypeCode(model, sym); ok {
			out = append(out, sym)
		}
	}
	return out
}

// Features lists the gated features model supports
func Features(model Model) []Feature {
	var out []Feature
	for f := FeatureFullCut; f <= FeatureBarcode; f++ {
		if Supports(model, f) {
			out = append(out, f)
		}
	}
	return out
}
