package escpos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportsFailsClosed(t *testing.T) {
	assert.False(t, Supports(ModelUnknown, FeaturePartialCut))
	assert.False(t, Supports(Model(99), FeatureBarcode))
	assert.False(t, Supports(ModelEpson, Feature(0)))
	assert.False(t, Supports(ModelEpson, FeaturePeripheralSelect))

	_, ok := BarcodeTypeCode(ModelUnknown, EAN13)
	assert.False(t, ok)
	_, ok = BarcodeTypeCode(ModelEpson, Symbology(42))
	assert.False(t, ok)
}

func TestCapabilityTable(t *testing.T) {
	cases := []struct {
		model    Model
		features []Feature
		barcodes []Symbology
	}{
		{
			model:    ModelEpson,
			features: []Feature{FeatureFullCut, FeaturePartialCut, FeatureFontC, FeatureCashDrawer, FeatureBarcode},
			barcodes: AllSymbologies(),
		},
		{
			model:    ModelSNBC,
			features: []Feature{FeatureFullCut, FeaturePartialCut, FeatureCashDrawer, FeaturePeripheralSelect, FeatureBarcode},
			barcodes: AllSymbologies(),
		},
		{
			model:    ModelP3,
			features: []Feature{FeaturePartialCut, FeaturePeripheralSelect, FeatureBarcode},
			barcodes: []Symbology{UPCA, UPCE, EAN13, EAN8, CODE39, ITF, CODABAR},
		},
		{
			model:    ModelEpic,
			features: []Feature{FeatureFullCut, FeaturePartialCut, FeatureCashDrawer, FeatureBarcode},
			barcodes: []Symbology{CODE39, CODE128},
		},
		{
			model:    ModelGeneric58,
			features: []Feature{FeatureBarcode},
			barcodes: []Symbology{EAN13, CODE39, CODE128},
		},
	}

	for _, tc := range cases {
		t.Run(tc.model.String(), func(t *testing.T) {
			assert.Equal(t, tc.features, Features(tc.model))
			assert.Equal(t, tc.barcodes, Symbologies(tc.model))
		})
	}
}

func TestBarcodeTypeCodes(t *testing.T) {
	code, ok := BarcodeTypeCode(ModelEpson, UPCA)
	require.True(t, ok)
	assert.Equal(t, byte(0x41), code)

	code, ok = BarcodeTypeCode(ModelSNBC, CODE128)
	require.True(t, ok)
	assert.Equal(t, byte(0x49), code)

	code, ok = BarcodeTypeCode(ModelP3, CODABAR)
	require.True(t, ok)
	assert.Equal(t, byte(0x06), code)
}

func TestParseModel(t *testing.T) {
	for _, m := range Models() {
		got, err := ParseModel(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseModel("snbc")
	require.NoError(t, err)
	assert.Equal(t, ModelSNBC, got)

	_, err = ParseModel("unknown")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestErrorFormatting(t *testing.T) {
	_, err := Encode(Feed{Lines: 256}, DefaultState(), ModelEpson)
	require.Error(t, err)
	assert.Equal(t, "[OUT_OF_RANGE] feed lines 256 outside [0,255]", err.Error())
	assert.Equal(t, CodeOutOfRange, CodeOf(err))
	assert.False(t, errors.Is(err, ErrUnsupportedFeature))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
}
