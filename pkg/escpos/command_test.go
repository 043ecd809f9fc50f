package escpos

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAlign(t *testing.T) {
	cases := map[string]byte{"left": 0x00, "center": 0x01, "right": 0x02}
	for name, code := range cases {
		t.Run(name, func(t *testing.T) {
			a, err := ParseAlignment(name)
			require.NoError(t, err)

			out, err := Encode(SetAlign{Align: a}, DefaultState(), ModelEpson)
			require.NoError(t, err)
			assert.Equal(t, []byte{0x1B, 0x61, code}, out)
		})
	}
}

func TestParseAlignmentRejectsUnknown(t *testing.T) {
	for _, s := range []string{"", "middle", "justify", "centre"} {
		_, err := ParseAlignment(s)
		assert.True(t, errors.Is(err, ErrInvalidParameter), s)
	}

	a, err := ParseAlignment(" CENTER ")
	require.NoError(t, err)
	assert.Equal(t, AlignCenter, a)
}

func TestEncodeInvalidEnumValues(t *testing.T) {
	state := DefaultState()

	_, err := Encode(SetAlign{Align: Alignment(3)}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(SetUnderline{Mode: UnderlineMode(-1)}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(SetFont{Font: Font(7)}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(SetCharset{Charset: Charset(42)}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(Control{Code: ControlCode(0x07)}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(nil, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestEncodeFixedSequences(t *testing.T) {
	state := DefaultState()
	cases := []struct {
		name string
		cmd  Command
		want []byte
	}{
		{"init", Init{}, []byte{0x1B, 0x40}},
		{"underline thin", SetUnderline{Mode: UnderlineThin}, []byte{0x1B, 0x2D, 0x01}},
		{"underline thick", SetUnderline{Mode: UnderlineThick}, []byte{0x1B, 0x2D, 0x02}},
		{"bold on", SetBold{On: true}, []byte{0x1B, 0x45, 0x01}},
		{"bold off", SetBold{}, []byte{0x1B, 0x45, 0x00}},
		{"font b", SetFont{Font: FontB}, []byte{0x1B, 0x4D, 0x01}},
		{"font c", SetFont{Font: FontC}, []byte{0x1B, 0x4D, 0x02}},
		{"charset 858", SetCharset{Charset: CharsetPC858}, []byte{0x1B, 0x74, 0x13}},
		{"size 2x3", SetSize{Width: 2, Height: 3}, []byte{0x1D, 0x21, 0x12}},
		{"size 8x8", SetSize{Width: 8, Height: 8}, []byte{0x1D, 0x21, 0x77}},
		{"feed 0", Feed{Lines: 0}, []byte{0x1B, 0x64, 0x00}},
		{"feed 255", Feed{Lines: 255}, []byte{0x1B, 0x64, 0xFF}},
		{"line spacing", LineSpacing{Dots: 30}, []byte{0x1B, 0x33, 0x1E}},
		{"default spacing", DefaultLineSpacing{}, []byte{0x1B, 0x32}},
		{"form feed", Control{Code: ControlFF}, []byte{0x0C}},
		{"rule", Rule{Width: 3}, []byte{0xC4, 0xC4, 0xC4, 0x0A}},
		{"text line", TextLine{Text: "ok"}, []byte{'o', 'k', 0x0A}},
		{"partial cut", PartialCut{}, []byte{0x1D, 0x56, 0x01}},
		{"full cut", FullCut{}, []byte{0x1D, 0x56, 0x00}},
		{"drawer pin 2", CashDrawer{Pin: 2}, []byte{0x1B, 0x70, 0x00, 0x19, 0x19}},
		{"drawer pin 5", CashDrawer{Pin: 5}, []byte{0x1B, 0x70, 0x01, 0x19, 0x19}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Encode(tc.cmd, state, ModelEpson)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestEncodeRanges(t *testing.T) {
	state := DefaultState()

	for _, n := range []int{-1, 256} {
		_, err := Encode(Feed{Lines: n}, state, ModelEpson)
		assert.True(t, errors.Is(err, ErrOutOfRange), "feed %d", n)

		_, err = Encode(LineSpacing{Dots: n}, state, ModelEpson)
		assert.True(t, errors.Is(err, ErrOutOfRange), "spacing %d", n)
	}

	for _, size := range [][2]int{{0, 1}, {1, 0}, {9, 1}, {1, 9}} {
		_, err := Encode(SetSize{Width: size[0], Height: size[1]}, state, ModelEpson)
		assert.True(t, errors.Is(err, ErrOutOfRange), "size %v", size)
	}

	_, err := Encode(Rule{Width: 0}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrOutOfRange))
}

func TestEncodeModelGating(t *testing.T) {
	state := DefaultState()

	_, err := Encode(PartialCut{}, state, ModelGeneric58)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	_, err = Encode(FullCut{}, state, ModelP3)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	out, err := Encode(PartialCut{}, state, ModelP3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1D, 0x56, 0x01}, out)

	_, err = Encode(SetFont{Font: FontC}, state, ModelSNBC)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	_, err = Encode(CashDrawer{Pin: 2}, state, ModelP3)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	// pin is validated before the model
	_, err = Encode(CashDrawer{Pin: 3}, state, ModelP3)
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = Encode(Enable{}, state, ModelEpson)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	out, err = Encode(Disable{}, state, ModelP3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x3D, 0x02}, out)

	out, err = Encode(Disable{}, state, ModelSNBC)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1B, 0x3D, 0x00}, out)

	_, err = Encode(PartialCut{}, state, ModelUnknown)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))
}

func TestEncodeTextCharset(t *testing.T) {
	state := DefaultState()

	out, err := Encode(Text{Text: "plain ascii"}, state, ModelEpson)
	require.NoError(t, err)
	assert.Equal(t, []byte("plain ascii"), out)

	// é is 0x82 in both 437 and 850; € only exists in 858
	out, err = Encode(Text{Text: "é€"}, state, ModelEpson)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, '?'}, out)

	state.Charset = CharsetPC858
	out, err = Encode(Text{Text: "é€"}, state, ModelEpson)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x82, 0xD5}, out)

	out, err = Encode(Text{Text: "日本"}, state, ModelEpson)
	require.NoError(t, err)
	assert.Equal(t, []byte("??"), out)
}

func TestEncodeTextIsVerbatim(t *testing.T) {
	long := bytes.Repeat([]byte("x"), 10000)
	out, err := Encode(Text{Text: string(long)}, DefaultState(), ModelEpson)
	require.NoError(t, err)
	assert.Equal(t, long, out)
}

func TestParseHelpers(t *testing.T) {
	u, err := ParseUnderline("Thick")
	require.NoError(t, err)
	assert.Equal(t, UnderlineThick, u)

	f, err := ParseFont("b")
	require.NoError(t, err)
	assert.Equal(t, FontB, f)

	c, err := ParseControl("ff")
	require.NoError(t, err)
	assert.Equal(t, ControlFF, c)

	cs, err := ParseCharset("850")
	require.NoError(t, err)
	assert.Equal(t, CharsetPC850, cs)

	cs, err = ParseCharset("pc852")
	require.NoError(t, err)
	assert.Equal(t, CharsetPC852, cs)

	_, err = ParseCharset("utf8")
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = ParseUnderline("double")
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = ParseFont("d")
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
