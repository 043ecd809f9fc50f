package escpos

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures every write and flush; failWrite and failFlush
// make the next calls fail.
type recordingSink struct {
	written   []byte
	writes    int
	flushes   int
	failWrite error
	failFlush error
}

func (s *recordingSink) Write(_ context.Context, data []byte) error {
	if s.failWrite != nil {
		return s.failWrite
	}
	s.writes++
	s.written = append(s.written, data...)
	return nil
}

func (s *recordingSink) Flush(_ context.Context) error {
	if s.failFlush != nil {
		return s.failFlush
	}
	s.flushes++
	return nil
}

func goldenSequence() []byte {
	var b bytes.Buffer
	b.Write([]byte{0x1B, 0x40})
	b.Write([]byte{0x1B, 0x61, 0x01})
	b.Write([]byte{0x1B, 0x2D, 0x02})
	b.WriteString("Underlined Text")
	b.Write([]byte{0x1B, 0x2D, 0x00})
	b.WriteString("The quick brown fox jumps over the lazy dog")
	b.Write([]byte{0x1B, 0x64, 0x01})
	b.Write([]byte{0x1D, 0x48, 0x02})
	b.Write([]byte{0x1D, 0x66, 0x00})
	b.Write([]byte{0x1D, 0x77, 0x02})
	b.Write([]byte{0x1D, 0x68, 0x40})
	b.Write([]byte{0x1D, 0x6B, 0x49, 0x0D})
	b.WriteString("0123456789023")
	b.Write([]byte{0x1B, 0x64, 0x01})
	b.Write([]byte{0x1D, 0x56, 0x01})
	return b.Bytes()
}

func goldenCommands() []Command {
	return []Command{
		Init{},
		SetAlign{Align: AlignCenter},
		SetUnderline{Mode: UnderlineThick},
		Text{Text: "Underlined Text"},
		SetUnderline{Mode: UnderlineOff},
		Text{Text: "The quick brown fox jumps over the lazy dog"},
		Feed{Lines: 1},
		Barcode{Spec: BarcodeSpec{
			Symbology: CODE128,
			Text:      "0123456789023",
			HRI:       HRIBelow,
			Font:      HRIFontA,
			Width:     2,
			Height:    0x40,
		}},
		Feed{Lines: 1},
		PartialCut{},
	}
}

func TestPrinterGoldenSequence(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelSNBC)
	require.NoError(t, p.Do(goldenCommands()...))
	assert.Equal(t, goldenSequence(), p.Bytes())
}

func TestPrinterChainedGoldenSequence(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelSNBC)

	steps := []func() (*Printer, error){
		p.Init,
		func() (*Printer, error) { return p.AlignString("center") },
		func() (*Printer, error) { return p.Underline(UnderlineThick) },
		func() (*Printer, error) { return p.Text("Underlined Text") },
		func() (*Printer, error) { return p.Underline(UnderlineOff) },
		func() (*Printer, error) { return p.Text("The quick brown fox jumps over the lazy dog") },
		func() (*Printer, error) { return p.Feed(1) },
		func() (*Printer, error) {
			return p.Barcode(BarcodeSpec{Symbology: CODE128, Text: "0123456789023", HRI: HRIBelow, Width: 2, Height: 0x40})
		},
		func() (*Printer, error) { return p.Feed(1) },
		p.PartialCut,
	}
	for i, step := range steps {
		next, err := step()
		require.NoError(t, err, "step %d", i)
		require.Same(t, p, next)
	}

	assert.Equal(t, goldenSequence(), p.Bytes())
}

func TestPrinterStateTracking(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelEpson)
	assert.Equal(t, DefaultState(), p.State())

	_, err := p.Align(AlignRight)
	require.NoError(t, err)
	_, err = p.Underline(UnderlineThin)
	require.NoError(t, err)
	_, err = p.Bold(true)
	require.NoError(t, err)
	_, err = p.Font(FontC)
	require.NoError(t, err)
	_, err = p.Charset(CharsetPC850)
	require.NoError(t, err)
	_, err = p.Size(2, 2)
	require.NoError(t, err)

	st := p.State()
	assert.Equal(t, AlignRight, st.Align)
	assert.Equal(t, UnderlineThin, st.Underline)
	assert.True(t, st.Bold)
	assert.Equal(t, FontC, st.Font)
	assert.Equal(t, CharsetPC850, st.Charset)
	assert.Equal(t, 2, st.Width)

	_, err = p.Init()
	require.NoError(t, err)
	assert.Equal(t, DefaultState(), p.State())
}

func TestPrinterErrorLeavesBufferAndState(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelGeneric58)
	_, err := p.Align(AlignCenter)
	require.NoError(t, err)
	before := p.Bytes()
	state := p.State()

	_, err = p.AlignString("middle")
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = p.Align(Alignment(9))
	assert.True(t, errors.Is(err, ErrInvalidParameter))

	_, err = p.Barcode(ean13("12345"))
	assert.True(t, errors.Is(err, ErrInvalidBarcodeContent))

	spec := ean13("400638133393")
	spec.Width = 7
	_, err = p.Barcode(spec)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = p.PartialCut()
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	_, err = p.Font(FontC)
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))

	_, err = p.Feed(300)
	assert.True(t, errors.Is(err, ErrOutOfRange))

	assert.Equal(t, before, p.Bytes())
	assert.Equal(t, state, p.State())
}

func TestPrinterDoStopsAtFirstError(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelGeneric58)
	err := p.Do(Init{}, Feed{Lines: 2}, PartialCut{}, Feed{Lines: 1})
	assert.True(t, errors.Is(err, ErrUnsupportedFeature))
	assert.Equal(t, []byte{0x1B, 0x40, 0x1B, 0x64, 0x02}, p.Bytes())
}

func TestPrinterCharsetOption(t *testing.T) {
	p := NewPrinter(&recordingSink{}, ModelEpson, WithCharset(CharsetPC858))
	_, err := p.Text("€")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xD5}, p.Bytes())

	_, err = p.Charset(CharsetPC437)
	require.NoError(t, err)
	_, err = p.Init()
	require.NoError(t, err)
	assert.Equal(t, CharsetPC858, p.State().Charset)
}

func TestPrinterFlush(t *testing.T) {
	sink := &recordingSink{}
	p := NewPrinter(sink, ModelSNBC)
	require.NoError(t, p.Do(goldenCommands()...))

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, goldenSequence(), sink.written)
	assert.Equal(t, 1, sink.writes)
	assert.Equal(t, 1, sink.flushes)
	assert.Equal(t, 0, p.Len())

	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, goldenSequence(), sink.written)
	assert.Equal(t, 1, sink.writes)
}

func TestPrinterFlushFailurePreservesBuffer(t *testing.T) {
	cause := errors.New("device unplugged")
	sink := &recordingSink{failWrite: cause}
	p := NewPrinter(sink, ModelSNBC)
	require.NoError(t, p.Do(goldenCommands()...))
	before := p.Bytes()

	err := p.Flush(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeIO, CodeOf(err))
	assert.Equal(t, before, p.Bytes())

	sink.failWrite = nil
	sink.failFlush = cause
	err = p.Flush(context.Background())
	assert.True(t, errors.Is(err, ErrIO))
	assert.Equal(t, before, p.Bytes())

	// retry succeeds without re-issuing commands
	sink.failFlush = nil
	sink.written = nil
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, before, sink.written)
	assert.Zero(t, p.Len())
}

func TestPrinterReset(t *testing.T) {
	sink := &recordingSink{}
	p := NewPrinter(sink, ModelEpson)
	_, err := p.Bold(true)
	require.NoError(t, err)

	p.Reset()
	assert.Zero(t, p.Len())
	assert.False(t, p.State().Bold)
	assert.Empty(t, sink.written)
}

func TestWriterSink(t *testing.T) {
	var out bytes.Buffer
	bw := bufio.NewWriter(&out)
	p := NewPrinter(WriterSink(bw), ModelEpson)

	_, err := p.TextLine("hello")
	require.NoError(t, err)
	require.NoError(t, p.Flush(context.Background()))
	assert.Equal(t, "hello\n", out.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Text("x")
	require.NoError(t, err)
	err = p.Flush(ctx)
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, p.Len())
}
