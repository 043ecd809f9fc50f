// pkg/escpos/sink.go
package escpos

import (
	"context"
	"io"
)

// Sink is the byte destination a Printer writes to. The printer never opens
// or closes it.
type Sink interface {
	Write(ctx context.Context, data []byte) error
	Flush(ctx context.Context) error
}

type flusher interface {
	Flush() error
}

type syncer interface {
	Sync() error
}

type writerSink struct {
	w io.Writer
}

// WriterSink adapts an io.Writer. Flush calls Flush() or Sync() on the writer
// when it has one and is a no-op otherwise.
func WriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n, err := s.w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return io.ErrShortWrite
	}
	return nil
}

func (s *writerSink) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch w := s.w.(type) {
	case flusher:
		return w.Flush()
	case syncer:
		return w.Sync()
	}
	return nil
}
