// internal/document/discard.go
package document

import "context"

// discard is the sink behind dry-run encoding; nothing is ever flushed to it
type discard struct{}

func (discard) Write(context.Context, []byte) error { return nil }
func (discard) Flush(context.Context) error         { return nil }
