// Package sink provides implementations for sink modules.
// Sink modules receive retained lines and write them out incrementally,
// one line at a time.
package sink

import (
	"context"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// Module represents a sink module that consumes lines.
type Module interface {
	// Write emits a single line, original terminator included.
	Write(ctx context.Context, line linepipe.Line) error

	// Close flushes and releases any resources held by the sink.
	Close() error
}
