// Package source provides implementations for source modules.
// Source modules produce the lazy sequence of lines a pipeline consumes.
package source

import (
	"context"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// Module represents a source module that yields lines one at a time.
type Module interface {
	// Next returns the next line from the stream.
	// Returns io.EOF once the stream is exhausted.
	Next(ctx context.Context) (linepipe.Line, error)

	// Close releases any resources held by the source.
	Close() error
}
