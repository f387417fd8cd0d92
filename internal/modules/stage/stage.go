// Package stage provides implementations for stage modules.
// Stage modules test, transform, or drop individual lines as they flow
// from a source to a sink.
package stage

import (
	"context"
	"strings"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// Module represents a stage module that processes one line at a time.
type Module interface {
	// Process evaluates a single line.
	// Returns the (possibly rewritten) line and whether it should be kept.
	// A returned error aborts the run unless the stage handles it itself.
	Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error)
}

// Error handling modes shared by stages that evaluate user-supplied code.
const (
	// OnErrorFail aborts the run on the first evaluation error (default).
	OnErrorFail = "fail"
	// OnErrorKeep passes the line through unchanged on evaluation error.
	OnErrorKeep = "keep"
	// OnErrorDrop discards the line on evaluation error.
	OnErrorDrop = "drop"
)

// isWhitespaceOnly reports whether s contains only whitespace.
func isWhitespaceOnly(s string) bool {
	return strings.TrimSpace(s) == ""
}
