package sink

import (
	"context"
	"io"
	"os"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// StdoutModule writes lines to the process's standard output.
//
// Lines are written unbuffered so that each retained line is visible to a
// downstream pipe consumer as soon as it passes the filter chain.
type StdoutModule struct {
	w io.Writer
}

// NewStdout creates a sink module writing to os.Stdout.
func NewStdout() *StdoutModule {
	return &StdoutModule{w: os.Stdout}
}

// NewStdoutTo creates a stdout-style sink over an arbitrary writer.
// Intended for tests.
func NewStdoutTo(w io.Writer) *StdoutModule {
	return &StdoutModule{w: w}
}

// Write implements the sink.Module interface.
func (m *StdoutModule) Write(ctx context.Context, line linepipe.Line) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, err := io.WriteString(m.w, line.Raw()); err != nil {
		return errhandling.NewIOError("WRITE_FAILED", "failed to write line", err)
	}
	return nil
}

// Close implements the sink.Module interface.
// Standard output is owned by the process, so there is nothing to release.
func (m *StdoutModule) Close() error {
	return nil
}

// Verify StdoutModule implements sink.Module
var _ Module = (*StdoutModule)(nil)
