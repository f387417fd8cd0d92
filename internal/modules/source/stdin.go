package source

import (
	"context"
	"io"
	"os"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// StdinModule reads lines from the process's standard input.
type StdinModule struct {
	reader *lineReader
}

// NewStdin creates a source module reading from os.Stdin.
func NewStdin() *StdinModule {
	return &StdinModule{reader: newLineReader(os.Stdin)}
}

// NewStdinFrom creates a stdin-style source over an arbitrary reader.
// Intended for tests.
func NewStdinFrom(r io.Reader) *StdinModule {
	return &StdinModule{reader: newLineReader(r)}
}

// Next implements the source.Module interface.
func (m *StdinModule) Next(ctx context.Context) (linepipe.Line, error) {
	return m.reader.Next(ctx)
}

// Close implements the source.Module interface.
// Standard input is owned by the process, so there is nothing to release.
func (m *StdinModule) Close() error {
	return nil
}

// Verify StdinModule implements source.Module
var _ Module = (*StdinModule)(nil)
