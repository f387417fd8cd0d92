package source

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// lineReader yields lines from an io.Reader, preserving terminators verbatim.
// A final line without a terminator is yielded with an empty EOL so that
// Text+EOL always reproduces the source bytes exactly.
type lineReader struct {
	br     *bufio.Reader
	number int
	done   bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{br: bufio.NewReader(r)}
}

// Next returns the next line, or io.EOF once the stream is exhausted.
func (r *lineReader) Next(ctx context.Context) (linepipe.Line, error) {
	select {
	case <-ctx.Done():
		return linepipe.Line{}, ctx.Err()
	default:
	}

	if r.done {
		return linepipe.Line{}, io.EOF
	}

	raw, err := r.br.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return linepipe.Line{}, errhandling.NewIOError("READ_FAILED", "failed to read line", err)
		}
		r.done = true
		if raw == "" {
			return linepipe.Line{}, io.EOF
		}
	}

	r.number++
	text, eol := splitEOL(raw)
	return linepipe.Line{Number: r.number, Text: text, EOL: eol}, nil
}

// splitEOL splits a raw line into content and terminator.
// Recognized terminators are "\n" and "\r\n"; a lone "\r" is treated as
// content so the original bytes round-trip unchanged.
func splitEOL(raw string) (text, eol string) {
	if strings.HasSuffix(raw, "\n") {
		text = raw[:len(raw)-1]
		eol = "\n"
		if strings.HasSuffix(text, "\r") {
			text = text[:len(text)-1]
			eol = "\r\n"
		}
		return text, eol
	}
	return raw, ""
}
