package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// drain reads all lines from a module.
func drain(t *testing.T, m Module) []linepipe.Line {
	t.Helper()
	var lines []linepipe.Line
	for {
		line, err := m.Next(context.Background())
		if err == io.EOF {
			return lines
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines = append(lines, line)
	}
}

func TestLineReaderSplitsTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []linepipe.Line
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single terminated line",
			input: "hello\n",
			want:  []linepipe.Line{{Number: 1, Text: "hello", EOL: "\n"}},
		},
		{
			name:  "final line without terminator",
			input: "a\nb",
			want: []linepipe.Line{
				{Number: 1, Text: "a", EOL: "\n"},
				{Number: 2, Text: "b", EOL: ""},
			},
		},
		{
			name:  "crlf terminators",
			input: "a\r\nb\r\n",
			want: []linepipe.Line{
				{Number: 1, Text: "a", EOL: "\r\n"},
				{Number: 2, Text: "b", EOL: "\r\n"},
			},
		},
		{
			name:  "blank lines preserved",
			input: "\n\nx\n",
			want: []linepipe.Line{
				{Number: 1, Text: "", EOL: "\n"},
				{Number: 2, Text: "", EOL: "\n"},
				{Number: 3, Text: "x", EOL: "\n"},
			},
		},
		{
			name:  "lone carriage return stays in text",
			input: "a\rb\n",
			want:  []linepipe.Line{{Number: 1, Text: "a\rb", EOL: "\n"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := drain(t, NewStdinFrom(strings.NewReader(tt.input)))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRawRoundTrip(t *testing.T) {
	input := "# Title\r\nbody\n\nlast"
	var sb strings.Builder
	for _, line := range drain(t, NewStdinFrom(strings.NewReader(input))) {
		sb.WriteString(line.Raw())
	}
	if sb.String() != input {
		t.Errorf("round trip mismatch: got %q, want %q", sb.String(), input)
	}
}

func TestNextAfterEOF(t *testing.T) {
	m := NewStdinFrom(strings.NewReader("x\n"))
	drain(t, m)

	if _, err := m.Next(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF on repeated Next, got %v", err)
	}
}

func TestNextRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewStdinFrom(strings.NewReader("x\n"))
	if _, err := m.Next(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestFileModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	if err := os.WriteFile(path, []byte("one\ntwo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := NewFileFromConfig(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer m.Close()

	lines := drain(t, m)
	if len(lines) != 2 || lines[0].Text != "one" || lines[1].Text != "two" {
		t.Errorf("unexpected lines: %+v", lines)
	}
}

func TestFileModuleMissingFile(t *testing.T) {
	_, err := NewFileFromConfig(FileConfig{Path: filepath.Join(t.TempDir(), "absent.txt")})
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]interface{}
		wantErr bool
	}{
		{"missing path", map[string]interface{}{}, true},
		{"empty path", map[string]interface{}{"path": ""}, true},
		{"path is not a string", map[string]interface{}{"path": 7}, true},
		{"valid", map[string]interface{}{"path": "in.txt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFileConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFileConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
