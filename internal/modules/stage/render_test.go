package stage

import (
	"context"
	"testing"

	"github.com/linefilter/runtime/pkg/linepipe"
)

func TestNewRenderFromConfig(t *testing.T) {
	if _, err := NewRenderFromConfig(RenderConfig{}); err == nil {
		t.Error("expected error for missing format")
	}
	if _, err := NewRenderFromConfig(RenderConfig{Format: "{{line.text}}"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRenderProcess(t *testing.T) {
	tests := []struct {
		name   string
		format string
		line   linepipe.Line
		want   string
	}{
		{
			name:   "numbered lines",
			format: "{{line.number}}: {{line.text}}",
			line:   linepipe.Line{Number: 3, Text: "body", EOL: "\n"},
			want:   "3: body",
		},
		{
			name:   "fixed prefix",
			format: "> {{line.text}}",
			line:   linepipe.Line{Number: 1, Text: "quoted"},
			want:   "> quoted",
		},
		{
			name:   "no variables passes format through",
			format: "---",
			line:   linepipe.Line{Number: 1, Text: "ignored"},
			want:   "---",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewRenderFromConfig(RenderConfig{Format: tt.format})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, keep, err := m.Process(context.Background(), tt.line)
			if err != nil || !keep {
				t.Fatalf("Process() = keep %v, err %v", keep, err)
			}
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestRenderUnknownVariable(t *testing.T) {
	tests := []struct {
		name    string
		onError string
		keep    bool
		wantErr bool
	}{
		{"fail by default", "", false, true},
		{"keep", OnErrorKeep, true, false},
		{"drop", OnErrorDrop, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewRenderFromConfig(RenderConfig{Format: "{{line.color}}", OnError: tt.onError})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, keep, err := m.Process(context.Background(), linepipe.Line{Number: 1, Text: "x"})
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if keep != tt.keep {
				t.Errorf("keep = %v, want %v", keep, tt.keep)
			}
		})
	}
}

func TestParseRenderConfig(t *testing.T) {
	if _, err := ParseRenderConfig(map[string]interface{}{}); err == nil {
		t.Error("expected error for missing format")
	}
	cfg, err := ParseRenderConfig(map[string]interface{}{"format": "{{line.text}}", "onError": "keep"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.OnError != "keep" {
		t.Errorf("onError = %q, want %q", cfg.OnError, "keep")
	}
}
