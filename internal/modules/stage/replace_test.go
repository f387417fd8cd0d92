package stage

import (
	"context"
	"testing"

	"github.com/linefilter/runtime/pkg/linepipe"
)

func TestNewReplaceFromConfig(t *testing.T) {
	if _, err := NewReplaceFromConfig(ReplaceConfig{}); err == nil {
		t.Error("expected error for missing 'old'")
	}
	if _, err := NewReplaceFromConfig(ReplaceConfig{Old: "a"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestReplaceProcess(t *testing.T) {
	tests := []struct {
		name   string
		config ReplaceConfig
		text   string
		want   string
	}{
		{
			name:   "replace all by default",
			config: ReplaceConfig{Old: "foo", New: "bar"},
			text:   "foo foo foo",
			want:   "bar bar bar",
		},
		{
			name:   "delete substring",
			config: ReplaceConfig{Old: " (draft)"},
			text:   "Title (draft)",
			want:   "Title",
		},
		{
			name:   "count limits replacements",
			config: ReplaceConfig{Old: "x", New: "y", Count: 2},
			text:   "xxx",
			want:   "yyx",
		},
		{
			name:   "no occurrence leaves line unchanged",
			config: ReplaceConfig{Old: "absent", New: "y"},
			text:   "plain",
			want:   "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewReplaceFromConfig(tt.config)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, keep, err := m.Process(context.Background(), linepipe.Line{Number: 1, Text: tt.text, EOL: "\n"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !keep {
				t.Fatal("replace must never drop lines")
			}
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
			if got.EOL != "\n" {
				t.Errorf("terminator changed: %q", got.EOL)
			}
		})
	}
}

func TestParseReplaceConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    map[string]interface{}
		wantErr   bool
		wantCount int
	}{
		{"missing old", map[string]interface{}{"new": "x"}, true, 0},
		{"valid", map[string]interface{}{"old": "a", "new": "b"}, false, 0},
		{"json count", map[string]interface{}{"old": "a", "count": float64(3)}, false, 3},
		{"yaml count", map[string]interface{}{"old": "a", "count": 2}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseReplaceConfig(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseReplaceConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && cfg.Count != tt.wantCount {
				t.Errorf("count = %d, want %d", cfg.Count, tt.wantCount)
			}
		})
	}
}
