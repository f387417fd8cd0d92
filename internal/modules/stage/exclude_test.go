package stage

import (
	"context"
	"strings"
	"testing"

	"github.com/linefilter/runtime/pkg/linepipe"
)

func TestParseExcludeConfig_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  map[string]interface{}
		wantErr bool
		errMsg  string
	}{
		{
			name:    "missing substrings and preset",
			config:  map[string]interface{}{},
			wantErr: true,
			errMsg:  "'substrings' or 'preset' is required",
		},
		{
			name:    "empty substrings array",
			config:  map[string]interface{}{"substrings": []interface{}{}},
			wantErr: true,
		},
		{
			name:    "substrings with only empty strings",
			config:  map[string]interface{}{"substrings": []interface{}{"", ""}},
			wantErr: true,
		},
		{
			name:   "valid substrings",
			config: map[string]interface{}{"substrings": []interface{}{"TODO", "FIXME"}},
		},
		{
			name:   "valid preset only",
			config: map[string]interface{}{"preset": "image-markup"},
		},
		{
			name: "substrings and preset combined",
			config: map[string]interface{}{
				"substrings": []interface{}{"DRAFT"},
				"preset":     "image-markup",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExcludeConfig(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewExcludeFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		config  ExcludeConfig
		wantErr bool
		want    []string
	}{
		{
			name:    "no substrings",
			config:  ExcludeConfig{},
			wantErr: true,
		},
		{
			name:    "unknown preset",
			config:  ExcludeConfig{Preset: "badges"},
			wantErr: true,
		},
		{
			name:   "preset expands to builtin set",
			config: ExcludeConfig{Preset: PresetImageMarkup},
			want:   ImageMarkupPatterns,
		},
		{
			name:   "duplicates removed preserving order",
			config: ExcludeConfig{Substrings: []string{"a", "b", "a", ""}},
			want:   []string{"a", "b"},
		},
		{
			name: "explicit substrings come before preset",
			config: ExcludeConfig{
				Substrings: []string{"DRAFT"},
				Preset:     PresetImageMarkup,
			},
			want: append([]string{"DRAFT"}, ImageMarkupPatterns...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewExcludeFromConfig(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := m.Substrings()
			if len(got) != len(tt.want) {
				t.Fatalf("got %d substrings %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("substring %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExcludeProcess(t *testing.T) {
	m := NewImageMarkupExclude()

	tests := []struct {
		name string
		text string
		keep bool
	}{
		{"plain heading", "# Title", true},
		{"plain text", "Some text", true},
		{"actions badge", "![Actions Status](badge.svg)", false},
		{"actions badge mid-line", "Build ![Actions Status](url)", false},
		{"codecov badge with trailing text", "![codecov](badge2.svg) trailing", false},
		{"html img tag", `<img src="pic.png">`, false},
		{"img tag without src is kept", "<img>", true},
		{"star history chart", "![Star History Chart](chart.svg)", false},
		{"case sensitive", "![CODECOV](x)", true},
		{"empty line", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := linepipe.Line{Number: 1, Text: tt.text, EOL: "\n"}
			got, keep, err := m.Process(context.Background(), line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if keep != tt.keep {
				t.Errorf("keep = %v, want %v", keep, tt.keep)
			}
			if got != line {
				t.Errorf("exclude must never rewrite the line: got %+v", got)
			}
		})
	}
}

// Filtering already-filtered text is a no-op: no exclusion substring can
// survive a first pass.
func TestExcludeIdempotent(t *testing.T) {
	m := NewImageMarkupExclude()
	input := []string{
		"# Title",
		"![Actions Status](badge.svg)",
		"Some text",
		`<img src="pic.png">`,
		"Final line",
	}

	pass := func(lines []string) []string {
		var out []string
		for i, text := range lines {
			_, keep, err := m.Process(context.Background(), linepipe.Line{Number: i + 1, Text: text})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if keep {
				out = append(out, text)
			}
		}
		return out
	}

	first := pass(input)
	second := pass(first)

	if len(first) != len(second) {
		t.Fatalf("second pass changed output: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("line %d differs after second pass: %q vs %q", i, first[i], second[i])
		}
	}
}

func TestExcludeProcessCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewImageMarkupExclude()
	if _, _, err := m.Process(ctx, linepipe.Line{Number: 1, Text: "x"}); err == nil {
		t.Error("expected error for canceled context")
	}
}
