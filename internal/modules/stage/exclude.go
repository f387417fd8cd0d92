// Package stage provides implementations for stage modules.
// This file implements the "exclude" stage, which drops any line containing
// one of a fixed set of literal substrings.
//
// Matching is case-sensitive, anchored nowhere, and literal (no regex).
// A line is either passed through untouched or discarded whole; exclude
// never rewrites line content.
package stage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// PresetImageMarkup names the builtin exclusion set used when publishing
// generated READMEs.
const PresetImageMarkup = "image-markup"

// ImageMarkupPatterns are the literal markers of image markup stripped from
// published documentation: CI badge references, coverage badges, raw HTML
// image tags, and star-history charts.
var ImageMarkupPatterns = []string{
	"![Actions Status]",
	"![codecov]",
	"<img src=",
	"![Star History Chart]",
}

// ExcludeConfig represents the configuration for an exclude stage.
type ExcludeConfig struct {
	// Substrings is the list of literal substrings that cause a line to be dropped
	Substrings []string `json:"substrings,omitempty"`
	// Preset names a builtin substring set to include ("image-markup")
	Preset string `json:"preset,omitempty"`
}

// ExcludeModule implements the exclude stage.
type ExcludeModule struct {
	substrings []string
}

// NewExcludeFromConfig creates an exclude stage from configuration.
// It validates that at least one substring results from the configured
// list and preset combined.
func NewExcludeFromConfig(config ExcludeConfig) (*ExcludeModule, error) {
	substrings := make([]string, 0, len(config.Substrings)+len(ImageMarkupPatterns))
	substrings = append(substrings, config.Substrings...)

	switch config.Preset {
	case "":
	case PresetImageMarkup:
		substrings = append(substrings, ImageMarkupPatterns...)
	default:
		return nil, fmt.Errorf("unknown preset %q", config.Preset)
	}

	// Remove duplicates while preserving order
	seen := make(map[string]bool)
	unique := make([]string, 0, len(substrings))
	for _, s := range substrings {
		if s != "" && !seen[s] {
			seen[s] = true
			unique = append(unique, s)
		}
	}

	if len(unique) == 0 {
		return nil, errors.New("at least one non-empty substring is required")
	}

	logger.Debug("exclude stage initialized", "substrings", unique)

	return &ExcludeModule{substrings: unique}, nil
}

// NewImageMarkupExclude creates the builtin exclude stage used by the bare
// CLI invocation: drop every line carrying image markup.
func NewImageMarkupExclude() *ExcludeModule {
	m, err := NewExcludeFromConfig(ExcludeConfig{Preset: PresetImageMarkup})
	if err != nil {
		// The builtin set is non-empty by construction.
		panic(err)
	}
	return m
}

// Process implements the stage.Module interface.
// The line is dropped if its text contains any configured substring.
func (m *ExcludeModule) Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error) {
	select {
	case <-ctx.Done():
		return line, false, ctx.Err()
	default:
	}

	for _, s := range m.substrings {
		if strings.Contains(line.Text, s) {
			return line, false, nil
		}
	}
	return line, true, nil
}

// Substrings returns the effective exclusion set, in match order.
func (m *ExcludeModule) Substrings() []string {
	out := make([]string, len(m.substrings))
	copy(out, m.substrings)
	return out
}

// ParseExcludeConfig parses a raw configuration map into ExcludeConfig.
func ParseExcludeConfig(config map[string]interface{}) (ExcludeConfig, error) {
	var cfg ExcludeConfig

	if preset, ok := config["preset"].(string); ok {
		cfg.Preset = preset
	}

	if raw, ok := config["substrings"]; ok {
		switch v := raw.(type) {
		case []interface{}:
			cfg.Substrings = make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok && s != "" {
					cfg.Substrings = append(cfg.Substrings, s)
				}
			}
		case []string:
			cfg.Substrings = v
		}
	}

	if cfg.Preset == "" && len(cfg.Substrings) == 0 {
		return cfg, errors.New("'substrings' or 'preset' is required")
	}

	return cfg, nil
}

// Verify interface compliance at compile time
var _ Module = (*ExcludeModule)(nil)
