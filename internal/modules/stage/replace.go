// Package stage provides implementations for stage modules.
// The replace stage rewrites literal substrings within each line.
package stage

import (
	"context"
	"errors"
	"strings"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// ReplaceConfig represents the configuration for a replace stage.
type ReplaceConfig struct {
	// Old is the literal substring to replace (required)
	Old string `json:"old"`
	// New is the replacement text (may be empty to delete the substring)
	New string `json:"new"`
	// Count limits how many occurrences are replaced per line (-1 = all, default)
	Count int `json:"count,omitempty"`
}

// ReplaceModule implements the replace stage.
// Only line text is rewritten; terminators are never touched.
type ReplaceModule struct {
	old   string
	new   string
	count int
}

// NewReplaceFromConfig creates a replace stage from configuration.
func NewReplaceFromConfig(config ReplaceConfig) (*ReplaceModule, error) {
	if config.Old == "" {
		return nil, errors.New("'old' is required")
	}

	count := config.Count
	if count == 0 {
		count = -1
	}

	return &ReplaceModule{old: config.Old, new: config.New, count: count}, nil
}

// Process implements the stage.Module interface.
func (m *ReplaceModule) Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error) {
	select {
	case <-ctx.Done():
		return line, false, ctx.Err()
	default:
	}

	line.Text = strings.Replace(line.Text, m.old, m.new, m.count)
	return line, true, nil
}

// ParseReplaceConfig parses a raw configuration map into ReplaceConfig.
func ParseReplaceConfig(config map[string]interface{}) (ReplaceConfig, error) {
	var cfg ReplaceConfig

	old, ok := config["old"].(string)
	if !ok || old == "" {
		return cfg, errors.New("'old' is required")
	}
	cfg.Old = old

	if v, ok := config["new"].(string); ok {
		cfg.New = v
	}

	// JSON numbers arrive as float64, YAML numbers as int.
	switch v := config["count"].(type) {
	case float64:
		cfg.Count = int(v)
	case int:
		cfg.Count = v
	}

	return cfg, nil
}

// Verify interface compliance at compile time
var _ Module = (*ReplaceModule)(nil)
