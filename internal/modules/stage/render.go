// Package stage provides implementations for stage modules.
// The render stage rewrites each line through a template, for decorating
// output with line numbers or fixed prefixes.
package stage

import (
	"context"
	"errors"
	"log/slog"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/internal/template"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// ErrCodeRenderFailed is the error code for template evaluation failures.
const ErrCodeRenderFailed = "RENDER_FAILED"

// RenderConfig represents the configuration for a render stage.
type RenderConfig struct {
	// Format is the template applied to each line (required),
	// e.g. "{{line.number}}: {{line.text}}"
	Format string `json:"format"`
	// OnError specifies error handling mode: "fail" (default), "keep", "drop"
	OnError string `json:"onError,omitempty"`
}

// RenderModule implements the render stage.
type RenderModule struct {
	format    string
	onError   string
	evaluator *template.Evaluator
}

// NewRenderFromConfig creates a render stage from configuration.
func NewRenderFromConfig(config RenderConfig) (*RenderModule, error) {
	if config.Format == "" {
		return nil, errors.New("'format' is required")
	}

	onError := config.OnError
	if onError == "" {
		onError = OnErrorFail
	}
	if onError != OnErrorFail && onError != OnErrorKeep && onError != OnErrorDrop {
		logger.Warn("invalid onError value for render stage; defaulting to fail",
			slog.String("on_error", onError),
		)
		onError = OnErrorFail
	}

	return &RenderModule{
		format:    config.Format,
		onError:   onError,
		evaluator: template.NewEvaluator(),
	}, nil
}

// Process implements the stage.Module interface.
func (m *RenderModule) Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error) {
	select {
	case <-ctx.Done():
		return line, false, ctx.Err()
	default:
	}

	text, err := m.evaluator.Evaluate(m.format, line)
	if err != nil {
		classified := errhandling.NewStageError(ErrCodeRenderFailed, err.Error(), err)
		switch m.onError {
		case OnErrorKeep:
			return line, true, nil
		case OnErrorDrop:
			return line, false, nil
		default:
			return line, false, classified
		}
	}

	line.Text = text
	return line, true, nil
}

// ParseRenderConfig parses a raw configuration map into RenderConfig.
func ParseRenderConfig(config map[string]interface{}) (RenderConfig, error) {
	var cfg RenderConfig

	format, ok := config["format"].(string)
	if !ok || format == "" {
		return cfg, errors.New("'format' is required")
	}
	cfg.Format = format

	if v, ok := config["onError"].(string); ok {
		cfg.OnError = v
	}

	return cfg, nil
}

// Verify interface compliance at compile time
var _ Module = (*RenderModule)(nil)
