// Package stage provides implementations for stage modules.
// The match stage keeps or drops lines based on a boolean expression
// evaluated against the line.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// Error codes for match stage
const (
	ErrCodeInvalidExpression = "INVALID_EXPRESSION"
	ErrCodeEvaluationFailed  = "EVALUATION_FAILED"
	ErrCodeNotBoolean        = "NOT_BOOLEAN"
)

// Routing behavior constants
const (
	OnMatchContinue = "continue"
	OnMatchDrop     = "drop"
)

// Common errors for match stage
var (
	// ErrEmptyExpression is returned when the expression is empty or whitespace-only
	ErrEmptyExpression = errors.New("expression cannot be empty")
	// ErrInvalidExpression is returned when the expression syntax is invalid
	ErrInvalidExpression = errors.New("invalid expression syntax")
)

// MatchConfig represents the configuration for a match stage.
type MatchConfig struct {
	// Expression is the boolean expression string (required).
	// Available variables: text (string), number (int).
	Expression string `json:"expression"`
	// OnMatch specifies behavior when the expression is true: "continue" (default) or "drop"
	OnMatch string `json:"onMatch,omitempty"`
	// OnMiss specifies behavior when the expression is false: "continue" or "drop" (default)
	OnMiss string `json:"onMiss,omitempty"`
	// OnError specifies error handling mode: "fail" (default), "keep", "drop"
	OnError string `json:"onError,omitempty"`
}

// MatchModule implements conditional line filtering using compiled expressions.
type MatchModule struct {
	expression string
	onMatch    string
	onMiss     string
	onError    string
	program    *vm.Program
}

// NewMatchFromConfig creates a match stage from configuration.
// The expression is compiled once at construction; evaluation failures at
// run time are handled per the OnError mode.
func NewMatchFromConfig(config MatchConfig) (*MatchModule, error) {
	if isWhitespaceOnly(config.Expression) {
		return nil, ErrEmptyExpression
	}

	onMatch := config.OnMatch
	if onMatch == "" {
		onMatch = OnMatchContinue
	}
	onMiss := config.OnMiss
	if onMiss == "" {
		onMiss = OnMatchDrop
	}
	for _, v := range []string{onMatch, onMiss} {
		if v != OnMatchContinue && v != OnMatchDrop {
			return nil, fmt.Errorf("invalid routing value %q: must be %q or %q", v, OnMatchContinue, OnMatchDrop)
		}
	}

	onError := config.OnError
	if onError == "" {
		onError = OnErrorFail
	}
	if onError != OnErrorFail && onError != OnErrorKeep && onError != OnErrorDrop {
		logger.Warn("invalid onError value for match stage; defaulting to fail",
			slog.String("on_error", onError),
		)
		onError = OnErrorFail
	}

	program, err := expr.Compile(config.Expression,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	return &MatchModule{
		expression: config.Expression,
		onMatch:    onMatch,
		onMiss:     onMiss,
		onError:    onError,
		program:    program,
	}, nil
}

// Process implements the stage.Module interface.
func (m *MatchModule) Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error) {
	select {
	case <-ctx.Done():
		return line, false, ctx.Err()
	default:
	}

	env := map[string]interface{}{
		"text":   line.Text,
		"number": line.Number,
	}

	out, err := expr.Run(m.program, env)
	if err != nil {
		return m.handleError(line, errhandling.NewStageError(
			ErrCodeEvaluationFailed,
			fmt.Sprintf("expression evaluation failed at line %d: %v", line.Number, err),
			err,
		))
	}

	matched, ok := out.(bool)
	if !ok {
		return m.handleError(line, errhandling.NewStageError(
			ErrCodeNotBoolean,
			fmt.Sprintf("expression did not evaluate to a boolean at line %d (got %T)", line.Number, out),
			nil,
		))
	}

	if matched {
		return line, m.onMatch == OnMatchContinue, nil
	}
	return line, m.onMiss == OnMatchContinue, nil
}

// handleError applies the configured error handling mode.
func (m *MatchModule) handleError(line linepipe.Line, err error) (linepipe.Line, bool, error) {
	switch m.onError {
	case OnErrorKeep:
		logger.Warn("match stage error; keeping line",
			slog.Int("line", line.Number),
			slog.String("error", err.Error()),
		)
		return line, true, nil
	case OnErrorDrop:
		logger.Warn("match stage error; dropping line",
			slog.Int("line", line.Number),
			slog.String("error", err.Error()),
		)
		return line, false, nil
	default:
		return line, false, err
	}
}

// ParseMatchConfig parses a raw configuration map into MatchConfig.
func ParseMatchConfig(config map[string]interface{}) (MatchConfig, error) {
	var cfg MatchConfig

	expression, ok := config["expression"].(string)
	if !ok || isWhitespaceOnly(expression) {
		return cfg, errors.New("'expression' is required")
	}
	cfg.Expression = expression

	if v, ok := config["onMatch"].(string); ok {
		cfg.OnMatch = v
	}
	if v, ok := config["onMiss"].(string); ok {
		cfg.OnMiss = v
	}
	if v, ok := config["onError"].(string); ok {
		cfg.OnError = v
	}

	return cfg, nil
}

// Verify interface compliance at compile time
var _ Module = (*MatchModule)(nil)
