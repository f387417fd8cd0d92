// Package stage provides implementations for stage modules.
// The script stage rewrites or drops lines using a user-supplied JavaScript
// transform executed with the Goja engine.
package stage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dop251/goja"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// Error codes for script stage
const (
	ErrCodeScriptEmpty       = "SCRIPT_EMPTY"
	ErrCodeScriptTooLong     = "SCRIPT_TOO_LONG"
	ErrCodeCompilationFailed = "COMPILATION_FAILED"
	ErrCodeMissingTransform  = "MISSING_TRANSFORM"
	ErrCodeNotFunction       = "NOT_FUNCTION"
	ErrCodeExecutionFailed   = "EXECUTION_FAILED"
	ErrCodeBadReturnType     = "BAD_RETURN_TYPE"
)

// MaxScriptLength is the maximum allowed script length in bytes (100KB).
const MaxScriptLength = 100 * 1024

// Common errors for script stage
var (
	// ErrScriptEmpty is returned when the script is empty or whitespace-only
	ErrScriptEmpty = errors.New("script cannot be empty")
	// ErrScriptTooLong is returned when the script exceeds MaxScriptLength
	ErrScriptTooLong = errors.New("script exceeds maximum length")
	// ErrMissingTransformFunc is returned when the script doesn't define a transform function
	ErrMissingTransformFunc = errors.New("transform function not found in script")
	// ErrTransformNotFunction is returned when transform is defined but is not a function
	ErrTransformNotFunction = errors.New("transform is not a function")
)

// ScriptConfig represents the configuration for a script stage.
// Either Script or ScriptFile must be provided (but not both).
type ScriptConfig struct {
	// Script is inline JavaScript source defining transform(text, number)
	Script string `json:"script,omitempty"`
	// ScriptFile is the path to a JavaScript file defining transform(text, number)
	ScriptFile string `json:"scriptFile,omitempty"`
	// OnError specifies error handling mode: "fail" (default), "keep", "drop"
	OnError string `json:"onError,omitempty"`
}

// ScriptModule executes a JavaScript transform per line.
//
// The transform receives (text, number) and its return value decides the
// line's fate: a string rewrites the line text, null or undefined drops the
// line, anything else is an error.
//
// Thread safety: Goja runtimes are not goroutine-safe. Each ScriptModule
// owns its runtime and Process must not be called concurrently on the same
// instance.
type ScriptModule struct {
	onError     string
	runtime     *goja.Runtime
	transformFn goja.Callable
}

// NewScriptFromConfig creates a script stage from configuration.
// The script is validated, compiled, and the transform function resolved
// at construction time.
func NewScriptFromConfig(config ScriptConfig) (*ScriptModule, error) {
	src, err := resolveScriptSource(config)
	if err != nil {
		return nil, err
	}

	onError := config.OnError
	if onError == "" {
		onError = OnErrorFail
	}
	if onError != OnErrorFail && onError != OnErrorKeep && onError != OnErrorDrop {
		logger.Warn("invalid onError value for script stage; defaulting to fail",
			slog.String("on_error", onError),
		)
		onError = OnErrorFail
	}

	prog, err := goja.Compile("transform.js", src, true)
	if err != nil {
		return nil, errhandling.NewStageError(ErrCodeCompilationFailed,
			fmt.Sprintf("script compilation failed: %v", err), err)
	}

	rt := goja.New()
	if _, err := rt.RunProgram(prog); err != nil {
		return nil, errhandling.NewStageError(ErrCodeCompilationFailed,
			fmt.Sprintf("script initialization failed: %v", err), err)
	}

	transformVal := rt.Get("transform")
	if transformVal == nil || goja.IsUndefined(transformVal) || goja.IsNull(transformVal) {
		return nil, errhandling.NewStageError(ErrCodeMissingTransform,
			ErrMissingTransformFunc.Error(), ErrMissingTransformFunc)
	}

	transformFn, ok := goja.AssertFunction(transformVal)
	if !ok {
		return nil, errhandling.NewStageError(ErrCodeNotFunction,
			ErrTransformNotFunction.Error(), ErrTransformNotFunction)
	}

	return &ScriptModule{
		onError:     onError,
		runtime:     rt,
		transformFn: transformFn,
	}, nil
}

// resolveScriptSource returns the script source from inline config or file.
func resolveScriptSource(config ScriptConfig) (string, error) {
	if config.Script != "" && config.ScriptFile != "" {
		return "", errors.New("'script' and 'scriptFile' are mutually exclusive")
	}

	src := config.Script
	if config.ScriptFile != "" {
		content, err := os.ReadFile(config.ScriptFile)
		if err != nil {
			return "", errhandling.NewIOError("SCRIPT_READ_FAILED",
				fmt.Sprintf("failed to read script file: %v", err), err)
		}
		src = string(content)
	}

	if strings.TrimSpace(src) == "" {
		return "", errhandling.NewStageError(ErrCodeScriptEmpty, ErrScriptEmpty.Error(), ErrScriptEmpty)
	}
	if len(src) > MaxScriptLength {
		return "", errhandling.NewStageError(ErrCodeScriptTooLong, ErrScriptTooLong.Error(), ErrScriptTooLong)
	}
	return src, nil
}

// Process implements the stage.Module interface.
func (m *ScriptModule) Process(ctx context.Context, line linepipe.Line) (linepipe.Line, bool, error) {
	select {
	case <-ctx.Done():
		return line, false, ctx.Err()
	default:
	}

	// Interrupt JavaScript execution if the context is canceled mid-call.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			m.runtime.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	v, err := m.transformFn(goja.Undefined(),
		m.runtime.ToValue(line.Text),
		m.runtime.ToValue(line.Number),
	)
	close(done)
	m.runtime.ClearInterrupt()

	if err != nil {
		return m.handleError(line, errhandling.NewStageError(
			ErrCodeExecutionFailed,
			fmt.Sprintf("transform failed at line %d: %v", line.Number, err),
			err,
		))
	}

	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return line, false, nil
	}

	text, ok := v.Export().(string)
	if !ok {
		return m.handleError(line, errhandling.NewStageError(
			ErrCodeBadReturnType,
			fmt.Sprintf("transform returned %T at line %d: expected string, null, or undefined", v.Export(), line.Number),
			nil,
		))
	}

	line.Text = text
	return line, true, nil
}

// handleError applies the configured error handling mode.
func (m *ScriptModule) handleError(line linepipe.Line, err error) (linepipe.Line, bool, error) {
	switch m.onError {
	case OnErrorKeep:
		logger.Warn("script stage error; keeping line",
			slog.Int("line", line.Number),
			slog.String("error", err.Error()),
		)
		return line, true, nil
	case OnErrorDrop:
		logger.Warn("script stage error; dropping line",
			slog.Int("line", line.Number),
			slog.String("error", err.Error()),
		)
		return line, false, nil
	default:
		return line, false, err
	}
}

// ParseScriptConfig parses a raw configuration map into ScriptConfig.
func ParseScriptConfig(config map[string]interface{}) (ScriptConfig, error) {
	var cfg ScriptConfig

	if v, ok := config["script"].(string); ok {
		cfg.Script = v
	}
	if v, ok := config["scriptFile"].(string); ok {
		cfg.ScriptFile = v
	}
	if v, ok := config["onError"].(string); ok {
		cfg.OnError = v
	}

	if cfg.Script == "" && cfg.ScriptFile == "" {
		return cfg, errors.New("'script' or 'scriptFile' is required")
	}
	return cfg, nil
}

// Verify interface compliance at compile time
var _ Module = (*ScriptModule)(nil)
