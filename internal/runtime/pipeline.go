// Package runtime provides the pipeline execution engine.
// It orchestrates the streaming flow of lines through Source, Stage, and
// Sink modules: one line is read, tested, and conditionally written before
// the next is touched, so memory use is independent of input size.
package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/internal/modules/sink"
	"github.com/linefilter/runtime/internal/modules/source"
	"github.com/linefilter/runtime/internal/modules/stage"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// Error codes for pipeline execution errors
const (
	ErrCodeSourceFailed = "SOURCE_FAILED"
	ErrCodeStageFailed  = "STAGE_FAILED"
	ErrCodeSinkFailed   = "SINK_FAILED"
)

// Execution status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Common errors
var (
	// ErrNilPipeline is returned when the pipeline configuration is nil
	ErrNilPipeline = errors.New("pipeline configuration is nil")

	// ErrNilSourceModule is returned when the source module is nil
	ErrNilSourceModule = errors.New("source module is nil")

	// ErrNilSinkModule is returned when the sink module is nil
	ErrNilSinkModule = errors.New("sink module is nil")
)

// Executor runs a pipeline: it pulls lines from the source, passes each
// through the stage chain in order, and writes survivors to the sink.
//
// The Executor only interacts with modules through their public interfaces,
// enforcing module boundaries at compile time. Stage decisions are strictly
// per-line: the outcome for line N never depends on any other line.
type Executor struct {
	sourceModule source.Module
	stageModules []stage.Module
	sinkModule   sink.Module
	dryRun       bool
}

// NewExecutor creates a new pipeline executor with only the dry-run flag.
// Modules must be set via NewExecutorWithModules for actual runs.
func NewExecutor(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun}
}

// NewExecutorWithModules creates a new pipeline executor with all modules
// configured. This is the primary constructor for dependency injection.
//
// Parameters:
//   - sourceModule: yields the input lines
//   - stageModules: optional chain of line stages (can be nil)
//   - sinkModule: receives retained lines
//   - dryRun: if true, lines are counted but never written to the sink
func NewExecutorWithModules(
	sourceModule source.Module,
	stageModules []stage.Module,
	sinkModule sink.Module,
	dryRun bool,
) *Executor {
	return &Executor{
		sourceModule: sourceModule,
		stageModules: stageModules,
		sinkModule:   sinkModule,
		dryRun:       dryRun,
	}
}

// Execute runs the pipeline to source exhaustion.
// The returned RunResult is always non-nil and reflects work done up to the
// point of failure; output already written stays written.
func (e *Executor) Execute(ctx context.Context, p *linepipe.Pipeline) (*linepipe.RunResult, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	if e.sourceModule == nil {
		return nil, ErrNilSourceModule
	}
	if e.sinkModule == nil {
		return nil, ErrNilSinkModule
	}

	result := &linepipe.RunResult{
		PipelineID: p.ID,
		Status:     StatusSuccess,
		StartedAt:  time.Now(),
	}

	log := logger.WithPipeline(p.ID)
	log.Info("run started",
		slog.Int("stages", len(e.stageModules)),
		slog.Bool("dry_run", e.dryRun),
	)

	runErr := e.stream(ctx, result)

	if closeErr := e.sourceModule.Close(); closeErr != nil && runErr == nil {
		runErr = errhandling.NewIOError("CLOSE_FAILED", "failed to close source", closeErr)
		result.Error = &linepipe.RunError{
			Module:     "source",
			StageIndex: -1,
			Code:       ErrCodeSourceFailed,
			Message:    runErr.Error(),
		}
	}
	if closeErr := e.sinkModule.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
		result.Error = &linepipe.RunError{
			Module:     "sink",
			StageIndex: -1,
			Code:       ErrCodeSinkFailed,
			Message:    closeErr.Error(),
		}
	}

	result.CompletedAt = time.Now()
	if runErr != nil {
		result.Status = StatusError
		log.Error("run failed",
			slog.String("error", runErr.Error()),
			slog.String("category", string(errhandling.Classify(runErr))),
			slog.Int("lines_read", result.LinesRead),
		)
		return result, runErr
	}

	log.Info("run completed",
		slog.Int("lines_read", result.LinesRead),
		slog.Int("lines_dropped", result.LinesDropped),
		slog.Int("lines_written", result.LinesWritten),
		slog.Duration("duration", result.CompletedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// stream is the per-line read → filter → write loop.
func (e *Executor) stream(ctx context.Context, result *linepipe.RunResult) error {
	for {
		line, err := e.sourceModule.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			result.Error = &linepipe.RunError{
				Module:     "source",
				StageIndex: -1,
				Code:       ErrCodeSourceFailed,
				Message:    err.Error(),
				Line:       result.LinesRead + 1,
			}
			return err
		}
		result.LinesRead++

		keep := true
		for i, stageModule := range e.stageModules {
			if stageModule == nil {
				logger.Warn("nil stage module encountered; skipping",
					slog.Int("stage_index", i),
				)
				continue
			}

			line, keep, err = stageModule.Process(ctx, line)
			if err != nil {
				result.Error = &linepipe.RunError{
					Module:     "stage",
					StageIndex: i,
					Code:       ErrCodeStageFailed,
					Message:    err.Error(),
					Line:       line.Number,
				}
				return err
			}
			if !keep {
				break
			}
		}

		if !keep {
			result.LinesDropped++
			continue
		}

		if e.dryRun {
			result.LinesWritten++
			continue
		}

		if err := e.sinkModule.Write(ctx, line); err != nil {
			result.Error = &linepipe.RunError{
				Module:     "sink",
				StageIndex: -1,
				Code:       ErrCodeSinkFailed,
				Message:    err.Error(),
				Line:       line.Number,
			}
			return err
		}
		result.LinesWritten++
	}
}
