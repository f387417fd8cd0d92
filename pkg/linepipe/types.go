// Package linepipe provides public types for line pipeline configurations.
// This package is intended to be importable by external projects that need
// to interact with the linefilter runtime.
package linepipe

import "time"

// Line is a single line of text flowing through a pipeline.
//
// Text holds the line content without its terminator; EOL holds the
// original terminator verbatim ("\n", "\r\n", or "" for an unterminated
// final line). Writing Text followed by EOL reproduces the source bytes
// exactly.
type Line struct {
	// Number is the 1-based position of the line in the source stream
	Number int

	// Text is the line content without the terminator
	Text string

	// EOL is the original line terminator, preserved verbatim
	EOL string
}

// Raw returns the line as it appeared in the source, terminator included.
func (l Line) Raw() string {
	return l.Text + l.EOL
}

// Pipeline represents a complete line pipeline configuration.
// It contains the Source, Stages, and Sink modules plus metadata
// required to run a text stream through the filter chain.
type Pipeline struct {
	// ID is the unique identifier for this pipeline
	ID string `json:"id"`

	// Name is the human-readable name of the pipeline
	Name string `json:"name"`

	// Description provides additional context about the pipeline
	Description string `json:"description,omitempty"`

	// Version is the pipeline configuration version
	Version string `json:"version"`

	// Source defines where lines are read from (defaults to stdin)
	Source *ModuleConfig `json:"source,omitempty"`

	// Stages is an ordered list of line transformation/filter modules
	Stages []ModuleConfig `json:"stages,omitempty"`

	// Sink defines where retained lines are written (defaults to stdout)
	Sink *ModuleConfig `json:"sink,omitempty"`

	// Enabled indicates whether the pipeline is active
	Enabled bool `json:"enabled"`

	// CreatedAt is when the pipeline was created
	CreatedAt time.Time `json:"createdAt,omitempty"`

	// UpdatedAt is when the pipeline was last modified
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ModuleConfig represents the configuration for a pipeline module.
// Modules can be Source, Stage, or Sink types.
type ModuleConfig struct {
	// Type identifies the module type (e.g., "stdin", "exclude", "stdout")
	Type string `json:"type"`

	// Config contains the module-specific configuration
	Config map[string]interface{} `json:"config"`
}

// RunResult represents the result of a pipeline run.
type RunResult struct {
	// PipelineID is the ID of the executed pipeline
	PipelineID string `json:"pipelineId"`

	// Status is the run status ("success" or "error")
	Status string `json:"status"`

	// StartedAt is when the run started
	StartedAt time.Time `json:"startedAt"`

	// CompletedAt is when the run completed
	CompletedAt time.Time `json:"completedAt"`

	// LinesRead is the number of lines consumed from the source
	LinesRead int `json:"linesRead"`

	// LinesDropped is the number of lines discarded by stages
	LinesDropped int `json:"linesDropped"`

	// LinesWritten is the number of lines emitted to the sink
	LinesWritten int `json:"linesWritten"`

	// Error contains error details if the run failed
	Error *RunError `json:"error,omitempty"`
}

// RunError represents an error that occurred during a pipeline run.
type RunError struct {
	// Module identifies where the error occurred ("source", "stage", "sink")
	Module string `json:"module"`

	// StageIndex is the index of the failing stage (-1 if not a stage error)
	StageIndex int `json:"stageIndex"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is the human-readable error message
	Message string `json:"message"`

	// Line is the 1-based number of the line being processed (0 if unknown)
	Line int `json:"line,omitempty"`
}
