package errhandling

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestClassifiedErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ClassifiedError
		want string
	}{
		{
			name: "with code",
			err:  NewIOError("READ_FAILED", "cannot read stream", nil),
			want: "io error [READ_FAILED]: cannot read stream",
		},
		{
			name: "without code",
			err:  &ClassifiedError{Category: CategoryStage, Message: "bad expression"},
			want: "stage error: bad expression",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewIOError("WRITE_FAILED", "cannot write line", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, CategoryUnknown},
		{"classified io", NewIOError("READ_FAILED", "boom", nil), CategoryIO},
		{"classified config", NewConfigError("PARSE_FAILED", "boom", nil), CategoryConfig},
		{"classified stage wrapped", fmt.Errorf("stage 2: %w", NewStageError("EVAL_FAILED", "boom", nil)), CategoryStage},
		{"canceled", context.Canceled, CategoryInterrupt},
		{"deadline", context.DeadlineExceeded, CategoryInterrupt},
		{"wrapped canceled", fmt.Errorf("run aborted: %w", context.Canceled), CategoryInterrupt},
		{"path error", &fs.PathError{Op: "open", Path: "missing.txt", Err: fs.ErrNotExist}, CategoryIO},
		{"plain error", errors.New("something"), CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInterrupt(t *testing.T) {
	if !IsInterrupt(context.Canceled) {
		t.Error("context.Canceled should classify as interrupt")
	}
	if IsInterrupt(errors.New("other")) {
		t.Error("plain error should not classify as interrupt")
	}
}

func TestClassifyKeepsMostSpecificCategory(t *testing.T) {
	// A classified error that wraps a cancellation keeps its own category.
	err := NewStageError("EVAL_FAILED", "interrupted", context.Canceled)
	if got := Classify(err); got != CategoryStage {
		t.Errorf("Classify() = %q, want %q", got, CategoryStage)
	}
	if !strings.Contains(err.Error(), "EVAL_FAILED") {
		t.Errorf("expected code in message, got %q", err.Error())
	}
}
