package sink

import (
	"bufio"
	"context"
	"errors"
	"os"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// FileConfig represents the configuration for a file sink module.
type FileConfig struct {
	// Path is the file to write lines to (required)
	Path string `json:"path"`
	// Append opens the file in append mode instead of truncating
	Append bool `json:"append,omitempty"`
}

// FileModule writes lines to a file on disk through a buffered writer.
type FileModule struct {
	file *os.File
	bw   *bufio.Writer
}

// NewFileFromConfig creates a file sink module from configuration.
func NewFileFromConfig(config FileConfig) (*FileModule, error) {
	if config.Path == "" {
		return nil, errors.New("'path' is required")
	}

	flags := os.O_CREATE | os.O_WRONLY
	if config.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(config.Path, flags, 0o644)
	if err != nil {
		return nil, errhandling.NewIOError("OPEN_FAILED", "failed to open sink file", err)
	}

	return &FileModule{file: f, bw: bufio.NewWriter(f)}, nil
}

// ParseFileConfig parses a raw configuration map into FileConfig.
func ParseFileConfig(config map[string]interface{}) (FileConfig, error) {
	var cfg FileConfig
	if path, ok := config["path"].(string); ok {
		cfg.Path = path
	}
	if cfg.Path == "" {
		return cfg, errors.New("'path' is required")
	}
	if v, ok := config["append"].(bool); ok {
		cfg.Append = v
	}
	return cfg, nil
}

// Write implements the sink.Module interface.
func (m *FileModule) Write(ctx context.Context, line linepipe.Line) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, err := m.bw.WriteString(line.Raw()); err != nil {
		return errhandling.NewIOError("WRITE_FAILED", "failed to write line", err)
	}
	return nil
}

// Close implements the sink.Module interface.
func (m *FileModule) Close() error {
	if err := m.bw.Flush(); err != nil {
		m.file.Close()
		return errhandling.NewIOError("FLUSH_FAILED", "failed to flush sink file", err)
	}
	return m.file.Close()
}

// Verify FileModule implements sink.Module
var _ Module = (*FileModule)(nil)
