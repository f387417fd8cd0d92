package source

import (
	"context"
	"errors"
	"os"

	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// FileConfig represents the configuration for a file source module.
type FileConfig struct {
	// Path is the file to read lines from (required)
	Path string `json:"path"`
}

// FileModule reads lines from a file on disk.
type FileModule struct {
	file   *os.File
	reader *lineReader
}

// NewFileFromConfig creates a file source module from configuration.
// The file is opened immediately so that a missing path fails at build
// time rather than on the first Next call.
func NewFileFromConfig(config FileConfig) (*FileModule, error) {
	if config.Path == "" {
		return nil, errors.New("'path' is required")
	}

	f, err := os.Open(config.Path)
	if err != nil {
		return nil, errhandling.NewIOError("OPEN_FAILED", "failed to open source file", err)
	}

	return &FileModule{file: f, reader: newLineReader(f)}, nil
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
	return cfg, nil
}

// Next implements the source.Module interface.
func (m *FileModule) Next(ctx context.Context) (linepipe.Line, error) {
	return m.reader.Next(ctx)
}

// Close implements the source.Module interface.
func (m *FileModule) Close() error {
	return m.file.Close()
}

// Verify FileModule implements source.Module
var _ Module = (*FileModule)(nil)
