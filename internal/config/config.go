package config

import (
	"fmt"
	"path/filepath"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// Loader is responsible for loading pipeline configurations from files.
type Loader struct {
	// basePath is the base directory for configuration files
	basePath string
}

// NewLoader creates a new configuration loader.
// basePath may be empty, in which case paths are used as given.
func NewLoader(basePath string) *Loader {
	return &Loader{
		basePath: basePath,
	}
}

// Load reads, parses, validates, and converts a pipeline configuration file.
// Supports JSON, JSONC, and YAML formats.
func (l *Loader) Load(path string) (*linepipe.Pipeline, error) {
	if l.basePath != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.basePath, path)
	}

	result := ParseConfig(path)
	if !result.IsValid() {
		errs := result.AllErrors()
		return nil, fmt.Errorf("invalid configuration %s: %w", path, errs[0])
	}

	return ConvertToPipeline(result.Data)
}
