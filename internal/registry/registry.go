// Package registry provides module registries for source, stage, and sink modules.
//
// # Overview
//
// The registry enables extensible module registration for the linefilter
// runtime. Instead of hard-coded switch statements, modules register their
// constructors by type string, so new module types can be added without
// modifying core factory code.
//
// # Adding a New Module
//
// To add a new module type (e.g., a "gzip" source):
//
//  1. Implement the appropriate interface (source.Module, stage.Module, or sink.Module)
//  2. Create a constructor function matching the registry signature
//  3. Register the constructor in an init() function
//
// # Built-in Modules
//
// Built-in modules (stdin, file, exclude, match, script, replace, render,
// stdout) are registered automatically at startup via init().
package registry

import (
	"sync"

	"github.com/linefilter/runtime/internal/modules/sink"
	"github.com/linefilter/runtime/internal/modules/source"
	"github.com/linefilter/runtime/internal/modules/stage"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// SourceConstructor is a function that creates a source module from configuration.
type SourceConstructor func(cfg *linepipe.ModuleConfig) (source.Module, error)

// StageConstructor is a function that creates a stage module from configuration.
// The constructor receives the ModuleConfig and the stage's index in the pipeline.
type StageConstructor func(cfg linepipe.ModuleConfig, index int) (stage.Module, error)

// SinkConstructor is a function that creates a sink module from configuration.
type SinkConstructor func(cfg *linepipe.ModuleConfig) (sink.Module, error)

var (
	sourceMu       sync.RWMutex
	sourceRegistry = make(map[string]SourceConstructor)
)

var (
	stageMu       sync.RWMutex
	stageRegistry = make(map[string]StageConstructor)
)

var (
	sinkMu       sync.RWMutex
	sinkRegistry = make(map[string]SinkConstructor)
)

// RegisterSource registers a source module constructor by type string.
// Registering an already registered type overwrites the previous constructor.
// Safe for concurrent use; typically called from init() functions.
func RegisterSource(moduleType string, constructor SourceConstructor) {
	sourceMu.Lock()
	defer sourceMu.Unlock()
	sourceRegistry[moduleType] = constructor
}

// RegisterStage registers a stage module constructor by type string.
// Registering an already registered type overwrites the previous constructor.
// Safe for concurrent use; typically called from init() functions.
func RegisterStage(moduleType string, constructor StageConstructor) {
	stageMu.Lock()
	defer stageMu.Unlock()
	stageRegistry[moduleType] = constructor
}

// RegisterSink registers a sink module constructor by type string.
// Registering an already registered type overwrites the previous constructor.
// Safe for concurrent use; typically called from init() functions.
func RegisterSink(moduleType string, constructor SinkConstructor) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	sinkRegistry[moduleType] = constructor
}

// GetSourceConstructor returns the registered constructor for a source module type.
// Returns nil if no constructor is registered for the given type.
func GetSourceConstructor(moduleType string) SourceConstructor {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	return sourceRegistry[moduleType]
}

// GetStageConstructor returns the registered constructor for a stage module type.
// Returns nil if no constructor is registered for the given type.
func GetStageConstructor(moduleType string) StageConstructor {
	stageMu.RLock()
	defer stageMu.RUnlock()
	return stageRegistry[moduleType]
}

// GetSinkConstructor returns the registered constructor for a sink module type.
// Returns nil if no constructor is registered for the given type.
func GetSinkConstructor(moduleType string) SinkConstructor {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	return sinkRegistry[moduleType]
}

// ListSourceTypes returns all registered source module type names.
func ListSourceTypes() []string {
	sourceMu.RLock()
	defer sourceMu.RUnlock()
	types := make([]string, 0, len(sourceRegistry))
	for t := range sourceRegistry {
		types = append(types, t)
	}
	return types
}

// ListStageTypes returns all registered stage module type names.
func ListStageTypes() []string {
	stageMu.RLock()
	defer stageMu.RUnlock()
	types := make([]string, 0, len(stageRegistry))
	for t := range stageRegistry {
		types = append(types, t)
	}
	return types
}

// ListSinkTypes returns all registered sink module type names.
func ListSinkTypes() []string {
	sinkMu.RLock()
	defer sinkMu.RUnlock()
	types := make([]string, 0, len(sinkRegistry))
	for t := range sinkRegistry {
		types = append(types, t)
	}
	return types
}
