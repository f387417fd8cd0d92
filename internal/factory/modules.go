// Package factory provides module creation functions for the pipeline runtime.
// It centralizes the logic for instantiating source, stage, and sink modules
// from their configuration using the module registry.
//
// # Module Creation
//
// The factory uses the registry package to look up module constructors by type.
// Built-in modules (stdin, file, exclude, match, script, replace, render,
// stdout) are registered automatically at startup. Unknown types are an error:
// a typo in a stage type must fail the run, not silently pass lines through.
//
// # Adding New Module Types
//
// To add a new module type, see the documentation in internal/registry.
// You do NOT need to modify this factory; just register your constructor.
package factory

import (
	"fmt"

	"github.com/linefilter/runtime/internal/modules/sink"
	"github.com/linefilter/runtime/internal/modules/source"
	"github.com/linefilter/runtime/internal/modules/stage"
	"github.com/linefilter/runtime/internal/registry"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// CreateSourceModule creates a source module instance from configuration.
// A nil configuration defaults to stdin.
func CreateSourceModule(cfg *linepipe.ModuleConfig) (source.Module, error) {
	if cfg == nil {
		cfg = &linepipe.ModuleConfig{Type: "stdin"}
	}

	constructor := registry.GetSourceConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown source type %q (registered: %v)", cfg.Type, registry.ListSourceTypes())
	}
	return constructor(cfg)
}

// CreateStageModules creates stage module instances from configuration.
func CreateStageModules(cfgs []linepipe.ModuleConfig) ([]stage.Module, error) {
	if len(cfgs) == 0 {
		return nil, nil
	}

	modules := make([]stage.Module, 0, len(cfgs))
	for i, cfg := range cfgs {
		constructor := registry.GetStageConstructor(cfg.Type)
		if constructor == nil {
			return nil, fmt.Errorf("unknown stage type %q at index %d (registered: %v)",
				cfg.Type, i, registry.ListStageTypes())
		}
		module, err := constructor(cfg, i)
		if err != nil {
			return nil, fmt.Errorf("invalid %s config at index %d: %w", cfg.Type, i, err)
		}
		modules = append(modules, module)
	}
	return modules, nil
}

// CreateSinkModule creates a sink module instance from configuration.
// A nil configuration defaults to stdout.
func CreateSinkModule(cfg *linepipe.ModuleConfig) (sink.Module, error) {
	if cfg == nil {
		cfg = &linepipe.ModuleConfig{Type: "stdout"}
	}

	constructor := registry.GetSinkConstructor(cfg.Type)
	if constructor == nil {
		return nil, fmt.Errorf("unknown sink type %q (registered: %v)", cfg.Type, registry.ListSinkTypes())
	}
	return constructor(cfg)
}

// CreateModules creates all modules for a pipeline in one call.
func CreateModules(p *linepipe.Pipeline) (source.Module, []stage.Module, sink.Module, error) {
	src, err := CreateSourceModule(p.Source)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("source: %w", err)
	}

	stages, err := CreateStageModules(p.Stages)
	if err != nil {
		src.Close()
		return nil, nil, nil, fmt.Errorf("stages: %w", err)
	}

	snk, err := CreateSinkModule(p.Sink)
	if err != nil {
		src.Close()
		return nil, nil, nil, fmt.Errorf("sink: %w", err)
	}

	return src, stages, snk, nil
}
