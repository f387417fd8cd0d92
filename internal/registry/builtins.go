// Package registry provides module registries for the linefilter runtime.
// This file registers all built-in modules during initialization.
package registry

import (
	"github.com/linefilter/runtime/internal/modules/sink"
	"github.com/linefilter/runtime/internal/modules/source"
	"github.com/linefilter/runtime/internal/modules/stage"
	"github.com/linefilter/runtime/pkg/linepipe"
)

func init() {
	RegisterSource("stdin", newStdinSource)
	RegisterSource("file", newFileSource)

	RegisterStage("exclude", newExcludeStage)
	RegisterStage("match", newMatchStage)
	RegisterStage("script", newScriptStage)
	RegisterStage("replace", newReplaceStage)
	RegisterStage("render", newRenderStage)

	RegisterSink("stdout", newStdoutSink)
	RegisterSink("file", newFileSink)
}

func newStdinSource(_ *linepipe.ModuleConfig) (source.Module, error) {
	return source.NewStdin(), nil
}

func newFileSource(cfg *linepipe.ModuleConfig) (source.Module, error) {
	parsed, err := source.ParseFileConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return source.NewFileFromConfig(parsed)
}

func newExcludeStage(cfg linepipe.ModuleConfig, _ int) (stage.Module, error) {
	parsed, err := stage.ParseExcludeConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return stage.NewExcludeFromConfig(parsed)
}

func newMatchStage(cfg linepipe.ModuleConfig, _ int) (stage.Module, error) {
	parsed, err := stage.ParseMatchConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return stage.NewMatchFromConfig(parsed)
}

func newScriptStage(cfg linepipe.ModuleConfig, _ int) (stage.Module, error) {
	parsed, err := stage.ParseScriptConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return stage.NewScriptFromConfig(parsed)
}

func newReplaceStage(cfg linepipe.ModuleConfig, _ int) (stage.Module, error) {
	parsed, err := stage.ParseReplaceConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return stage.NewReplaceFromConfig(parsed)
}

func newRenderStage(cfg linepipe.ModuleConfig, _ int) (stage.Module, error) {
	parsed, err := stage.ParseRenderConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return stage.NewRenderFromConfig(parsed)
}

func newStdoutSink(_ *linepipe.ModuleConfig) (sink.Module, error) {
	return sink.NewStdout(), nil
}

func newFileSink(cfg *linepipe.ModuleConfig) (sink.Module, error) {
	parsed, err := sink.ParseFileConfig(cfg.Config)
	if err != nil {
		return nil, err
	}
	return sink.NewFileFromConfig(parsed)
}
