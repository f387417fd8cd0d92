package config

import (
	"fmt"
	"time"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// ConvertToPipeline converts parsed configuration data to a Pipeline struct.
// The input data should have been validated against the schema before calling this function.
//
// The configuration is expected to have this structure:
//
//	{
//	  "schemaVersion": "1.0.0",
//	  "pipeline": {
//	    "name": "...",
//	    "version": "...",
//	    "source": {...},
//	    "stages": [...],
//	    "sink": {...}
//	  }
//	}
//
// Source and sink are optional; the factory defaults them to stdin and stdout.
func ConvertToPipeline(data map[string]interface{}) (*linepipe.Pipeline, error) {
	if data == nil {
		return nil, fmt.Errorf("configuration data is nil")
	}

	pipelineData, ok := data["pipeline"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'pipeline' section")
	}

	pipeline := &linepipe.Pipeline{
		Enabled:   true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	var name string
	if name, ok = pipelineData["name"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'pipeline.name'")
	}
	pipeline.Name = name
	// Use name as ID if not specified
	pipeline.ID = name

	var version string
	if version, ok = pipelineData["version"].(string); !ok {
		return nil, fmt.Errorf("missing required field 'pipeline.version'")
	}
	pipeline.Version = version

	if description, okDesc := pipelineData["description"].(string); okDesc {
		pipeline.Description = description
	}

	if id, okID := pipelineData["id"].(string); okID {
		pipeline.ID = id
	}

	// Source is optional; nil means the factory provides stdin
	if sourceData, okSource := pipelineData["source"].(map[string]interface{}); okSource {
		sourceConfig, err := convertModuleConfig(sourceData)
		if err != nil {
			return nil, fmt.Errorf("invalid source config: %w", err)
		}
		pipeline.Source = sourceConfig
	}

	if stagesData, okStages := pipelineData["stages"].([]interface{}); okStages {
		for i, stageData := range stagesData {
			stageMap, isMap := stageData.(map[string]interface{})
			if !isMap {
				return nil, fmt.Errorf("invalid stage at index %d", i)
			}
			stageConfig, convertErr := convertModuleConfig(stageMap)
			if convertErr != nil {
				return nil, fmt.Errorf("invalid stage at index %d: %w", i, convertErr)
			}
			pipeline.Stages = append(pipeline.Stages, *stageConfig)
		}
	}

	// Sink is optional; nil means the factory provides stdout
	if sinkData, okSink := pipelineData["sink"].(map[string]interface{}); okSink {
		sinkConfig, err := convertModuleConfig(sinkData)
		if err != nil {
			return nil, fmt.Errorf("invalid sink config: %w", err)
		}
		pipeline.Sink = sinkConfig
	}

	return pipeline, nil
}

// convertModuleConfig converts a raw module configuration map to ModuleConfig.
func convertModuleConfig(data map[string]interface{}) (*linepipe.ModuleConfig, error) {
	moduleConfig := &linepipe.ModuleConfig{
		Config: make(map[string]interface{}),
	}

	moduleType, ok := data["type"].(string)
	if !ok {
		return nil, fmt.Errorf("missing required field 'type'")
	}
	moduleConfig.Type = moduleType

	// Copy all fields except 'type' to Config
	for key, value := range data {
		if key != "type" {
			moduleConfig.Config[key] = value
		}
	}

	return moduleConfig, nil
}
