package config

import (
	"strings"
	"testing"
)

func validPipelineData() map[string]interface{} {
	return map[string]interface{}{
		"schemaVersion": "1.0.0",
		"pipeline": map[string]interface{}{
			"name":    "readme-cleanup",
			"version": "1.0.0",
			"stages": []interface{}{
				map[string]interface{}{
					"type":   "exclude",
					"preset": "image-markup",
				},
			},
		},
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	result := ValidateConfig(validPipelineData())

	if !result.Valid {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
}

func TestValidateConfig_MinimalPipeline(t *testing.T) {
	// Source, stages, and sink are all optional.
	data := map[string]interface{}{
		"pipeline": map[string]interface{}{
			"name":    "passthrough",
			"version": "0.1.0",
		},
	}

	result := ValidateConfig(data)
	if !result.Valid {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
}

func TestValidateConfig_NilData(t *testing.T) {
	result := ValidateConfig(nil)

	if result.Valid {
		t.Error("expected invalid result for nil data")
	}
	if len(result.Errors) == 0 || result.Errors[0].Type != "required" {
		t.Errorf("expected required error, got %v", result.Errors)
	}
}

func TestValidateConfig_EmptyData(t *testing.T) {
	result := ValidateConfig(map[string]interface{}{})

	if result.Valid {
		t.Error("expected invalid result for empty data")
	}
}

func TestValidateConfig_MissingPipeline(t *testing.T) {
	result := ValidateConfig(map[string]interface{}{
		"schemaVersion": "1.0.0",
	})

	if result.Valid {
		t.Fatal("expected invalid result without pipeline section")
	}

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e.Message, "pipeline") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error mentioning 'pipeline', got: %v", result.Errors)
	}
}

func TestValidateConfig_MissingName(t *testing.T) {
	data := map[string]interface{}{
		"pipeline": map[string]interface{}{
			"version": "1.0.0",
		},
	}

	result := ValidateConfig(data)
	if result.Valid {
		t.Fatal("expected invalid result without pipeline.name")
	}
}

func TestValidateConfig_EmptyName(t *testing.T) {
	data := map[string]interface{}{
		"pipeline": map[string]interface{}{
			"name":    "",
			"version": "1.0.0",
		},
	}

	result := ValidateConfig(data)
	if result.Valid {
		t.Error("expected invalid result for empty pipeline.name")
	}
}

func TestValidateConfig_StageWithoutType(t *testing.T) {
	data := map[string]interface{}{
		"pipeline": map[string]interface{}{
			"name":    "x",
			"version": "1.0.0",
			"stages": []interface{}{
				map[string]interface{}{
					"preset": "image-markup",
				},
			},
		},
	}

	result := ValidateConfig(data)
	if result.Valid {
		t.Fatal("expected invalid result for stage missing type")
	}

	found := false
	for _, e := range result.Errors {
		if strings.HasPrefix(e.Path, "/pipeline/stages/0") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected error path under /pipeline/stages/0, got: %v", result.Errors)
	}
}

func TestValidateConfig_BadSchemaVersion(t *testing.T) {
	data := validPipelineData()
	data["schemaVersion"] = "one"

	result := ValidateConfig(data)
	if result.Valid {
		t.Error("expected invalid result for malformed schemaVersion")
	}
}

func TestValidateConfig_UnknownTopLevelField(t *testing.T) {
	data := validPipelineData()
	data["pipelines"] = []interface{}{}

	result := ValidateConfig(data)
	if result.Valid {
		t.Error("expected invalid result for unknown top-level field")
	}
}

func TestGetEmbeddedSchema(t *testing.T) {
	schema := GetEmbeddedSchema()
	if len(schema) == 0 {
		t.Fatal("expected non-empty embedded schema")
	}
	if !strings.Contains(string(schema), "pipeline") {
		t.Error("expected schema to reference pipeline")
	}
}
