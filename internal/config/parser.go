// Package config provides functionality for parsing and validating
// pipeline configuration files (JSON/JSONC/YAML).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ParseJSONFile parses a JSON configuration file from the given path.
// Returns a ParseResult containing the parsed data or errors.
func ParseJSONFile(filepath string) *ParseResult {
	return parseFileWith(filepath, "json", ParseJSONString)
}

// ParseJSONCFile parses a JSONC (JSON with comments) configuration file.
func ParseJSONCFile(filepath string) *ParseResult {
	return parseFileWith(filepath, "jsonc", ParseJSONCString)
}

// ParseYAMLFile parses a YAML configuration file from the given path.
func ParseYAMLFile(filepath string) *ParseResult {
	return parseFileWith(filepath, "yaml", ParseYAMLString)
}

// parseFileWith reads a file and hands its content to a string parser,
// attaching the file path to any resulting errors.
func parseFileWith(filepath, format string, parse func(string) *ParseResult) *ParseResult {
	result := &ParseResult{
		FilePath: filepath,
		Format:   format,
	}

	content, err := os.ReadFile(filepath)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{
			Path:    filepath,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Type:    ErrorTypeIO,
		})
		return result
	}

	parseResult := parse(string(content))
	result.Data = parseResult.Data
	result.Errors = parseResult.Errors

	for i := range result.Errors {
		if result.Errors[i].Path == "" {
			result.Errors[i].Path = filepath
		}
	}

	return result
}

// ParseJSONString parses JSON content from a string.
// Returns a ParseResult containing the parsed data or errors.
func ParseJSONString(content string) *ParseResult {
	result := &ParseResult{
		Format: "json",
	}

	content = strings.TrimSpace(content)
	if content == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected JSON object",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	err := json.Unmarshal([]byte(content), &data)
	if err != nil {
		result.Errors = append(result.Errors, parseJSONError(err, content))
		return result
	}

	if data == nil {
		// null JSON - valid JSON but not a valid config
		return result
	}

	dataMap, ok := data.(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid configuration: expected JSON object, got %T", data),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = dataMap
	return result
}

// ParseJSONCString parses JSONC content: comments and trailing commas are
// stripped before regular JSON parsing. Reported offsets refer to the
// stripped content.
func ParseJSONCString(content string) *ParseResult {
	stripped := string(jsonc.ToJSON([]byte(content)))
	result := ParseJSONString(stripped)
	result.Format = "jsonc"
	return result
}

// parseJSONError extracts detailed error information from a JSON unmarshaling error.
func parseJSONError(err error, content string) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	if syntaxErr, ok := err.(*json.SyntaxError); ok {
		parseErr.Offset = syntaxErr.Offset
		parseErr.Line, parseErr.Column = offsetToLineColumn(content, syntaxErr.Offset)
		parseErr.Message = fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())
	}

	if typeErr, ok := err.(*json.UnmarshalTypeError); ok {
		parseErr.Offset = typeErr.Offset
		parseErr.Line, parseErr.Column = offsetToLineColumn(content, typeErr.Offset)
		parseErr.Message = fmt.Sprintf("type error at field '%s': expected %s, got %s",
			typeErr.Field, typeErr.Type.String(), typeErr.Value)
	}

	return parseErr
}

// offsetToLineColumn converts a byte offset to line and column numbers (1-based).
func offsetToLineColumn(content string, offset int64) (line, column int) {
	if offset <= 0 {
		return 1, 1
	}

	line = 1
	column = 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// ParseYAMLString parses YAML content from a string.
// Returns a ParseResult containing the parsed data or errors.
func ParseYAMLString(content string) *ParseResult {
	result := &ParseResult{
		Format: "yaml",
	}

	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected YAML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	err := yaml.Unmarshal([]byte(content), &data)
	if err != nil {
		result.Errors = append(result.Errors, parseYAMLError(err))
		return result
	}

	if data == nil {
		// null YAML or comments only - valid YAML but not a valid config
		return result
	}

	dataMap, ok := data.(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid configuration: expected YAML mapping, got %T", data),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = dataMap
	return result
}

// parseYAMLError extracts detailed error information from a YAML unmarshaling error.
func parseYAMLError(err error) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	if typeErr, ok := err.(*yaml.TypeError); ok {
		parseErr.Message = fmt.Sprintf("YAML type error: %s", strings.Join(typeErr.Errors, "; "))
	}

	// yaml.v3 includes line info in the error message: "yaml: line X: ..."
	if strings.Contains(err.Error(), "yaml: line ") {
		var line int
		if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
			parseErr.Line = line
		}
	}

	return parseErr
}

// ============================================================================
// Unified Configuration Parser
// ============================================================================

// ParseConfig parses and validates a configuration file.
// It auto-detects the format (JSON/JSONC/YAML) based on file extension or
// content. Returns a Result with parsed data, validation results, and any
// errors.
func ParseConfig(filepath string) *Result {
	result := &Result{
		FilePath: filepath,
	}

	var parseResult *ParseResult
	switch DetectFormat(filepath) {
	case "json":
		parseResult = ParseJSONFile(filepath)
	case "jsonc":
		parseResult = ParseJSONCFile(filepath)
	case "yaml":
		parseResult = ParseYAMLFile(filepath)
	default:
		content, err := os.ReadFile(filepath)
		if err != nil {
			result.ParseErrors = append(result.ParseErrors, ParseError{
				Path:    filepath,
				Message: fmt.Sprintf("failed to read file: %v", err),
				Type:    ErrorTypeIO,
			})
			return result
		}

		contentStr := string(content)
		switch {
		case IsJSON(contentStr):
			parseResult = ParseJSONCString(contentStr)
			parseResult.FilePath = filepath
		case IsYAML(contentStr):
			parseResult = ParseYAMLString(contentStr)
			parseResult.FilePath = filepath
		default:
			result.ParseErrors = append(result.ParseErrors, ParseError{
				Path:    filepath,
				Message: "unable to detect configuration format: not valid JSON or YAML",
				Type:    ErrorTypeFormat,
			})
			return result
		}
	}

	result.Data = parseResult.Data
	result.ParseErrors = parseResult.Errors
	result.Format = parseResult.Format

	// If parsing failed, skip validation
	if !parseResult.IsValid() {
		return result
	}

	validationResult := ValidateConfig(parseResult.Data)
	result.ValidationErrors = validationResult.Errors

	return result
}

// ParseConfigString parses and validates configuration content from a string.
// If format is empty, it auto-detects from content.
func ParseConfigString(content string, format string) *Result {
	result := &Result{
		Format: format,
	}

	if format == "" {
		switch {
		case IsJSON(content):
			format = "json"
		case IsYAML(content):
			format = "yaml"
		default:
			result.ParseErrors = append(result.ParseErrors, ParseError{
				Message: "unable to detect configuration format: not valid JSON or YAML",
				Type:    ErrorTypeFormat,
			})
			return result
		}
		result.Format = format
	}

	var parseResult *ParseResult
	switch format {
	case "json":
		parseResult = ParseJSONString(content)
	case "jsonc":
		parseResult = ParseJSONCString(content)
	case "yaml":
		parseResult = ParseYAMLString(content)
	default:
		result.ParseErrors = append(result.ParseErrors, ParseError{
			Message: fmt.Sprintf("unsupported format: %s", format),
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = parseResult.Data
	result.ParseErrors = parseResult.Errors
	result.Format = parseResult.Format

	if !parseResult.IsValid() {
		return result
	}

	validationResult := ValidateConfig(parseResult.Data)
	result.ValidationErrors = validationResult.Errors

	return result
}

// DetectFormat detects the configuration format from file extension.
// Returns "json", "jsonc", "yaml", or empty string if format cannot be detected.
func DetectFormat(filepath string) string {
	ext := strings.ToLower(path.Ext(filepath))
	switch ext {
	case ".json":
		return "json"
	case ".jsonc":
		return "jsonc"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// IsJSON checks if the content appears to be JSON format.
func IsJSON(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}
	// JSON must start with { or [ (allowing a leading JSONC comment)
	return strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") ||
		strings.HasPrefix(content, "//") || strings.HasPrefix(content, "/*")
}

// IsYAML checks if the content appears to be valid YAML.
// Note: JSON is also valid YAML, so this may return true for JSON content.
func IsYAML(content string) bool {
	content = strings.TrimSpace(content)
	if content == "" {
		return false
	}

	var data interface{}
	err := yaml.Unmarshal([]byte(content), &data)
	return err == nil && data != nil
}
