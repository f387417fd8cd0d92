// Package template provides template evaluation for dynamic line construction.
// It supports variable substitution using {{line.field}} syntax with optional
// default values.
package template

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// Template syntax constants
const (
	// TemplatePrefix is the opening delimiter for template variables
	TemplatePrefix = "{{"
	// TemplateSuffix is the closing delimiter for template variables
	TemplateSuffix = "}}"
)

// templateVarRegex matches template variables like {{line.text}} or
// {{line.text | default: "value"}}.
// Group 1: variable path (e.g., "line.text")
// Group 2: optional default value clause including quotes
// Group 3: the default value itself (may be empty string)
var templateVarRegex = regexp.MustCompile(`\{\{\s*([^|}]+?)(\s*\|\s*default:\s*"([^"]*)")?\s*\}\}`)

// Variable represents a parsed template variable
type Variable struct {
	FullMatch    string // The full matched string including {{ }}
	Path         string // The variable path (e.g., "line.text")
	DefaultValue string // Default value if specified (empty string if not)
	HasDefault   bool   // Whether a default value was specified
}

// Evaluator evaluates template strings using line data.
// It supports:
//   - {{line.text}}   — the line content without terminator
//   - {{line.number}} — the 1-based line number
//   - {{line.field | default: "fallback"}} — fallback for unknown paths
//
// Parsed variables are cached per template string. The cache is not
// thread-safe; each goroutine should use its own Evaluator instance.
type Evaluator struct {
	cache map[string][]Variable
}

// NewEvaluator creates a new template evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{
		cache: make(map[string][]Variable),
	}
}

// HasVariables checks if a string contains template variables.
func HasVariables(s string) bool {
	return strings.Contains(s, TemplatePrefix) && strings.Contains(s, TemplateSuffix)
}

// ParseVariables extracts all template variables from a template string.
func ParseVariables(tmpl string) []Variable {
	matches := templateVarRegex.FindAllStringSubmatch(tmpl, -1)
	vars := make([]Variable, 0, len(matches))
	for _, m := range matches {
		vars = append(vars, Variable{
			FullMatch:    m[0],
			Path:         strings.TrimSpace(m[1]),
			DefaultValue: m[3],
			HasDefault:   m[2] != "",
		})
	}
	return vars
}

// Evaluate substitutes line variables into the template string.
// An unknown variable path without a default is an error.
func (e *Evaluator) Evaluate(tmpl string, line linepipe.Line) (string, error) {
	if !HasVariables(tmpl) {
		return tmpl, nil
	}

	vars, ok := e.cache[tmpl]
	if !ok {
		vars = ParseVariables(tmpl)
		e.cache[tmpl] = vars
	}

	result := tmpl
	for _, v := range vars {
		value, found := resolvePath(v.Path, line)
		if !found {
			if !v.HasDefault {
				return "", fmt.Errorf("unknown template variable %q", v.Path)
			}
			value = v.DefaultValue
		}
		result = strings.Replace(result, v.FullMatch, value, 1)
	}
	return result, nil
}

// resolvePath resolves a variable path against a line.
func resolvePath(path string, line linepipe.Line) (string, bool) {
	switch path {
	case "line.text":
		return line.Text, true
	case "line.number":
		return strconv.Itoa(line.Number), true
	default:
		return "", false
	}
}
