// Package cli provides CLI output formatting and display functions.
//
// All diagnostics go to stderr: stdout is reserved for filtered line data.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/linefilter/runtime/internal/config"
)

// errOut is the diagnostics destination; swappable in tests.
var errOut io.Writer = os.Stderr

// SetErrorOutput redirects diagnostic output. Intended for tests.
func SetErrorOutput(w io.Writer) {
	errOut = w
}

// PrintParseErrors prints parse errors to stderr.
func PrintParseErrors(errors []config.ParseError, verbose bool) {
	fmt.Fprintln(errOut, "✗ Parse errors:")
	for _, err := range errors {
		printSingleParseError(err, verbose)
	}
}

// printSingleParseError prints a single parse error with location information.
func printSingleParseError(err config.ParseError, verbose bool) {
	location := formatErrorLocation(err.Path, err.Line, err.Column)

	if location != "" {
		fmt.Fprintf(errOut, "  %s: %s\n", location, err.Message)
	} else {
		fmt.Fprintf(errOut, "  %s\n", err.Message)
	}

	if verbose && err.Type != "" {
		fmt.Fprintf(errOut, "    Type: %s\n", err.Type)
	}
}

// formatErrorLocation formats the error location string (path:line:column).
func formatErrorLocation(path string, line, column int) string {
	if path == "" {
		return ""
	}

	location := path
	if line > 0 {
		location += fmt.Sprintf(":%d", line)
		if column > 0 {
			location += fmt.Sprintf(":%d", column)
		}
	}
	return location
}

// PrintValidationErrors prints validation errors to stderr.
func PrintValidationErrors(errors []config.ValidationError, verbose, quiet bool) {
	fmt.Fprintln(errOut, "✗ Validation errors:")
	for _, err := range errors {
		printSingleValidationError(err, verbose)
	}
	printValidationHint(quiet)
}

// printSingleValidationError prints a single validation error.
func printSingleValidationError(err config.ValidationError, verbose bool) {
	path := err.Path
	if path == "" {
		path = "/"
	}

	if verbose {
		printVerboseValidationError(path, err)
	} else {
		printCompactValidationError(path, err.Message)
	}
}

// printVerboseValidationError prints detailed validation error information.
func printVerboseValidationError(path string, err config.ValidationError) {
	fmt.Fprintf(errOut, "  %s:\n", path)
	fmt.Fprintf(errOut, "    Message: %s\n", err.Message)
	if err.Type != "" {
		fmt.Fprintf(errOut, "    Type: %s\n", err.Type)
	}
	if err.Expected != "" {
		fmt.Fprintf(errOut, "    Expected: %s\n", err.Expected)
	}
}

// printCompactValidationError prints a compact validation error message.
func printCompactValidationError(path, message string) {
	shortMsg := message
	if len(shortMsg) > 80 {
		shortMsg = shortMsg[:77] + "..."
	}
	fmt.Fprintf(errOut, "  %s: %s\n", path, shortMsg)
}

// printValidationHint prints a hint about verbose mode.
func printValidationHint(quiet bool) {
	if !quiet {
		fmt.Fprintln(errOut, "")
		fmt.Fprintln(errOut, "Hint: Use --verbose for detailed error information")
	}
}
