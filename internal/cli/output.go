package cli

import (
	"fmt"

	"github.com/linefilter/runtime/pkg/linepipe"
)

// OutputOptions configures CLI output behavior.
type OutputOptions struct {
	Verbose bool
	Quiet   bool
	DryRun  bool
}

// PrintRunResult displays the pipeline run result on stderr.
// The sink owns stdout, so status output never mixes with line data.
func PrintRunResult(result *linepipe.RunResult, err error, opts OutputOptions) {
	if result == nil {
		fmt.Fprintln(errOut, "✗ No run result available")
		return
	}

	if err != nil {
		fmt.Fprintln(errOut, "✗ Pipeline run failed")
		if result.Error != nil {
			fmt.Fprintf(errOut, "  Module: %s\n", result.Error.Module)
			if result.Error.StageIndex >= 0 {
				fmt.Fprintf(errOut, "  Stage: %d\n", result.Error.StageIndex)
			}
			if result.Error.Line > 0 {
				fmt.Fprintf(errOut, "  Line: %d\n", result.Error.Line)
			}
			fmt.Fprintf(errOut, "  Error: %s\n", result.Error.Message)
		}
		return
	}

	if opts.Quiet {
		return
	}

	if opts.DryRun {
		fmt.Fprintln(errOut, "✓ Dry run completed (no output written)")
	} else if opts.Verbose {
		fmt.Fprintln(errOut, "✓ Pipeline completed")
	} else {
		return
	}

	fmt.Fprintf(errOut, "  Lines read: %d\n", result.LinesRead)
	fmt.Fprintf(errOut, "  Lines dropped: %d\n", result.LinesDropped)
	fmt.Fprintf(errOut, "  Lines written: %d\n", result.LinesWritten)
	if opts.Verbose {
		fmt.Fprintf(errOut, "  Duration: %v\n", result.CompletedAt.Sub(result.StartedAt))
	}
}

// PrintConfigSummary prints pipeline name and version to stderr if available.
func PrintConfigSummary(data map[string]interface{}) {
	if data == nil {
		return
	}

	p, ok := data["pipeline"].(map[string]interface{})
	if !ok {
		return
	}

	if name, ok := p["name"].(string); ok {
		fmt.Fprintf(errOut, "  Pipeline: %s\n", name)
	}
	if version, ok := p["version"].(string); ok {
		fmt.Fprintf(errOut, "  Version: %s\n", version)
	}
}
