// Package main provides the CLI entry point for the line filter runtime.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/linefilter/runtime/internal/cli"
	"github.com/linefilter/runtime/internal/config"
	"github.com/linefilter/runtime/internal/errhandling"
	"github.com/linefilter/runtime/internal/factory"
	"github.com/linefilter/runtime/internal/logger"
	"github.com/linefilter/runtime/internal/modules/sink"
	"github.com/linefilter/runtime/internal/modules/source"
	"github.com/linefilter/runtime/internal/modules/stage"
	"github.com/linefilter/runtime/internal/runtime"
	"github.com/linefilter/runtime/pkg/linepipe"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitValidationError = 1
	ExitParseError      = 2
	ExitRuntimeError    = 3
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	logFormat string

	// Run command flags
	dryRun bool

	// Build information (set via ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitRuntimeError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linefilter",
	Short: "linefilter - Streaming line filter pipeline runtime",
	Long: `linefilter reads text line by line, passes each line through a
chain of stages, and writes surviving lines unchanged to the output.

Invoked without a subcommand it runs the built-in image markup filter:
lines containing badge or image markup are dropped, everything else is
copied to stdout byte for byte.

Examples:
  # Strip image markup lines from a README
  linefilter < README.md > README.clean.md

  # Validate a pipeline configuration file
  linefilter validate pipeline.yaml

  # Run a configured pipeline
  linefilter run pipeline.yaml`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(slog.LevelDebug)
		} else if quiet {
			logger.SetLevel(slog.LevelError)
		}
		if logFormat == "human" {
			logger.SetFormat(logger.FormatHuman)
		}
	},
	Run: runBuiltin,
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Validate a pipeline configuration file",
	Long: `Validate a pipeline configuration file against the schema.

Supports JSON, JSONC, and YAML formats. The format is auto-detected
based on file extension (.json, .jsonc, .yaml, .yml) or content.

Exit codes:
  0 - Configuration is valid
  1 - Validation errors (schema violations)
  2 - Parse errors (invalid JSON/YAML syntax)

Examples:
  linefilter validate pipeline.json
  linefilter validate --verbose pipeline.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runValidate,
}

var runCmd = &cobra.Command{
	Use:   "run <config-file>",
	Short: "Run a pipeline from a configuration file",
	Long: `Run a pipeline defined in the configuration file.

The configuration file is first validated against the schema.
If validation fails, the pipeline will not be executed.

Flags:
  --dry-run   Read and filter lines without writing to the sink

Exit codes:
  0 - Pipeline executed successfully
  1 - Validation errors
  2 - Parse errors
  3 - Runtime errors

Examples:
  linefilter run pipeline.json
  linefilter run --dry-run pipeline.yaml < input.txt`,
	Args: cobra.ExactArgs(1),
	Run:  runPipeline,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Print version, commit hash, and build date information.",
	Run:   runVersion,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "json", "Log format: json or human")

	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read and filter without writing to the sink")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Read and filter without writing to stdout")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runBuiltin is the bare invocation: stdin through the image markup
// exclude stage to stdout.
func runBuiltin(_ *cobra.Command, _ []string) {
	ctx, cancel := signalContext()
	defer cancel()

	executor := runtime.NewExecutorWithModules(
		source.NewStdin(),
		[]stage.Module{stage.NewImageMarkupExclude()},
		sink.NewStdout(),
		dryRun,
	)

	pipeline := &linepipe.Pipeline{
		ID:      "builtin-image-markup",
		Name:    "builtin-image-markup",
		Version: version,
	}

	result, err := executor.Execute(ctx, pipeline)
	cli.PrintRunResult(result, err, cli.OutputOptions{Verbose: verbose, Quiet: quiet, DryRun: dryRun})
	if err != nil {
		os.Exit(ExitRuntimeError)
	}
	os.Exit(ExitSuccess)
}

func runValidate(_ *cobra.Command, args []string) {
	configPath := args[0]

	if !quiet {
		fmt.Fprintf(os.Stderr, "Validating configuration: %s\n", configPath)
	}

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		os.Exit(ExitParseError)
	}

	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		os.Exit(ExitValidationError)
	}

	if !quiet {
		fmt.Fprintf(os.Stderr, "✓ Configuration is valid (format: %s)\n", result.Format)
		if verbose {
			cli.PrintConfigSummary(result.Data)
		}
	}

	os.Exit(ExitSuccess)
}

func runPipeline(_ *cobra.Command, args []string) {
	configPath := args[0]

	result := config.ParseConfig(configPath)

	if len(result.ParseErrors) > 0 {
		cli.PrintParseErrors(result.ParseErrors, verbose)
		os.Exit(ExitParseError)
	}

	if len(result.ValidationErrors) > 0 {
		cli.PrintValidationErrors(result.ValidationErrors, verbose, quiet)
		os.Exit(ExitValidationError)
	}

	pipeline, err := config.ConvertToPipeline(result.Data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to convert configuration: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "  Pipeline: %s (v%s)\n", pipeline.Name, pipeline.Version)
		if pipeline.Description != "" {
			fmt.Fprintf(os.Stderr, "  Description: %s\n", pipeline.Description)
		}
	}

	sourceModule, stageModules, sinkModule, err := factory.CreateModules(pipeline)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Failed to create modules: %v\n", err)
		os.Exit(ExitRuntimeError)
	}

	ctx, cancel := signalContext()
	defer cancel()

	executor := runtime.NewExecutorWithModules(sourceModule, stageModules, sinkModule, dryRun)

	runResult, err := executor.Execute(ctx, pipeline)
	cli.PrintRunResult(runResult, err, cli.OutputOptions{Verbose: verbose, Quiet: quiet, DryRun: dryRun})
	if err != nil {
		if errhandling.IsInterrupt(err) {
			logger.Warn("run interrupted")
		}
		os.Exit(ExitRuntimeError)
	}

	os.Exit(ExitSuccess)
}

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Commit: %s\n", commit)
	fmt.Printf("Build Date: %s\n", buildDate)
}
