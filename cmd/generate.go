// =============================================================================
// Itinerary PDF Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which runs the whole pipeline
// for one itinerary file.
//
// COMMAND USAGE:
//   reiseplan generate <itinerary> [flags]
//
// FLAGS:
//   --open        : Open the PDF in the system viewer afterwards
//   --output-dir  : Override the output directory
//   --assets-dir  : Override the assets directory
//   --no-lookup   : Leave minimal flights as they are
//
// PROCESSING PIPELINE:
//   1. Check the itinerary exists, load configuration and set up logging
//   2. Read the itinerary (.json or .xlsx)
//   3. Validate, enrich, build and render (internal/assembler)
//   4. Report the output file and any flights that could not be completed
//
// =============================================================================

package cmd

import (
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// openAfter opens the generated PDF with the platform viewer.
var openAfter bool

// outputDir overrides the configured output directory.
var outputDir string

// assetsDir overrides the configured assets directory.
var assetsDir string

// noLookup disables flight enrichment.
var noLookup bool

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

// generateCmd represents the 'generate' command.
var generateCmd = &cobra.Command{
	Use:   "generate <itinerary>",
	Short: "Generate the PDF for an itinerary",
	Long: `The generate command validates an itinerary, completes minimal flights
through the flight-status service and writes <output>/<title>.pdf.

A flight that cannot be looked up is printed with the data it has; the run
still succeeds. Validation errors are all listed and nothing is written.`,

	Args: cobra.ExactArgs(1),

	RunE: runGenerate,
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

// addGenerateFlags registers the generate flags. The root command shares
// them because a bare path argument means 'generate'.
func addGenerateFlags(c *cobra.Command) {
	c.Flags().BoolVar(
		&openAfter,
		"open",
		false,
		"Open the PDF in the system viewer",
	)

	c.Flags().StringVar(
		&outputDir,
		"output-dir",
		"",
		"Directory for the generated PDF (overrides config)",
	)

	c.Flags().StringVar(
		&assetsDir,
		"assets-dir",
		"",
		"Directory with logo.png, airlines/, hotels/ and fonts/ (overrides config)",
	)

	c.Flags().BoolVar(
		&noLookup,
		"no-lookup",
		false,
		"Do not complete minimal flights through the flight-status service",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runGenerate runs the pipeline for args[0].
func runGenerate(cmd *cobra.Command, args []string) error {
	if err := requireInput(args[0]); err != nil {
		return err
	}

	env, err := startup(overrides{outputDir: outputDir, assetsDir: assetsDir})
	if err != nil {
		return err
	}
	defer env.Close()

	var postRender func(string) error
	if openAfter {
		postRender = openFile
	}

	a := env.newAssembler(!noLookup, postRender)
	result, err := a.GenerateFile(cmd.Context(), args[0])
	if err != nil {
		env.logger.Error("generation failed", "file", args[0], "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range result.EnrichFailures {
		fmt.Fprintf(out, "Warnung: Flug #%d konnte nicht vervollständigt werden: %v\n", f.Index+1, f.Err)
	}
	fmt.Fprintf(out, "PDF erstellt: %s (%d Seite(n), %s)\n",
		result.OutputFile, result.Pages, result.Duration.Round(time.Millisecond))

	return nil
}

// =============================================================================
// VIEWER
// =============================================================================

// openFile opens path with the platform's default viewer.
var openFile = func(path string) error {
	return viewerCommand(runtime.GOOS, path).Start()
}

// viewerCommand builds the command that opens path on goos.
func viewerCommand(goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path)
	default:
		return exec.Command("xdg-open", path)
	}
}
