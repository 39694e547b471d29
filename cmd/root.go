// =============================================================================
// Itinerary PDF Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (reiseplan [itinerary])
//   ├── generateCmd (reiseplan generate <itinerary>)
//   ├── validateCmd (reiseplan validate <itinerary>)
//   ├── enrichCmd   (reiseplan enrich <itinerary>)
//   └── versionCmd  (reiseplan version)
//
// STARTUP:
//   Every command that touches an itinerary first checks that the file
//   exists, then goes through startup():
//   1. Load the configuration (defaults, --config, .env, environment)
//   2. Apply command-line overrides
//   3. Set up logging (console plus log file)
//   4. Create the output and assets directories
//
// =============================================================================

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/itinerary-pdf/internal/assembler"
	"github.com/ginjaninja78/itinerary-pdf/internal/assets"
	"github.com/ginjaninja78/itinerary-pdf/internal/config"
	"github.com/ginjaninja78/itinerary-pdf/internal/flightapi"
	"github.com/ginjaninja78/itinerary-pdf/internal/logging"
	"github.com/ginjaninja78/itinerary-pdf/internal/validation"
	"github.com/ginjaninja78/itinerary-pdf/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to an optional YAML configuration file.
var cfgFile string

// debug forces DEBUG logging.
var debug bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command. Called with an itinerary path it
// behaves like 'generate'.
var rootCmd = &cobra.Command{
	Use:   "reiseplan [itinerary]",
	Short: "Itinerary PDF Generator - Turn a travel itinerary into a printable PDF",
	Long: `Itinerary PDF Generator reads a travel itinerary (JSON or XLSX), completes
flights that only carry a flight number and date through a flight-status
service, and lays the trip out as a paginated PDF.

Key Features:
  - All validation errors reported at once
  - Flight enrichment with per-flight fallback
  - Airline, hotel and document logos from the assets directory
  - Flight, hotel and activity sections never split across pages
  - Output written atomically to <output>/<title>.pdf

Example Usage:
  reiseplan reise.json                   # Same as 'reiseplan generate reise.json'
  reiseplan generate reise.json --open   # Generate and open the PDF
  reiseplan validate reise.json          # Check the itinerary only
  reiseplan enrich reise.json > full.json`,

	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return runGenerate(cmd, args)
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main(). An
// interrupt cancels pending flight lookups.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", userMessage(err))
		os.Exit(1)
	}
}

// userMessage picks the text shown for a failed command.
func userMessage(err error) string {
	var ve *validation.ValidationError
	var re *assembler.RenderError
	var le *flightapi.LookupError

	switch {
	case errors.Is(err, assembler.ErrInputNotFound):
		return err.Error()
	case errors.As(err, &ve):
		return "Reiseplan ungültig\n" + validation.FormatErrors(ve.Messages)
	case errors.As(err, &re):
		return fmt.Sprintf("PDF konnte nicht erstellt werden (%s): %v", re.Path, re.Err)
	case errors.As(err, &le):
		return fmt.Sprintf("Flugabfrage fehlgeschlagen: %v", le)
	}
	return err.Error()
}

// =============================================================================
// STARTUP
// =============================================================================

// runtimeEnv is what a command needs after startup.
type runtimeEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	closer io.Closer
}

// Close releases the log file.
func (r *runtimeEnv) Close() error {
	return r.closer.Close()
}

// overrides are command-line values that beat the loaded configuration.
type overrides struct {
	outputDir string
	assetsDir string
}

// requireInput fails with ErrInputNotFound before startup has created any
// directory or log file.
func requireInput(path string) error {
	if !utils.FileExists(path) {
		return fmt.Errorf("%w: %s", assembler.ErrInputNotFound, path)
	}
	return nil
}

// startup loads the configuration and sets up logging. Log output goes to
// stderr so that 'enrich' can write its document to stdout.
func startup(o overrides) (*runtimeEnv, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	// Flag paths are relative to the working directory, not BaseDir.
	if o.outputDir != "" {
		if cfg.OutputDir, err = filepath.Abs(o.outputDir); err != nil {
			return nil, err
		}
	}
	if o.assetsDir != "" {
		if cfg.AssetsDir, err = filepath.Abs(o.assetsDir); err != nil {
			return nil, err
		}
	}
	if debug {
		cfg.Debug = true
	}

	logger, closer, err := logging.Setup(os.Stderr, cfg.LogLevel, cfg.Debug, cfg.LogFile)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	logger.Debug("configuration loaded", "config", cfg.String())

	if err := cfg.EnsureDirectories(assets.Subdirs...); err != nil {
		closer.Close()
		return nil, err
	}

	return &runtimeEnv{cfg: cfg, logger: logger, closer: closer}, nil
}

// newAssembler wires the lookup client and asset store from the
// configuration. withLookup false leaves flights as they are.
func (r *runtimeEnv) newAssembler(withLookup bool, postRender func(string) error) *assembler.Assembler {
	opts := assembler.Options{
		OutputDir:   r.cfg.OutputDir,
		PageSize:    r.cfg.PageSize,
		MarginMM:    r.cfg.MarginMM,
		Concurrency: r.cfg.MaxConcurrency,
		Assets:      assets.New(r.cfg.AssetsDir, r.logger),
		PostRender:  postRender,
		Logger:      r.logger,
	}

	if withLookup {
		if r.cfg.FlightAPIKey == "" {
			r.logger.Warn("FLIGHT_API_KEY not set, minimal flights will not be completed")
		}
		opts.Lookup = flightapi.New(flightapi.Options{
			URL:               r.cfg.FlightAPIURL,
			APIKey:            r.cfg.FlightAPIKey,
			Timeout:           r.cfg.LookupTimeout,
			RequestsPerSecond: r.cfg.LookupRate,
			Logger:            r.logger,
		})
	}

	return assembler.New(opts)
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// --config: optional YAML file layered under .env and the environment.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML configuration file",
	)

	// --debug: same as REISEPLAN_DEBUG=true.
	rootCmd.PersistentFlags().BoolVarP(
		&debug,
		"debug",
		"d",
		false,
		"Enable debug logging",
	)

	addGenerateFlags(rootCmd)
}
