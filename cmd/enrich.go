// =============================================================================
// Itinerary PDF Generator - Enrich Command
// =============================================================================
//
// This file defines the 'enrich' command. It completes minimal flights and
// prints the resulting itinerary as JSON, so the lookup can be checked (or
// its result saved) without rendering a PDF.
//
// COMMAND USAGE:
//   reiseplan enrich <itinerary> > completed.json
//
// Keys the generator does not know are written back unchanged. Flights that
// could not be completed are reported on stderr.
//
// =============================================================================

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/itinerary-pdf/internal/assembler"
)

// enrichCmd represents the 'enrich' command.
var enrichCmd = &cobra.Command{
	Use:   "enrich <itinerary>",
	Short: "Complete minimal flights and print the itinerary as JSON",
	Args:  cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireInput(args[0]); err != nil {
			return err
		}

		env, err := startup(overrides{})
		if err != nil {
			return err
		}
		defer env.Close()

		raw, err := assembler.LoadFile(args[0])
		if err != nil {
			return err
		}

		doc, failures, err := env.newAssembler(true, nil).EnrichDocument(cmd.Context(), raw)
		if err != nil {
			return err
		}

		for _, f := range failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warnung: Flug #%d konnte nicht vervollständigt werden: %v\n", f.Index+1, f.Err)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(doc)
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}
