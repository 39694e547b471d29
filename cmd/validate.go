// =============================================================================
// Itinerary PDF Generator - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks an itinerary
// without contacting the flight-status service or writing a PDF.
//
// COMMAND USAGE:
//   reiseplan validate <itinerary>
//
// EXIT STATUS:
//   0 when the itinerary is valid, 1 when any message was printed.
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/itinerary-pdf/internal/assembler"
	"github.com/ginjaninja78/itinerary-pdf/internal/validation"
)

// errInvalid is returned after the messages have been printed.
var errInvalid = errors.New("itinerary is invalid")

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate <itinerary>",
	Short: "Check an itinerary and list every problem",
	Long: `The validate command reads an itinerary (.json or .xlsx) and prints every
missing required field, numbered. Nothing is looked up and nothing is written.`,

	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := assembler.LoadFile(args[0])
		if err != nil {
			return err
		}

		messages := validation.Validate(raw)
		if len(messages) == 0 {
			// Type errors only show up when decoding.
			if _, err := assembler.Decode(raw); err != nil {
				var ve *validation.ValidationError
				if errors.As(err, &ve) {
					messages = ve.Messages
				} else {
					return err
				}
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), validation.FormatErrors(messages))
		if len(messages) > 0 {
			return errInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
