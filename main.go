// =============================================================================
// Itinerary PDF Generator - Main Entry Point
// =============================================================================
//
// USAGE:
//   reiseplan <itinerary>            - Same as 'generate'
//   reiseplan generate <itinerary>   - Validate, enrich and render the PDF
//   reiseplan validate <itinerary>   - List every validation error
//   reiseplan enrich <itinerary>     - Print the itinerary with flights completed
//   reiseplan version                - Display the application version
//
// ARCHITECTURE:
//   - cmd/                 : CLI command definitions (Cobra)
//   - internal/config      : YAML, .env and environment configuration
//   - internal/validation  : Required-field checks with German messages
//   - internal/flightapi   : Flight-status HTTP client
//   - internal/enrich      : Completion of minimal flights
//   - internal/blocks      : Itinerary to content blocks
//   - internal/pdfwriter   : Block layout with keep-together groups
//   - internal/assembler   : The generation pipeline
//   - pkg/utils            : Output naming and atomic writes
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/itinerary-pdf/cmd"
)

func main() {
	cmd.Execute()
}
