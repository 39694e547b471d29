// =============================================================================
// Itinerary PDF Generator - Validation Engine
// =============================================================================
//
// This module checks a decoded itinerary document against the required-field
// sets of each record kind before anything is enriched or rendered.
//
// VALIDATION STRATEGY:
//   Checks run in a fixed order and every failure is collected:
//   1. Root: titel, startdatum, enddatum, reiseziel
//   2. Each flight:   flugNr, flugDatum
//   3. Each hotel:    name, adresse, checkin, checkout
//   4. Each activity: name, datum, startzeit, endzeit
//
// ERROR HANDLING:
//   - Errors are collected, not thrown immediately
//   - Record messages carry a 1-based index ("Flug #2")
//   - Optional fields and unknown keys are never checked; unknown keys are
//     passed through unchanged
//   - Malformed structure (non-object root, non-list section, non-object
//     entry) is reported as a message, never a panic
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// =============================================================================
// SCHEMA
// =============================================================================

// RecordSchema lists the required and optional keys of one record kind.
type RecordSchema struct {
	// Label is the record name used in messages ("Flug", "Hotel", ...).
	Label string

	// Section is the root key holding the list of records.
	Section string

	Required []string
	Optional []string
}

// RootSchema describes the itinerary root object.
var RootSchema = RecordSchema{
	Required: []string{types.KeyTitle, types.KeyStartDate, types.KeyEndDate, types.KeyDestination},
	Optional: []string{types.KeyTravelers, types.KeyFlights, types.KeyHotels, types.KeyActivities, types.KeyExtraInfo},
}

// FlightSchema describes a flight record.
var FlightSchema = RecordSchema{
	Label:    "Flug",
	Section:  types.KeyFlights,
	Required: []string{types.KeyFlightNumber, types.KeyFlightDate},
	Optional: []string{
		types.KeyAirline,
		types.KeyDepartureCity, types.KeyDepartureCode, types.KeyDepartureDateTime,
		types.KeyArrivalCity, types.KeyArrivalCode, types.KeyArrivalDateTime,
		types.KeyBookingRef,
	},
}

// HotelSchema describes a hotel record.
var HotelSchema = RecordSchema{
	Label:    "Hotel",
	Section:  types.KeyHotels,
	Required: []string{types.KeyName, types.KeyAddress, types.KeyCheckIn, types.KeyCheckOut},
	Optional: []string{types.KeyBookingRef},
}

// ActivitySchema describes an activity record.
var ActivitySchema = RecordSchema{
	Label:    "Aktivität",
	Section:  types.KeyActivities,
	Required: []string{types.KeyName, types.KeyDate, types.KeyStartTime, types.KeyEndTime},
	Optional: []string{types.KeyLocation, types.KeyBookingRef},
}

// sectionSchemas is the order in which record sections are checked.
var sectionSchemas = []RecordSchema{FlightSchema, HotelSchema, ActivitySchema}

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError carries every message produced for a rejected document.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return "validation failed: " + e.Messages[0]
	}
	return fmt.Sprintf("validation failed with %d errors: %s",
		len(e.Messages), strings.Join(e.Messages, "; "))
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks a decoded JSON document (as produced by json.Unmarshal
// into an interface{}) and returns all error messages. An empty slice
// means the document is valid.
func Validate(doc interface{}) []string {
	root, ok := doc.(map[string]interface{})
	if !ok {
		return []string{"Reiseplan muss ein JSON-Objekt sein"}
	}

	var errors []string

	// =========================================================================
	// ROOT FIELDS
	// =========================================================================

	for _, key := range RootSchema.Required {
		if _, exists := root[key]; !exists {
			errors = append(errors, fmt.Sprintf("Erforderliches Feld '%s' fehlt im Reiseplan", key))
		}
	}

	// =========================================================================
	// RECORD SECTIONS
	// =========================================================================

	for _, schema := range sectionSchemas {
		errors = append(errors, validateSection(root, schema)...)
	}

	return errors
}

// Check is Validate returning a *ValidationError, or nil when valid.
func Check(doc interface{}) error {
	if messages := Validate(doc); len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

// validateSection checks every record of one section. A missing, null or
// empty section is valid.
func validateSection(root map[string]interface{}, schema RecordSchema) []string {
	value, exists := root[schema.Section]
	if !exists || value == nil {
		return nil
	}

	records, ok := value.([]interface{})
	if !ok {
		return []string{fmt.Sprintf("Abschnitt '%s' muss eine Liste sein", schema.Section)}
	}

	var errors []string
	for i, entry := range records {
		record, ok := entry.(map[string]interface{})
		if !ok {
			errors = append(errors, fmt.Sprintf("%s #%d muss ein JSON-Objekt sein", schema.Label, i+1))
			continue
		}

		for _, key := range schema.Required {
			if _, exists := record[key]; !exists {
				errors = append(errors, fmt.Sprintf("Erforderliches Feld '%s' fehlt in %s #%d", key, schema.Label, i+1))
			}
		}
	}

	return errors
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation messages for display.
func FormatErrors(messages []string) string {
	if len(messages) == 0 {
		return "Keine Validierungsfehler."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validierung mit %d Fehler(n) abgeschlossen:\n\n", len(messages)))

	for i, msg := range messages {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, msg))
	}

	return builder.String()
}
