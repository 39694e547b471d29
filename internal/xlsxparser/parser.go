// =============================================================================
// Itinerary PDF Generator - XLSX Itinerary Parser
// =============================================================================
//
// This module reads an itinerary workbook into the same raw document the
// JSON loader produces. The result goes through the same validator, so this
// parser does not check required fields itself.
//
// WORKBOOK STRUCTURE:
//
//   Sheet "Reise" (key/value rows, column A key, column B value):
//
//   | A          | B                      |
//   |------------|------------------------|
//   | titel      | Städtereise Rom        |
//   | startdatum | 2025-05-01             |
//   | enddatum   | 2025-05-05             |
//   | reiseziel  | Rom, Italien           |
//   | reisende   | Anna Muster, Ben Muster|   <- comma separated
//   | waehrung   | EUR                    |   <- extra info
//   | zeitzone   | Europe/Rome            |   <- extra info
//   | notizen    | Reisepass mitnehmen    |   <- extra info
//
//   Sheets "Fluege", "Hotels", "Aktivitaeten", "Notfallkontakte"
//   (header row of document keys, one record per row):
//
//   | flugNr | flugDatum  | buchungsNr |
//   |--------|------------|------------|
//   | LH232  | 2025-05-01 | ABC123     |
//
//   Blank cells are omitted from the record, so a row with only flugNr and
//   flugDatum yields a minimal flight. Dates should be entered as text.
//
// =============================================================================

package xlsxparser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// Sheet names.
const (
	SheetTrip       = "Reise"
	SheetFlights    = "Fluege"
	SheetHotels     = "Hotels"
	SheetActivities = "Aktivitaeten"
	SheetContacts   = "Notfallkontakte"
)

// extra-info keys found on the trip sheet.
const (
	keyContacts = "notfallkontakte"
	keyCurrency = "waehrung"
	keyTimezone = "zeitzone"
	keyNotes    = "notizen"
)

// recordSheets maps record sheets to document sections.
var recordSheets = []struct {
	sheet string
	key   string
}{
	{SheetFlights, types.KeyFlights},
	{SheetHotels, types.KeyHotels},
	{SheetActivities, types.KeyActivities},
}

// =============================================================================
// PARSING FUNCTIONS
// =============================================================================

// ParseWorkbook reads an itinerary workbook.
//
// PARAMETERS:
//   - path: The path to the XLSX file.
//
// RETURNS:
//   - The raw itinerary document (JSON-shaped maps and slices).
//   - An error if the file cannot be opened or a sheet cannot be read.
//     Missing sheets are not an error; the section is simply absent.
func ParseWorkbook(path string) (map[string]interface{}, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads an already opened workbook.
func Parse(f *excelize.File) (map[string]interface{}, error) {
	doc := make(map[string]interface{})
	extra := make(map[string]interface{})

	if hasSheet(f, SheetTrip) {
		rows, err := f.GetRows(SheetTrip)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", SheetTrip, err)
		}
		parseTrip(rows, doc, extra)
	}

	for _, rs := range recordSheets {
		if !hasSheet(f, rs.sheet) {
			continue
		}
		records, err := readRecords(f, rs.sheet)
		if err != nil {
			return nil, err
		}
		doc[rs.key] = records
	}

	if hasSheet(f, SheetContacts) {
		contacts, err := readRecords(f, SheetContacts)
		if err != nil {
			return nil, err
		}
		if len(contacts) > 0 {
			extra[keyContacts] = contacts
		}
	}

	if len(extra) > 0 {
		doc[types.KeyExtraInfo] = extra
	}

	return doc, nil
}

// parseTrip reads the key/value rows of the trip sheet.
func parseTrip(rows [][]string, doc, extra map[string]interface{}) {
	for _, row := range rows {
		key := cell(row, 0)
		value := cell(row, 1)
		if key == "" || value == "" {
			continue
		}

		switch key {
		case types.KeyTravelers:
			doc[key] = splitList(value)
		case keyCurrency, keyTimezone, keyNotes:
			extra[key] = value
		default:
			doc[key] = value
		}
	}
}

// readRecords reads a header-row sheet into one object per data row.
func readRecords(f *excelize.File, sheet string) ([]interface{}, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	records := []interface{}{}
	if len(rows) == 0 {
		return records, nil
	}

	header := rows[0]
	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}

		record := make(map[string]interface{})
		for i := range header {
			key := cell(header, i)
			value := cell(row, i)
			if key == "" || value == "" {
				continue
			}
			record[key] = value
		}
		records = append(records, record)
	}

	return records, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func hasSheet(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// cell safely gets a trimmed cell value.
func cell(row []string, index int) string {
	if index < len(row) {
		return strings.TrimSpace(row[index])
	}
	return ""
}

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitList(value string) []interface{} {
	var out []interface{}
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
