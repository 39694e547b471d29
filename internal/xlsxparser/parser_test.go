package xlsxparser

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook saves a workbook with the given sheets. Each sheet is a
// list of rows.
func writeWorkbook(t *testing.T, sheets map[string][][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet %s: %v", name, err)
		}
		for i, row := range rows {
			addr, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			r := row
			if err := f.SetSheetRow(name, addr, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "reise.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestParseWorkbook(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		SheetTrip: {
			{"titel", "Städtereise Rom"},
			{"startdatum", "2025-05-01"},
			{"enddatum", "2025-05-05"},
			{"reiseziel", "Rom"},
			{"reisende", "Anna, Ben ,"},
			{"waehrung", "EUR"},
			{"leer", ""},
		},
		SheetFlights: {
			{"flugNr", "flugDatum", "airline", "buchungsNr"},
			{"LH232", "2025-05-01", "", "ABC"},
			{},
			{"OS1", "2025-05-05", "Austrian"},
		},
		SheetContacts: {
			{"name", "telefon"},
			{"Botschaft", "+39 06 1"},
		},
	})

	doc, err := ParseWorkbook(path)
	if err != nil {
		t.Fatalf("ParseWorkbook() error: %v", err)
	}

	if doc["titel"] != "Städtereise Rom" || doc["reiseziel"] != "Rom" {
		t.Errorf("root = %v", doc)
	}
	if _, ok := doc["leer"]; ok {
		t.Error("blank value became a key")
	}
	if got := doc["reisende"]; !reflect.DeepEqual(got, []interface{}{"Anna", "Ben"}) {
		t.Errorf("reisende = %#v", got)
	}

	flights := doc["fluege"].([]interface{})
	if len(flights) != 2 {
		t.Fatalf("flights = %v, want 2 (empty row skipped)", flights)
	}
	want := map[string]interface{}{"flugNr": "LH232", "flugDatum": "2025-05-01", "buchungsNr": "ABC"}
	if !reflect.DeepEqual(flights[0], want) {
		t.Errorf("flight 1 = %v, want %v (blank airline omitted)", flights[0], want)
	}

	if _, ok := doc["hotels"]; ok {
		t.Error("missing Hotels sheet produced a section")
	}

	extra := doc["zusatzinfo"].(map[string]interface{})
	if extra["waehrung"] != "EUR" {
		t.Errorf("extra = %v", extra)
	}
	contacts := extra["notfallkontakte"].([]interface{})
	if !reflect.DeepEqual(contacts[0], map[string]interface{}{"name": "Botschaft", "telefon": "+39 06 1"}) {
		t.Errorf("contacts = %v", contacts)
	}
}

func TestParseWorkbookWithoutExtraInfo(t *testing.T) {
	path := writeWorkbook(t, map[string][][]interface{}{
		SheetTrip:   {{"titel", "Kurztrip"}},
		SheetHotels: {{"name", "adresse", "checkin", "checkout"}},
	})

	doc, err := ParseWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := doc["zusatzinfo"]; ok {
		t.Error("zusatzinfo present without data")
	}
	if hotels, ok := doc["hotels"].([]interface{}); !ok || len(hotels) != 0 {
		t.Errorf("hotels = %#v, want empty list", doc["hotels"])
	}
}

func TestParseWorkbookMissingFile(t *testing.T) {
	if _, err := ParseWorkbook(filepath.Join(t.TempDir(), "nope.xlsx")); err == nil {
		t.Error("expected error")
	}
}
