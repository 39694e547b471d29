package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestFlightKeySet(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"minimal", `{"flugNr": "LH1", "flugDatum": "2025-05-01"}`, []string{"flugDatum", "flugNr"}},
		{"null counts as present", `{"flugNr": "LH1", "flugDatum": "2025-05-01", "airline": null}`, []string{"airline", "flugDatum", "flugNr"}},
		{"unknown key", `{"flugNr": "LH1", "sitz": "12A"}`, []string{"flugNr", "sitz"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Flight
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatal(err)
			}
			if got := f.Keys(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Keys() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlightRoundTrip(t *testing.T) {
	in := `{"flugNr": 4711, "flugDatum": "2025-05-01", "sitz": {"reihe": 12}}`

	var f Flight
	if err := json.Unmarshal([]byte(in), &f); err != nil {
		t.Fatal(err)
	}
	if f.FlightNumber != "4711" {
		t.Errorf("FlightNumber = %q, want literal 4711", f.FlightNumber)
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatal(err)
	}
	var back map[string]interface{}
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if back["flugNr"] != "4711" || back["flugDatum"] != "2025-05-01" {
		t.Errorf("back = %v", back)
	}
	if seat, ok := back["sitz"].(map[string]interface{}); !ok || seat["reihe"] != float64(12) {
		t.Errorf("unknown key not kept verbatim: %v", back["sitz"])
	}
	if _, ok := back["airline"]; ok {
		t.Error("absent key written")
	}
}

func TestFlightStructLiteral(t *testing.T) {
	f := Flight{FlightNumber: "LH1", FlightDate: "2025-05-01"}

	if !f.Has(KeyFlightNumber) || f.Has(KeyAirline) {
		t.Errorf("Has() on literal: number=%v airline=%v", f.Has(KeyFlightNumber), f.Has(KeyAirline))
	}

	c := f.Clone()
	c.Set(KeyAirline, "Lufthansa")
	if f.Has(KeyAirline) {
		t.Error("Clone shares state with the original")
	}
	if !c.Has(KeyFlightNumber) {
		t.Error("Set dropped the keys the literal already had")
	}
	if v, ok := c.Get(KeyAirline); !ok || v != "Lufthansa" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
}
