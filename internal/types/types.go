// =============================================================================
// Itinerary PDF Generator - Shared Types
// =============================================================================
//
// This package contains the itinerary data model shared by the pipeline
// packages. Types defined here are used by:
//   - validation (raw key names)
//   - enrich / flightapi (Flight records)
//   - blocks (all records)
//   - assembler
//
// JSON KEYS:
//   The input document uses German keys (titel, fluege, buchungsNr, ...).
//   The Go field names are English; the json tags carry the document keys.
//
// =============================================================================

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// =============================================================================
// DOCUMENT KEYS
// =============================================================================

// Root keys.
const (
	KeyTitle       = "titel"
	KeyStartDate   = "startdatum"
	KeyEndDate     = "enddatum"
	KeyDestination = "reiseziel"
	KeyTravelers   = "reisende"
	KeyFlights     = "fluege"
	KeyHotels      = "hotels"
	KeyActivities  = "aktivitaeten"
	KeyExtraInfo   = "zusatzinfo"
)

// Flight keys.
const (
	KeyFlightNumber      = "flugNr"
	KeyFlightDate        = "flugDatum"
	KeyAirline           = "airline"
	KeyDepartureCity     = "abflugOrt"
	KeyDepartureCode     = "abflugCode"
	KeyDepartureDateTime = "abflugZeit"
	KeyArrivalCity       = "ankunftOrt"
	KeyArrivalCode       = "ankunftCode"
	KeyArrivalDateTime   = "ankunftZeit"
	KeyBookingRef        = "buchungsNr"
)

// Hotel and activity keys.
const (
	KeyName      = "name"
	KeyAddress   = "adresse"
	KeyCheckIn   = "checkin"
	KeyCheckOut  = "checkout"
	KeyDate      = "datum"
	KeyStartTime = "startzeit"
	KeyEndTime   = "endzeit"
	KeyLocation  = "ort"
)

// =============================================================================
// ITINERARY
// =============================================================================

// Itinerary is the root of an itinerary document.
type Itinerary struct {
	Title       string     `json:"titel"`
	StartDate   string     `json:"startdatum"`
	EndDate     string     `json:"enddatum"`
	Destination string     `json:"reiseziel"`
	Travelers   []string   `json:"reisende,omitempty"`
	Flights     []Flight   `json:"fluege,omitempty"`
	Hotels      []Hotel    `json:"hotels,omitempty"`
	Activities  []Activity `json:"aktivitaeten,omitempty"`

	// ExtraInfo is nil when the document has no zusatzinfo object.
	ExtraInfo *ExtraInfo `json:"zusatzinfo,omitempty"`
}

// Hotel is a single hotel stay.
type Hotel struct {
	Name       string `json:"name"`
	Address    string `json:"adresse"`
	CheckIn    string `json:"checkin"`
	CheckOut   string `json:"checkout"`
	BookingRef string `json:"buchungsNr,omitempty"`
}

// Activity is a single scheduled activity.
type Activity struct {
	Name       string `json:"name"`
	Date       string `json:"datum"`
	StartTime  string `json:"startzeit"`
	EndTime    string `json:"endzeit"`
	Location   string `json:"ort,omitempty"`
	BookingRef string `json:"buchungsNr,omitempty"`
}

// Contact is an emergency contact.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"telefon"`
}

// ExtraInfo holds the optional trailing section of the document.
type ExtraInfo struct {
	EmergencyContacts []Contact `json:"notfallkontakte,omitempty"`
	Currency          string    `json:"waehrung,omitempty"`
	Timezone          string    `json:"zeitzone,omitempty"`
	Notes             string    `json:"notizen,omitempty"`
}

// =============================================================================
// FLIGHT
// =============================================================================

// FlightKeys lists the modelled flight keys in display order.
var FlightKeys = []string{
	KeyFlightNumber,
	KeyFlightDate,
	KeyAirline,
	KeyDepartureCity,
	KeyDepartureCode,
	KeyDepartureDateTime,
	KeyArrivalCity,
	KeyArrivalCode,
	KeyArrivalDateTime,
	KeyBookingRef,
}

// Flight is a single flight record.
//
// Unlike the other records, a Flight remembers which keys were present in
// the source document: the minimal-flight check compares key sets, not
// values, and keys the model does not know about are carried in Extra so
// they survive a decode/encode round trip.
type Flight struct {
	FlightNumber      string
	FlightDate        string
	Airline           string
	DepartureCity     string
	DepartureCode     string
	DepartureDateTime string
	ArrivalCity       string
	ArrivalCode       string
	ArrivalDateTime   string
	BookingRef        string

	// Extra holds unmodelled keys verbatim.
	Extra map[string]json.RawMessage

	present map[string]bool
}

// NewFlight builds a flight from key/value pairs. Every key given is
// considered present, including those with empty values.
func NewFlight(fields map[string]string) Flight {
	var f Flight
	for k, v := range fields {
		f.Set(k, v)
	}
	return f
}

// field returns the storage for a modelled key, or nil.
func (f *Flight) field(key string) *string {
	switch key {
	case KeyFlightNumber:
		return &f.FlightNumber
	case KeyFlightDate:
		return &f.FlightDate
	case KeyAirline:
		return &f.Airline
	case KeyDepartureCity:
		return &f.DepartureCity
	case KeyDepartureCode:
		return &f.DepartureCode
	case KeyDepartureDateTime:
		return &f.DepartureDateTime
	case KeyArrivalCity:
		return &f.ArrivalCity
	case KeyArrivalCode:
		return &f.ArrivalCode
	case KeyArrivalDateTime:
		return &f.ArrivalDateTime
	case KeyBookingRef:
		return &f.BookingRef
	}
	return nil
}

// Set assigns a modelled key and marks it present. Unknown keys are stored
// in Extra as a JSON string.
func (f *Flight) Set(key, value string) {
	f.track()
	f.present[key] = true

	if p := f.field(key); p != nil {
		*p = value
		return
	}
	raw, _ := json.Marshal(value)
	if f.Extra == nil {
		f.Extra = make(map[string]json.RawMessage)
	}
	f.Extra[key] = raw
}

// SetRaw stores an unmodelled key verbatim and marks it present.
func (f *Flight) SetRaw(key string, raw json.RawMessage) {
	if f.field(key) != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			s = string(bytes.TrimSpace(raw))
		}
		f.Set(key, s)
		return
	}
	f.track()
	f.present[key] = true
	if f.Extra == nil {
		f.Extra = make(map[string]json.RawMessage)
	}
	f.Extra[key] = append(json.RawMessage(nil), raw...)
}

// track starts recording key presence. A record built as a struct literal
// keeps the keys it already has.
func (f *Flight) track() {
	if f.present != nil {
		return
	}
	keys := f.Keys()
	f.present = make(map[string]bool, len(keys)+1)
	for _, k := range keys {
		f.present[k] = true
	}
}

// Get returns the value of a modelled key and whether it was present.
func (f Flight) Get(key string) (string, bool) {
	p := f.field(key)
	if p == nil {
		return "", false
	}
	return *p, f.Has(key)
}

// Has reports whether key was present in the record.
func (f Flight) Has(key string) bool {
	if f.present != nil {
		return f.present[key]
	}
	// Records built as struct literals: a modelled key counts as present
	// when it is non-empty.
	if p := f.field(key); p != nil {
		return *p != ""
	}
	_, ok := f.Extra[key]
	return ok
}

// Keys returns the sorted key set of the record.
func (f Flight) Keys() []string {
	var keys []string
	if f.present != nil {
		for k := range f.present {
			keys = append(keys, k)
		}
	} else {
		for _, k := range FlightKeys {
			if f.Has(k) {
				keys = append(keys, k)
			}
		}
		for k := range f.Extra {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (f Flight) Clone() Flight {
	c := f
	if f.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(f.Extra))
		for k, v := range f.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	if f.present != nil {
		c.present = make(map[string]bool, len(f.present))
		for k, v := range f.present {
			c.present[k] = v
		}
	}
	return c
}

// UnmarshalJSON decodes a flight object and records its key set. Modelled
// keys holding non-string JSON values are kept in their literal form.
func (f *Flight) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flight: %w", err)
	}

	*f = Flight{present: make(map[string]bool, len(raw))}
	for k, v := range raw {
		f.present[k] = true

		p := f.field(k)
		if p == nil {
			if f.Extra == nil {
				f.Extra = make(map[string]json.RawMessage)
			}
			f.Extra[k] = v
			continue
		}

		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
				s = ""
			} else {
				s = string(bytes.TrimSpace(v))
			}
		}
		*p = s
	}
	return nil
}

// MarshalJSON encodes the present keys, modelled and unmodelled.
func (f Flight) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage)
	for _, k := range f.Keys() {
		if p := f.field(k); p != nil {
			v, err := json.Marshal(*p)
			if err != nil {
				return nil, err
			}
			out[k] = v
			continue
		}
		if v, ok := f.Extra[k]; ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}
