package blocks

import (
	"reflect"
	"testing"

	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// fakeAssets resolves only the names it was given.
type fakeAssets struct {
	logo     string
	airlines map[string]string
	hotels   map[string]string
}

func (f fakeAssets) DocumentLogo() (string, bool) { return f.logo, f.logo != "" }

func (f fakeAssets) AirlineLogo(name string) (string, bool) {
	p, ok := f.airlines[Slug(name)]
	return p, ok
}

func (f fakeAssets) HotelLogo(name string) (string, bool) {
	p, ok := f.hotels[Slug(name)]
	return p, ok
}

func kinds(bs []Block) []Kind {
	out := make([]Kind, len(bs))
	for i, b := range bs {
		out[i] = b.Kind
	}
	return out
}

func tableOf(t *testing.T, bs []Block) Block {
	t.Helper()
	for _, b := range bs {
		if b.Kind == KindTable {
			return b
		}
	}
	t.Fatalf("no table block in %v", kinds(bs))
	return Block{}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Lufthansa":          "lufthansa",
		"Hotel Adlon Berlin": "hotel-adlon-berlin",
		"":                   "",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHotelWithoutBookingRefHasFourRows(t *testing.T) {
	h := types.Hotel{
		Name:     "Hotel Roma",
		Address:  "Via Veneto 1",
		CheckIn:  "2025-05-01T15:00:00",
		CheckOut: "2025-05-05T11:00:00",
	}

	table := tableOf(t, NewBuilder(nil).Hotel(h))

	want := []Row{
		{LabelName, "Hotel Roma"},
		{LabelAddress, "Via Veneto 1"},
		{LabelCheckIn, "01.05.2025, 15:00"},
		{LabelCheckOut, "05.05.2025, 11:00"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %+v, want %+v", table.Rows, want)
	}
}

func TestHotelBookingRefRow(t *testing.T) {
	h := types.Hotel{Name: "A", Address: "B", CheckIn: "x", CheckOut: "y", BookingRef: "H-1"}

	table := tableOf(t, NewBuilder(nil).Hotel(h))

	if len(table.Rows) != 5 || table.Rows[4] != (Row{LabelBookingRef, "H-1"}) {
		t.Errorf("rows = %+v", table.Rows)
	}
	// unparseable times pass through
	if table.Rows[2].Value != "x" {
		t.Errorf("check-in = %q, want raw value", table.Rows[2].Value)
	}
}

func TestRecordLayout(t *testing.T) {
	b := NewBuilder(fakeAssets{
		airlines: map[string]string{"lufthansa": "/a/lufthansa.png"},
	})

	got := kinds(b.Flight(types.Flight{FlightNumber: "LH1", FlightDate: "2025-05-01", Airline: "Lufthansa"}))
	want := []Kind{KindImage, KindSpacing, KindSeparator, KindSpacing, KindTitle, KindSpacing, KindTable, KindSpacing}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with logo: %v, want %v", got, want)
	}

	got = kinds(b.Flight(types.Flight{FlightNumber: "OS1", FlightDate: "2025-05-01", Airline: "Austrian"}))
	want = want[2:]
	if !reflect.DeepEqual(got, want) {
		t.Errorf("without logo: %v, want %v", got, want)
	}
}

func TestFlightRows(t *testing.T) {
	f := types.Flight{
		FlightNumber:      "LH232",
		FlightDate:        "2025-05-01",
		Airline:           "Lufthansa",
		DepartureCity:     "Frankfurt",
		DepartureCode:     "FRA",
		DepartureDateTime: "2025-05-01T08:00:00",
		ArrivalCode:       "FCO",
		ArrivalDateTime:   "2025-05-01T10:05:00",
		BookingRef:        "X",
	}

	bs := NewBuilder(nil).Flight(f)
	table := tableOf(t, bs)

	want := []Row{
		{LabelFlightNumber, "LH232"},
		{LabelAirline, "Lufthansa"},
		{LabelDate, "2025-05-01"},
		{LabelDeparture, "Frankfurt (FRA)"},
		{LabelDepartureAt, "01.05.2025, 08:00"},
		{LabelArrival, "FCO"},
		{LabelArrivalAt, "01.05.2025, 10:05"},
		{LabelBookingRef, "X"},
	}
	if !reflect.DeepEqual(table.Rows, want) {
		t.Errorf("rows = %+v\nwant %+v", table.Rows, want)
	}

	for _, blk := range bs {
		if blk.Kind == KindTitle && blk.Text != TitleFlight {
			t.Errorf("title = %q", blk.Text)
		}
	}
}

func TestMinimalFlightRows(t *testing.T) {
	table := tableOf(t, NewBuilder(nil).Flight(types.Flight{FlightNumber: "LH1", FlightDate: "2025-05-01"}))
	if len(table.Rows) != 2 {
		t.Errorf("rows = %+v, want number and date only", table.Rows)
	}
}

func TestActivityRows(t *testing.T) {
	a := types.Activity{
		Name:      "Kolosseum",
		Date:      "2025-05-02",
		StartTime: "2025-05-02T10:00:00",
		EndTime:   "2025-05-02T12:30:00",
		Location:  "Piazza del Colosseo",
	}

	bs := NewBuilder(fakeAssets{logo: "/logo.png"}).Activity(a)
	if bs[0].Kind != KindSeparator {
		t.Errorf("activity starts with %v, want separator", bs[0].Kind)
	}

	want := []Row{
		{LabelName, "Kolosseum"},
		{LabelDate, "02.05.2025"},
		{LabelTime, "10:00 - 12:30"},
		{LabelLocation, "Piazza del Colosseo"},
	}
	if got := tableOf(t, bs).Rows; !reflect.DeepEqual(got, want) {
		t.Errorf("rows = %+v, want %+v", got, want)
	}
}

func TestHeader(t *testing.T) {
	it := &types.Itinerary{Title: "Rom 2025", StartDate: "2025-05-01", EndDate: "2025-05-05"}

	bs := NewBuilder(fakeAssets{logo: "/logo.png"}).Header(it)

	want := []Kind{KindImage, KindTitle, KindBody, KindSeparator, KindSpacing}
	if got := kinds(bs); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if bs[1].Text != "Rom 2025" || bs[1].Level != 1 {
		t.Errorf("title = %+v", bs[1])
	}
	if bs[2].Text != "01.05.2025 – 05.05.2025" {
		t.Errorf("range = %q", bs[2].Text)
	}
	if bs[0].Width != 15 || bs[0].Height != 15 {
		t.Errorf("logo box = %vx%v", bs[0].Width, bs[0].Height)
	}
}

func TestOverview(t *testing.T) {
	b := NewBuilder(nil)

	bs := b.Overview(&types.Itinerary{Destination: "Rom", Travelers: []string{"Anna", "Ben"}})
	if bs[0].Text != TitleOverview || bs[2].Text != "Reiseziel: Rom" || bs[3].Text != "Reisende: Anna, Ben" {
		t.Errorf("overview = %+v", bs)
	}

	bs = b.Overview(&types.Itinerary{Destination: "Rom"})
	for _, blk := range bs {
		if blk.Kind == KindBody && blk.Text != "Reiseziel: Rom" {
			t.Errorf("unexpected body %q without travelers", blk.Text)
		}
	}
}

func TestExtraInfo(t *testing.T) {
	b := NewBuilder(nil)

	full := b.ExtraInfo(types.ExtraInfo{
		EmergencyContacts: []types.Contact{{Name: "Botschaft", Phone: "+39 06 1"}},
		Currency:          "EUR",
		Notes:             "Reisepass mitnehmen",
	})

	var grids, tables, notes int
	for _, blk := range full {
		switch {
		case blk.Kind == KindTable && blk.Style == TableGrid:
			grids++
			if blk.Rows[0] != (Row{"Botschaft", "+39 06 1"}) {
				t.Errorf("contact row = %+v", blk.Rows[0])
			}
		case blk.Kind == KindTable:
			tables++
			if len(blk.Rows) != 1 || blk.Rows[0].Label != LabelCurrency {
				t.Errorf("info rows = %+v", blk.Rows)
			}
		case blk.Kind == KindBody && blk.Text == "Reisepass mitnehmen":
			notes++
		}
	}
	if grids != 1 || tables != 1 || notes != 1 {
		t.Errorf("grids=%d tables=%d notes=%d", grids, tables, notes)
	}

	empty := kinds(b.ExtraInfo(types.ExtraInfo{}))
	want := []Kind{KindSeparator, KindSpacing, KindTitle, KindSpacing}
	if !reflect.DeepEqual(empty, want) {
		t.Errorf("empty extra info = %v, want %v", empty, want)
	}
}
