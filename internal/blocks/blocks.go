// =============================================================================
// Itinerary PDF Generator - Content Blocks
// =============================================================================
//
// This module turns itinerary records into ordered, layout-agnostic content
// blocks. The PDF writer consumes them; nothing here knows about pages.
//
// BLOCK KINDS:
//   Title      - document title (level 1) or section subtitle (level 2)
//   Body       - a paragraph of body text
//   Table      - label/value rows, or a raw two-column grid
//   Image      - a logo file with a target box in millimetres
//   Separator  - a horizontal rule across the content width
//   Spacing    - vertical space in millimetres
//
// RECORD BLOCK LAYOUT (flight, hotel, activity):
//   1. Optional logo (only when the asset exists)
//   2. Separator
//   3. Section title ("Flight" / "Hotel" / "Aktivität")
//   4. Label/value table: required rows always, optional rows only when
//      non-empty, date/time values through datefmt
//   5. Spacing
//
// =============================================================================

package blocks

import (
	"strings"

	"github.com/ginjaninja78/itinerary-pdf/internal/datefmt"
	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// =============================================================================
// BLOCK TYPES
// =============================================================================

// Kind tags a Block.
type Kind int

const (
	KindTitle Kind = iota + 1
	KindBody
	KindTable
	KindImage
	KindSeparator
	KindSpacing
)

func (k Kind) String() string {
	switch k {
	case KindTitle:
		return "title"
	case KindBody:
		return "body"
	case KindTable:
		return "table"
	case KindImage:
		return "image"
	case KindSeparator:
		return "separator"
	case KindSpacing:
		return "spacing"
	}
	return "unknown"
}

// Row is one label/value pair of a table.
type Row struct {
	Label string
	Value string
}

// TableStyle selects how a table is drawn.
type TableStyle int

const (
	// TableLabeled draws a shaded bold label column and a value column.
	TableLabeled TableStyle = iota

	// TableGrid draws two equal plain columns with grid lines.
	TableGrid
)

// Block is a single piece of content. Only the fields relevant to Kind
// are set.
type Block struct {
	Kind Kind

	// Title, Body
	Text  string
	Level int

	// Table
	Rows  []Row
	Style TableStyle

	// Image
	Path   string
	Width  float64
	Height float64

	// Spacing
	Amount float64
}

// Title returns a title block. Level 1 is the document title, level 2 a
// section subtitle.
func Title(text string, level int) Block { return Block{Kind: KindTitle, Text: text, Level: level} }

// Body returns a paragraph block.
func Body(text string) Block { return Block{Kind: KindBody, Text: text} }

// Table returns a labeled table block.
func Table(rows ...Row) Block { return Block{Kind: KindTable, Rows: rows, Style: TableLabeled} }

// Grid returns a two-column grid block.
func Grid(rows ...Row) Block { return Block{Kind: KindTable, Rows: rows, Style: TableGrid} }

// Image returns an image block.
func Image(path string, width, height float64) Block {
	return Block{Kind: KindImage, Path: path, Width: width, Height: height}
}

// Separator returns a horizontal rule.
func Separator() Block { return Block{Kind: KindSeparator} }

// Spacing returns vertical space of amount millimetres.
func Spacing(amount float64) Block { return Block{Kind: KindSpacing, Amount: amount} }

// Group is a named run of blocks. The writer starts a KeepTogether group on
// a fresh page instead of splitting it, provided it fits on one page.
type Group struct {
	Name         string
	Blocks       []Block
	KeepTogether bool
}

// =============================================================================
// SIZES (millimetres)
// =============================================================================

const (
	headerLogoSize   = 15
	recordLogoWidth  = 30
	recordLogoHeight = 15

	spaceSmall  = 2
	spaceMedium = 3
	spaceLarge  = 5
)

// Section titles and labels.
const (
	TitleFlight    = "Flight"
	TitleHotel     = "Hotel"
	TitleActivity  = "Aktivität"
	TitleOverview  = "Übersicht"
	TitleExtraInfo = "Zusätzliche Informationen"

	LabelFlightNumber = "Flugnummer:"
	LabelAirline      = "Airline:"
	LabelDate         = "Datum:"
	LabelDeparture    = "Abflug:"
	LabelDepartureAt  = "Abflugzeit:"
	LabelArrival      = "Ankunft:"
	LabelArrivalAt    = "Ankunftszeit:"
	LabelBookingRef   = "Buchungsnummer:"
	LabelName         = "Name:"
	LabelAddress      = "Adresse:"
	LabelCheckIn      = "Check-in:"
	LabelCheckOut     = "Check-out:"
	LabelTime         = "Zeit:"
	LabelLocation     = "Ort:"
	LabelCurrency     = "Währung:"
	LabelTimezone     = "Zeitzone:"
)

// =============================================================================
// ASSET RESOLUTION
// =============================================================================

// Assets locates optional logo files. Implementations must not fail: a
// missing asset is reported as ok == false.
type Assets interface {
	// DocumentLogo returns the top-of-document logo.
	DocumentLogo() (path string, ok bool)

	// AirlineLogo returns the logo for an airline name.
	AirlineLogo(airline string) (path string, ok bool)

	// HotelLogo returns the logo for a hotel name.
	HotelLogo(hotel string) (path string, ok bool)
}

// NoAssets resolves nothing.
type NoAssets struct{}

func (NoAssets) DocumentLogo() (string, bool)       { return "", false }
func (NoAssets) AirlineLogo(string) (string, bool) { return "", false }
func (NoAssets) HotelLogo(string) (string, bool)   { return "", false }

// Slug derives an asset file stem: lower-cased, spaces replaced by hyphens.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// =============================================================================
// BUILDER
// =============================================================================

// Builder builds blocks for itinerary sections.
type Builder struct {
	assets Assets
}

// NewBuilder creates a Builder. A nil assets resolves nothing.
func NewBuilder(assets Assets) *Builder {
	if assets == nil {
		assets = NoAssets{}
	}
	return &Builder{assets: assets}
}

// Header builds the document header: optional logo, title, date range,
// separator, spacing.
func (b *Builder) Header(it *types.Itinerary) []Block {
	var out []Block

	if path, ok := b.assets.DocumentLogo(); ok {
		out = append(out, Image(path, headerLogoSize, headerLogoSize))
	}

	out = append(out,
		Title(it.Title, 1),
		Body(datefmt.FormatRange(it.StartDate, it.EndDate)),
		Separator(),
		Spacing(spaceLarge),
	)
	return out
}

// Overview builds the overview: subtitle, destination, optional travelers,
// spacing.
func (b *Builder) Overview(it *types.Itinerary) []Block {
	out := []Block{
		Title(TitleOverview, 2),
		Spacing(spaceSmall),
		Body("Reiseziel: " + it.Destination),
	}

	if len(it.Travelers) > 0 {
		out = append(out, Body("Reisende: "+strings.Join(it.Travelers, ", ")))
	}

	return append(out, Spacing(spaceLarge))
}

// Flight builds a flight block. The flight date row shows the stored
// string as-is; departure and arrival times are formatted.
func (b *Builder) Flight(f types.Flight) []Block {
	var out []Block

	if f.Airline != "" {
		if path, ok := b.assets.AirlineLogo(f.Airline); ok {
			out = append(out, Image(path, recordLogoWidth, recordLogoHeight), Spacing(spaceSmall))
		}
	}

	rows := []Row{{LabelFlightNumber, f.FlightNumber}}
	rows = appendRow(rows, LabelAirline, f.Airline)
	rows = appendRow(rows, LabelDate, f.FlightDate)
	rows = appendRow(rows, LabelDeparture, place(f.DepartureCity, f.DepartureCode))
	rows = appendRow(rows, LabelDepartureAt, formatted(f.DepartureDateTime, datefmt.FormatDateTime))
	rows = appendRow(rows, LabelArrival, place(f.ArrivalCity, f.ArrivalCode))
	rows = appendRow(rows, LabelArrivalAt, formatted(f.ArrivalDateTime, datefmt.FormatDateTime))
	rows = appendRow(rows, LabelBookingRef, f.BookingRef)

	return append(out, recordBody(TitleFlight, rows)...)
}

// Hotel builds a hotel block.
func (b *Builder) Hotel(h types.Hotel) []Block {
	var out []Block

	if path, ok := b.assets.HotelLogo(h.Name); ok {
		out = append(out, Image(path, recordLogoWidth, recordLogoHeight), Spacing(spaceSmall))
	}

	rows := []Row{
		{LabelName, h.Name},
		{LabelAddress, h.Address},
		{LabelCheckIn, datefmt.FormatDateTime(h.CheckIn)},
		{LabelCheckOut, datefmt.FormatDateTime(h.CheckOut)},
	}
	rows = appendRow(rows, LabelBookingRef, h.BookingRef)

	return append(out, recordBody(TitleHotel, rows)...)
}

// Activity builds an activity block. Activities have no logo asset.
func (b *Builder) Activity(a types.Activity) []Block {
	rows := []Row{
		{LabelName, a.Name},
		{LabelDate, datefmt.FormatDate(a.Date)},
		{LabelTime, datefmt.FormatTime(a.StartTime) + " - " + datefmt.FormatTime(a.EndTime)},
	}
	rows = appendRow(rows, LabelLocation, a.Location)
	rows = appendRow(rows, LabelBookingRef, a.BookingRef)

	return recordBody(TitleActivity, rows)
}

// ExtraInfo builds the trailing information block.
func (b *Builder) ExtraInfo(x types.ExtraInfo) []Block {
	out := []Block{
		Separator(),
		Spacing(spaceSmall),
		Title(TitleExtraInfo, 2),
		Spacing(spaceSmall),
	}

	if len(x.EmergencyContacts) > 0 {
		rows := make([]Row, 0, len(x.EmergencyContacts))
		for _, c := range x.EmergencyContacts {
			rows = append(rows, Row{c.Name, c.Phone})
		}
		out = append(out, Body("Notfallkontakte:"), Grid(rows...), Spacing(spaceMedium))
	}

	var info []Row
	info = appendRow(info, LabelCurrency, x.Currency)
	info = appendRow(info, LabelTimezone, x.Timezone)
	if len(info) > 0 {
		out = append(out, Table(info...), Spacing(spaceMedium))
	}

	if x.Notes != "" {
		out = append(out, Body("Notizen:"), Body(x.Notes), Spacing(spaceMedium))
	}

	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// recordBody is steps 2-5 of the record layout.
func recordBody(title string, rows []Row) []Block {
	return []Block{
		Separator(),
		Spacing(spaceSmall),
		Title(title, 2),
		Spacing(spaceSmall),
		Table(rows...),
		Spacing(spaceLarge),
	}
}

// appendRow adds a row only for a non-empty value.
func appendRow(rows []Row, label, value string) []Row {
	if value == "" {
		return rows
	}
	return append(rows, Row{label, value})
}

// place renders "City (CODE)", or whichever half is present.
func place(city, code string) string {
	switch {
	case city != "" && code != "":
		return city + " (" + code + ")"
	case city != "":
		return city
	default:
		return code
	}
}

func formatted(value string, format func(string) string) string {
	if value == "" {
		return ""
	}
	return format(value)
}
