// =============================================================================
// Itinerary PDF Generator - Flight Status Lookup
// =============================================================================
//
// This module fetches full flight data for a flight number and date from a
// flight-status service (aviationstack-compatible).
//
// REQUEST:
//   GET <url>?access_key=<key>&flight_iata=<flugNr>&flight_date=<YYYY-MM-DD>
//
// RESPONSE (fields used):
//   data[0].airline.name
//   data[0].departure.{airport,iata,scheduled}
//   data[0].arrival.{airport,iata,scheduled}
//   data[0].flight.number   (optional, becomes buchungsNr)
//
// ERRORS:
//   Every failure is a *LookupError with one of four kinds. Callers treat
//   all of them as recoverable for the single flight concerned.
//
// =============================================================================

package flightapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// DefaultURL is the public aviationstack endpoint.
const DefaultURL = "http://api.aviationstack.com/v1/flights"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// =============================================================================
// ERRORS
// =============================================================================

// Kind classifies a lookup failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindUnauthorized
	KindTransport
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	case KindTransport:
		return "transport error"
	case KindMalformed:
		return "malformed response"
	}
	return "unknown"
}

// Sentinels for errors.Is.
var (
	ErrNotFound     = &LookupError{Kind: KindNotFound}
	ErrUnauthorized = &LookupError{Kind: KindUnauthorized}
	ErrTransport    = &LookupError{Kind: KindTransport}
	ErrMalformed    = &LookupError{Kind: KindMalformed}
)

// LookupError reports why a flight could not be looked up.
type LookupError struct {
	Kind         Kind
	FlightNumber string
	FlightDate   string
	Err          error
}

func (e *LookupError) Error() string {
	msg := "flight lookup: " + e.Kind.String()
	if e.FlightNumber != "" {
		msg += fmt.Sprintf(" (%s on %s)", e.FlightNumber, e.FlightDate)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LookupError) Unwrap() error { return e.Err }

// Is matches any *LookupError of the same kind.
func (e *LookupError) Is(target error) bool {
	t, ok := target.(*LookupError)
	return ok && t.Kind == e.Kind
}

// =============================================================================
// LOOKUP CAPABILITY
// =============================================================================

// Lookup resolves a flight number and date into a full flight record.
type Lookup interface {
	Lookup(ctx context.Context, flightNumber, flightDate string) (types.Flight, error)
}

// LookupFunc adapts a function to the Lookup interface.
type LookupFunc func(ctx context.Context, flightNumber, flightDate string) (types.Flight, error)

// Lookup calls f.
func (f LookupFunc) Lookup(ctx context.Context, flightNumber, flightDate string) (types.Flight, error) {
	return f(ctx, flightNumber, flightDate)
}

// =============================================================================
// CLIENT
// =============================================================================

// Options configures a Client.
type Options struct {
	// URL is the endpoint. Default: DefaultURL.
	URL string

	// APIKey is sent as access_key. Empty fails every lookup with
	// KindUnauthorized without a request being made.
	APIKey string

	// Timeout bounds a single request. Default: 10s.
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables it.
	RequestsPerSecond float64

	// HTTPClient overrides the client used. Its Timeout is left alone.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client is an HTTP flight-status lookup.
type Client struct {
	url     string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// New creates a Client.
func New(opts Options) *Client {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{
		url:     opts.URL,
		apiKey:  opts.APIKey,
		http:    httpClient,
		limiter: limiter,
		logger:  opts.Logger,
	}
}

// response mirrors the parts of the API payload that are used.
type response struct {
	Data *[]struct {
		Airline *struct {
			Name field `json:"name"`
		} `json:"airline"`
		Departure *endpoint `json:"departure"`
		Arrival   *endpoint `json:"arrival"`
		Flight    *struct {
			Number field `json:"number"`
		} `json:"flight"`
	} `json:"data"`
}

type endpoint struct {
	Airport   field `json:"airport"`
	IATA      field `json:"iata"`
	Scheduled field `json:"scheduled"`
}

// field is a string value that remembers whether its key was present.
// An explicit null counts as present and reads as "".
type field struct {
	set   bool
	value string
}

func (f *field) UnmarshalJSON(data []byte) error {
	f.set = true
	if string(bytes.TrimSpace(data)) == "null" {
		f.value = ""
		return nil
	}
	return json.Unmarshal(data, &f.value)
}

// Lookup fetches the first matching flight.
func (c *Client) Lookup(ctx context.Context, flightNumber, flightDate string) (types.Flight, error) {
	fail := func(kind Kind, err error) (types.Flight, error) {
		return types.Flight{}, &LookupError{Kind: kind, FlightNumber: flightNumber, FlightDate: flightDate, Err: err}
	}

	if c.apiKey == "" {
		return fail(KindUnauthorized, errors.New("no API key configured"))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fail(KindTransport, err)
		}
	}

	c.logger.Info("looking up flight", "flight", flightNumber, "date", flightDate)

	query := url.Values{}
	query.Set("access_key", c.apiKey)
	query.Set("flight_iata", flightNumber)
	query.Set("flight_date", flightDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"?"+query.Encode(), nil)
	if err != nil {
		return fail(KindTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts land here as well.
		return fail(KindTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fail(KindUnauthorized, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode == http.StatusNotFound:
		return fail(KindNotFound, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fail(KindTransport, fmt.Errorf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fail(KindTransport, err)
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return fail(KindMalformed, err)
	}
	if payload.Data == nil {
		return fail(KindMalformed, errors.New("missing key: data"))
	}
	if len(*payload.Data) == 0 {
		return fail(KindNotFound, errors.New("empty data array"))
	}

	d := (*payload.Data)[0]
	switch {
	case d.Airline == nil || !d.Airline.Name.set:
		return fail(KindMalformed, errors.New("missing key: airline.name"))
	case !d.Departure.complete():
		return fail(KindMalformed, errors.New("missing key: departure"))
	case !d.Arrival.complete():
		return fail(KindMalformed, errors.New("missing key: arrival"))
	}

	bookingRef := ""
	if d.Flight != nil {
		bookingRef = d.Flight.Number.value
	}

	return types.NewFlight(map[string]string{
		types.KeyAirline:           d.Airline.Name.value,
		types.KeyFlightNumber:      flightNumber,
		types.KeyDepartureCity:     d.Departure.Airport.value,
		types.KeyDepartureCode:     d.Departure.IATA.value,
		types.KeyDepartureDateTime: d.Departure.Scheduled.value,
		types.KeyArrivalCity:       d.Arrival.Airport.value,
		types.KeyArrivalCode:       d.Arrival.IATA.value,
		types.KeyArrivalDateTime:   d.Arrival.Scheduled.value,
		types.KeyBookingRef:        bookingRef,
	}), nil
}

func (e *endpoint) complete() bool {
	return e != nil && e.Airport.set && e.IATA.set && e.Scheduled.set
}
