// =============================================================================
// Itinerary PDF Generator - Flight Enrichment
// =============================================================================
//
// This module replaces "minimal" flight records (flugNr + flugDatum, with an
// optional buchungsNr) with full records fetched from a flight lookup.
//
// MERGE RULES:
//   - Non-minimal flights are never touched
//   - The looked-up record is merged over the minimal one, key by key
//   - A non-empty buchungsNr supplied by the user wins over the looked-up one
//   - Any lookup failure keeps the minimal record and is reported, never
//     propagated
//
// CONCURRENCY:
//   Lookups for different flights are independent and run on a bounded
//   number of goroutines. Results are written back by index, so input order
//   is preserved.
//
// =============================================================================

package enrich

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ginjaninja78/itinerary-pdf/internal/flightapi"
	"github.com/ginjaninja78/itinerary-pdf/internal/types"
)

// minimalRequired and minimalAllowed define the minimal key set.
var (
	minimalRequired = []string{types.KeyFlightNumber, types.KeyFlightDate}
	minimalAllowed  = map[string]bool{
		types.KeyFlightNumber: true,
		types.KeyFlightDate:   true,
		types.KeyBookingRef:   true,
	}
)

// IsMinimal reports whether the flight's key set contains both required
// keys and nothing outside {flugNr, flugDatum, buchungsNr}. Values are not
// inspected: an extra key with an empty value still makes the flight
// non-minimal.
func IsMinimal(f types.Flight) bool {
	for _, key := range minimalRequired {
		if !f.Has(key) {
			return false
		}
	}
	for _, key := range f.Keys() {
		if !minimalAllowed[key] {
			return false
		}
	}
	return true
}

// Merge lays every key of over on top of base and returns the result.
// A non-empty booking reference in base survives.
func Merge(base, over types.Flight) types.Flight {
	merged := base.Clone()
	for _, key := range over.Keys() {
		if v, ok := over.Get(key); ok {
			merged.Set(key, v)
			continue
		}
		if raw, ok := over.Extra[key]; ok {
			merged.SetRaw(key, raw)
		}
	}

	if base.BookingRef != "" {
		merged.Set(types.KeyBookingRef, base.BookingRef)
	}
	return merged
}

// Enrich returns the enriched flight, or f unchanged when it is not
// minimal. On lookup failure f is returned together with the error.
func Enrich(ctx context.Context, f types.Flight, lookup flightapi.Lookup) (types.Flight, error) {
	if !IsMinimal(f) {
		return f, nil
	}

	full, err := lookup.Lookup(ctx, f.FlightNumber, f.FlightDate)
	if err != nil {
		return f, err
	}
	return Merge(f, full), nil
}

// =============================================================================
// BATCH ENRICHMENT
// =============================================================================

// Failure records a flight that stayed minimal.
type Failure struct {
	// Index is the 0-based position in the flight list.
	Index int
	Err   error
}

// Enricher enriches every flight of an itinerary.
type Enricher struct {
	lookup      flightapi.Lookup
	concurrency int
	logger      *slog.Logger
}

// New creates an Enricher. concurrency below 1 means sequential lookups.
func New(lookup flightapi.Lookup, concurrency int, logger *slog.Logger) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{lookup: lookup, concurrency: concurrency, logger: logger}
}

// EnrichAll replaces minimal flights in place and returns the failures in
// index order. It never fails as a whole.
func (e *Enricher) EnrichAll(ctx context.Context, flights []types.Flight) []Failure {
	errs := make([]error, len(flights))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i := range flights {
		if !IsMinimal(flights[i]) {
			continue
		}

		e.logger.Info("minimal flight found",
			"flight", flights[i].FlightNumber,
			"date", flights[i].FlightDate)

		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			enriched, err := Enrich(ctx, flights[i], e.lookup)
			if err != nil {
				errs[i] = err
				return
			}
			// Each goroutine owns exactly one index.
			flights[i] = enriched
			e.logger.Info("flight data enriched", "flight", enriched.FlightNumber)
		}(i)
	}

	wg.Wait()

	var failures []Failure
	for i, err := range errs {
		if err == nil {
			continue
		}
		e.logger.Warn("could not enrich flight",
			"index", i+1,
			"flight", flights[i].FlightNumber,
			"error", err)
		failures = append(failures, Failure{Index: i, Err: err})
	}

	return failures
}
