// =============================================================================
// Itinerary PDF Generator - Document Assembler
// =============================================================================
//
// This module contains the generation pipeline. It takes one raw itinerary
// document to one PDF file.
//
// GENERATION PIPELINE:
//   1. Validate the raw document (all messages reported together)
//   2. Decode it into the itinerary model
//   3. Enrich minimal flights through the lookup (failures are recovered
//      per flight)
//   4. Build block groups in fixed order:
//        header, overview, flights, hotels, activities, extra-info
//      Every flight, hotel, activity and the extra-info block is one
//      keep-together group
//   5. Render to a temporary file and rename it to
//        <output>/<title-with-hyphens>.pdf
//   6. Run the post-render callback (its failure is only logged)
//
// ERRORS:
//   - ErrInputNotFound and *validation.ValidationError abort before anything
//     is written
//   - *RenderError is the only error after partial work; the final path
//     never holds a half-written file
//
// =============================================================================

package assembler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/itinerary-pdf/internal/assets"
	"github.com/ginjaninja78/itinerary-pdf/internal/blocks"
	"github.com/ginjaninja78/itinerary-pdf/internal/enrich"
	"github.com/ginjaninja78/itinerary-pdf/internal/flightapi"
	"github.com/ginjaninja78/itinerary-pdf/internal/pdfwriter"
	"github.com/ginjaninja78/itinerary-pdf/internal/types"
	"github.com/ginjaninja78/itinerary-pdf/internal/validation"
	"github.com/ginjaninja78/itinerary-pdf/internal/xlsxparser"
	"github.com/ginjaninja78/itinerary-pdf/pkg/utils"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrInputNotFound is returned when the itinerary file does not exist.
var ErrInputNotFound = errors.New("itinerary file not found")

// RenderError reports a failure of the layout engine or of writing its
// output.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one generation run.
type Result struct {
	// OutputFile is the path of the generated PDF.
	OutputFile string

	// Groups lists the rendered group names in order.
	Groups []string

	// Pages is the page count of the document.
	Pages int

	// EnrichFailures lists the flights that stayed minimal.
	EnrichFailures []enrich.Failure

	// Duration is the time taken by the run.
	Duration time.Duration
}

// =============================================================================
// ASSEMBLER STRUCTURE
// =============================================================================

// Options configures an Assembler.
type Options struct {
	// OutputDir receives the PDF.
	OutputDir string

	// PageSize and MarginMM are the page geometry.
	PageSize string
	MarginMM float64

	// Lookup enriches minimal flights. Nil skips enrichment.
	Lookup flightapi.Lookup

	// Concurrency bounds parallel lookups.
	// Default: 1
	Concurrency int

	// Assets resolves logos and fonts. Nil disables both.
	Assets *assets.Store

	// PostRender is called with the output path after a successful render.
	PostRender func(path string) error

	Logger *slog.Logger
}

// Assembler runs the generation pipeline.
type Assembler struct {
	opts    Options
	logger  *slog.Logger
	builder *blocks.Builder
}

// New creates an Assembler.
func New(opts Options) *Assembler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}

	var resolver blocks.Assets = blocks.NoAssets{}
	if opts.Assets != nil {
		resolver = opts.Assets
	}

	return &Assembler{
		opts:    opts,
		logger:  logger,
		builder: blocks.NewBuilder(resolver),
	}
}

// =============================================================================
// INPUT
// =============================================================================

// LoadFile reads an itinerary file into a raw document. ".xlsx" files go
// through the workbook parser, everything else is decoded as JSON.
func LoadFile(path string) (interface{}, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		doc, err := xlsxparser.ParseWorkbook(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return doc, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Decode converts a validated raw document into the itinerary model.
// Values of the wrong type are reported as a validation error.
func Decode(raw interface{}) (*types.Itinerary, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var it types.Itinerary
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, &validation.ValidationError{
			Messages: []string{"Reiseplan konnte nicht gelesen werden: " + err.Error()},
		}
	}
	return &it, nil
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// GenerateFile loads path and runs Assemble on it.
func (a *Assembler) GenerateFile(ctx context.Context, path string) (*Result, error) {
	a.logger.Info("processing itinerary", "file", path)

	raw, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Assemble(ctx, raw)
}

// Assemble runs the pipeline on a raw document.
func (a *Assembler) Assemble(ctx context.Context, raw interface{}) (*Result, error) {
	start := time.Now()
	result := &Result{}

	// =========================================================================
	// STEP 1: VALIDATE
	// =========================================================================

	if err := validation.Check(raw); err != nil {
		return nil, err
	}

	it, err := Decode(raw)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("itinerary validated",
		"title", it.Title,
		"flights", len(it.Flights),
		"hotels", len(it.Hotels),
		"activities", len(it.Activities))

	// =========================================================================
	// STEP 2: ENRICH FLIGHTS
	// =========================================================================

	if a.opts.Lookup != nil {
		enricher := enrich.New(a.opts.Lookup, a.opts.Concurrency, a.logger)
		result.EnrichFailures = enricher.EnrichAll(ctx, it.Flights)
	}

	// =========================================================================
	// STEP 3: BUILD BLOCK GROUPS
	// =========================================================================

	groups := a.BuildGroups(it)
	for _, g := range groups {
		result.Groups = append(result.Groups, g.Name)
	}

	// =========================================================================
	// STEP 4: RENDER
	// =========================================================================

	path, pages, err := a.render(it.Title, groups)
	if err != nil {
		return nil, err
	}
	result.OutputFile = path
	result.Pages = pages

	a.logger.Info("pdf generated", "file", path, "pages", pages)

	// =========================================================================
	// STEP 5: POST-RENDER
	// =========================================================================

	if a.opts.PostRender != nil {
		if err := a.opts.PostRender(path); err != nil {
			a.logger.Warn("post-render action failed", "file", path, "error", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// BuildGroups builds the block groups of an itinerary in document order.
func (a *Assembler) BuildGroups(it *types.Itinerary) []blocks.Group {
	b := a.builder

	groups := []blocks.Group{
		{Name: "header", Blocks: b.Header(it)},
		{Name: "overview", Blocks: b.Overview(it)},
	}

	for i, f := range it.Flights {
		groups = append(groups, keep(fmt.Sprintf("flight#%d", i+1), b.Flight(f)))
	}
	for i, h := range it.Hotels {
		groups = append(groups, keep(fmt.Sprintf("hotel#%d", i+1), b.Hotel(h)))
	}
	for i, act := range it.Activities {
		groups = append(groups, keep(fmt.Sprintf("activity#%d", i+1), b.Activity(act)))
	}
	if it.ExtraInfo != nil {
		groups = append(groups, keep("extra-info", b.ExtraInfo(*it.ExtraInfo)))
	}

	return groups
}

func keep(name string, bs []blocks.Block) blocks.Group {
	return blocks.Group{Name: name, Blocks: bs, KeepTogether: true}
}

// render writes the PDF with write-then-rename and returns its path and
// page count.
func (a *Assembler) render(title string, groups []blocks.Group) (string, int, error) {
	fm := utils.NewFileManager(a.opts.OutputDir)
	name := utils.OutputFileName(title)
	final := filepath.Join(a.opts.OutputDir, name)

	if err := fm.EnsureDirectories(); err != nil {
		return "", 0, &RenderError{Path: final, Err: err}
	}

	opts := pdfwriter.Options{
		PageSize: a.opts.PageSize,
		MarginMM: a.opts.MarginMM,
		Title:    title,
		Logger:   a.logger,
	}
	if a.opts.Assets != nil {
		opts.Images = a.opts.Assets
		if regular, bold, ok := a.opts.Assets.Fonts(); ok {
			opts.FontRegular, opts.FontBold = regular, bold
		} else {
			a.logger.Warn("fonts not found, using Helvetica",
				"dir", filepath.Join(a.opts.Assets.Dir(), assets.FontsDir))
		}
	}

	writer := pdfwriter.New(opts)
	path, err := fm.WriteAtomic(name, func(w io.Writer) error {
		return writer.Render(w, groups)
	})
	if err != nil {
		return "", 0, &RenderError{Path: final, Err: err}
	}

	for _, p := range writer.Placements() {
		a.logger.Debug("group placed", "group", p.Group, "page", p.Page, "y", p.Y)
	}

	return path, writer.Pages(), nil
}

// =============================================================================
// ENRICH ONLY
// =============================================================================

// EnrichDocument validates raw and enriches its flights in place of the
// "fluege" list. Every other key, known or not, is kept as it was.
func (a *Assembler) EnrichDocument(ctx context.Context, raw interface{}) (map[string]interface{}, []enrich.Failure, error) {
	if err := validation.Check(raw); err != nil {
		return nil, nil, err
	}
	doc := raw.(map[string]interface{})

	section, ok := doc[types.KeyFlights]
	if !ok || section == nil || a.opts.Lookup == nil {
		return doc, nil, nil
	}

	data, err := json.Marshal(section)
	if err != nil {
		return nil, nil, fmt.Errorf("encode flights: %w", err)
	}
	var flights []types.Flight
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, nil, fmt.Errorf("decode flights: %w", err)
	}

	failures := enrich.New(a.opts.Lookup, a.opts.Concurrency, a.logger).EnrichAll(ctx, flights)

	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	out[types.KeyFlights] = flights

	return out, failures, nil
}
