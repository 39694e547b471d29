// =============================================================================
// Itinerary PDF Generator - PDF Writer Module
// =============================================================================
//
// This module draws content block groups onto pages with gofpdf.
//
// PAGE MODEL:
//   - One page size (A4 by default) and one margin applied to all four sides
//   - Groups are drawn in the order given
//   - A keep-together group that does not fit into the rest of the current
//     page, but does fit on an empty one, starts on a new page
//   - A group taller than a full page is drawn as it comes and flows over
//     the automatic page break
//   - Every page carries a "Seite N/M" footer inside the bottom margin
//
// FONTS:
//   With both OpenSans files available the document uses them as UTF-8
//   fonts. Otherwise the core Helvetica font is used and text is translated
//   to cp1252, which covers German umlauts.
//
// =============================================================================

package pdfwriter

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"log/slog"
	"os"

	"github.com/phpdave11/gofpdf"

	"github.com/ginjaninja78/itinerary-pdf/internal/blocks"
)

// =============================================================================
// OPTIONS
// =============================================================================

// ImageSource supplies PNG data for image blocks.
type ImageSource interface {
	Image(path string, widthMM, heightMM float64) ([]byte, error)
}

// Options contains the page geometry and document settings.
type Options struct {
	// PageSize is a gofpdf size name.
	// Default: "A4"
	PageSize string

	// MarginMM is applied to all four sides.
	// Default: 20
	MarginMM float64

	// Title and Creator go into the document metadata.
	Title   string
	Creator string

	// FontRegular and FontBold are TTF paths. Both must be set to use them.
	FontRegular string
	FontBold    string

	// Images loads image blocks. Without it image blocks are skipped.
	Images ImageSource

	Logger *slog.Logger
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		PageSize: "A4",
		MarginMM: 20,
		Creator:  "reiseplan",
	}
}

// Font sizes (pt) and line heights (mm).
const (
	titleSize    = 18
	titleLine    = 9
	subtitleSize = 14
	subtitleLine = 7
	bodySize     = 10
	bodyLine     = 5
	tableLine    = 6
	footerSize   = 8

	labelWidth      = 45
	separatorHeight = 2
)

const utf8Family = "OpenSans"

// Placement records where a group started.
type Placement struct {
	Group string
	Page  int
	Y     float64
}

// =============================================================================
// WRITER
// =============================================================================

// Writer renders one document. A Writer is not reusable.
type Writer struct {
	opts   Options
	logger *slog.Logger

	pdf    *gofpdf.Fpdf
	family string
	tr     func(string) string

	pageH    float64
	contentW float64

	images     map[string]imageRef
	placements []Placement
}

type imageRef struct {
	name string
	w, h float64
	ok   bool
}

// New creates a Writer. Zero values in opts take their defaults.
func New(opts Options) *Writer {
	def := DefaultOptions()
	if opts.PageSize == "" {
		opts.PageSize = def.PageSize
	}
	if opts.MarginMM <= 0 {
		opts.MarginMM = def.MarginMM
	}
	if opts.Creator == "" {
		opts.Creator = def.Creator
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{opts: opts, logger: logger, images: make(map[string]imageRef)}
}

// Render draws the groups and writes the finished PDF to out.
func (w *Writer) Render(out io.Writer, groups []blocks.Group) error {
	if err := w.setup(); err != nil {
		return err
	}

	for _, g := range groups {
		w.place(g)
		if w.pdf.Err() {
			return fmt.Errorf("render %s: %w", g.Name, w.pdf.Error())
		}
	}

	if err := w.pdf.Output(out); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// Placements returns where each group started, in drawing order.
func (w *Writer) Placements() []Placement {
	return w.placements
}

// Pages returns the number of pages drawn so far.
func (w *Writer) Pages() int {
	if w.pdf == nil {
		return 0
	}
	return w.pdf.PageNo()
}

func (w *Writer) setup() error {
	m := w.opts.MarginMM

	pdf := gofpdf.New("P", "mm", w.opts.PageSize, "")
	if pdf.Err() {
		return fmt.Errorf("page setup: %w", pdf.Error())
	}
	pdf.SetMargins(m, m, m)
	pdf.SetAutoPageBreak(true, m)
	pdf.AliasNbPages("")
	pdf.SetCreator(w.opts.Creator, true)
	if w.opts.Title != "" {
		pdf.SetTitle(w.opts.Title, true)
	}

	w.pdf = pdf
	w.family = "Helvetica"
	w.tr = pdf.UnicodeTranslatorFromDescriptor("")

	if w.opts.FontRegular != "" && w.opts.FontBold != "" {
		// gofpdf joins font paths onto its font directory, which breaks
		// absolute paths. Fonts are handed over as bytes instead.
		for _, font := range []struct{ style, path string }{
			{"", w.opts.FontRegular},
			{"B", w.opts.FontBold},
		} {
			data, err := os.ReadFile(font.path)
			if err != nil {
				return fmt.Errorf("load fonts: %w", err)
			}
			pdf.AddUTF8FontFromBytes(utf8Family, font.style, data)
		}
		if pdf.Err() {
			return fmt.Errorf("load fonts: %w", pdf.Error())
		}
		w.family = utf8Family
		w.tr = func(s string) string { return s }
	}

	pageW, pageH := pdf.GetPageSize()
	w.pageH = pageH
	w.contentW = pageW - 2*m

	pdf.SetFooterFunc(func() {
		pdf.SetY(-m * 0.75)
		pdf.SetFont(w.family, "", footerSize)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, w.tr(fmt.Sprintf("Seite %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	pdf.AddPage()
	return nil
}

// =============================================================================
// PAGINATION
// =============================================================================

// needsBreak reports whether a group of the given height starting at y
// must move to a new page: it overflows the current page, fits on an empty
// one, and the current page is not already empty.
func needsBreak(height, y, pageH, margin float64) bool {
	bottom := pageH - margin
	if y+height <= bottom {
		return false
	}
	if height > pageH-2*margin {
		return false
	}
	return y > margin+0.01
}

func (w *Writer) place(g blocks.Group) {
	if g.KeepTogether {
		h := w.measure(g.Blocks)
		if needsBreak(h, w.pdf.GetY(), w.pageH, w.opts.MarginMM) {
			w.logger.Debug("group moved to next page", "group", g.Name, "height", h)
			w.pdf.AddPage()
		}
	}

	w.placements = append(w.placements, Placement{Group: g.Name, Page: w.pdf.PageNo(), Y: w.pdf.GetY()})

	for _, b := range g.Blocks {
		w.draw(b)
	}
}

// measure returns the height the blocks occupy when drawn.
func (w *Writer) measure(bs []blocks.Block) float64 {
	var h float64
	for _, b := range bs {
		h += w.blockHeight(b)
	}
	return h
}

func (w *Writer) blockHeight(b blocks.Block) float64 {
	switch b.Kind {
	case blocks.KindTitle:
		size, line := titleMetrics(b.Level)
		w.pdf.SetFont(w.family, "B", size)
		return w.lines(b.Text, w.contentW) * line
	case blocks.KindBody:
		w.pdf.SetFont(w.family, "", bodySize)
		return w.lines(b.Text, w.contentW) * bodyLine
	case blocks.KindTable:
		var h float64
		for _, row := range b.Rows {
			h += w.rowHeight(row, b.Style)
		}
		return h
	case blocks.KindImage:
		if ref := w.image(b); ref.ok {
			return ref.h
		}
		return 0
	case blocks.KindSeparator:
		return separatorHeight
	case blocks.KindSpacing:
		return b.Amount
	}
	return 0
}

// lines counts the wrapped lines of text in the current font. Core fonts
// measure the translated single-byte text.
func (w *Writer) lines(text string, width float64) float64 {
	var n int
	if w.family == utf8Family {
		n = len(w.pdf.SplitText(text, width))
	} else {
		n = len(w.pdf.SplitLines([]byte(w.tr(text)), width))
	}
	if n < 1 {
		n = 1
	}
	return float64(n)
}

func titleMetrics(level int) (size, line float64) {
	if level <= 1 {
		return titleSize, titleLine
	}
	return subtitleSize, subtitleLine
}

// =============================================================================
// DRAWING
// =============================================================================

func (w *Writer) draw(b blocks.Block) {
	pdf := w.pdf
	left := w.opts.MarginMM

	switch b.Kind {
	case blocks.KindTitle:
		size, line := titleMetrics(b.Level)
		pdf.SetFont(w.family, "B", size)
		pdf.SetX(left)
		pdf.MultiCell(w.contentW, line, w.tr(b.Text), "", "L", false)

	case blocks.KindBody:
		pdf.SetFont(w.family, "", bodySize)
		pdf.SetX(left)
		pdf.MultiCell(w.contentW, bodyLine, w.tr(b.Text), "", "L", false)

	case blocks.KindTable:
		for _, row := range b.Rows {
			w.drawRow(row, b.Style)
		}

	case blocks.KindImage:
		ref := w.image(b)
		if !ref.ok {
			return
		}
		y := pdf.GetY()
		pdf.ImageOptions(ref.name, left, y, ref.w, ref.h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.SetXY(left, y+ref.h)

	case blocks.KindSeparator:
		y := pdf.GetY() + separatorHeight/2
		pdf.SetDrawColor(160, 160, 160)
		pdf.SetLineWidth(0.3)
		pdf.Line(left, y, left+w.contentW, y)
		pdf.SetDrawColor(0, 0, 0)
		pdf.SetLineWidth(0.2)
		pdf.SetXY(left, pdf.GetY()+separatorHeight)

	case blocks.KindSpacing:
		pdf.Ln(b.Amount)
	}
}

// columns returns the cell widths and label font style of a table style.
func (w *Writer) columns(style blocks.TableStyle) (first, second float64, labelStyle string) {
	if style == blocks.TableGrid {
		half := w.contentW / 2
		return half, half, ""
	}
	return labelWidth, w.contentW - labelWidth, "B"
}

func (w *Writer) rowHeight(row blocks.Row, style blocks.TableStyle) float64 {
	first, second, labelStyle := w.columns(style)

	w.pdf.SetFont(w.family, labelStyle, bodySize)
	n := w.lines(row.Label, first)

	w.pdf.SetFont(w.family, "", bodySize)
	if m := w.lines(row.Value, second); m > n {
		n = m
	}
	return n * tableLine
}

func (w *Writer) drawRow(row blocks.Row, style blocks.TableStyle) {
	pdf := w.pdf
	left := w.opts.MarginMM
	first, second, labelStyle := w.columns(style)

	h := w.rowHeight(row, style)

	// Rows are never split between pages.
	if pdf.GetY()+h > w.pageH-w.opts.MarginMM {
		pdf.AddPage()
	}
	y := pdf.GetY()

	pdf.SetDrawColor(200, 200, 200)
	if style == blocks.TableLabeled {
		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(left, y, first, h, "FD")
	} else {
		pdf.Rect(left, y, first, h, "D")
	}
	pdf.Rect(left+first, y, second, h, "D")
	pdf.SetDrawColor(0, 0, 0)

	pdf.SetFont(w.family, labelStyle, bodySize)
	pdf.SetXY(left, y)
	pdf.MultiCell(first, tableLine, w.tr(row.Label), "", "L", false)

	pdf.SetFont(w.family, "", bodySize)
	pdf.SetXY(left+first, y)
	pdf.MultiCell(second, tableLine, w.tr(row.Value), "", "L", false)

	pdf.SetXY(left, y+h)
}

// image registers an image block once and returns its drawn size, fitted
// into the block's box with the aspect ratio kept.
func (w *Writer) image(b blocks.Block) imageRef {
	key := fmt.Sprintf("%s@%.1fx%.1f", b.Path, b.Width, b.Height)
	if ref, ok := w.images[key]; ok {
		return ref
	}

	ref := imageRef{name: key}
	w.images[key] = ref

	if w.opts.Images == nil {
		return ref
	}

	data, err := w.opts.Images.Image(b.Path, b.Width, b.Height)
	if err != nil {
		w.logger.Warn("image skipped", "path", b.Path, "error", err)
		return ref
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		w.logger.Warn("image skipped", "path", b.Path, "error", err)
		return ref
	}

	ref.w, ref.h = b.Width, b.Width*float64(cfg.Height)/float64(cfg.Width)
	if ref.h > b.Height {
		ref.h, ref.w = b.Height, b.Height*float64(cfg.Width)/float64(cfg.Height)
	}

	w.pdf.RegisterImageOptionsReader(key, gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	if w.pdf.Err() {
		w.logger.Warn("image skipped", "path", b.Path, "error", w.pdf.Error())
		w.pdf.ClearError()
		return ref
	}

	ref.ok = true
	w.images[key] = ref
	return ref
}
