// =============================================================================
// Itinerary PDF Generator - Asset Store
// =============================================================================
//
// This module locates the optional files under the assets directory and
// prepares logo images for embedding.
//
// LAYOUT:
//   <assets>/logo.png                  - document logo
//   <assets>/airlines/<slug>.png       - airline logos
//   <assets>/hotels/<slug>.png         - hotel logos
//   <assets>/fonts/OpenSans-*.ttf      - document fonts
//
// A slug is the lower-cased name with spaces replaced by hyphens. Missing
// files are never an error.
//
// CACHING:
//   The directory is indexed once, on first use. Scaled images are kept for
//   the lifetime of the Store. Both caches are read-only after they are
//   filled, so a Store can be shared between goroutines.
//
// =============================================================================

package assets

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ginjaninja78/itinerary-pdf/internal/blocks"
)

// Sub-directories and file names.
const (
	AirlinesDir = "airlines"
	HotelsDir   = "hotels"
	FontsDir    = "fonts"

	LogoFile        = "logo.png"
	FontRegularFile = "OpenSans-Regular.ttf"
	FontBoldFile    = "OpenSans-Bold.ttf"
)

// Subdirs lists the directories the CLI creates under the assets root.
var Subdirs = []string{AirlinesDir, HotelsDir, FontsDir}

// pixelsPerMM is the resolution logos are scaled to (150 dpi).
const pixelsPerMM = 150 / 25.4

// Store resolves asset paths under a directory.
type Store struct {
	dir    string
	logger *slog.Logger

	once  sync.Once
	index map[string]bool

	mu     sync.Mutex
	images map[string][]byte
}

// New creates a Store for dir. The directory does not have to exist.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger, images: make(map[string][]byte)}
}

// Dir returns the assets root.
func (s *Store) Dir() string { return s.dir }

// load indexes the known locations once.
func (s *Store) load() {
	s.once.Do(func() {
		s.index = make(map[string]bool)

		for _, rel := range []string{"", AirlinesDir, HotelsDir, FontsDir} {
			entries, err := os.ReadDir(filepath.Join(s.dir, rel))
			if err != nil {
				continue
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				s.index[filepath.Join(rel, e.Name())] = true
			}
		}

		s.logger.Debug("assets indexed", "dir", s.dir, "files", len(s.index))
	})
}

func (s *Store) lookup(rel string) (string, bool) {
	s.load()
	if !s.index[rel] {
		return "", false
	}
	return filepath.Join(s.dir, rel), true
}

// DocumentLogo implements blocks.Assets.
func (s *Store) DocumentLogo() (string, bool) {
	return s.lookup(LogoFile)
}

// AirlineLogo implements blocks.Assets.
func (s *Store) AirlineLogo(airline string) (string, bool) {
	return s.named(AirlinesDir, airline)
}

// HotelLogo implements blocks.Assets.
func (s *Store) HotelLogo(hotel string) (string, bool) {
	return s.named(HotelsDir, hotel)
}

func (s *Store) named(sub, name string) (string, bool) {
	slug := blocks.Slug(name)
	// The slug must stay a plain file name inside sub.
	if strings.TrimSpace(name) == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") {
		return "", false
	}
	path, ok := s.lookup(filepath.Join(sub, slug+".png"))
	if !ok {
		s.logger.Debug("logo not found", "kind", sub, "name", name)
	}
	return path, ok
}

// Fonts returns the regular and bold font paths. ok is false unless both
// files exist.
func (s *Store) Fonts() (regular, bold string, ok bool) {
	regular, okR := s.lookup(filepath.Join(FontsDir, FontRegularFile))
	bold, okB := s.lookup(filepath.Join(FontsDir, FontBoldFile))
	if !okR || !okB {
		return "", "", false
	}
	return regular, bold, true
}

// =============================================================================
// IMAGES
// =============================================================================

// Image returns the file at path scaled down to fit a box of widthMM by
// heightMM, encoded as PNG. Aspect ratio is kept and images are never
// enlarged.
func (s *Store) Image(path string, widthMM, heightMM float64) ([]byte, error) {
	key := fmt.Sprintf("%s@%.1fx%.1f", path, widthMM, heightMM)

	s.mu.Lock()
	cached, ok := s.images[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}

	maxW := int(widthMM * pixelsPerMM)
	maxH := int(heightMM * pixelsPerMM)
	if maxW > 0 && maxH > 0 {
		img = imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image %s: %w", path, err)
	}

	s.mu.Lock()
	s.images[key] = buf.Bytes()
	s.mu.Unlock()

	return buf.Bytes(), nil
}

var _ blocks.Assets = (*Store)(nil)
