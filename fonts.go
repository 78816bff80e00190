package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// DefaultFont names the face used when the requested family is unknown.
const DefaultFont = "sans-serif"

// fontAliases maps family names to one of the embedded faces. Text is always
// drawn bold, so only bold faces are embedded.
var fontAliases = map[string]string{
	"sans-serif":      "sans-serif",
	"sans":            "sans-serif",
	"arial":           "sans-serif",
	"helvetica":       "sans-serif",
	"verdana":         "sans-serif",
	"tahoma":          "sans-serif",
	"impact":          "sans-serif",
	"serif":           "sans-serif",
	"times new roman": "sans-serif",
	"georgia":         "sans-serif",
	"cursive":         "cursive",
	"comic sans ms":   "cursive",
	"monospace":       "monospace",
	"mono":            "monospace",
	"courier":         "monospace",
	"courier new":     "monospace",
}

// embeddedFonts holds the TTF data behind each canonical family.
var embeddedFonts = map[string][]byte{
	"sans-serif": gobold.TTF,
	"cursive":    gobolditalic.TTF,
	"monospace":  gomonobold.TTF,
}

// fontSet lazily parses fonts and caches them by family key.
type fontSet struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}

func newFontSet() *fontSet {
	return &fontSet{fonts: make(map[string]*opentype.Font)}
}

// Face resolves family to a face of the given pixel size. family may be a
// CSS-style list ("Arial, sans-serif") or a path to a TTF/OTF file. The first
// entry that loads wins; when none does the default face is used.
func (s *fontSet) Face(family string, px float64) (font.Face, error) {
	f := s.resolve(family)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    px,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create %.1fpx face: %w", px, err)
	}
	return face, nil
}

func (s *fontSet) resolve(family string) *opentype.Font {
	for _, name := range strings.Split(family, ",") {
		key := normalizeFamily(name)
		if key == "" {
			continue
		}
		f, err := s.load(key)
		if err == nil {
			return f
		}
		Logger().Debug("font unavailable", "family", key, "err", err)
	}

	f, err := s.load(DefaultFont)
	if err != nil {
		// The embedded default always parses.
		panic(fmt.Sprintf("parse default font: %v", err))
	}
	return f
}

// load parses the font behind key once. Aliases of an embedded family share
// one cache entry; files are cached by path.
func (s *fontSet) load(key string) (*opentype.Font, error) {
	if canonical, ok := fontAliases[key]; ok {
		key = canonical
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.fonts[key]; ok {
		return f, nil
	}

	data, err := fontData(key)
	if err != nil {
		return nil, err
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}

	s.fonts[key] = f
	return f, nil
}

// fontData returns embedded data for a known family or reads a font file.
func fontData(key string) ([]byte, error) {
	if data, ok := embeddedFonts[key]; ok {
		return data, nil
	}

	if !isFontFile(key) {
		return nil, fmt.Errorf("unknown font family %q", key)
	}

	data, err := os.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf":
		return true
	}
	return false
}

// normalizeFamily trims whitespace and quotes. Family names are matched case
// insensitively; file paths keep their case.
func normalizeFamily(name string) string {
	name = strings.Trim(strings.TrimSpace(name), `"'`)
	if isFontFile(name) {
		return name
	}
	return strings.ToLower(name)
}
