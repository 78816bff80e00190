package watermark

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
)

// ErrNoImage is returned when exporting before an image has been loaded.
var ErrNoImage = errors.New("no image loaded")

// DefaultQuality matches the browser default for lossy canvas exports.
const DefaultQuality = 0.92

// Format is an export encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

type formatSpec struct {
	ext    string
	mime   string
	lossy  bool
	encode func(w io.Writer, img image.Image, quality int) error
}

var formats = map[Format]formatSpec{
	FormatPNG: {
		ext:  "png",
		mime: "image/png",
		encode: func(w io.Writer, img image.Image, _ int) error {
			return imaging.Encode(w, img, imaging.PNG)
		},
	},
	FormatJPEG: {
		ext:   "jpg",
		mime:  "image/jpeg",
		lossy: true,
		encode: func(w io.Writer, img image.Image, quality int) error {
			return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
		},
	},
	FormatWebP: {
		ext:   "webp",
		mime:  "image/webp",
		lossy: true,
		encode: func(w io.Writer, img image.Image, quality int) error {
			return webp.Encode(w, img, webp.Options{Quality: quality})
		},
	},
}

// ParseFormat resolves a format name. Anything unknown exports as PNG.
func ParseFormat(s string) Format {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := formats[f]; ok {
		return f
	}
	return FormatPNG
}

func (f Format) spec() formatSpec {
	if s, ok := formats[f]; ok {
		return s
	}
	return formats[FormatPNG]
}

// Extension returns the file extension for f without the dot.
func (f Format) Extension() string { return f.spec().ext }

// MIMEType returns the media type for f.
func (f Format) MIMEType() string { return f.spec().mime }

// UsesQuality reports whether the quality setting affects f.
func (f Format) UsesQuality() bool { return f.spec().lossy }

// ExportSettings controls how the surface is written out.
type ExportSettings struct {
	Format          Format
	Quality         float64 // 0..1, lossy formats only
	BaseName        string
	AppendTimestamp bool
}

// DefaultExportSettings returns PNG output with the default quality.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{Format: FormatPNG, Quality: DefaultQuality}
}

// RawExport carries export settings as strings from a form or preset.
type RawExport struct {
	Format    string `yaml:"format"`
	Quality   string `yaml:"quality"`
	Name      string `yaml:"name"`
	Timestamp bool   `yaml:"timestamp"`
}

// ParseExport normalizes raw export settings. Malformed or out of range
// quality falls back to DefaultQuality.
func ParseExport(raw RawExport) ExportSettings {
	q, err := strconv.ParseFloat(strings.TrimSpace(raw.Quality), 64)
	if err != nil || math.IsNaN(q) || q < 0 || q > 1 {
		q = DefaultQuality
	}
	return ExportSettings{
		Format:          ParseFormat(raw.Format),
		Quality:         q,
		BaseName:        raw.Name,
		AppendTimestamp: raw.Timestamp,
	}
}

// encoderQuality maps 0..1 onto the 1..100 scale used by the encoders.
func encoderQuality(q float64) int {
	if math.IsNaN(q) || q < 0 || q > 1 {
		q = DefaultQuality
	}
	return max(1, int(math.Round(q*100)))
}

// Encode writes img to w in the configured format.
func Encode(w io.Writer, img image.Image, s ExportSettings) error {
	if img == nil {
		return ErrNoImage
	}
	spec := s.Format.spec()
	if err := spec.encode(w, img, encoderQuality(s.Quality)); err != nil {
		return fmt.Errorf("encode %s: %w", spec.ext, err)
	}
	return nil
}
