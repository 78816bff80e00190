package watermark

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// PlaceholderText is stamped when the text field is empty.
	PlaceholderText = "ВАШ ТЕКСТ"

	defaultOpacity  = 1.0
	defaultFontSize = 5.0
	defaultSpacing  = 150.0
)

// Direction selects the rotation applied to every stamped instance.
type Direction string

const (
	DirectionHorizontal      Direction = "horizontal"
	DirectionVertical        Direction = "vertical"
	DirectionDiagonal        Direction = "diagonal"
	DirectionDiagonalReverse Direction = "diagonal-reverse"
)

// directionAngles maps each direction to its rotation in degrees. Positive
// angles turn clockwise in image space.
var directionAngles = map[Direction]float64{
	DirectionHorizontal:      0,
	DirectionVertical:        -90,
	DirectionDiagonal:        -45,
	DirectionDiagonalReverse: 45,
}

// ParseDirection resolves a direction name. Unknown names fall back to
// DirectionDiagonal.
func ParseDirection(s string) Direction {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := directionAngles[d]; ok {
		return d
	}
	return DirectionDiagonal
}

// Angle returns the rotation for d in degrees.
func (d Direction) Angle() float64 {
	return directionAngles[d]
}

// Fill selects how the text is laid out over the surface.
type Fill string

const (
	FillSingle       Fill = "single"
	FillTile         Fill = "tile"
	FillDiagonalTile Fill = "diagonal-tile"
)

// ParseFill resolves a fill mode name. Anything that is not a known mode is
// treated as a plain tile grid.
func ParseFill(s string) Fill {
	f := Fill(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := fillStrategies[f]; ok {
		return f
	}
	return FillTile
}

// Tiled reports whether the spacing parameter has any effect for f.
func (f Fill) Tiled() bool {
	return f != FillSingle
}

// Params is the normalized watermark configuration.
type Params struct {
	Text      string
	Font      string
	Opacity   float64 // 0..1
	FontSize  float64 // percent of surface width
	Color     color.NRGBA
	Direction Direction
	Fill      Fill
	Spacing   float64 // percent of the text box
}

// DefaultParams returns the parameters used before the user changes anything.
func DefaultParams() Params {
	return Params{
		Text:      PlaceholderText,
		Font:      DefaultFont,
		Opacity:   defaultOpacity,
		FontSize:  defaultFontSize,
		Color:     color.NRGBA{A: 0xff},
		Direction: DirectionDiagonal,
		Fill:      FillSingle,
		Spacing:   defaultSpacing,
	}
}

// DisplayText returns the text to stamp, substituting the placeholder for an
// empty field.
func (p Params) DisplayText() string {
	if p.Text == "" {
		return PlaceholderText
	}
	return p.Text
}

// RawParams carries the watermark settings as they arrive from a form or the
// command line, before any parsing.
type RawParams struct {
	Text      string `yaml:"text"`
	Font      string `yaml:"font"`
	Opacity   string `yaml:"opacity"`
	FontSize  string `yaml:"font_size"`
	Color     string `yaml:"color"`
	Direction string `yaml:"direction"`
	Fill      string `yaml:"fill"`
	Spacing   string `yaml:"spacing"`
}

// ParseParams normalizes raw values. Malformed numbers never produce an
// error; they fall back to neutral values (fully opaque, nominal size).
func ParseParams(raw RawParams) Params {
	p := DefaultParams()
	p.Text = raw.Text
	if f := strings.TrimSpace(raw.Font); f != "" {
		p.Font = f
	}
	p.Opacity = clamp(parseFloat(raw.Opacity, defaultOpacity), 0, 1)
	p.FontSize = parseFloat(raw.FontSize, defaultFontSize)
	p.Color = parseColor(raw.Color)
	p.Direction = ParseDirection(raw.Direction)
	p.Fill = ParseFill(raw.Fill)
	p.Spacing = parseFloat(raw.Spacing, defaultSpacing)
	return p
}

func parseFloat(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// parseColor accepts #rgb and #rrggbb. Anything else yields opaque black.
func parseColor(s string) color.NRGBA {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
