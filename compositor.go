package watermark

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/fogleman/gg"
)

const (
	// minStep bounds the tile grid so a degenerate text box cannot make the
	// loops run forever.
	minStep = 1.0
	minFont = 1.0
)

// Compositor owns the composited surface and redraws it from a source image
// and a set of parameters.
type Compositor struct {
	fonts   *fontSet
	surface *image.RGBA
	renders int
}

// NewCompositor constructs a Compositor with an empty surface.
func NewCompositor() *Compositor {
	return &Compositor{fonts: newFontSet()}
}

// Surface returns the surface produced by the last render, or nil.
func (c *Compositor) Surface() *image.RGBA {
	return c.surface
}

// Renders reports how many renders have touched the surface.
func (c *Compositor) Renders() int {
	return c.renders
}

// Render clears the surface, blits src at the origin and stamps the watermark
// described by p on top. With no source it does nothing and reports false.
//
// The output depends only on src and p: rendering twice with the same inputs
// yields identical pixels.
func (c *Compositor) Render(src *Source, p Params) (*image.RGBA, bool) {
	if src == nil || src.Image == nil {
		return nil, false
	}

	bounds := src.Bounds()
	c.resize(bounds.Dx(), bounds.Dy())
	// draw.Src replaces every pixel, which clears what the last render left.
	draw.Draw(c.surface, c.surface.Bounds(), src.Image, bounds.Min, draw.Src)

	dc := gg.NewContextForRGBA(c.surface)
	st, err := c.newStamp(dc, p)
	if err != nil {
		Logger().Warn("skip watermark", "err", err)
	} else {
		place, ok := fillStrategies[p.Fill]
		if !ok {
			place = drawTiled
		}
		place(dc, st)
	}

	c.renders++
	Logger().Debug("rendered",
		"width", bounds.Dx(), "height", bounds.Dy(),
		"fill", p.Fill, "direction", p.Direction, "font_px", st.size)

	return c.surface, true
}

// resize reallocates the surface only when the dimensions change.
func (c *Compositor) resize(width, height int) {
	if c.surface != nil && c.surface.Rect.Dx() == width && c.surface.Rect.Dy() == height {
		return
	}
	c.surface = image.NewRGBA(image.Rect(0, 0, width, height))
}

// stamp is one prepared instance of the watermark text.
type stamp struct {
	text     string
	angle    float64 // radians
	size     float64 // font pixel size
	width    float64 // measured advance
	baseline float64 // offset from the anchor to the baseline
	fill     Fill
	spacing  float64
}

func (c *Compositor) newStamp(dc *gg.Context, p Params) (stamp, error) {
	size := math.Max(float64(dc.Width())*p.FontSize/100, minFont)
	st := stamp{
		text:    p.DisplayText(),
		angle:   gg.Radians(p.Direction.Angle()),
		size:    size,
		fill:    p.Fill,
		spacing: p.Spacing,
	}

	face, err := c.fonts.Face(p.Font, size)
	if err != nil {
		return st, err
	}

	dc.SetFontFace(face)
	dc.SetColor(withOpacity(p.Color, p.Opacity))

	// Centre the em box on the anchor, like a "middle" text baseline.
	m := face.Metrics()
	st.baseline = (float64(m.Ascent) - float64(m.Descent)) / 64 / 2
	st.width, _ = dc.MeasureString(st.text)

	return st, nil
}

// withOpacity applies the watermark opacity on top of the colour's own alpha.
func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * clamp(opacity, 0, 1)))
	return c
}

// drawAt stamps the text with its anchor at (x, y), rotated about the anchor.
func (st stamp) drawAt(dc *gg.Context, x, y float64) {
	dc.Push()
	dc.Translate(x, y)
	if st.angle != 0 {
		dc.Rotate(st.angle)
	}
	dc.DrawStringAnchored(st.text, 0, st.baseline, 0.5, 0)
	dc.Pop()
}

// placement lays one prepared stamp out over the surface.
type placement func(dc *gg.Context, st stamp)

// fillStrategies dispatches fill modes to their placement routine.
var fillStrategies = map[Fill]placement{
	FillSingle:       drawSingle,
	FillTile:         drawTiled,
	FillDiagonalTile: drawTiled,
}

// drawSingle places one instance at the surface centre.
func drawSingle(dc *gg.Context, st stamp) {
	st.drawAt(dc, float64(dc.Width())/2, float64(dc.Height())/2)
}

// drawTiled repeats the stamp on a grid reaching one surface size past every
// edge, so rotated tiles leave no gaps at the corners. The staggered variant
// shifts even rows by half a step.
func drawTiled(dc *gg.Context, st stamp) {
	w, h := float64(dc.Width()), float64(dc.Height())
	stepX := math.Max(st.width*st.spacing/100, minStep)
	stepY := math.Max(st.size*st.spacing/100, minStep)
	stagger := st.fill == FillDiagonalTile

	tiles := 0
	for row := 0; ; row++ {
		y := -h + float64(row)*stepY
		if y >= 2*h {
			break
		}

		offset := 0.0
		if stagger && row%2 == 0 {
			offset = stepX / 2
		}

		for col := 0; ; col++ {
			x := -w + float64(col)*stepX
			if x >= 2*w {
				break
			}
			st.drawAt(dc, x+offset, y)
			tiles++
		}
	}

	Logger().Debug("tiled", "step_x", stepX, "step_y", stepY, "tiles", tiles, "stagger", stagger)
}
