package watermark

import (
	"fmt"
	"image"
)

// inkThreshold is the per-channel difference, on a 0..255 scale, above which
// a pixel counts as changed by the watermark.
const inkThreshold = 16

// Inspection summarizes where a render changed the source pixels.
type Inspection struct {
	Changed int             // number of changed pixels
	Bounds  image.Rectangle // bounding box of the changed pixels
}

// Inspect compares the source with the composited surface and reports the
// changed pixels. Both images must have the same size.
func Inspect(before, after image.Image) (Inspection, error) {
	mask, err := changeMask(before, after)
	if err != nil {
		return Inspection{}, err
	}

	var ins Inspection
	w := mask.Rect.Dx()
	for i, v := range mask.Pix {
		if !v {
			continue
		}
		p := image.Pt(i%w, i/w)
		ins.Changed++
		ins.Bounds = ins.Bounds.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	return ins, nil
}

// Gaps splits the surface into cell×cell squares and returns those that the
// watermark did not touch at all.
func Gaps(before, after image.Image, cell int) ([]image.Rectangle, error) {
	if cell <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", cell)
	}

	mask, err := changeMask(before, after)
	if err != nil {
		return nil, err
	}

	var gaps []image.Rectangle
	for y := 0; y < mask.Rect.Dy(); y += cell {
		for x := 0; x < mask.Rect.Dx(); x += cell {
			r := image.Rect(x, y, x+cell, y+cell).Intersect(mask.Rect)
			if !mask.any(r) {
				gaps = append(gaps, r)
			}
		}
	}
	return gaps, nil
}

type boolMask struct {
	Rect image.Rectangle
	Pix  []bool
}

func (m *boolMask) any(r image.Rectangle) bool {
	w := m.Rect.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.Pix[y*w+x] {
				return true
			}
		}
	}
	return false
}

// changeMask marks every pixel whose colour differs by more than
// inkThreshold in any channel. Coordinates are relative to each image's Min.
func changeMask(before, after image.Image) (*boolMask, error) {
	if before == nil || after == nil {
		return nil, ErrNilImage
	}

	bb, ab := before.Bounds(), after.Bounds()
	if bb.Size() != ab.Size() {
		return nil, fmt.Errorf("size mismatch: %v vs %v", bb.Size(), ab.Size())
	}

	w, h := bb.Dx(), bb.Dy()
	mask := &boolMask{Rect: image.Rect(0, 0, w, h), Pix: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r1, g1, b1, a1 := before.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			r2, g2, b2, a2 := after.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			mask.Pix[y*w+x] = differs(r1, r2) || differs(g1, g2) || differs(b1, b2) || differs(a1, a2)
		}
	}
	return mask, nil
}

func differs(a, b uint32) bool {
	a, b = a>>8, b>>8
	if a > b {
		return a-b > inkThreshold
	}
	return b-a > inkThreshold
}
