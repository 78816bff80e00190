package watermark

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams(t *testing.T) {
	test := []struct {
		name  string
		raw   RawParams
		check func(t *testing.T, p Params)
	}{
		{
			name: "well formed",
			raw: RawParams{
				Text: "© ACME", Font: "Courier New", Opacity: "0.3", FontSize: "12.5",
				Color: "#ff8000", Direction: "vertical", Fill: "diagonal-tile", Spacing: "200",
			},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, "© ACME", p.Text)
				assert.Equal(t, "Courier New", p.Font)
				assert.InDelta(t, 0.3, p.Opacity, 1e-9)
				assert.InDelta(t, 12.5, p.FontSize, 1e-9)
				assert.Equal(t, color.NRGBA{R: 0xff, G: 0x80, A: 0xff}, p.Color)
				assert.Equal(t, DirectionVertical, p.Direction)
				assert.Equal(t, FillDiagonalTile, p.Fill)
				assert.InDelta(t, 200, p.Spacing, 1e-9)
			},
		},
		{
			name: "malformed numbers fall back",
			raw:  RawParams{Opacity: "half", FontSize: "big", Spacing: "NaN"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, 1.0, p.Opacity)
				assert.Equal(t, defaultFontSize, p.FontSize)
				assert.Equal(t, defaultSpacing, p.Spacing)
			},
		},
		{
			name: "opacity is clamped",
			raw:  RawParams{Opacity: "1.7"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, 1.0, p.Opacity)
			},
		},
		{
			name: "negative opacity is clamped",
			raw:  RawParams{Opacity: "-0.2"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, 0.0, p.Opacity)
			},
		},
		{
			name: "short hex colour",
			raw:  RawParams{Color: "#0f0"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, color.NRGBA{G: 0xff, A: 0xff}, p.Color)
			},
		},
		{
			name: "bad colour is black",
			raw:  RawParams{Color: "not-a-colour"},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, color.NRGBA{A: 0xff}, p.Color)
			},
		},
		{
			name: "empty text and font",
			raw:  RawParams{},
			check: func(t *testing.T, p Params) {
				assert.Equal(t, "", p.Text)
				assert.Equal(t, PlaceholderText, p.DisplayText())
				assert.Equal(t, DefaultFont, p.Font)
			},
		},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, ParseParams(tt.raw))
		})
	}
}

func TestParseDirection(t *testing.T) {
	assert.Equal(t, DirectionHorizontal, ParseDirection("horizontal"))
	assert.Equal(t, DirectionDiagonalReverse, ParseDirection(" Diagonal-Reverse "))
	assert.Equal(t, DirectionDiagonal, ParseDirection("sideways"))
	assert.Equal(t, DirectionDiagonal, ParseDirection(""))
}

func TestParseFill(t *testing.T) {
	assert.Equal(t, FillSingle, ParseFill("single"))
	assert.Equal(t, FillDiagonalTile, ParseFill("diagonal-tile"))
	assert.Equal(t, FillTile, ParseFill("tile"))
	assert.Equal(t, FillTile, ParseFill("checkerboard"))

	assert.False(t, FillSingle.Tiled())
	assert.True(t, FillTile.Tiled())
	assert.True(t, FillDiagonalTile.Tiled())
}
