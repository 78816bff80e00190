package watermark

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMapping(t *testing.T) {
	test := []struct {
		in      string
		ext     string
		mime    string
		quality bool
	}{
		{"jpeg", "jpg", "image/jpeg", true},
		{"webp", "webp", "image/webp", true},
		{"png", "png", "image/png", false},
		{"gif", "png", "image/png", false},
		{"", "png", "image/png", false},
	}
	for _, tt := range test {
		t.Run(tt.in, func(t *testing.T) {
			f := ParseFormat(tt.in)
			assert.Equal(t, tt.ext, f.Extension())
			assert.Equal(t, tt.mime, f.MIMEType())
			assert.Equal(t, tt.quality, f.UsesQuality())
		})
	}

	// A Format built by hand still maps to PNG.
	assert.Equal(t, "png", Format("bmp").Extension())
}

func TestParseExport(t *testing.T) {
	e := ParseExport(RawExport{Format: "JPEG", Quality: "0.7", Name: "shot", Timestamp: true})
	assert.Equal(t, FormatJPEG, e.Format)
	assert.InDelta(t, 0.7, e.Quality, 1e-9)
	assert.Equal(t, "shot", e.BaseName)
	assert.True(t, e.AppendTimestamp)

	for _, q := range []string{"", "good", "1.5", "-1", "NaN"} {
		assert.Equal(t, DefaultQuality, ParseExport(RawExport{Quality: q}).Quality, q)
	}
}

func TestEncoderQuality(t *testing.T) {
	assert.Equal(t, 1, encoderQuality(0))
	assert.Equal(t, 50, encoderQuality(0.5))
	assert.Equal(t, 100, encoderQuality(1))
	assert.Equal(t, 92, encoderQuality(7))
}

func TestEncodeFormats(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for i := range img.Pix {
		img.Pix[i] = uint8(i)
	}

	test := []struct {
		format Format
		want   string
	}{
		{FormatPNG, "png"},
		{FormatJPEG, "jpeg"},
		{FormatWebP, "webp"},
	}
	for _, tt := range test {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, img, ExportSettings{Format: tt.format, Quality: 0.8}))

			cfg, format, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, format)
			assert.Equal(t, 64, cfg.Width)
			assert.Equal(t, 48, cfg.Height)
		})
	}
}

func TestEncodePNGIsLossless(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(3, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, ExportSettings{Format: FormatPNG}))

	got, _, err := DecodeImageBytes(buf.Bytes())
	require.NoError(t, err)
	r, g, b, a := got.At(3, 4).RGBA()
	assert.Equal(t, []uint32{1, 2, 3, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}

func TestEncodeNilImage(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Encode(&buf, nil, DefaultExportSettings()), ErrNoImage)
	assert.Zero(t, buf.Len())
}
