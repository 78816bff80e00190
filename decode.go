package watermark

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	// Register common decoders, including WebP, BMP and TIFF via x/image.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

var (
	// ErrEmptyData is returned when there are no bytes to decode.
	ErrEmptyData = errors.New("empty image data")
	// ErrNilImage is returned when a decoder yields no image.
	ErrNilImage = errors.New("nil image provided")
)

// Source is a decoded image loaded by the user. It is never modified after
// decoding; a new load replaces it wholesale.
type Source struct {
	Image  image.Image
	Name   string // file name the image came from, may be empty
	Format string // "png", "jpeg", "webp", ...
}

// NewSource wraps an already decoded image.
func NewSource(img image.Image, name string) (*Source, error) {
	if img == nil {
		return nil, ErrNilImage
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", b.Dx(), b.Dy())
	}
	return &Source{Image: img, Name: name}, nil
}

// Bounds returns the pixel bounds of the source image.
func (s *Source) Bounds() image.Rectangle {
	return s.Image.Bounds()
}

// Stem returns the file name without directory and last extension, or "" when
// the source has no name.
func (s *Source) Stem() string {
	if s == nil {
		return ""
	}
	return fileStem(s.Name)
}

func fileStem(name string) string {
	if name == "" {
		return ""
	}
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Decode reads an image from the reader, returning the decoded image and the
// detected format string ("png", "jpeg", "webp", etc.). JPEG images are
// rotated according to their EXIF orientation.
func Decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return DecodeImageBytes(data)
}

// DecodeImageBytes decodes raw image bytes.
func DecodeImageBytes(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyData
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("detect format: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", format, err)
	}

	return img, format, nil
}

// DecodeSource decodes r into a Source named name.
func DecodeSource(r io.Reader, name string) (*Source, error) {
	img, format, err := Decode(r)
	if err != nil {
		return nil, err
	}

	src, err := NewSource(img, name)
	if err != nil {
		return nil, err
	}
	src.Format = format
	return src, nil
}
