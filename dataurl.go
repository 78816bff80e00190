package watermark

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
)

// DecodeDataURL decodes a base64-encoded image, optionally wrapped in a data
// URL, into a Source named name.
func DecodeDataURL(input, name string) (*Source, error) {
	raw := stripDataPrefix(input)

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}

	return DecodeSource(bytes.NewReader(data), name)
}

// EncodeDataURL encodes img with the export settings and returns it as a
// data URL ("data:image/png;base64,...").
func EncodeDataURL(img image.Image, s ExportSettings) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, s); err != nil {
		return "", err
	}
	return "data:" + s.Format.MIMEType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func stripDataPrefix(input string) string {
	input = strings.TrimSpace(input)
	lower := strings.ToLower(input)
	if strings.HasPrefix(lower, "data:") {
		if idx := strings.Index(input, ","); idx != -1 {
			return input[idx+1:]
		}
	}
	return input
}
