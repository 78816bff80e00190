package watermark

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a saved set of watermark and export settings.
//
//	watermark:
//	  text: "© ACME"
//	  font: "Arial, sans-serif"
//	  opacity: "0.4"
//	  direction: diagonal
//	  fill: diagonal-tile
//	export:
//	  format: jpeg
//	  quality: "0.8"
//	  timestamp: true
type Preset struct {
	Watermark RawParams `yaml:"watermark"`
	Export    RawExport `yaml:"export"`
}

// ReadPreset decodes a YAML preset. Unknown keys are rejected.
func ReadPreset(r io.Reader) (Preset, error) {
	var p Preset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && err != io.EOF {
		return Preset{}, fmt.Errorf("decode preset: %w", err)
	}
	return p, nil
}

// LoadPreset reads the preset file at path.
func LoadPreset(path string) (Preset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Preset{}, fmt.Errorf("open preset: %w", err)
	}
	defer f.Close()

	return ReadPreset(f)
}
