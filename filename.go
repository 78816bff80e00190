package watermark

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf16"
)

const (
	// fallbackBaseName is used when neither the user nor the source supplies a name.
	fallbackBaseName = "watermarked-document"
	defaultSuffix    = "_watermarked"
	timestampLayout  = "2006-01-02_15-04"
	maxSuggestUnits  = 20
)

// forbiddenNameChars cannot appear in an exported file name.
const forbiddenNameChars = `<>:"/\|?*`

// FormatTimestamp renders t as YYYY-MM-DD_HH-MM in its own location.
func FormatTimestamp(t time.Time) string {
	return t.Format(timestampLayout)
}

// SanitizeName replaces every forbidden character with an underscore.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(forbiddenNameChars, r) {
			return '_'
		}
		return r
	}, name)
}

// InvalidNameChars returns the distinct forbidden characters in name, in the
// order they first appear.
func InvalidNameChars(name string) []rune {
	var out []rune
	for _, r := range name {
		if !strings.ContainsRune(forbiddenNameChars, r) {
			continue
		}
		seen := false
		for _, o := range out {
			if o == r {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, r)
		}
	}
	return out
}

// DefaultBaseName is the name suggested after loading a file with the given
// stem.
func DefaultBaseName(stem string) string {
	if stem == "" {
		return fallbackBaseName
	}
	return stem + defaultSuffix
}

// BaseName computes the exported name without extension. An empty base name
// falls back to the source stem, then to a fixed literal.
func BaseName(s ExportSettings, stem string, now time.Time) string {
	base := strings.TrimSpace(s.BaseName)
	if base == "" {
		base = DefaultBaseName(stem)
	}

	base = SanitizeName(base)
	if s.AppendTimestamp {
		base += "_" + FormatTimestamp(now)
	}
	return base
}

// FileName computes {base}[_{timestamp}].{ext} for an export.
func FileName(s ExportSettings, stem string, now time.Time) string {
	return BaseName(s, stem, now) + "." + s.Format.Extension()
}

// SuggestBaseName derives a name from the watermark text while the current
// name is still the untouched default for stem. Otherwise current is
// returned unchanged.
func SuggestBaseName(current, stem, text string) string {
	if stem == "" || current != DefaultBaseName(stem) {
		return current
	}

	slug := textSlug(text)
	if slug == "" {
		return current
	}
	return stem + "_" + slug
}

// textSlug keeps Latin and Ukrainian letters and digits and replaces the rest
// with underscores. Length is counted in UTF-16 code units, as a browser form
// does: a rune outside the BMP becomes two underscores and takes two slots.
func textSlug(text string) string {
	var b strings.Builder
	units := 0
	for _, r := range text {
		if units == maxSuggestUnits {
			break
		}
		if slugRune(r) {
			b.WriteRune(r)
			units++
			continue
		}
		for n := utf16.RuneLen(r); n > 0 && units < maxSuggestUnits; n-- {
			b.WriteByte('_')
			units++
		}
	}
	return b.String()
}

func slugRune(r rune) bool {
	switch {
	case r < unicode.MaxASCII:
		return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
	case 'а' <= r && r <= 'я', 'А' <= r && r <= 'Я':
		return true
	}
	return strings.ContainsRune("їЇєЄіІ", r)
}
