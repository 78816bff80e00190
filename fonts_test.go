package watermark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomonobold"
)

func TestFontSetResolve(t *testing.T) {
	fs := newFontSet()

	sans := fs.resolve("Arial, sans-serif")
	assert.Same(t, sans, fs.resolve(DefaultFont))
	assert.Same(t, sans, fs.resolve(`"Helvetica"`))

	mono := fs.resolve("Courier New")
	assert.NotSame(t, sans, mono)

	// Unknown families and unreadable files fall back to the default.
	assert.Same(t, sans, fs.resolve("Papyrus"))
	assert.Same(t, sans, fs.resolve(filepath.Join(t.TempDir(), "missing.ttf")))
	assert.Same(t, sans, fs.resolve(""))
}

func TestFontSetListPrefersFirstAvailable(t *testing.T) {
	fs := newFontSet()
	assert.Same(t, fs.resolve("monospace"), fs.resolve("Papyrus, monospace, sans-serif"))
}

func TestFontSetLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Mono.TTF")
	require.NoError(t, os.WriteFile(path, gomonobold.TTF, 0o644))

	fs := newFontSet()
	f := fs.resolve(path)
	assert.NotSame(t, fs.resolve(DefaultFont), f)
	assert.Contains(t, fs.fonts, path)
}

func TestFontSetFaceSize(t *testing.T) {
	face, err := newFontSet().Face(DefaultFont, 40)
	require.NoError(t, err)
	defer face.Close()

	m := face.Metrics()
	height := float64(m.Ascent+m.Descent) / 64
	assert.InDelta(t, 40, height, 12)
}

func TestFontSetAliasesShareOneParse(t *testing.T) {
	fs := newFontSet()
	for _, family := range []string{"Arial", "helvetica", "sans-serif", "Times New Roman", "Courier", "mono"} {
		fs.resolve(family)
	}
	assert.Len(t, fs.fonts, 2)
	assert.Contains(t, fs.fonts, "sans-serif")
	assert.Contains(t, fs.fonts, "monospace")
}
