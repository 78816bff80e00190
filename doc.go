// Package watermark stamps a text watermark onto raster images.
//
// A Session holds the loaded source image, the watermark parameters and the
// export settings. Every change re-renders the composited surface from
// scratch: the source is blitted at the origin and the text is drawn on top,
// either once at the centre or tiled across the whole surface. The result can
// be exported as PNG, JPEG or WebP. Everything runs in memory; decoding is the
// only step that happens in the background.
package watermark
