package watermark

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"
)

// Session is the state behind one editing session: the loaded source, the
// watermark parameters and the export settings. Every change that affects the
// picture re-renders the surface through the session's Compositor.
//
// A Session is not safe for concurrent use.
type Session struct {
	Output ExportSettings

	params     Params
	compositor *Compositor
	source     *Source
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithCompositor renders through c instead of a fresh Compositor.
func WithCompositor(c *Compositor) SessionOption {
	return func(s *Session) {
		if c != nil {
			s.compositor = c
		}
	}
}

// WithParams sets the initial watermark parameters.
func WithParams(p Params) SessionOption {
	return func(s *Session) { s.params = p }
}

// WithExportSettings sets the initial export settings.
func WithExportSettings(e ExportSettings) SessionOption {
	return func(s *Session) { s.Output = e }
}

// NewSession returns a session with default parameters and no image.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		Output:     DefaultExportSettings(),
		params:     DefaultParams(),
		compositor: NewCompositor(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns the loaded image, or nil.
func (s *Session) Source() *Source { return s.source }

// Params returns the current watermark parameters.
func (s *Session) Params() Params { return s.params }

// Surface returns the composited surface from the last render, or nil.
func (s *Session) Surface() *image.RGBA { return s.compositor.Surface() }

// Renders reports how many times the surface has been rendered.
func (s *Session) Renders() int { return s.compositor.Renders() }

// Load waits for p to complete, installs the decoded image, suggests a
// default export name and renders exactly once. If ctx ends first or the
// decode fails the session is left untouched.
func (s *Session) Load(ctx context.Context, p *Pending) error {
	src, err := p.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			Logger().Warn("load abandoned", "err", err)
		}
		return fmt.Errorf("load image: %w", err)
	}

	s.source = src
	s.Output.BaseName = DefaultBaseName(src.Stem())
	Logger().Info("loaded image",
		"name", src.Name, "format", src.Format,
		"width", src.Bounds().Dx(), "height", src.Bounds().Dy())

	s.Render()
	return nil
}

// SetParams replaces the watermark parameters and re-renders if an image is
// loaded.
func (s *Session) SetParams(p Params) {
	s.params = p
	s.Render()
}

// SetText changes the watermark text. While the export name is still the
// untouched default it follows the text.
func (s *Session) SetText(text string) {
	if s.source != nil {
		s.Output.BaseName = SuggestBaseName(s.Output.BaseName, s.source.Stem(), text)
	}
	s.params.Text = text
	s.Render()
}

// Render redraws the surface from the current state. It does nothing and
// reports false when no image is loaded.
func (s *Session) Render() (*image.RGBA, bool) {
	return s.compositor.Render(s.source, s.params)
}

// FileName returns the name the next export will use.
func (s *Session) FileName(now time.Time) string {
	return FileName(s.Output, s.source.Stem(), now)
}

// Export encodes the surface to w and returns the file name it should be
// saved under. Without an image it returns ErrNoImage and writes nothing.
func (s *Session) Export(w io.Writer, now time.Time) (string, error) {
	surface := s.Surface()
	if s.source == nil || surface == nil {
		return "", ErrNoImage
	}

	name := s.FileName(now)
	if err := Encode(w, surface, s.Output); err != nil {
		return "", err
	}

	Logger().Info("exported", "name", name, "format", s.Output.Format, "mime", s.Output.Format.MIMEType())
	return name, nil
}

// ExportFile writes the export into dir and returns the created path.
// Without an image it returns ErrNoImage and creates nothing.
func (s *Session) ExportFile(dir string, now time.Time) (string, error) {
	if s.source == nil || s.Surface() == nil {
		return "", ErrNoImage
	}

	path := filepath.Join(dir, s.FileName(now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}

	if _, err := s.Export(f, now); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}
	return path, nil
}
