package watermark

import (
	"context"
	"io"
	"os"
	"sync"
)

// Pending is the result of a background decode. It completes exactly once,
// with either a Source or an error.
type Pending struct {
	done chan struct{}
	once sync.Once
	src  *Source
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// complete records the outcome. Only the first call has any effect.
func (p *Pending) complete(src *Source, err error) {
	p.once.Do(func() {
		p.src, p.err = src, err
		close(p.done)
	})
}

// Done is closed once the decode has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the decode finishes or ctx is done. A finished decode
// wins over a cancelled ctx.
func (p *Pending) Wait(ctx context.Context) (*Source, error) {
	select {
	case <-p.done:
		return p.src, p.err
	default:
	}

	select {
	case <-p.done:
		return p.src, p.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready returns a Pending that has already completed with src.
func Ready(src *Source) *Pending {
	p := newPending()
	if src == nil {
		p.complete(nil, ErrNilImage)
	} else {
		p.complete(src, nil)
	}
	return p
}

// DecodeAsync decodes r in the background. r must not be used by the caller
// until the returned Pending completes.
func DecodeAsync(r io.Reader, name string) *Pending {
	p := newPending()
	go func() {
		src, err := DecodeSource(r, name)
		p.complete(src, err)
	}()
	return p
}

// OpenAsync opens and decodes the file at path in the background.
func OpenAsync(path string) *Pending {
	p := newPending()
	go func() {
		f, err := os.Open(path)
		if err != nil {
			p.complete(nil, err)
			return
		}
		defer f.Close()

		src, err := DecodeSource(f, path)
		p.complete(src, err)
	}()
	return p
}
