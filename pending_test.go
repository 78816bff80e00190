package watermark

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingCompletesOnce(t *testing.T) {
	p := newPending()
	first := &Source{Name: "first"}

	p.complete(first, nil)
	p.complete(&Source{Name: "second"}, errors.New("late"))

	src, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, src)

	select {
	case <-p.Done():
	default:
		t.Fatal("Done should be closed after completion")
	}
}

func TestPendingWaitTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := newPending().Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReady(t *testing.T) {
	_, err := Ready(nil).Wait(context.Background())
	assert.ErrorIs(t, err, ErrNilImage)
}

func TestDecodeAsync(t *testing.T) {
	p := DecodeAsync(bytes.NewReader(pngBytes(t, 12, 7)), "dir/tiny.png")

	src, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tiny", src.Stem())
	assert.Equal(t, 12, src.Bounds().Dx())
	assert.Equal(t, 7, src.Bounds().Dy())
}

func TestDecodeAsyncEmpty(t *testing.T) {
	_, err := DecodeAsync(bytes.NewReader(nil), "").Wait(context.Background())
	assert.ErrorIs(t, err, ErrEmptyData)
}

func TestOpenAsync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 5, 5), 0o644))

	src, err := OpenAsync(path).Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan", src.Stem())
	assert.Equal(t, "png", src.Format)

	_, err = OpenAsync(filepath.Join(t.TempDir(), "missing.png")).Wait(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPendingCompletedWinsOverCancelledContext(t *testing.T) {
	src := &Source{Name: "done"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 100; i++ {
		got, err := Ready(src).Wait(ctx)
		require.NoError(t, err)
		assert.Same(t, src, got)
	}
}
