package watermark

import (
	"log/slog"
	"sync/atomic"
)

var (
	silent  = slog.New(slog.DiscardHandler)
	current atomic.Pointer[slog.Logger]
)

// SetLogger routes the package's diagnostics to l. Rendering logs surface
// size and tile grid at debug level, loads and exports at info, and abandoned
// loads at warn. A nil l silences the package again.
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the logger set by SetLogger, or a logger that drops
// everything.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
