package codec

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	logger    atomic.Pointer[zap.Logger]
	nopLogger = zap.NewNop()
)

// Logger returns the codec package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return nopLogger
}

// SetLogger configures the codec package's logger. It may be called while
// other goroutines encode and decode. A nil logger restores the no-op one.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
