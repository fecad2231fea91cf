package boundary

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the boundary package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the boundary package's logger.
// Hosts created afterwards use it unless WithLogger overrides it.
func SetLogger(l *zap.Logger) {
	logger = l
}
