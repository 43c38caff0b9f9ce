package codec

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
	loggerMu   sync.RWMutex

	// debug avoids formatting costs when debug logging is off
	debug = false
)

// Logger returns the package logger, defaulting to a no-op logger.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if logger == nil {
			logger = zap.NewNop()
		}
	})

	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger installs a custom logger. Pass a logger with debug level
// enabled to trace type plan compilation.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
	debug = l != nil && l.Core().Enabled(zapcore.DebugLevel)
}

func debugf(format string, args ...any) {
	if !debug {
		return
	}
	Logger().Debug(fmt.Sprintf(format, args...))
}
