package util

import (
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger installs the process-wide logger. Calling it again replaces
// and closes the previous one.
func InitLogger(cfg LoggerConfig) error {
	logger, err := NewLogger(cfg)
	if err != nil {
		return err
	}

	loggerMu.Lock()
	prev := globalLogger
	globalLogger = logger
	loggerMu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return nil
}

// CloseLogger flushes and detaches the global logger.
func CloseLogger() error {
	loggerMu.Lock()
	prev := globalLogger
	globalLogger = nil
	loggerMu.Unlock()

	if prev == nil {
		return nil
	}
	return prev.Close()
}

func current() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// LogInfo convenience functions for logging
func LogInfo(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Info(msg, fields...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogDebug(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Debug(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Warn(msg, fields...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Error(msg, fields...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
