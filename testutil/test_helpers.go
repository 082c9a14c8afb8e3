package testutil

import (
	"os"

	"github.com/SaiNageswarS/go-mini-boot/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// WithEnv temporarily sets an environment variable for the duration of a test function.
// It automatically restores the original value and sets up a mock logger.
func WithEnv(key, value string, fn func(logger *MockLogger)) {
	originalEnv, had := os.LookupEnv(key)
	os.Setenv(key, value)
	defer func() {
		if had {
			os.Setenv(key, originalEnv)
		} else {
			os.Unsetenv(key)
		}
	}()

	WithMockFatal(fn)
}

// WithMockFatal routes logger.Fatal to a recording mock while fn runs.
// The mock returns instead of exiting, so code after the Fatal call runs.
func WithMockFatal(fn func(logger *MockLogger)) {
	mockLogger := &MockLogger{}
	originalLogger := logger.Fatal
	logger.Fatal = mockLogger.Fatal
	defer func() {
		logger.Fatal = originalLogger
	}()

	fn(mockLogger)
}

// ObserveLogs swaps the global logger for an in-memory observer until the
// returned restore func is called.
func ObserveLogs(level zapcore.LevelEnabler) (*observer.ObservedLogs, func()) {
	core, rec := observer.New(level)
	orig := logger.Log
	logger.Log = zap.New(core)
	return rec, func() { logger.Log = orig }
}

// MockLogger is a test double for the logger that captures Fatal calls.
type MockLogger struct {
	IsFatalCalled bool
	FatalMsg      string
	FatalFields   []zap.Field
}

// Fatal implements the logger.Fatal interface for testing purposes.
func (m *MockLogger) Fatal(msg string, fields ...zap.Field) {
	m.IsFatalCalled = true
	m.FatalMsg = msg
	m.FatalFields = fields
}
