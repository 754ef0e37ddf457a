package mocks

import (
	"fmt"
	"sync"

	"github.com/awmthink/viseeker/pkg/ports"
)

// Logger is a mock implementation of ports.Logger that records
// formatted messages per level.
type Logger struct {
	mu       sync.Mutex
	Messages map[string][]string
}

// NewLogger creates a new mock Logger.
func NewLogger() *Logger {
	return &Logger{Messages: make(map[string][]string)}
}

func (m *Logger) record(level, msg string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages[level] = append(m.Messages[level], fmt.Sprintf(msg, args...))
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record("debug", msg, args...) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record("info", msg, args...) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record("warn", msg, args...) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record("error", msg, args...) }

// WithComponent returns the same logger; component prefixes are not
// relevant to assertions.
func (m *Logger) WithComponent(component string) ports.Logger { return m }

var _ ports.Logger = (*Logger)(nil)
