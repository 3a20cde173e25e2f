package logger

import "github.com/user/videolab/pkg/ports"

// NoopLogger drops every message. The CLI selects it for --quiet, and
// session and stage tests use it so assertions are not mixed with log noise.
type NoopLogger struct{}

var _ ports.Logger = (*NoopLogger)(nil)

// NewNoop returns a logger that writes nothing.
func NewNoop() *NoopLogger { return &NoopLogger{} }

func (*NoopLogger) Debug(string, ...interface{}) {}
func (*NoopLogger) Info(string, ...interface{})  {}
func (*NoopLogger) Warn(string, ...interface{})  {}
func (*NoopLogger) Error(string, ...interface{}) {}

// WithComponent ignores the component; there is no prefix to attach.
func (l *NoopLogger) WithComponent(string) ports.Logger { return l }
