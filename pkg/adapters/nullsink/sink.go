// Package nullsink provides the debug sink used when --debug is off.
package nullsink

import (
	"image"

	"github.com/user/videolab/pkg/ports"
)

// Sink reports itself disabled so the session skips encoding probe YAML and
// intermediate transform steps. The Save methods accept and drop anything.
type Sink struct{}

var _ ports.DebugSink = (*Sink)(nil)

// New returns a disabled sink.
func New() *Sink { return &Sink{} }

// Enabled always reports false.
func (*Sink) Enabled() bool { return false }

func (*Sink) SaveProperties([]byte) error              { return nil }
func (*Sink) SaveProbe([]byte) error                   { return nil }
func (*Sink) SaveFrame(int, string, image.Image) error { return nil }
