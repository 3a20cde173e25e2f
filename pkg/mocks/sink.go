package mocks

import (
	"image"
	"sync"

	"github.com/user/videolab/pkg/ports"
)

// SavedFrame records a SaveFrame call.
type SavedFrame struct {
	Step  int
	Name  string
	Image image.Image
}

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Properties []byte
	Probe      []byte
	Frames     []SavedFrame
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveProperties(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Properties = data
	return nil
}

func (m *DebugSink) SaveProbe(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Probe = data
	return nil
}

func (m *DebugSink) SaveFrame(step int, name string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = append(m.Frames, SavedFrame{Step: step, Name: name, Image: img})
	return nil
}

// FrameNames returns the names of saved frames in call order.
func (m *DebugSink) FrameNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.Frames))
	for i, f := range m.Frames {
		names[i] = f.Name
	}
	return names
}

var _ ports.DebugSink = (*DebugSink)(nil)
