package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving probe output and every transform step of a frame.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveProperties saves the resolved video properties (YAML).
	SaveProperties(data []byte) error

	// SaveProbe saves the raw probe report of the opened file.
	SaveProbe(data []byte) error

	// SaveFrame saves an intermediate frame; step orders the files and
	// name describes the operation that produced the image.
	SaveFrame(step int, name string, img image.Image) error
}
