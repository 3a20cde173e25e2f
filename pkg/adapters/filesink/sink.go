// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/user/videolab/pkg/ports"
)

var unsafeChars = regexp.MustCompile(`[^a-z0-9._-]+`)

// Sink saves debug output to files.
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveProperties saves the resolved video properties as YAML.
func (s *Sink) SaveProperties(data []byte) error {
	path := filepath.Join(s.baseDir, "properties.yaml")
	return s.fs.WriteFile(path, data)
}

// SaveProbe saves the raw probe report.
func (s *Sink) SaveProbe(data []byte) error {
	path := filepath.Join(s.baseDir, "probe.yaml")
	return s.fs.WriteFile(path, data)
}

// SaveFrame saves an intermediate frame as frames/step-NN-<name>.png.
func (s *Sink) SaveFrame(step int, name string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", step, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("step-%02d-%s.png", step, slug(name)))
	return s.fs.WriteFile(path, data)
}

func slug(name string) string {
	s := unsafeChars.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "frame"
	}
	return s
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
