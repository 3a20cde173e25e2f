package pipeline

import (
	"bytes"
	"image"
	"image/color"

	"github.com/user/videolab/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Area returns Width*Height.
func (r Rectangle) Area() int {
	return r.Width * r.Height
}

// =============================================================================
// Metadata Stage Types
// =============================================================================

// VideoProperties is an immutable snapshot of the structural properties of
// a video. A nil field means the value is unknown.
type VideoProperties struct {
	Width           *int     `yaml:"width"`
	Height          *int     `yaml:"height"`
	DurationSeconds *float64 `yaml:"duration_seconds"`
	FPS             *float64 `yaml:"fps"`
	FrameCount      *int     `yaml:"frame_count"`
	HasAudio        bool     `yaml:"has_audio"`
	Backend         string   `yaml:"backend"`
}

// Property is one named scalar of VideoProperties. Value is nil when unknown.
type Property struct {
	Name  string
	Value interface{}
}

// Fields returns the properties in display order.
func (p VideoProperties) Fields() []Property {
	return []Property{
		{Name: "Width", Value: intValue(p.Width)},
		{Name: "Height", Value: intValue(p.Height)},
		{Name: "Duration (s)", Value: floatValue(p.DurationSeconds)},
		{Name: "FPS", Value: floatValue(p.FPS)},
		{Name: "Frames", Value: intValue(p.FrameCount)},
		{Name: "Has audio", Value: p.HasAudio},
		{Name: "Backend", Value: p.Backend},
	}
}

func intValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func floatValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// =============================================================================
// Frame Types
// =============================================================================

// Channel counts supported by Frame.
const (
	ChannelsGray = 1
	ChannelsRGB  = 3
)

// Frame is a decoded still image stored row-major, top-to-bottom, with
// Channels interleaved bytes per pixel. Frames are treated as values:
// operations never modify Pix of their input.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pix      []uint8
}

// NewFrame allocates a zeroed frame.
func NewFrame(width, height, channels int) Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Frame{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]uint8, width*height*channels),
	}
}

// Stride returns the number of bytes per row.
func (f Frame) Stride() int {
	return f.Width * f.Channels
}

// Offset returns the index in Pix of the first channel of pixel (x, y).
func (f Frame) Offset(x, y int) int {
	return y*f.Stride() + x*f.Channels
}

// Empty reports whether the frame has no pixels.
func (f Frame) Empty() bool {
	return f.Width == 0 || f.Height == 0
}

// Clone returns a deep copy.
func (f Frame) Clone() Frame {
	pix := make([]uint8, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// Equal reports whether two frames have identical geometry and pixels.
func (f Frame) Equal(o Frame) bool {
	return f.Width == o.Width && f.Height == o.Height &&
		f.Channels == o.Channels && bytes.Equal(f.Pix, o.Pix)
}

// RGB returns the pixel at (x, y) as RGB; gray pixels are replicated.
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	i := f.Offset(x, y)
	if f.Channels == ChannelsGray {
		v := f.Pix[i]
		return v, v, v
	}
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// ToRGB returns a 3-channel copy of the frame.
func (f Frame) ToRGB() Frame {
	if f.Channels == ChannelsRGB {
		return f.Clone()
	}
	out := NewFrame(f.Width, f.Height, ChannelsRGB)
	for i, v := range f.Pix {
		out.Pix[i*3] = v
		out.Pix[i*3+1] = v
		out.Pix[i*3+2] = v
	}
	return out
}

// Image returns an independent image.Image view of the frame:
// *image.Gray for one channel, *image.RGBA (opaque) otherwise.
func (f Frame) Image() image.Image {
	rect := image.Rect(0, 0, f.Width, f.Height)
	if f.Channels == ChannelsGray {
		img := image.NewGray(rect)
		copy(img.Pix, f.Pix)
		return img
	}
	img := image.NewRGBA(rect)
	for i, j := 0, 0; i+2 < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FrameFromImage converts any image into an RGB frame anchored at (0, 0).
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy(), ChannelsRGB)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < f.Height; y++ {
			src := rgba.Pix[(y+b.Min.Y-rgba.Rect.Min.Y)*rgba.Stride+(b.Min.X-rgba.Rect.Min.X)*4:]
			dst := f.Pix[y*f.Stride():]
			for x := 0; x < f.Width; x++ {
				dst[x*3] = src[x*4]
				dst[x*3+1] = src[x*4+1]
				dst[x*3+2] = src[x*4+2]
			}
		}
		return f
	}

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			i := f.Offset(x, y)
			f.Pix[i] = c.R
			f.Pix[i+1] = c.G
			f.Pix[i+2] = c.B
		}
	}
	return f
}

// =============================================================================
// Seek Stage Types
// =============================================================================

// SeekResult is the frame returned for a requested time offset together
// with the position it was resolved to.
type SeekResult struct {
	Frame Frame

	// Index is the zero-based frame index the request resolved to.
	Index int

	// TimeSeconds is the clamped request time.
	TimeSeconds float64

	// DecodeSeconds is the offset handed to the decoder.
	DecodeSeconds float64
}

// =============================================================================
// Transform Stage Types
// =============================================================================

// DetectionResult is a frame annotated with region bounding boxes.
type DetectionResult struct {
	Frame       Frame
	RegionCount int
	Regions     []Rectangle
}

// CropSet holds the fixed partitions of a frame.
type CropSet struct {
	Left   Frame
	Right  Frame
	Top    Frame
	Bottom Frame
	Major  Frame // left 80%
	Minor  Frame // right 20%
}

// =============================================================================
// Audio Stage Types
// =============================================================================

// AudioStatus classifies the outcome of an audio extraction.
type AudioStatus int

const (
	// AudioExtracted means Data holds the encoded audio track.
	AudioExtracted AudioStatus = iota
	// AudioNone means the video has no audio track; nothing was attempted.
	AudioNone
	// AudioFailed means extraction was attempted and failed; see Reason.
	AudioFailed
)

// String returns the status name.
func (s AudioStatus) String() string {
	switch s {
	case AudioExtracted:
		return "extracted"
	case AudioNone:
		return "no audio"
	case AudioFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// AudioArtifact is the result of audio extraction.
type AudioArtifact struct {
	Status   AudioStatus
	Data     []byte
	MIMEType string
	Format   ports.AudioFormat
	Reason   string
}

// OK reports whether Data holds usable audio.
func (a AudioArtifact) OK() bool {
	return a.Status == AudioExtracted && len(a.Data) > 0
}
