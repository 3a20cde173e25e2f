// Package transform implements the per-frame image operations: grayscale,
// rotation, mirroring, grid overlay, region detection and cropping.
//
// Every operation returns a new Frame and never modifies its input.
package transform

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
)

// GridOptions configures GridOverlay.
type GridOptions struct {
	Rows  int
	Cols  int
	Color color.RGBA
}

// DetectOptions configures DetectRegions.
type DetectOptions struct {
	// MinArea is the contour area a region must exceed to be counted.
	MinArea float64
	// LowThreshold and HighThreshold are the hysteresis thresholds of the
	// edge detector, on the L1 gradient magnitude.
	LowThreshold  float64
	HighThreshold float64
	BoxColor      color.RGBA
	BoxWidth      float64
}

// Options configures a Pipeline.
type Options struct {
	Grid   GridOptions
	Detect DetectOptions
}

// DefaultOptions returns the standard settings: a 4x4 sky-blue grid and
// green 2px boxes around regions larger than 500 px².
func DefaultOptions() Options {
	return Options{
		Grid: GridOptions{
			Rows:  4,
			Cols:  4,
			Color: color.RGBA{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff},
		},
		Detect: DetectOptions{
			MinArea:       500,
			LowThreshold:  50,
			HighThreshold: 150,
			BoxColor:      color.RGBA{G: 0xff, A: 0xff},
			BoxWidth:      2,
		},
	}
}

// Pipeline applies transforms that need to draw. It holds no per-call state.
type Pipeline struct {
	renderer ports.Renderer
	opts     Options
}

// New creates a Pipeline drawing through renderer.
func New(renderer ports.Renderer, opts Options) *Pipeline {
	return &Pipeline{
		renderer: renderer,
		opts:     opts,
	}
}

// Grayscale converts to a single luminance channel using the BT.601
// weights. A gray frame is returned as a copy.
func Grayscale(f pipeline.Frame) pipeline.Frame {
	if f.Channels == pipeline.ChannelsGray {
		return f.Clone()
	}
	out := pipeline.NewFrame(f.Width, f.Height, pipeline.ChannelsGray)
	for i, j := 0, 0; j < len(out.Pix); i, j = i+f.Channels, j+1 {
		r, g, b := int(f.Pix[i]), int(f.Pix[i+1]), int(f.Pix[i+2])
		out.Pix[j] = uint8((299*r + 587*g + 114*b + 500) / 1000)
	}
	return out
}

// Rotate rotates clockwise by 90, 180 or 270 degrees. Any other angle
// returns an unchanged copy.
func Rotate(f pipeline.Frame, angle int) pipeline.Frame {
	switch angle {
	case 90:
		// imaging turns counter-clockwise.
		return fromNRGBA(imaging.Rotate270(f.Image()), f.Channels)
	case 180:
		return fromNRGBA(imaging.Rotate180(f.Image()), f.Channels)
	case 270:
		return fromNRGBA(imaging.Rotate90(f.Image()), f.Channels)
	default:
		return f.Clone()
	}
}

// Mirror flips horizontally.
func Mirror(f pipeline.Frame) pipeline.Frame {
	return fromNRGBA(imaging.FlipH(f.Image()), f.Channels)
}

// fromNRGBA copies the first channels bytes of every pixel. Gray input
// comes back from imaging with R=G=B, so R is the luminance.
func fromNRGBA(img *image.NRGBA, channels int) pipeline.Frame {
	b := img.Bounds()
	out := pipeline.NewFrame(b.Dx(), b.Dy(), channels)
	for y := 0; y < out.Height; y++ {
		src := img.Pix[y*img.Stride:]
		dst := out.Pix[y*out.Stride():]
		for x := 0; x < out.Width; x++ {
			copy(dst[x*channels:(x+1)*channels], src[x*4:x*4+channels])
		}
	}
	return out
}

// GridOverlay draws rows-1 horizontal and cols-1 vertical 1px guide lines
// at multiples of h/rows and w/cols. The result is always RGB.
func (p *Pipeline) GridOverlay(f pipeline.Frame, rows, cols int) pipeline.Frame {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	if f.Empty() || (rows == 1 && cols == 1) {
		return f.ToRGB()
	}

	canvas := p.renderer.CreateCanvas(f.Width, f.Height, color.Black)
	canvas.DrawImage(f.Image(), 0, 0)

	w, h := float64(f.Width), float64(f.Height)
	stepY, stepX := f.Height/rows, f.Width/cols
	for r := 1; r < rows; r++ {
		y := float64(r*stepY) + 0.5
		canvas.DrawLine(0, y, w, y, p.opts.Grid.Color, 1)
	}
	for c := 1; c < cols; c++ {
		x := float64(c*stepX) + 0.5
		canvas.DrawLine(x, 0, x, h, p.opts.Grid.Color, 1)
	}

	return pipeline.FrameFromImage(canvas.ToImage())
}

// DetectRegions finds external contours on the edge map of f and boxes
// every contour whose area exceeds minArea on an RGB copy of f.
func (p *Pipeline) DetectRegions(f pipeline.Frame, minArea float64) pipeline.DetectionResult {
	if math.IsNaN(minArea) {
		minArea = p.opts.Detect.MinArea
	}

	edges := Canny(GaussianBlur5(Grayscale(f)), p.opts.Detect.LowThreshold, p.opts.Detect.HighThreshold)

	var regions []pipeline.Rectangle
	for _, c := range ExternalContours(edges) {
		if c.Area() > minArea {
			regions = append(regions, c.Bounds())
		}
	}

	if len(regions) == 0 {
		return pipeline.DetectionResult{Frame: f.ToRGB()}
	}

	canvas := p.renderer.CreateCanvas(f.Width, f.Height, color.Black)
	canvas.DrawImage(f.Image(), 0, 0)
	for _, r := range regions {
		canvas.DrawRectStroke(r.X, r.Y, r.Width, r.Height, p.opts.Detect.BoxColor, p.opts.Detect.BoxWidth)
	}

	return pipeline.DetectionResult{
		Frame:       pipeline.FrameFromImage(canvas.ToImage()),
		RegionCount: len(regions),
		Regions:     regions,
	}
}
