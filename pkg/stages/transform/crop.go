package transform

import (
	"github.com/user/videolab/pkg/pipeline"
)

// MajorFraction is the width share of the Major partition.
const MajorFraction = 0.8

// Crop copies the part of f inside r. r is clipped to the frame.
func Crop(f pipeline.Frame, r pipeline.Rectangle) pipeline.Frame {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, f.Width), min(r.Y+r.Height, f.Height)
	if x1 <= x0 || y1 <= y0 {
		// Keep whichever extent survived clipping.
		return pipeline.NewFrame(max(x1-x0, 0), max(y1-y0, 0), f.Channels)
	}

	out := pipeline.NewFrame(x1-x0, y1-y0, f.Channels)
	rowBytes := out.Stride()
	for y := y0; y < y1; y++ {
		src := f.Offset(x0, y)
		copy(out.Pix[(y-y0)*rowBytes:(y-y0+1)*rowBytes], f.Pix[src:src+rowBytes])
	}
	return out
}

// Crops splits f into halves at w/2 and h/2 and into an 80/20 split at
// floor(w*0.8). No scaling is applied.
func Crops(f pipeline.Frame) pipeline.CropSet {
	w, h := f.Width, f.Height
	midX, midY := w/2, h/2
	split := int(float64(w) * MajorFraction)

	return pipeline.CropSet{
		Left:   Crop(f, pipeline.Rectangle{X: 0, Y: 0, Width: midX, Height: h}),
		Right:  Crop(f, pipeline.Rectangle{X: midX, Y: 0, Width: w - midX, Height: h}),
		Top:    Crop(f, pipeline.Rectangle{X: 0, Y: 0, Width: w, Height: midY}),
		Bottom: Crop(f, pipeline.Rectangle{X: 0, Y: midY, Width: w, Height: h - midY}),
		Major:  Crop(f, pipeline.Rectangle{X: 0, Y: 0, Width: split, Height: h}),
		Minor:  Crop(f, pipeline.Rectangle{X: split, Y: 0, Width: w - split, Height: h}),
	}
}
