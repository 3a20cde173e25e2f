package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/videolab/pkg/pipeline"
)

// Kind names a transform.
type Kind string

const (
	KindGray   Kind = "gray"
	KindRotate Kind = "rotate"
	KindMirror Kind = "mirror"
	KindGrid   Kind = "grid"
	KindDetect Kind = "detect"
	KindCrop   Kind = "crop"
)

// CropPart names one partition of Crops.
type CropPart string

const (
	CropLeft   CropPart = "left"
	CropRight  CropPart = "right"
	CropTop    CropPart = "top"
	CropBottom CropPart = "bottom"
	CropMajor  CropPart = "major"
	CropMinor  CropPart = "minor"
)

// Operation is one parsed transform with its arguments.
type Operation struct {
	Kind Kind

	Angle   int      // rotate
	Rows    int      // grid
	Cols    int      // grid
	MinArea float64  // detect
	Part    CropPart // crop
}

// String returns the canonical spelling accepted by ParseOperation.
func (o Operation) String() string {
	switch o.Kind {
	case KindRotate:
		return fmt.Sprintf("rotate%d", o.Angle)
	case KindGrid:
		return fmt.Sprintf("grid=%dx%d", o.Rows, o.Cols)
	case KindDetect:
		return "detect=" + strconv.FormatFloat(o.MinArea, 'g', -1, 64)
	case KindCrop:
		return "crop-" + string(o.Part)
	default:
		return string(o.Kind)
	}
}

// ParseOperation parses a transform name. Accepted forms:
//
//	gray | grayscale
//	rotate90 | rotate180 | rotate270 | rotate=<deg>
//	mirror
//	grid | grid=<rows>x<cols>
//	detect | detect=<minArea>
//	crop-<left|right|top|bottom|major|minor>
//
// Defaults for grid and detect come from opts.
func ParseOperation(s string, opts Options) (Operation, error) {
	name, arg, hasArg := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "=")

	switch {
	case name == "gray" || name == "grayscale":
		return Operation{Kind: KindGray}, nil

	case name == "mirror":
		return Operation{Kind: KindMirror}, nil

	case strings.HasPrefix(name, "rotate"):
		deg := strings.TrimPrefix(name, "rotate")
		if hasArg {
			deg = arg
		}
		angle, err := strconv.Atoi(deg)
		if err != nil {
			return Operation{}, fmt.Errorf("invalid rotation %q", s)
		}
		return Operation{Kind: KindRotate, Angle: angle}, nil

	case name == "grid":
		op := Operation{Kind: KindGrid, Rows: opts.Grid.Rows, Cols: opts.Grid.Cols}
		if hasArg {
			r, c, ok := strings.Cut(arg, "x")
			rows, err1 := strconv.Atoi(r)
			cols, err2 := strconv.Atoi(c)
			if !ok || err1 != nil || err2 != nil {
				return Operation{}, fmt.Errorf("invalid grid %q, want grid=<rows>x<cols>", s)
			}
			op.Rows, op.Cols = rows, cols
		}
		return op, nil

	case name == "detect":
		op := Operation{Kind: KindDetect, MinArea: opts.Detect.MinArea}
		if hasArg {
			area, err := strconv.ParseFloat(arg, 64)
			if err != nil {
				return Operation{}, fmt.Errorf("invalid detect area %q", s)
			}
			op.MinArea = area
		}
		return op, nil

	case strings.HasPrefix(name, "crop-") || (name == "crop" && hasArg):
		part := CropPart(strings.TrimPrefix(name, "crop-"))
		if name == "crop" {
			part = CropPart(arg)
		}
		switch part {
		case CropLeft, CropRight, CropTop, CropBottom, CropMajor, CropMinor:
			return Operation{Kind: KindCrop, Part: part}, nil
		}
		return Operation{}, fmt.Errorf("unknown crop %q", s)
	}

	return Operation{}, fmt.Errorf("unknown transform %q", s)
}

// Result is the outcome of one applied operation.
type Result struct {
	Op    Operation
	Frame pipeline.Frame

	// Detection is set for detect operations.
	Detection *pipeline.DetectionResult
}

// Apply runs a single operation.
func (p *Pipeline) Apply(f pipeline.Frame, op Operation) Result {
	res := Result{Op: op}
	switch op.Kind {
	case KindGray:
		res.Frame = Grayscale(f)
	case KindRotate:
		res.Frame = Rotate(f, op.Angle)
	case KindMirror:
		res.Frame = Mirror(f)
	case KindGrid:
		res.Frame = p.GridOverlay(f, op.Rows, op.Cols)
	case KindDetect:
		d := p.DetectRegions(f, op.MinArea)
		res.Frame = d.Frame
		res.Detection = &d
	case KindCrop:
		res.Frame = cropPart(Crops(f), op.Part)
	default:
		res.Frame = f.Clone()
	}
	return res
}

func cropPart(set pipeline.CropSet, part CropPart) pipeline.Frame {
	switch part {
	case CropLeft:
		return set.Left
	case CropRight:
		return set.Right
	case CropTop:
		return set.Top
	case CropBottom:
		return set.Bottom
	case CropMajor:
		return set.Major
	default:
		return set.Minor
	}
}

// Stage wraps op as a pipeline stage over frames.
func (p *Pipeline) Stage(op Operation) pipeline.Stage[pipeline.Frame, pipeline.Frame] {
	return pipeline.StageFunc[pipeline.Frame, pipeline.Frame](func(ctx context.Context, f pipeline.Frame) (pipeline.Frame, error) {
		return p.Apply(f, op).Frame, nil
	})
}

// Chain composes ops into a single stage applied left to right.
func (p *Pipeline) Chain(ops ...Operation) pipeline.Stage[pipeline.Frame, pipeline.Frame] {
	stages := make([]pipeline.Stage[pipeline.Frame, pipeline.Frame], len(ops))
	for i, op := range ops {
		stages[i] = p.Stage(op)
	}
	return pipeline.Chain(stages...)
}
