// Package seek implements the timestamp to frame stage.
package seek

import (
	"context"
	"fmt"
	"math"

	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/video"
)

const (
	// Epsilon keeps seeks strictly before the end of the stream, where the
	// last sample may not be decodable.
	Epsilon = 1e-3

	// DefaultFPS is assumed when the frame rate is unknown.
	DefaultFPS = 1.0
)

// Input is a seek request.
type Input struct {
	Video      *video.Resource
	Properties pipeline.VideoProperties
	Seconds    float64
}

// Position is a request resolved against the video's properties.
type Position struct {
	// Seconds is the clamped request time.
	Seconds float64
	// Index is the zero-based frame index.
	Index int
	// DecodeSeconds is the time handed to the decoder.
	DecodeSeconds float64
}

// Stage decodes the frame for a requested time offset.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new seek stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{
		logger: logger.WithComponent("seek"),
	}
}

// Execute resolves input.Seconds and decodes that frame. Out-of-range
// times are clamped, never rejected; errors only come from decoding.
func (s *Stage) Execute(ctx context.Context, input Input) (pipeline.SeekResult, error) {
	pos := Resolve(input.Seconds, input.Properties, TimebaseOf(input.Video.Container()))
	s.logger.Debug("Seek %.3fs resolved to frame %d at %.3fs", input.Seconds, pos.Index, pos.DecodeSeconds)

	img, err := input.Video.DecodeAt(ctx, pos.DecodeSeconds)
	if err != nil {
		return pipeline.SeekResult{}, fmt.Errorf("decode frame %d: %w", pos.Index, err)
	}

	return pipeline.SeekResult{
		Frame:         pipeline.FrameFromImage(img),
		Index:         pos.Index,
		TimeSeconds:   pos.Seconds,
		DecodeSeconds: pos.DecodeSeconds,
	}, nil
}

// Timebase is the unrounded rate and duration reported by the container.
// Zero fields fall back to the rounded properties.
type Timebase struct {
	FPS             float64
	DurationSeconds float64
}

// TimebaseOf extracts the usable raw timing from container metadata.
func TimebaseOf(meta ports.ContainerMetadata) Timebase {
	var tb Timebase
	if v, ok := positive(meta.FPS); ok {
		tb.FPS = v
	}
	if v, ok := positive(meta.DurationSeconds); ok {
		tb.DurationSeconds = v
	}
	return tb
}

func positive(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// ResolvePosition is Resolve without container timing.
func ResolvePosition(seconds float64, props pipeline.VideoProperties) Position {
	return Resolve(seconds, props, Timebase{})
}

// Resolve maps a requested time onto a valid frame position.
//
// The time is clamped into [0, max(duration-Epsilon, 0)]; with an unknown
// duration only the lower bound applies. The index is floor(t*fps) with
// DefaultFPS standing in for an unknown rate, clamped to [0, frameCount-1]
// when the frame count is known. With a known rate the decode time is the
// middle of the resolved frame, otherwise it is the clamped time.
//
// tb supplies the container's unrounded timing: its duration bounds the
// clamp and its rate places the decode time, so a rounded 29.97 never lands
// the decoder on the neighbouring frame of a 30000/1001 stream.
func Resolve(seconds float64, props pipeline.VideoProperties, tb Timebase) Position {
	t := seconds
	if math.IsNaN(t) {
		t = 0
	}

	duration, knownDuration := tb.DurationSeconds, tb.DurationSeconds > 0
	if !knownDuration && props.DurationSeconds != nil {
		duration, knownDuration = *props.DurationSeconds, true
	}
	upper := math.Max(duration-Epsilon, 0)
	if knownDuration {
		t = math.Min(t, upper)
	}
	t = math.Max(t, 0)
	if math.IsInf(t, 1) {
		// Unknown duration and +Inf request: nothing sensible to seek to
		// beyond the start.
		t = 0
	}

	fps := DefaultFPS
	knownFPS := props.FPS != nil && *props.FPS > 0
	if knownFPS {
		fps = *props.FPS
	}

	idx := math.Floor(t * fps)
	if props.FrameCount != nil {
		idx = math.Min(idx, float64(*props.FrameCount-1))
	}
	if idx > math.MaxInt32 {
		idx = math.MaxInt32
	}
	idx = math.Max(idx, 0)
	index := int(idx)

	decodeAt := t
	if knownFPS {
		rate := fps
		if tb.FPS > 0 {
			rate = tb.FPS
		}
		decodeAt = (float64(index) + 0.5) / rate
		if knownDuration && decodeAt > upper {
			decodeAt = math.Max(upper, float64(index)/rate)
		}
	}

	return Position{Seconds: t, Index: index, DecodeSeconds: decodeAt}
}
