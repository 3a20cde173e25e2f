// Package metadata implements the property resolution stage.
package metadata

import (
	"context"
	"math"

	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/video"
)

// MaxFrameCount is the largest frame count accepted from a container.
// Streaming containers report absurd values above it.
const MaxFrameCount = 1e9

// Stage resolves VideoProperties for an opened video.
type Stage struct {
	prober ports.MediaProber
	logger ports.Logger
}

// NewStage creates a new metadata stage.
func NewStage(prober ports.MediaProber, logger ports.Logger) *Stage {
	return &Stage{
		prober: prober,
		logger: logger.WithComponent("metadata"),
	}
}

// Execute resolves the properties of v. It never fails: every missing or
// invalid value is reported as unknown, and a failed audio probe is
// reported as no audio.
func (s *Stage) Execute(ctx context.Context, v *video.Resource) (pipeline.VideoProperties, error) {
	return s.Resolve(ctx, v), nil
}

// Resolve is Execute without the error result.
func (s *Stage) Resolve(ctx context.Context, v *video.Resource) pipeline.VideoProperties {
	meta := v.Container()
	hasAudio := s.probeAudio(ctx, v.Path())

	props := ComputeProperties(meta, hasAudio)
	s.logger.Debug("Resolved properties: %s", describe(props))
	return props
}

func (s *Stage) probeAudio(ctx context.Context, path string) bool {
	info, err := s.prober.ProbeStreams(ctx, path)
	if err != nil {
		// Probe failure and absent audio are reported the same way.
		s.logger.Debug("Audio probe failed, assuming no audio: %v", err)
		return false
	}
	return info.HasAudio()
}

// ComputeProperties derives canonical properties from raw container values.
func ComputeProperties(meta ports.ContainerMetadata, hasAudio bool) pipeline.VideoProperties {
	props := pipeline.VideoProperties{
		HasAudio: hasAudio,
		Backend:  meta.Backend,
	}
	if props.Backend == "" {
		props.Backend = ports.BackendNone
	}

	if meta.Width != nil && *meta.Width > 0 {
		w := *meta.Width
		props.Width = &w
	}
	if meta.Height != nil && *meta.Height > 0 {
		h := *meta.Height
		props.Height = &h
	}

	fps, fpsOK := positiveFinite(meta.FPS)
	frameCount, countOK := SanitizeFrameCount(meta.FrameCount)

	duration, durOK := finite(meta.DurationSeconds)
	if durOK && duration < 0 {
		durOK = false
	}
	if !durOK && fpsOK && countOK {
		duration = float64(frameCount) / fps
		durOK = !math.IsNaN(duration) && !math.IsInf(duration, 0)
	}

	if !countOK && fpsOK && durOK {
		derived := math.Floor(fps * duration)
		if derived >= 0 && derived <= MaxFrameCount {
			frameCount, countOK = int(derived), true
		}
	}

	if fpsOK {
		if r, ok := round2(fps); ok && r > 0 {
			props.FPS = &r
		}
	}
	if durOK {
		if r, ok := round2(duration); ok {
			props.DurationSeconds = &r
		}
	}
	if countOK {
		props.FrameCount = &frameCount
	}
	return props
}

// SanitizeFrameCount returns the frame count as an int, or false when the
// raw value is missing, non-finite, negative or larger than MaxFrameCount.
func SanitizeFrameCount(raw *float64) (int, bool) {
	v, ok := finite(raw)
	if !ok || v < 0 || v > MaxFrameCount {
		return 0, false
	}
	return int(v), true
}

func finite(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, false
	}
	return *v, true
}

func positiveFinite(v *float64) (float64, bool) {
	f, ok := finite(v)
	if !ok || f <= 0 {
		return 0, false
	}
	return f, true
}

// round2 rounds to two decimal places. Non-finite input is rejected.
func round2(v float64) (float64, bool) {
	r := math.Round(v*100) / 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}
