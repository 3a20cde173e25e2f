// Package audio implements the audio extraction stage.
package audio

import (
	"context"
	"errors"

	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
)

// Input describes an extraction request.
type Input struct {
	Path string
	// Format is the requested output format. Empty means ports.DefaultAudioFormat.
	Format ports.AudioFormat
}

// Failure reasons reported in AudioArtifact.Reason.
const (
	ReasonUnsupportedFormat = "unsupported audio format"
	ReasonToolMissing       = "ffmpeg is not available"
	ReasonProcessFailed     = "audio transcoder exited with an error"
	ReasonNoOutput          = "audio transcoder produced no output file"
	ReasonEmptyOutput       = "audio transcoder produced an empty file"
	ReasonCanceled          = "audio extraction was canceled"
	ReasonUnknown           = "audio extraction failed"
)

// Stage extracts and encodes the audio track of a video.
type Stage struct {
	transcoder ports.AudioTranscoder
	logger     ports.Logger
}

// NewStage creates a new audio stage.
func NewStage(transcoder ports.AudioTranscoder, logger ports.Logger) *Stage {
	return &Stage{
		transcoder: transcoder,
		logger:     logger.WithComponent("audio"),
	}
}

// Execute extracts audio. Failures are reported through the artifact's
// Status and Reason; the returned error is always nil.
func (s *Stage) Execute(ctx context.Context, in Input) (pipeline.AudioArtifact, error) {
	return s.Extract(ctx, in), nil
}

// ExtractIfPresent returns an AudioNone artifact without touching the
// transcoder when props reports no audio track.
func (s *Stage) ExtractIfPresent(ctx context.Context, props pipeline.VideoProperties, in Input) pipeline.AudioArtifact {
	if !props.HasAudio {
		s.logger.Debug("Skipping audio extraction: no audio track")
		return pipeline.AudioArtifact{Status: pipeline.AudioNone, Format: normalize(in.Format)}
	}
	return s.Extract(ctx, in)
}

// Extract transcodes the audio track of in.Path.
func (s *Stage) Extract(ctx context.Context, in Input) pipeline.AudioArtifact {
	format := normalize(in.Format)
	mime, ok := format.MIMEType()
	if !ok {
		s.logger.Warn("Audio extraction failed: %s %q", ReasonUnsupportedFormat, format)
		return failed(format, ReasonUnsupportedFormat)
	}

	data, err := s.transcoder.TranscodeAudio(ctx, in.Path, format)
	if err != nil {
		reason := Classify(err)
		s.logger.Warn("Audio extraction failed: %s", reason)
		s.logger.Debug("Transcoder error: %v", err)
		return failed(format, reason)
	}
	if len(data) == 0 {
		s.logger.Warn("Audio extraction failed: %s", ReasonEmptyOutput)
		return failed(format, ReasonEmptyOutput)
	}

	s.logger.Debug("Extracted %d bytes of %s audio", len(data), format)
	return pipeline.AudioArtifact{
		Status:   pipeline.AudioExtracted,
		Data:     data,
		MIMEType: mime,
		Format:   format,
	}
}

// Classify maps a transcoder error to a failure reason.
func Classify(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCanceled
	case errors.Is(err, ports.ErrUnsupportedFormat):
		return ReasonUnsupportedFormat
	case errors.Is(err, ports.ErrTranscoderMissing):
		return ReasonToolMissing
	case errors.Is(err, ports.ErrNoOutput):
		return ReasonNoOutput
	case errors.Is(err, ports.ErrEmptyOutput):
		return ReasonEmptyOutput
	case errors.Is(err, ports.ErrTranscodeFailed):
		return ReasonProcessFailed
	default:
		return ReasonUnknown
	}
}

func normalize(f ports.AudioFormat) ports.AudioFormat {
	f = ports.ParseAudioFormat(string(f))
	if f == "" {
		return ports.DefaultAudioFormat
	}
	return f
}

func failed(format ports.AudioFormat, reason string) pipeline.AudioArtifact {
	return pipeline.AudioArtifact{
		Status: pipeline.AudioFailed,
		Format: format,
		Reason: reason,
	}
}
