// Package session bundles the stages behind one opened video.
//
// A Session owns at most one video at a time: open it, resolve its
// properties once, then seek, transform and extract audio as often as
// needed. Opening a new upload with Replace closes the previous video.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/stages/audio"
	"github.com/user/videolab/pkg/stages/metadata"
	"github.com/user/videolab/pkg/stages/seek"
	"github.com/user/videolab/pkg/stages/transform"
	"github.com/user/videolab/pkg/video"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotOpen is returned when an operation needs an open video.
	ErrNotOpen = errors.New("session: no video open")

	// ErrAlreadyOpen is returned by Open when a video is already open.
	ErrAlreadyOpen = errors.New("session: a video is already open")
)

// Config contains the session settings.
type Config struct {
	// AudioFormat is used by ExtractAudio when no format is given.
	AudioFormat ports.AudioFormat

	// Transform configures the grid and detection transforms.
	Transform transform.Options
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AudioFormat: ports.DefaultAudioFormat,
		Transform:   transform.DefaultOptions(),
	}
}

// Deps holds the adapters a Session works through.
type Deps struct {
	Reader     ports.ContainerReader
	Decoder    ports.FrameDecoder
	Prober     ports.MediaProber
	Transcoder ports.AudioTranscoder
	Renderer   ports.Renderer
	Sink       ports.DebugSink
}

// Session coordinates the stages for one opened video.
type Session struct {
	deps   Deps
	config Config
	logger ports.Logger

	metadataStage *metadata.Stage
	seekStage     *seek.Stage
	audioStage    *audio.Stage
	transforms    *transform.Pipeline

	mu    sync.Mutex
	video *video.Resource
	props pipeline.VideoProperties
}

// New creates a new Session.
func New(deps Deps, config Config, logger ports.Logger) *Session {
	if config.AudioFormat == "" {
		config.AudioFormat = ports.DefaultAudioFormat
	}
	return &Session{
		deps:          deps,
		config:        config,
		logger:        logger,
		metadataStage: metadata.NewStage(deps.Prober, logger),
		seekStage:     seek.NewStage(logger),
		audioStage:    audio.NewStage(deps.Transcoder, logger),
		transforms:    transform.New(deps.Renderer, config.Transform),
	}
}

// Open opens path and resolves its properties.
func (s *Session) Open(ctx context.Context, path string) (pipeline.VideoProperties, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video != nil {
		return pipeline.VideoProperties{}, ErrAlreadyOpen
	}
	return s.open(ctx, path)
}

// Replace closes the current video, if any, and opens path in its place.
// When path cannot be opened the session is left empty.
func (s *Session) Replace(ctx context.Context, path string) (pipeline.VideoProperties, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video != nil {
		s.logger.Info("Replacing %s", s.video.Path())
		if err := s.closeLocked(); err != nil {
			s.logger.Warn("Failed to close previous video: %v", err)
		}
	}
	return s.open(ctx, path)
}

func (s *Session) open(ctx context.Context, path string) (pipeline.VideoProperties, error) {
	s.logger.Info("Opening %s", path)

	v, err := video.Open(ctx, path, s.deps.Reader, s.deps.Decoder, s.logger.WithComponent("video"))
	if err != nil {
		s.logger.Error("Failed to open video: %v", err)
		return pipeline.VideoProperties{}, fmt.Errorf("open: %w", err)
	}

	props, err := s.metadataStage.Execute(ctx, v)
	if err != nil {
		v.Close()
		return pipeline.VideoProperties{}, fmt.Errorf("metadata stage: %w", err)
	}

	s.video = v
	s.props = props
	s.logger.Info("Opened %s (%s backend)", path, props.Backend)

	if s.deps.Sink.Enabled() {
		s.saveDebug(ctx, path, props)
	}
	return props, nil
}

func (s *Session) saveDebug(ctx context.Context, path string, props pipeline.VideoProperties) {
	if data, err := yaml.Marshal(props); err == nil {
		if err := s.deps.Sink.SaveProperties(data); err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
		}
	}

	info, err := s.deps.Prober.ProbeStreams(ctx, path)
	if err != nil {
		return
	}
	if data, err := yaml.Marshal(info); err == nil {
		if err := s.deps.Sink.SaveProbe(data); err != nil {
			s.logger.Warn("Failed to save debug output: %v", err)
		}
	}
}

// Properties returns the properties resolved when the video was opened.
func (s *Session) Properties() (pipeline.VideoProperties, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.video == nil {
		return pipeline.VideoProperties{}, ErrNotOpen
	}
	return s.props, nil
}

// FrameAt decodes the frame shown at seconds. Out-of-range times are
// clamped.
func (s *Session) FrameAt(ctx context.Context, seconds float64) (pipeline.SeekResult, error) {
	s.mu.Lock()
	v, props := s.video, s.props
	s.mu.Unlock()

	if v == nil {
		return pipeline.SeekResult{}, ErrNotOpen
	}

	res, err := s.seekStage.Execute(ctx, seek.Input{Video: v, Properties: props, Seconds: seconds})
	if err != nil {
		s.logger.Error("Failed to extract frame: %v", err)
		return pipeline.SeekResult{}, fmt.Errorf("seek stage: %w", err)
	}
	s.logger.Info("Extracted frame %d at %.2fs", res.Index, res.TimeSeconds)
	return res, nil
}

// Applied is the outcome of Apply.
type Applied struct {
	Frame pipeline.Frame
	Steps []transform.Result
}

// Apply runs ops over f in order. Every intermediate frame is written to
// the debug sink when it is enabled, the input as step 0.
func (s *Session) Apply(ctx context.Context, f pipeline.Frame, ops ...transform.Operation) (Applied, error) {
	debug := s.deps.Sink.Enabled()
	if debug {
		s.saveFrame(0, "source", f)
	}

	out := Applied{Frame: f}
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return Applied{}, err
		}
		res := s.transforms.Apply(out.Frame, op)
		if res.Detection != nil {
			s.logger.Info("Detected %d regions", res.Detection.RegionCount)
		}
		out.Frame = res.Frame
		out.Steps = append(out.Steps, res)

		if debug {
			s.saveFrame(i+1, op.String(), res.Frame)
		}
	}
	return out, nil
}

func (s *Session) saveFrame(step int, name string, f pipeline.Frame) {
	if f.Empty() {
		return
	}
	if err := s.deps.Sink.SaveFrame(step, name, f.Image()); err != nil {
		s.logger.Warn("Failed to save debug output: %v", err)
	}
}

// ExtractAudio encodes the audio track in format, or the configured
// default when format is empty. A video without audio yields an AudioNone
// artifact and the transcoder is not run.
func (s *Session) ExtractAudio(ctx context.Context, format ports.AudioFormat) (pipeline.AudioArtifact, error) {
	s.mu.Lock()
	v, props := s.video, s.props
	s.mu.Unlock()

	if v == nil {
		return pipeline.AudioArtifact{}, ErrNotOpen
	}
	if format == "" {
		format = s.config.AudioFormat
	}

	art := s.audioStage.ExtractIfPresent(ctx, props, audio.Input{Path: v.Path(), Format: format})
	switch art.Status {
	case pipeline.AudioExtracted:
		s.logger.Info("Extracted audio: %d bytes", len(art.Data))
	case pipeline.AudioNone:
		s.logger.Info("Video has no audio track")
	}
	return art, nil
}

// Close closes the open video. It is safe to call on an empty session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.video == nil {
		return nil
	}
	err := s.video.Close()
	s.video = nil
	s.props = pipeline.VideoProperties{}
	return err
}
