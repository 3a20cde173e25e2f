package session

import (
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/videolab/pkg/adapters/logger"
	"github.com/user/videolab/pkg/mocks"
	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/stages/transform"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func writeClip(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("not really a video"), 0644); err != nil {
		t.Fatalf("failed to write clip: %v", err)
	}
	return path
}

type fixture struct {
	tool   *mocks.MediaTool
	reader *mocks.ContainerReader
	sink   *mocks.DebugSink
	deps   Deps
}

func newFixture(debug bool) *fixture {
	f := &fixture{
		tool: &mocks.MediaTool{},
		reader: &mocks.ContainerReader{
			ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
				return ports.ContainerMetadata{
					Width:           intPtr(640),
					Height:          intPtr(360),
					FPS:             floatPtr(30),
					DurationSeconds: floatPtr(10),
					FrameCount:      floatPtr(300),
					Backend:         ports.BackendMP4,
				}, nil
			},
		},
		sink: mocks.NewDebugSink(debug),
	}
	f.deps = Deps{
		Reader:     f.reader,
		Decoder:    f.tool,
		Prober:     f.tool,
		Transcoder: f.tool,
		Renderer:   &mocks.Renderer{},
		Sink:       f.sink,
	}
	return f
}

func TestSession_OpenAndProperties(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	if _, err := s.Properties(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen before Open, got %v", err)
	}

	props, err := s.Open(context.Background(), writeClip(t, "a.mp4"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if props.Width == nil || *props.Width != 640 {
		t.Errorf("unexpected width %v", props.Width)
	}
	if props.FrameCount == nil || *props.FrameCount != 300 {
		t.Errorf("unexpected frame count %v", props.FrameCount)
	}
	if props.Backend != ports.BackendMP4 {
		t.Errorf("unexpected backend %q", props.Backend)
	}

	again, err := s.Properties()
	if err != nil {
		t.Fatalf("Properties failed: %v", err)
	}
	if again.Width != props.Width || again.Backend != props.Backend {
		t.Error("Properties should return the values resolved at Open")
	}

	if _, err := s.Open(context.Background(), writeClip(t, "b.mp4")); !errors.Is(err, ErrAlreadyOpen) {
		t.Errorf("expected ErrAlreadyOpen, got %v", err)
	}
}

func TestSession_OpenMissingFile(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())

	_, err := s.Open(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
	if _, err := s.Properties(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("session should stay empty, got %v", err)
	}
}

func TestSession_Replace(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	first := writeClip(t, "first.mp4")
	second := writeClip(t, "second.mp4")

	if _, err := s.Replace(context.Background(), first); err != nil {
		t.Fatalf("Replace on empty session failed: %v", err)
	}
	if _, err := s.Replace(context.Background(), second); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	if _, err := s.FrameAt(context.Background(), 1); err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}
	last := fx.tool.DecodeCalls[len(fx.tool.DecodeCalls)-1]
	if last.Path != second {
		t.Errorf("expected decode from %s, got %s", second, last.Path)
	}
}

func TestSession_FrameAt(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	if _, err := s.FrameAt(context.Background(), 0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}

	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	res, err := s.FrameAt(context.Background(), 5)
	if err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}
	if res.Index != 150 {
		t.Errorf("expected index 150, got %d", res.Index)
	}
	if res.Frame.Width != 64 || res.Frame.Height != 36 || res.Frame.Channels != pipeline.ChannelsRGB {
		t.Errorf("unexpected frame %dx%dx%d", res.Frame.Width, res.Frame.Height, res.Frame.Channels)
	}

	res, err = s.FrameAt(context.Background(), 99)
	if err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}
	if res.Index != 299 {
		t.Errorf("expected clamped index 299, got %d", res.Index)
	}
}

func TestSession_FrameAtDecodeError(t *testing.T) {
	fx := newFixture(false)
	decodeErr := errors.New("decoder exploded")
	fx.tool.DecodeFrameAtFunc = func(ctx context.Context, path string, seconds float64) (image.Image, error) {
		return nil, decodeErr
	}
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := s.FrameAt(context.Background(), 2); !errors.Is(err, decodeErr) {
		t.Errorf("expected wrapped decode error, got %v", err)
	}
}

func TestSession_ApplyWritesDebugSteps(t *testing.T) {
	fx := newFixture(true)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(fx.sink.Properties) == 0 {
		t.Error("expected properties to be saved to the debug sink")
	}
	if !strings.Contains(string(fx.sink.Properties), "width: 640") {
		t.Errorf("unexpected properties YAML:\n%s", fx.sink.Properties)
	}
	if len(fx.sink.Probe) == 0 {
		t.Error("expected probe report to be saved to the debug sink")
	}

	res, err := s.FrameAt(context.Background(), 0)
	if err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}

	applied, err := s.Apply(context.Background(), res.Frame,
		transform.Operation{Kind: transform.KindGray},
		transform.Operation{Kind: transform.KindGrid, Rows: 4, Cols: 4},
		transform.Operation{Kind: transform.KindCrop, Part: transform.CropLeft},
	)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if len(applied.Steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(applied.Steps))
	}
	if applied.Frame.Width != 32 || applied.Frame.Channels != pipeline.ChannelsRGB {
		t.Errorf("unexpected final frame %dx%dx%d", applied.Frame.Width, applied.Frame.Height, applied.Frame.Channels)
	}

	want := []string{"source", "gray", "grid=4x4", "crop-left"}
	got := fx.sink.FrameNames()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected debug frames %v, got %v", want, got)
	}
}

func TestSession_ApplyCanceled(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := pipeline.NewFrame(4, 4, pipeline.ChannelsRGB)
	if _, err := s.Apply(ctx, f, transform.Operation{Kind: transform.KindMirror}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSession_ExtractAudio(t *testing.T) {
	fx := newFixture(false)
	fx.tool.ProbeStreamsFunc = func(ctx context.Context, path string) (ports.StreamInfo, error) {
		return ports.StreamInfo{Streams: []ports.StreamDescriptor{
			{CodecType: "video"},
			{CodecType: "audio"},
		}}, nil
	}
	s := New(fx.deps, Config{AudioFormat: ports.AudioWAV, Transform: transform.DefaultOptions()}, logger.NewNoop())
	defer s.Close()

	if _, err := s.ExtractAudio(context.Background(), ""); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}

	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	art, err := s.ExtractAudio(context.Background(), "")
	if err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if art.Status != pipeline.AudioExtracted || art.Format != ports.AudioWAV {
		t.Errorf("expected extracted wav using the configured default, got %+v", art)
	}

	art, _ = s.ExtractAudio(context.Background(), ports.AudioMP3)
	if art.MIMEType != "audio/mpeg" {
		t.Errorf("expected explicit format to win, got %q", art.MIMEType)
	}
}

func TestSession_ExtractAudioWithoutTrack(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())
	defer s.Close()

	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	art, err := s.ExtractAudio(context.Background(), "")
	if err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if art.Status != pipeline.AudioNone {
		t.Errorf("expected no audio, got %v", art.Status)
	}
	if len(fx.tool.TranscodeCalls) != 0 {
		t.Error("transcoder must not run for a video without audio")
	}
}

func TestSession_Close(t *testing.T) {
	fx := newFixture(false)
	s := New(fx.deps, DefaultConfig(), logger.NewNoop())

	if err := s.Close(); err != nil {
		t.Errorf("Close on empty session failed: %v", err)
	}
	if _, err := s.Open(context.Background(), writeClip(t, "a.mp4")); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, err := s.FrameAt(context.Background(), 0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen after Close, got %v", err)
	}
}
