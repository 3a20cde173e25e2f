package session

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/user/videolab/pkg/adapters/ffmpeg"
	"github.com/user/videolab/pkg/adapters/ggrenderer"
	"github.com/user/videolab/pkg/adapters/logger"
	"github.com/user/videolab/pkg/adapters/mp4container"
	"github.com/user/videolab/pkg/adapters/nullsink"
	"github.com/user/videolab/pkg/adapters/osfilesystem"
	"github.com/user/videolab/pkg/adapters/smartcontainer"
	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
	"github.com/user/videolab/pkg/stages/transform"
)

// renderClip writes a 2 s, 10 fps, 160x120 test pattern with a sine tone.
func renderClip(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg/ffprobe not available")
	}
	bin, _ := ffmpeg.FindFFmpeg("")

	path := filepath.Join(t.TempDir(), "pattern.mp4")
	out, err := exec.Command(bin, "-v", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=size=160x120:rate=10:duration=2",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=2",
		"-shortest", "-pix_fmt", "yuv420p", path,
	).CombinedOutput()
	if err != nil {
		t.Skipf("cannot render test clip: %v\n%s", err, out)
	}
	return path
}

func realSession() *Session {
	log := logger.NewNoop()
	fs := osfilesystem.New()
	tool := ffmpeg.New(ffmpeg.Options{}, fs, log)
	return New(Deps{
		Reader:     smartcontainer.New(mp4container.New(), tool, log),
		Decoder:    tool,
		Prober:     tool,
		Transcoder: tool,
		Renderer:   ggrenderer.New(),
		Sink:       nullsink.New(),
	}, DefaultConfig(), log)
}

func TestIntegration_FullSession(t *testing.T) {
	path := renderClip(t)
	ctx := context.Background()

	s := realSession()
	defer s.Close()

	props, err := s.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if props.Width == nil || *props.Width != 160 || props.Height == nil || *props.Height != 120 {
		t.Errorf("unexpected dimensions %v x %v", props.Width, props.Height)
	}
	if props.FPS == nil || *props.FPS != 10 {
		t.Errorf("expected 10 fps, got %v", props.FPS)
	}
	if !props.HasAudio {
		t.Error("expected audio to be detected")
	}
	if props.Backend != ports.BackendMP4 && props.Backend != ports.BackendFFprobe {
		t.Errorf("unexpected backend %q", props.Backend)
	}

	res, err := s.FrameAt(ctx, 1.0)
	if err != nil {
		t.Fatalf("FrameAt failed: %v", err)
	}
	if res.Index != 10 {
		t.Errorf("expected frame 10, got %d", res.Index)
	}
	if res.Frame.Width != 160 || res.Frame.Height != 120 {
		t.Errorf("unexpected frame size %dx%d", res.Frame.Width, res.Frame.Height)
	}

	applied, err := s.Apply(ctx, res.Frame,
		transform.Operation{Kind: transform.KindRotate, Angle: 90},
		transform.Operation{Kind: transform.KindGrid, Rows: 4, Cols: 4},
	)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if applied.Frame.Width != 120 || applied.Frame.Height != 160 {
		t.Errorf("expected rotated 120x160, got %dx%d", applied.Frame.Width, applied.Frame.Height)
	}

	// Past the end clamps to the last frame.
	last, err := s.FrameAt(ctx, 1e6)
	if err != nil {
		t.Fatalf("FrameAt past the end failed: %v", err)
	}
	if props.FrameCount != nil && last.Index != *props.FrameCount-1 {
		t.Errorf("expected last frame %d, got %d", *props.FrameCount-1, last.Index)
	}

	art, err := s.ExtractAudio(ctx, ports.AudioWAV)
	if err != nil {
		t.Fatalf("ExtractAudio failed: %v", err)
	}
	if art.Status != pipeline.AudioExtracted {
		t.Fatalf("expected extracted audio, got %v (%s)", art.Status, art.Reason)
	}
	if len(art.Data) < 12 || string(art.Data[:4]) != "RIFF" {
		t.Errorf("expected a RIFF header, got %d bytes", len(art.Data))
	}
}
