package audio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/user/videolab/pkg/adapters/logger"
	"github.com/user/videolab/pkg/mocks"
	"github.com/user/videolab/pkg/pipeline"
	"github.com/user/videolab/pkg/ports"
)

func TestExtract_Success(t *testing.T) {
	tool := &mocks.MediaTool{}
	stage := NewStage(tool, logger.NewNoop())

	art, err := stage.Execute(context.Background(), Input{Path: "/v/clip.mp4"})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if art.Status != pipeline.AudioExtracted || !art.OK() {
		t.Fatalf("expected extracted artifact, got %+v", art)
	}
	if art.MIMEType != "audio/mpeg" {
		t.Errorf("expected audio/mpeg, got %q", art.MIMEType)
	}
	if art.Format != ports.AudioMP3 {
		t.Errorf("expected default mp3, got %q", art.Format)
	}
	if string(art.Data) != "audio:mp3" {
		t.Errorf("unexpected data %q", art.Data)
	}

	if len(tool.TranscodeCalls) != 1 {
		t.Fatalf("expected 1 transcode call, got %d", len(tool.TranscodeCalls))
	}
	if call := tool.TranscodeCalls[0]; call.Path != "/v/clip.mp4" || call.Format != ports.AudioMP3 {
		t.Errorf("unexpected call %+v", call)
	}
}

func TestExtract_Formats(t *testing.T) {
	tests := []struct {
		in   ports.AudioFormat
		want ports.AudioFormat
		mime string
	}{
		{"", ports.AudioMP3, "audio/mpeg"},
		{"WAV", ports.AudioWAV, "audio/wav"},
		{".ogg", ports.AudioOGG, "audio/ogg"},
		{"flac", ports.AudioFLAC, "audio/flac"},
		{"m4a", ports.AudioM4A, "audio/mp4"},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			stage := NewStage(&mocks.MediaTool{}, logger.NewNoop())
			art := stage.Extract(context.Background(), Input{Path: "a.mp4", Format: tt.in})
			if art.Format != tt.want || art.MIMEType != tt.mime {
				t.Errorf("got format %q mime %q, want %q %q", art.Format, art.MIMEType, tt.want, tt.mime)
			}
		})
	}
}

func TestExtract_UnsupportedFormatSkipsTranscoder(t *testing.T) {
	tool := &mocks.MediaTool{}
	stage := NewStage(tool, logger.NewNoop())

	art := stage.Extract(context.Background(), Input{Path: "a.mp4", Format: "aiff"})
	if art.Status != pipeline.AudioFailed {
		t.Fatalf("expected failed, got %v", art.Status)
	}
	if art.Reason != ReasonUnsupportedFormat {
		t.Errorf("unexpected reason %q", art.Reason)
	}
	if len(tool.TranscodeCalls) != 0 {
		t.Error("transcoder should not be called for unsupported formats")
	}
}

func TestExtract_FailureClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"non-zero exit", fmt.Errorf("%w: exit status 1\nstderr: boom", ports.ErrTranscodeFailed), ReasonProcessFailed},
		{"missing output", ports.ErrNoOutput, ReasonNoOutput},
		{"empty output", ports.ErrEmptyOutput, ReasonEmptyOutput},
		{"unsupported", fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, "mp3"), ReasonUnsupportedFormat},
		{"no ffmpeg", ports.ErrTranscoderMissing, ReasonToolMissing},
		{"canceled", fmt.Errorf("run: %w", context.Canceled), ReasonCanceled},
		{"other", errors.New("disk on fire"), ReasonUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := &mocks.MediaTool{
				TranscodeAudioFunc: func(ctx context.Context, path string, format ports.AudioFormat) ([]byte, error) {
					return nil, tt.err
				},
			}
			stage := NewStage(tool, logger.NewNoop())

			art, err := stage.Execute(context.Background(), Input{Path: "a.mp4"})
			if err != nil {
				t.Fatalf("Execute must not return an error, got %v", err)
			}
			if art.Status != pipeline.AudioFailed {
				t.Errorf("expected failed, got %v", art.Status)
			}
			if art.Reason != tt.want {
				t.Errorf("expected reason %q, got %q", tt.want, art.Reason)
			}
			if art.Data != nil {
				t.Error("failed artifact must not carry data")
			}
		})
	}
}

func TestExtract_EmptyDataWithoutError(t *testing.T) {
	tool := &mocks.MediaTool{
		TranscodeAudioFunc: func(ctx context.Context, path string, format ports.AudioFormat) ([]byte, error) {
			return []byte{}, nil
		},
	}
	stage := NewStage(tool, logger.NewNoop())

	art := stage.Extract(context.Background(), Input{Path: "a.mp4"})
	if art.Status != pipeline.AudioFailed || art.Reason != ReasonEmptyOutput {
		t.Errorf("expected empty-output failure, got %+v", art)
	}
}

func TestExtractIfPresent(t *testing.T) {
	tool := &mocks.MediaTool{}
	stage := NewStage(tool, logger.NewNoop())

	art := stage.ExtractIfPresent(context.Background(), pipeline.VideoProperties{HasAudio: false}, Input{Path: "a.mp4"})
	if art.Status != pipeline.AudioNone {
		t.Errorf("expected no audio, got %v", art.Status)
	}
	if len(tool.TranscodeCalls) != 0 {
		t.Error("transcoder must not be called when the video has no audio")
	}

	art = stage.ExtractIfPresent(context.Background(), pipeline.VideoProperties{HasAudio: true}, Input{Path: "a.mp4", Format: "wav"})
	if art.Status != pipeline.AudioExtracted || art.MIMEType != "audio/wav" {
		t.Errorf("expected extracted wav, got %+v", art)
	}
	if len(tool.TranscodeCalls) != 1 {
		t.Errorf("expected 1 transcode call, got %d", len(tool.TranscodeCalls))
	}
}

func TestAudioStatus_String(t *testing.T) {
	if pipeline.AudioNone.String() != "no audio" {
		t.Errorf("unexpected %q", pipeline.AudioNone.String())
	}
	if pipeline.AudioFailed.String() != "failed" {
		t.Errorf("unexpected %q", pipeline.AudioFailed.String())
	}
}
