package mocks

import (
	"context"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/user/videolab/pkg/ports"
)

// MediaTool is a mock implementation of ports.MediaProber,
// ports.AudioTranscoder and ports.FrameDecoder.
type MediaTool struct {
	mu sync.Mutex

	ProbeStreamsFunc   func(ctx context.Context, path string) (ports.StreamInfo, error)
	TranscodeAudioFunc func(ctx context.Context, path string, format ports.AudioFormat) ([]byte, error)
	DecodeFrameAtFunc  func(ctx context.Context, path string, seconds float64) (image.Image, error)

	ProbeCalls     []string
	TranscodeCalls []TranscodeCall
	DecodeCalls    []DecodeCall
}

// TranscodeCall records a TranscodeAudio call.
type TranscodeCall struct {
	Path   string
	Format ports.AudioFormat
}

// DecodeCall records a DecodeFrameAt call.
type DecodeCall struct {
	Path    string
	Seconds float64
}

// ProbeStreams returns a single 640x360 video stream unless overridden.
func (m *MediaTool) ProbeStreams(ctx context.Context, path string) (ports.StreamInfo, error) {
	m.mu.Lock()
	m.ProbeCalls = append(m.ProbeCalls, path)
	m.mu.Unlock()

	if m.ProbeStreamsFunc != nil {
		return m.ProbeStreamsFunc(ctx, path)
	}
	return ports.StreamInfo{
		Streams: []ports.StreamDescriptor{
			{Index: 0, CodecType: "video", Width: 640, Height: 360},
		},
	}, nil
}

// TranscodeAudio returns a few placeholder bytes unless overridden.
func (m *MediaTool) TranscodeAudio(ctx context.Context, path string, format ports.AudioFormat) ([]byte, error) {
	m.mu.Lock()
	m.TranscodeCalls = append(m.TranscodeCalls, TranscodeCall{Path: path, Format: format})
	m.mu.Unlock()

	if m.TranscodeAudioFunc != nil {
		return m.TranscodeAudioFunc(ctx, path, format)
	}
	return []byte("audio:" + string(format)), nil
}

// DecodeFrameAt returns a solid gray 64x36 image unless overridden.
func (m *MediaTool) DecodeFrameAt(ctx context.Context, path string, seconds float64) (image.Image, error) {
	m.mu.Lock()
	m.DecodeCalls = append(m.DecodeCalls, DecodeCall{Path: path, Seconds: seconds})
	m.mu.Unlock()

	if m.DecodeFrameAtFunc != nil {
		return m.DecodeFrameAtFunc(ctx, path, seconds)
	}
	img := image.NewRGBA(image.Rect(0, 0, 64, 36))
	for y := 0; y < 36; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img, nil
}

// ContainerReader is a mock implementation of ports.ContainerReader.
type ContainerReader struct {
	mu sync.Mutex

	ReadContainerFunc func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error)

	Calls []string
}

// ReadContainer returns empty metadata unless overridden.
func (m *ContainerReader) ReadContainer(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, path)
	m.mu.Unlock()

	if m.ReadContainerFunc != nil {
		return m.ReadContainerFunc(ctx, path, r)
	}
	return ports.ContainerMetadata{Backend: ports.BackendNone}, nil
}

var (
	_ ports.MediaProber     = (*MediaTool)(nil)
	_ ports.AudioTranscoder = (*MediaTool)(nil)
	_ ports.FrameDecoder    = (*MediaTool)(nil)
	_ ports.ContainerReader = (*ContainerReader)(nil)
)
