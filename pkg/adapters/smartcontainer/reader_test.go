package smartcontainer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/user/videolab/pkg/adapters/logger"
	"github.com/user/videolab/pkg/mocks"
	"github.com/user/videolab/pkg/ports"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func full(backend string) ports.ContainerMetadata {
	return ports.ContainerMetadata{
		Width:           intPtr(640),
		Height:          intPtr(360),
		FPS:             floatPtr(30),
		DurationSeconds: floatPtr(10),
		FrameCount:      floatPtr(300),
		Backend:         backend,
	}
}

func TestReader_PrimaryComplete(t *testing.T) {
	primary := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return full(ports.BackendMP4), nil
		},
	}
	fallback := &mocks.ContainerReader{}

	rd := New(primary, fallback, logger.NewNoop())
	meta, err := rd.ReadContainer(context.Background(), "a.mp4", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadContainer failed: %v", err)
	}
	if meta.Backend != ports.BackendMP4 {
		t.Errorf("expected mp4 backend, got %q", meta.Backend)
	}
	if len(fallback.Calls) != 0 {
		t.Error("fallback should not be consulted when primary is complete")
	}
}

func TestReader_PrimaryFails(t *testing.T) {
	primary := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return ports.ContainerMetadata{}, errors.New("not mp4")
		},
	}
	fallback := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return full(ports.BackendFFprobe), nil
		},
	}

	rd := New(primary, fallback, logger.NewNoop())
	meta, err := rd.ReadContainer(context.Background(), "a.webm", bytes.NewReader([]byte("x")))
	if err != nil {
		t.Fatalf("ReadContainer failed: %v", err)
	}
	if meta.Backend != ports.BackendFFprobe {
		t.Errorf("expected ffprobe backend, got %q", meta.Backend)
	}
}

func TestReader_MergesMissingFields(t *testing.T) {
	partial := full(ports.BackendMP4)
	partial.FrameCount = nil
	partial.FPS = nil

	primary := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return partial, nil
		},
	}
	fb := full(ports.BackendFFprobe)
	fb.FPS = floatPtr(29.97)
	fallback := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return fb, nil
		},
	}

	rd := New(primary, fallback, logger.NewNoop())
	meta, err := rd.ReadContainer(context.Background(), "a.mp4", bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("ReadContainer failed: %v", err)
	}
	if meta.Backend != ports.BackendMP4 {
		t.Errorf("backend label should stay %q, got %q", ports.BackendMP4, meta.Backend)
	}
	if meta.FPS == nil || *meta.FPS != 29.97 {
		t.Errorf("expected merged fps 29.97, got %v", meta.FPS)
	}
	if meta.FrameCount == nil || *meta.FrameCount != 300 {
		t.Errorf("expected merged frame count 300, got %v", meta.FrameCount)
	}
}

func TestReader_BothFail(t *testing.T) {
	errA := errors.New("primary")
	errB := errors.New("fallback")
	primary := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return ports.ContainerMetadata{}, errA
		},
	}
	fallback := &mocks.ContainerReader{
		ReadContainerFunc: func(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
			return ports.ContainerMetadata{}, errB
		},
	}

	rd := New(primary, fallback, logger.NewNoop())
	_, err := rd.ReadContainer(context.Background(), "a.bin", bytes.NewReader(nil))
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("expected both errors to be joined, got %v", err)
	}
}
