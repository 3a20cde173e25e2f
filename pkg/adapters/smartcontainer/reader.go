// Package smartcontainer provides a container reader that parses MP4 boxes
// natively and falls back to an external probe for other formats.
package smartcontainer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/user/videolab/pkg/ports"
)

// Reader tries Primary first and consults Fallback when Primary fails or
// leaves fields unknown.
type Reader struct {
	primary  ports.ContainerReader
	fallback ports.ContainerReader
	logger   ports.Logger
}

// New creates a Reader. fallback may be nil.
func New(primary, fallback ports.ContainerReader, logger ports.Logger) *Reader {
	return &Reader{
		primary:  primary,
		fallback: fallback,
		logger:   logger.WithComponent("container"),
	}
}

// ReadContainer implements ports.ContainerReader.
func (rd *Reader) ReadContainer(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
	meta, err := rd.primary.ReadContainer(ctx, path, r)
	if err == nil && complete(meta) {
		return meta, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ports.ContainerMetadata{}, err
	}
	if rd.fallback == nil {
		return meta, err
	}

	if err != nil {
		rd.logger.Debug("Native container parse failed, falling back: %v", err)
	} else {
		rd.logger.Debug("Native container metadata incomplete, consulting fallback")
	}

	if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
		return ports.ContainerMetadata{}, fmt.Errorf("seek: %w", seekErr)
	}

	fb, fbErr := rd.fallback.ReadContainer(ctx, path, r)
	if fbErr != nil {
		if err != nil {
			return ports.ContainerMetadata{}, errors.Join(err, fbErr)
		}
		// Keep the partial native result.
		rd.logger.Debug("Fallback failed: %v", fbErr)
		return meta, nil
	}
	if err != nil {
		return fb, nil
	}
	return merge(meta, fb), nil
}

func complete(m ports.ContainerMetadata) bool {
	return m.Width != nil && m.Height != nil && m.FPS != nil &&
		m.DurationSeconds != nil && m.FrameCount != nil
}

// merge fills unknown fields of m from fb. m's backend label is kept.
func merge(m, fb ports.ContainerMetadata) ports.ContainerMetadata {
	if m.Width == nil || m.Height == nil {
		m.Width, m.Height = fb.Width, fb.Height
	}
	if m.FPS == nil {
		m.FPS = fb.FPS
	}
	if m.DurationSeconds == nil {
		m.DurationSeconds = fb.DurationSeconds
	}
	if m.FrameCount == nil {
		m.FrameCount = fb.FrameCount
	}
	return m
}

var _ ports.ContainerReader = (*Reader)(nil)
