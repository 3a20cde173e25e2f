// Package video provides the open-video resource shared by the stages.
package video

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"

	"github.com/user/videolab/pkg/ports"
)

// ErrClosed is the panic value raised when a closed Resource is used.
var ErrClosed = errors.New("video: resource is closed")

// Resource is an opened video file. Its container metadata is read once at
// Open. Decoding is delegated to a FrameDecoder and is serialized so that a
// Resource can be shared between goroutines.
type Resource struct {
	path    string
	file    *os.File
	decoder ports.FrameDecoder
	meta    ports.ContainerMetadata

	mu     sync.Mutex
	closed bool
}

// Open opens path and reads its container metadata with reader. A file
// that cannot be opened is an error; unreadable metadata is not, and
// leaves every property unknown.
func Open(ctx context.Context, path string, reader ports.ContainerReader, decoder ports.FrameDecoder, logger ports.Logger) (*Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open video: %w", err)
	}

	meta, err := reader.ReadContainer(ctx, path, f)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			f.Close()
			return nil, ctxErr
		}
		logger.Warn("Could not read container metadata of %s: %v", path, err)
		meta = ports.ContainerMetadata{Backend: ports.BackendNone}
	}

	return &Resource{
		path:    path,
		file:    f,
		decoder: decoder,
		meta:    meta,
	}, nil
}

// Path returns the file path the resource was opened from.
func (r *Resource) Path() string {
	r.mustBeOpen()
	return r.path
}

// Container returns the raw container metadata read at Open.
func (r *Resource) Container() ports.ContainerMetadata {
	r.mustBeOpen()
	return r.meta
}

// DecodeAt decodes the frame at seconds.
func (r *Resource) DecodeAt(ctx context.Context, seconds float64) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		panic(ErrClosed)
	}
	return r.decoder.DecodeFrameAt(ctx, r.path, seconds)
}

// Closed reports whether Close has been called.
func (r *Resource) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Close releases the file handle. Calling Close more than once is a no-op.
func (r *Resource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

func (r *Resource) mustBeOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		panic(ErrClosed)
	}
}
