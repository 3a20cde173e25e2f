package ports

import (
	"context"
	"io"
)

// Backend labels for container metadata sources.
const (
	BackendMP4     = "mp4ff"
	BackendFFprobe = "ffprobe"
	BackendNone    = "none"
)

// ContainerMetadata holds the raw, unsanitized properties of the primary
// video track. A nil field means the container did not provide it. Values
// are passed through as read: FrameCount may be negative, NaN or absurdly
// large for streaming containers and must be sanitized by the consumer.
type ContainerMetadata struct {
	Width           *int
	Height          *int
	FPS             *float64
	DurationSeconds *float64
	FrameCount      *float64

	// Backend names the reader that produced the values.
	Backend string
}

// ContainerReader extracts raw metadata from an opened container.
type ContainerReader interface {
	// ReadContainer reads metadata from r, which is positioned anywhere;
	// implementations seek as needed. path is the same file on disk, for
	// readers that delegate to external tools.
	ReadContainer(ctx context.Context, path string, r io.ReadSeeker) (ContainerMetadata, error)
}
