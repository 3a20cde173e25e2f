package ports

import (
	"context"
	"image"
)

// FrameDecoder decodes single still frames from a video file.
type FrameDecoder interface {
	// DecodeFrameAt returns the frame presented at the given offset in
	// seconds. The offset is expected to be already clamped by the caller.
	DecodeFrameAt(ctx context.Context, path string, seconds float64) (image.Image, error)
}
