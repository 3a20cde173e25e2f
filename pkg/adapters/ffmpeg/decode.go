package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strconv"

	"golang.org/x/image/bmp"
)

// DecodeFrameAt decodes the frame presented at seconds.
// ffmpeg writes a single BMP to stdout, which keeps the pixels lossless
// without a temp file.
func (t *Tool) DecodeFrameAt(ctx context.Context, path string, seconds float64) (image.Image, error) {
	bin, err := t.ffmpeg()
	if err != nil {
		return nil, err
	}

	out, err := t.run(ctx, ErrDecodeFailed, bin,
		"-v", "error",
		"-ss", strconv.FormatFloat(seconds, 'f', 6, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "bmp",
		"pipe:1",
	)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no frame at %.3fs", ErrDecodeFailed, seconds)
	}

	img, err := bmp.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode bmp: %w", ErrDecodeFailed, err)
	}
	return img, nil
}
