package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/user/videolab/pkg/ports"
)

var (
	// ErrFFmpegNotFound is returned when no ffmpeg executable can be located.
	// It wraps ports.ErrTranscoderMissing.
	ErrFFmpegNotFound = fmt.Errorf("ffmpeg: ffmpeg not found: %w", ports.ErrTranscoderMissing)

	// ErrFFprobeNotFound is returned when no ffprobe executable can be located.
	ErrFFprobeNotFound = errors.New("ffmpeg: ffprobe not found")

	// ErrProbeFailed is returned when ffprobe exits with an error or prints
	// output that cannot be parsed.
	ErrProbeFailed = errors.New("ffmpeg: probe failed")

	// ErrTranscodeFailed is returned when the audio transcode process fails.
	ErrTranscodeFailed = fmt.Errorf("ffmpeg: %w", ports.ErrTranscodeFailed)

	// ErrNoOutput is returned when ffmpeg exits cleanly without writing output.
	ErrNoOutput = fmt.Errorf("ffmpeg: %w", ports.ErrNoOutput)

	// ErrEmptyOutput is returned when the output file exists but is empty.
	ErrEmptyOutput = fmt.Errorf("ffmpeg: %w", ports.ErrEmptyOutput)

	// ErrUnsupportedFormat is returned for audio formats without an encoder mapping.
	ErrUnsupportedFormat = fmt.Errorf("ffmpeg: %w", ports.ErrUnsupportedFormat)

	// ErrDecodeFailed is returned when a frame cannot be decoded.
	ErrDecodeFailed = errors.New("ffmpeg: frame decode failed")

	// ErrNoVideoStream is returned when the container has no video stream.
	ErrNoVideoStream = errors.New("ffmpeg: no video stream")
)
