package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/user/videolab/pkg/ports"
)

// audioCodecArgs maps each output format to its ffmpeg encoder arguments.
var audioCodecArgs = map[ports.AudioFormat][]string{
	ports.AudioMP3:  {"-c:a", "libmp3lame", "-q:a", "2"},
	ports.AudioWAV:  {"-c:a", "pcm_s16le"},
	ports.AudioOGG:  {"-c:a", "libvorbis", "-q:a", "5"},
	ports.AudioFLAC: {"-c:a", "flac"},
	ports.AudioM4A:  {"-c:a", "aac", "-b:a", "192k"},
}

// TranscodeAudio encodes the audio track of path into format.
// The output is written to a scratch directory that is removed on return.
func (t *Tool) TranscodeAudio(ctx context.Context, path string, format ports.AudioFormat) ([]byte, error) {
	codec, ok := audioCodecArgs[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	bin, err := t.ffmpeg()
	if err != nil {
		return nil, err
	}

	dir, err := t.fs.MkdirTemp("videolab-audio-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if err := t.fs.RemoveAll(dir); err != nil {
			t.logger.Warn("Failed to remove scratch directory %s: %v", dir, err)
		}
	}()

	outPath := filepath.Join(dir, "audio"+format.Extension())
	args := []string{"-v", "error", "-y", "-i", path, "-vn"}
	args = append(args, codec...)
	args = append(args, outPath)

	if _, err := t.run(ctx, ErrTranscodeFailed, bin, args...); err != nil {
		return nil, err
	}

	exists, err := t.fs.Exists(outPath)
	if err != nil {
		return nil, fmt.Errorf("stat output: %w", err)
	}
	if !exists {
		return nil, ErrNoOutput
	}

	data, err := t.fs.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("read output: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyOutput
	}

	t.logger.Debug("Transcoded audio of %s to %s (%d bytes)", path, format, len(data))
	return data, nil
}
