// Package ffmpeg drives the ffmpeg and ffprobe executables to probe
// containers, decode single frames and transcode audio tracks.
package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"sync"

	"github.com/user/videolab/pkg/ports"
)

// Options configures executable lookup. Empty paths are searched for.
type Options struct {
	FFmpegPath  string
	FFprobePath string
}

// Tool implements MediaProber, AudioTranscoder, FrameDecoder and
// ContainerReader on top of the ffmpeg command line tools.
type Tool struct {
	opts   Options
	fs     ports.FileSystem
	logger ports.Logger

	mu          sync.Mutex
	ffmpegPath  string
	ffprobePath string
}

// New creates a new Tool. Executables are located on first use.
func New(opts Options, fs ports.FileSystem, logger ports.Logger) *Tool {
	return &Tool{
		opts:   opts,
		fs:     fs,
		logger: logger.WithComponent("ffmpeg"),
	}
}

func (t *Tool) ffmpeg() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ffmpegPath != "" {
		return t.ffmpegPath, nil
	}
	path, err := FindFFmpeg(t.opts.FFmpegPath)
	if err != nil {
		return "", err
	}
	t.logger.Debug("Using ffmpeg at %s", path)
	t.ffmpegPath = path
	return path, nil
}

func (t *Tool) ffprobe() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ffprobePath != "" {
		return t.ffprobePath, nil
	}
	path, err := FindFFprobe(t.opts.FFprobePath)
	if err != nil {
		return "", err
	}
	t.logger.Debug("Using ffprobe at %s", path)
	t.ffprobePath = path
	return path, nil
}

// run executes bin and returns stdout. On failure the returned error wraps
// both kind and the process error, with stderr attached.
func (t *Tool) run(ctx context.Context, kind error, bin string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w\nstderr: %s", kind, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

var (
	_ ports.MediaProber     = (*Tool)(nil)
	_ ports.AudioTranscoder = (*Tool)(nil)
	_ ports.FrameDecoder    = (*Tool)(nil)
	_ ports.ContainerReader = (*Tool)(nil)
)
