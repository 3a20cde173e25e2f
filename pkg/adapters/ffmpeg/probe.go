package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/user/videolab/pkg/ports"
)

type probeOutput struct {
	Streams []struct {
		Index        int    `json:"index"`
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		RFrameRate   string `json:"r_frame_rate"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// ProbeStreams lists the streams of the file at path.
func (t *Tool) ProbeStreams(ctx context.Context, path string) (ports.StreamInfo, error) {
	bin, err := t.ffprobe()
	if err != nil {
		return ports.StreamInfo{}, err
	}

	out, err := t.run(ctx, ErrProbeFailed, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		path,
	)
	if err != nil {
		return ports.StreamInfo{}, err
	}

	info, err := parseProbeOutput(out)
	if err != nil {
		return ports.StreamInfo{}, err
	}
	t.logger.Debug("Probed %s: %d streams, format %s", path, len(info.Streams), info.FormatName)
	return info, nil
}

// ReadContainer reads video metadata via ffprobe. r is ignored.
func (t *Tool) ReadContainer(ctx context.Context, path string, _ io.ReadSeeker) (ports.ContainerMetadata, error) {
	info, err := t.ProbeStreams(ctx, path)
	if err != nil {
		return ports.ContainerMetadata{}, err
	}
	return containerMetadata(info)
}

func parseProbeOutput(data []byte) (ports.StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("%w: parse output: %w", ErrProbeFailed, err)
	}

	info := ports.StreamInfo{
		FormatName: out.Format.FormatName,
		Duration:   out.Format.Duration,
		Streams:    make([]ports.StreamDescriptor, 0, len(out.Streams)),
	}
	for _, s := range out.Streams {
		info.Streams = append(info.Streams, ports.StreamDescriptor{
			Index:        s.Index,
			CodecType:    s.CodecType,
			CodecName:    s.CodecName,
			Width:        s.Width,
			Height:       s.Height,
			RFrameRate:   s.RFrameRate,
			AvgFrameRate: s.AvgFrameRate,
			NbFrames:     s.NbFrames,
			Duration:     s.Duration,
		})
	}
	return info, nil
}

// containerMetadata maps the first video stream to ContainerMetadata.
// Values ffprobe reports as "N/A", empty or zero stay unknown.
func containerMetadata(info ports.StreamInfo) (ports.ContainerMetadata, error) {
	vs, ok := info.FirstVideo()
	if !ok {
		return ports.ContainerMetadata{}, ErrNoVideoStream
	}

	meta := ports.ContainerMetadata{Backend: ports.BackendFFprobe}
	if vs.Width > 0 {
		w := vs.Width
		meta.Width = &w
	}
	if vs.Height > 0 {
		h := vs.Height
		meta.Height = &h
	}

	fps := parseFraction(vs.AvgFrameRate)
	if fps <= 0 {
		fps = parseFraction(vs.RFrameRate)
	}
	if fps > 0 {
		meta.FPS = &fps
	}

	dur, ok := parseNumber(vs.Duration)
	if !ok || dur <= 0 {
		dur, ok = parseNumber(info.Duration)
	}
	if ok && dur > 0 {
		meta.DurationSeconds = &dur
	}

	if n, ok := parseNumber(vs.NbFrames); ok {
		meta.FrameCount = &n
	}
	return meta, nil
}

// parseFraction parses "num/den" into a float64. It returns 0 for
// malformed input or a zero denominator.
func parseFraction(s string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	if !found {
		f, _ := parseNumber(num)
		return f
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "N/A") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
