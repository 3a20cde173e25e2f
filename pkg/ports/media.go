package ports

import (
	"context"
	"errors"
	"strings"
)

// StreamInfo is the stream list of a container as reported by a probe tool.
// Numeric fields are kept as the raw strings the tool printed so that
// "N/A" and empty values survive until the metadata stage interprets them.
type StreamInfo struct {
	FormatName string
	Duration   string
	Streams    []StreamDescriptor
}

// StreamDescriptor describes one elementary stream inside a container.
type StreamDescriptor struct {
	Index        int
	CodecType    string // "video", "audio", "subtitle", "data"
	CodecName    string
	Width        int
	Height       int
	RFrameRate   string // e.g. "30/1" or "24000/1001"
	AvgFrameRate string
	NbFrames     string
	Duration     string
}

// HasAudio reports whether any stream is an audio stream.
func (s StreamInfo) HasAudio() bool {
	for _, st := range s.Streams {
		if strings.EqualFold(st.CodecType, "audio") {
			return true
		}
	}
	return false
}

// FirstVideo returns the first video stream, if any.
func (s StreamInfo) FirstVideo() (StreamDescriptor, bool) {
	for _, st := range s.Streams {
		if strings.EqualFold(st.CodecType, "video") {
			return st, true
		}
	}
	return StreamDescriptor{}, false
}

// MediaProber lists the streams of a container file.
type MediaProber interface {
	// ProbeStreams inspects the file at path without decoding samples.
	ProbeStreams(ctx context.Context, path string) (StreamInfo, error)
}

// AudioFormat identifies an encoded audio output format by file extension.
type AudioFormat string

const (
	AudioMP3  AudioFormat = "mp3"
	AudioWAV  AudioFormat = "wav"
	AudioOGG  AudioFormat = "ogg"
	AudioFLAC AudioFormat = "flac"
	AudioM4A  AudioFormat = "m4a"

	// DefaultAudioFormat is the lossy format used when none is requested.
	DefaultAudioFormat = AudioMP3
)

var audioMIMETypes = map[AudioFormat]string{
	AudioMP3:  "audio/mpeg",
	AudioWAV:  "audio/wav",
	AudioOGG:  "audio/ogg",
	AudioFLAC: "audio/flac",
	AudioM4A:  "audio/mp4",
}

// ParseAudioFormat normalizes a user-supplied format name ("MP3", ".wav").
func ParseAudioFormat(s string) AudioFormat {
	return AudioFormat(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
}

// MIMEType returns the MIME type for the format and whether it is supported.
func (f AudioFormat) MIMEType() (string, bool) {
	mime, ok := audioMIMETypes[f]
	return mime, ok
}

// Supported reports whether the format can be produced.
func (f AudioFormat) Supported() bool {
	_, ok := audioMIMETypes[f]
	return ok
}

// Extension returns the file extension including the leading dot.
func (f AudioFormat) Extension() string {
	return "." + string(f)
}

// AudioTranscoder demuxes the audio track of a container and encodes it.
type AudioTranscoder interface {
	// TranscodeAudio encodes the audio stream of the file at path into
	// format and returns the encoded bytes. The video track is dropped.
	TranscodeAudio(ctx context.Context, path string, format AudioFormat) ([]byte, error)
}

// Errors an AudioTranscoder wraps so callers can classify failures without
// knowing the implementation.
var (
	ErrTranscoderMissing = errors.New("transcoder not available")
	ErrTranscodeFailed   = errors.New("transcode failed")
	ErrNoOutput          = errors.New("transcoder produced no output")
	ErrEmptyOutput       = errors.New("transcoder output is empty")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
)
