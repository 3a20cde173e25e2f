// Package mp4container reads video track metadata from ISO-BMFF (MP4/MOV)
// containers without decoding any samples.
package mp4container

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/videolab/pkg/ports"
)

var (
	// ErrNotMP4 is returned when the input cannot be parsed as MP4.
	ErrNotMP4 = errors.New("mp4container: not an mp4 file")

	// ErrNoVideoTrack is returned when no track has a "vide" handler.
	ErrNoVideoTrack = errors.New("mp4container: no video track found")
)

// Reader implements ports.ContainerReader using mp4ff.
type Reader struct{}

// New creates a new Reader.
func New() *Reader {
	return &Reader{}
}

// ReadContainer parses the box structure of r. Media data is skipped, so
// the cost is independent of file size. The reader is rewound on return.
func (rd *Reader) ReadContainer(ctx context.Context, path string, r io.ReadSeeker) (ports.ContainerMetadata, error) {
	if err := ctx.Err(); err != nil {
		return ports.ContainerMetadata{}, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ports.ContainerMetadata{}, fmt.Errorf("seek: %w", err)
	}

	f, err := mp4.DecodeFile(r, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.ContainerMetadata{}, fmt.Errorf("%w: %s: %w", ErrNotMP4, path, err)
	}

	// Reset reader position for subsequent reads
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return ports.ContainerMetadata{}, fmt.Errorf("seek: %w", err)
	}

	return metadataFromFile(f)
}

func metadataFromFile(f *mp4.File) (ports.ContainerMetadata, error) {
	moov := f.Moov
	if moov == nil && f.Init != nil {
		moov = f.Init.Moov
	}
	if moov == nil {
		return ports.ContainerMetadata{}, fmt.Errorf("%w: missing moov box", ErrNotMP4)
	}

	trak := videoTrak(moov)
	if trak == nil {
		return ports.ContainerMetadata{}, ErrNoVideoTrack
	}

	var fragSamples uint32
	if f.IsFragmented() {
		fragSamples = countFragmentSamples(f, trak.Tkhd.TrackID)
	}
	return metadataFromTrak(moov, trak, fragSamples), nil
}

func videoTrak(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func countFragmentSamples(f *mp4.File, trackID uint32) uint32 {
	var n uint32
	for _, seg := range f.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					n += trun.SampleCount()
				}
			}
		}
	}
	return n
}

func metadataFromTrak(moov *mp4.MoovBox, trak *mp4.TrakBox, fragSamples uint32) ports.ContainerMetadata {
	meta := ports.ContainerMetadata{Backend: ports.BackendMP4}

	var stbl *mp4.StblBox
	if trak.Mdia.Minf != nil {
		stbl = trak.Mdia.Minf.Stbl
	}

	// Dimensions: coded size from the sample entry, else the track header.
	width, height := 0, 0
	if stbl != nil && stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
				width, height = int(vse.Width), int(vse.Height)
				break
			}
		}
	}
	if (width == 0 || height == 0) && trak.Tkhd != nil {
		width = int(uint32(trak.Tkhd.Width) >> 16)
		height = int(uint32(trak.Tkhd.Height) >> 16)
	}
	if width > 0 && height > 0 {
		meta.Width = &width
		meta.Height = &height
	}

	var timescale uint32
	if trak.Mdia.Mdhd != nil {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	// Duration: media header, then movie header, then fragment duration.
	var duration float64
	switch {
	case trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Duration > 0 && timescale > 0:
		duration = float64(trak.Mdia.Mdhd.Duration) / float64(timescale)
	case moov.Mvhd != nil && moov.Mvhd.Duration > 0 && moov.Mvhd.Timescale > 0:
		duration = float64(moov.Mvhd.Duration) / float64(moov.Mvhd.Timescale)
	case moov.Mvex != nil && moov.Mvex.Mehd != nil && moov.Mvhd != nil && moov.Mvhd.Timescale > 0:
		duration = float64(moov.Mvex.Mehd.FragmentDuration) / float64(moov.Mvhd.Timescale)
	}

	var count uint32
	if stbl != nil && stbl.Stsz != nil {
		count = stbl.Stsz.SampleNumber
	}
	if count == 0 {
		count = fragSamples
	}

	var defaultDelta uint32
	if stbl != nil && stbl.Stts != nil && len(stbl.Stts.SampleTimeDelta) > 0 {
		defaultDelta = stbl.Stts.SampleTimeDelta[0]
	}
	if defaultDelta == 0 && moov.Mvex != nil {
		for _, trex := range moov.Mvex.Trexs {
			if trak.Tkhd != nil && trex.TrackID == trak.Tkhd.TrackID {
				defaultDelta = trex.DefaultSampleDuration
				break
			}
		}
	}

	if duration <= 0 && count > 0 && defaultDelta > 0 && timescale > 0 {
		duration = float64(count) * float64(defaultDelta) / float64(timescale)
	}

	var fps float64
	switch {
	case count > 0 && duration > 0:
		fps = float64(count) / duration
	case defaultDelta > 0 && timescale > 0:
		fps = float64(timescale) / float64(defaultDelta)
	}

	if duration > 0 {
		meta.DurationSeconds = &duration
	}
	if fps > 0 {
		meta.FPS = &fps
	}
	if count > 0 {
		n := float64(count)
		meta.FrameCount = &n
	}
	return meta
}

var _ ports.ContainerReader = (*Reader)(nil)
