// Package mp4probe reads video stream properties from MP4 files using the
// sample tables, without decoding any frames.
package mp4probe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/user/framecut/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the file has no video track.
	ErrNoVideoTrack = errors.New("mp4probe: no video track found")

	// ErrNoTiming is returned when the frame rate cannot be derived.
	ErrNoTiming = errors.New("mp4probe: no sample timing found")
)

// Codec represents a video codec type.
type Codec string

const (
	CodecH264    Codec = "h264"
	CodecHEVC    Codec = "hevc"
	CodecAV1     Codec = "av1"
	CodecMPEG4   Codec = "mpeg4"
	CodecUnknown Codec = "unknown"
)

// Prober implements ports.StreamProber for MP4 files.
type Prober struct{}

// New creates a new Prober.
func New() *Prober {
	return &Prober{}
}

// Probe reads the stream properties of the first video track in path.
func (p *Prober) Probe(path string) (ports.StreamInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return ProbeReader(f)
}

// ProbeReader reads the stream properties from an io.ReadSeeker.
func ProbeReader(reader io.ReadSeeker) (ports.StreamInfo, error) {
	// Lazy mdat decoding leaves sample payloads on disk; only the box
	// tables are read.
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.StreamInfo{}, fmt.Errorf("decode mp4: %w", err)
	}
	return probeFile(mp4File)
}

func probeFile(mp4File *mp4.File) (ports.StreamInfo, error) {
	if mp4File.IsFragmented() {
		if mp4File.Init == nil || mp4File.Init.Moov == nil {
			return ports.StreamInfo{}, ErrNoVideoTrack
		}
		trak := videoTrack(mp4File.Init.Moov)
		if trak == nil {
			return ports.StreamInfo{}, ErrNoVideoTrack
		}
		var trex *mp4.TrexBox
		if mp4File.Init.Moov.Mvex != nil {
			for _, t := range mp4File.Init.Moov.Mvex.Trexs {
				if t.TrackID == trak.Tkhd.TrackID {
					trex = t
					break
				}
			}
		}
		count, total := fragmentTiming(mp4File, trak.Tkhd.TrackID, trex)
		return trackInfo(trak, count, count, total)
	}

	if mp4File.Moov == nil {
		return ports.StreamInfo{}, fmt.Errorf("no moov box found")
	}
	trak := videoTrack(mp4File.Moov)
	if trak == nil {
		return ports.StreamInfo{}, ErrNoVideoTrack
	}
	timed, total := progressiveTiming(trak)
	frames := timed
	if stbl := sampleTable(trak); stbl != nil && stbl.Stsz != nil && stbl.Stsz.SampleNumber > 0 {
		frames = uint64(stbl.Stsz.SampleNumber)
	}
	return trackInfo(trak, frames, timed, total)
}

// videoTrack returns the first track with a "vide" handler.
func videoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

// progressiveTiming sums the stts table: sample count and total duration in
// track timescale units.
func progressiveTiming(trak *mp4.TrakBox) (count uint64, total uint64) {
	stbl := sampleTable(trak)
	if stbl == nil {
		return 0, 0
	}
	if stbl.Stts != nil {
		for i, n := range stbl.Stts.SampleCount {
			count += uint64(n)
			total += uint64(n) * uint64(stbl.Stts.SampleTimeDelta[i])
		}
	}
	return count, total
}

func fragmentTiming(mp4File *mp4.File, trackID uint32, trex *mp4.TrexBox) (count uint64, total uint64) {
	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd == nil || traf.Tfhd.TrackID != trackID {
					continue
				}
				for _, trun := range traf.Truns {
					total += trun.AddSampleDefaultValues(traf.Tfhd, trex)
					count += uint64(trun.SampleCount())
				}
			}
		}
	}
	return count, total
}

// trackInfo builds the stream info of trak holding frames samples, of which
// timed samples last total timescale units.
func trackInfo(trak *mp4.TrakBox, frames, timed, total uint64) (ports.StreamInfo, error) {
	info := ports.StreamInfo{
		Codec: string(detectCodecFromTrack(trak)),
	}

	info.Width, info.Height = trackDimensions(trak)

	var timescale uint32 = 1000
	if trak.Mdia != nil && trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale > 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	if timed == 0 || total == 0 {
		return info, ErrNoTiming
	}
	info.FrameRate = FrameRate(timed, total, timescale)
	info.FrameCount = int(frames)
	info.FrameCountKnown = true
	return info, nil
}

// FrameRate returns the average frame rate of count samples lasting total
// timescale units.
func FrameRate(count, total uint64, timescale uint32) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * float64(timescale) / float64(total)
}

// trackDimensions prefers the coded size from the sample entry and falls
// back to the track header.
func trackDimensions(trak *mp4.TrakBox) (int, int) {
	if stbl := sampleTable(trak); stbl != nil && stbl.Stsd != nil {
		for _, child := range stbl.Stsd.Children {
			if vse, ok := child.(*mp4.VisualSampleEntryBox); ok && vse.Width > 0 && vse.Height > 0 {
				return int(vse.Width), int(vse.Height)
			}
		}
	}
	if trak.Tkhd != nil {
		return int(trak.Tkhd.Width >> 16), int(trak.Tkhd.Height >> 16)
	}
	return 0, 0
}

func sampleTable(trak *mp4.TrakBox) *mp4.StblBox {
	if trak.Mdia == nil || trak.Mdia.Minf == nil {
		return nil
	}
	return trak.Mdia.Minf.Stbl
}

func detectCodecFromTrack(trak *mp4.TrakBox) Codec {
	stbl := sampleTable(trak)
	if stbl == nil || stbl.Stsd == nil {
		return CodecUnknown
	}

	for _, child := range stbl.Stsd.Children {
		switch child.Type() {
		case "avc1", "avc3":
			return CodecH264
		case "hvc1", "hev1":
			return CodecHEVC
		case "av01":
			return CodecAV1
		case "mp4v":
			return CodecMPEG4
		}
	}
	return CodecUnknown
}

// Ensure Prober implements ports.StreamProber
var _ ports.StreamProber = (*Prober)(nil)
