package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Codec maps a four-character codec identifier to an ffmpeg encoder.
type Codec struct {
	FourCC  string // Canonical tag written to the container
	Encoder string // ffmpeg encoder name
	PixFmt  string // Output pixel format

	// QualityFlag is the ffmpeg flag the quality value is passed with,
	// and DefaultQuality the value used when none is configured.
	QualityFlag    string
	DefaultQuality int
}

var codecs = map[string]Codec{
	"mp4v": {FourCC: "mp4v", Encoder: "mpeg4", PixFmt: "yuv420p", QualityFlag: "-q:v", DefaultQuality: 3},
	"xvid": {FourCC: "XVID", Encoder: "mpeg4", PixFmt: "yuv420p", QualityFlag: "-q:v", DefaultQuality: 3},
	"avc1": {FourCC: "avc1", Encoder: "libx264", PixFmt: "yuv420p", QualityFlag: "-crf", DefaultQuality: 23},
	"h264": {FourCC: "avc1", Encoder: "libx264", PixFmt: "yuv420p", QualityFlag: "-crf", DefaultQuality: 23},
	"x264": {FourCC: "avc1", Encoder: "libx264", PixFmt: "yuv420p", QualityFlag: "-crf", DefaultQuality: 23},
	"hvc1": {FourCC: "hvc1", Encoder: "libx265", PixFmt: "yuv420p", QualityFlag: "-crf", DefaultQuality: 28},
	"hev1": {FourCC: "hvc1", Encoder: "libx265", PixFmt: "yuv420p", QualityFlag: "-crf", DefaultQuality: 28},
	"mjpg": {FourCC: "MJPG", Encoder: "mjpeg", PixFmt: "yuvj420p", QualityFlag: "-q:v", DefaultQuality: 3},
}

// DefaultFourCC is the codec identifier used when none is configured.
const DefaultFourCC = "mp4v"

// LookupFourCC returns the encoder mapping for a codec identifier.
// Identifiers are matched case-insensitively.
func LookupFourCC(fourcc string) (Codec, error) {
	if len(fourcc) != 4 {
		return Codec{}, fmt.Errorf("%w: %q is not four characters", ErrUnsupportedFourCC, fourcc)
	}
	c, ok := codecs[strings.ToLower(fourcc)]
	if !ok {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnsupportedFourCC, fourcc)
	}
	return c, nil
}

// SupportedFourCCs lists the accepted codec identifiers.
func SupportedFourCCs() []string {
	return []string{"mp4v", "XVID", "avc1", "h264", "x264", "hvc1", "hev1", "MJPG"}
}

// args returns the encoder arguments for the given quality (0 = default).
func (c Codec) args(quality int) []string {
	if quality <= 0 {
		quality = c.DefaultQuality
	}
	args := []string{"-c:v", c.Encoder}
	if c.Encoder == "libx264" || c.Encoder == "libx265" {
		args = append(args, "-preset", "fast")
	}
	args = append(args,
		c.QualityFlag, strconv.Itoa(quality),
		"-pix_fmt", c.PixFmt,
		"-tag:v", c.FourCC,
	)
	return args
}

// RateString formats a frame rate for ffmpeg, using exact NTSC fractions
// where the rate is one of them.
func RateString(fps float64) string {
	for _, base := range []float64{24, 30, 48, 60, 120} {
		ntsc := base * 1000 / 1001
		if math.Abs(fps-ntsc) < 0.0005 {
			return fmt.Sprintf("%d/1001", int(base*1000))
		}
	}
	return strconv.FormatFloat(fps, 'f', -1, 64)
}
