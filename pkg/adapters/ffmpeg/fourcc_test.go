package ffmpeg

import (
	"errors"
	"testing"
)

func TestLookupFourCC(t *testing.T) {
	tests := []struct {
		fourcc  string
		encoder string
		tag     string
	}{
		{"mp4v", "mpeg4", "mp4v"},
		{"MP4V", "mpeg4", "mp4v"},
		{"XVID", "mpeg4", "XVID"},
		{"avc1", "libx264", "avc1"},
		{"H264", "libx264", "avc1"},
		{"hvc1", "libx265", "hvc1"},
		{"MJPG", "mjpeg", "MJPG"},
	}

	for _, tt := range tests {
		t.Run(tt.fourcc, func(t *testing.T) {
			c, err := LookupFourCC(tt.fourcc)
			if err != nil {
				t.Fatalf("LookupFourCC(%q) failed: %v", tt.fourcc, err)
			}
			if c.Encoder != tt.encoder {
				t.Errorf("Encoder = %q, want %q", c.Encoder, tt.encoder)
			}
			if c.FourCC != tt.tag {
				t.Errorf("FourCC = %q, want %q", c.FourCC, tt.tag)
			}
		})
	}
}

func TestLookupFourCCUnsupported(t *testing.T) {
	for _, fourcc := range []string{"", "mp4", "abcd", "vp90x"} {
		if _, err := LookupFourCC(fourcc); !errors.Is(err, ErrUnsupportedFourCC) {
			t.Errorf("LookupFourCC(%q) error = %v, want ErrUnsupportedFourCC", fourcc, err)
		}
	}
}

func TestSupportedFourCCsResolve(t *testing.T) {
	for _, fourcc := range SupportedFourCCs() {
		if _, err := LookupFourCC(fourcc); err != nil {
			t.Errorf("listed fourcc %q does not resolve: %v", fourcc, err)
		}
	}
}

func TestCodecArgs(t *testing.T) {
	c, _ := LookupFourCC("avc1")

	args := c.args(0)
	if !containsPair(args, "-crf", "23") {
		t.Errorf("default args %v missing -crf 23", args)
	}
	if !containsPair(args, "-tag:v", "avc1") {
		t.Errorf("args %v missing -tag:v avc1", args)
	}

	args = c.args(18)
	if !containsPair(args, "-crf", "18") {
		t.Errorf("args %v missing -crf 18", args)
	}

	m, _ := LookupFourCC("mp4v")
	if args := m.args(0); !containsPair(args, "-q:v", "3") {
		t.Errorf("mpeg4 args %v missing -q:v 3", args)
	}
}

func TestRateString(t *testing.T) {
	tests := []struct {
		fps  float64
		want string
	}{
		{30, "30"},
		{25, "25"},
		{29.97002997002997, "30000/1001"},
		{23.976023976023978, "24000/1001"},
		{59.94005994005994, "60000/1001"},
		{12.5, "12.5"},
	}

	for _, tt := range tests {
		if got := RateString(tt.fps); got != tt.want {
			t.Errorf("RateString(%v) = %q, want %q", tt.fps, got, tt.want)
		}
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
