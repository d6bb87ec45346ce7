package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/framecut/pkg/ports"
)

// Prober reads stream properties with ffprobe.
type Prober struct {
	locator Locator
}

// NewProber creates an ffprobe-backed prober.
func NewProber(locator Locator) *Prober {
	return &Prober{locator: locator}
}

// Probe returns the properties of the first video stream in path.
func (p *Prober) Probe(path string) (ports.StreamInfo, error) {
	bin, err := p.locator.FFprobe()
	if err != nil {
		return ports.StreamInfo{}, err
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(bin,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,avg_frame_rate,r_frame_rate,nb_frames",
		"-of", "json",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("ffprobe failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeOutput(stdout.Bytes())
}

type probeOutput struct {
	Streams []struct {
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		RFrameRate   string `json:"r_frame_rate"`
		NbFrames     string `json:"nb_frames"`
	} `json:"streams"`
}

func parseProbeOutput(data []byte) (ports.StreamInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.StreamInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ports.StreamInfo{}, fmt.Errorf("%w: no video stream", ErrInvalidStream)
	}
	s := out.Streams[0]

	fps, err := ParseRate(s.AvgFrameRate)
	if err != nil || fps <= 0 {
		fps, err = ParseRate(s.RFrameRate)
		if err != nil {
			return ports.StreamInfo{}, fmt.Errorf("%w: frame rate: %v", ErrInvalidStream, err)
		}
	}

	info := ports.StreamInfo{
		FrameRate: fps,
		Width:     s.Width,
		Height:    s.Height,
		Codec:     s.CodecName,
	}
	// nb_frames is "N/A" or absent for containers without a sample index
	if n, err := strconv.Atoi(s.NbFrames); err == nil && n > 0 {
		info.FrameCount = n
		info.FrameCountKnown = true
	}
	return info, nil
}

// ParseRate parses an ffprobe rate such as "30000/1001" or "25".
func ParseRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty rate")
	}
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	if d == 0 {
		return 0, fmt.Errorf("invalid rate %q", s)
	}
	return n / d, nil
}

var _ ports.StreamProber = (*Prober)(nil)
