package ffmpeg

import (
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/user/framecut/pkg/ports"
)

// SinkFactory creates output videos encoded by ffmpeg.
type SinkFactory struct {
	locator Locator
	quality int

	mu       sync.Mutex
	encoders map[string]bool
}

// NewSinkFactory creates a sink factory. A quality of 0 selects the
// codec's default (CRF for x264/x265, qscale for mpeg4 and mjpeg).
func NewSinkFactory(locator Locator, quality int) *SinkFactory {
	return &SinkFactory{
		locator:  locator,
		quality:  quality,
		encoders: make(map[string]bool),
	}
}

// Create checks the codec and destination, then starts an ffmpeg process
// reading raw RGBA frames from stdin. The output file exists (possibly
// empty) once Create returns successfully.
func (f *SinkFactory) Create(path string, opts ports.SinkOptions) (ports.VideoSink, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", opts.Width, opts.Height)
	}
	if opts.FrameRate <= 0 {
		return nil, fmt.Errorf("invalid frame rate %g", opts.FrameRate)
	}

	fourcc := opts.FourCC
	if fourcc == "" {
		fourcc = DefaultFourCC
	}
	codec, err := LookupFourCC(fourcc)
	if err != nil {
		return nil, err
	}

	bin, err := f.locator.FFmpeg()
	if err != nil {
		return nil, err
	}
	if !f.hasEncoder(bin, codec.Encoder) {
		return nil, fmt.Errorf("%w: %s", ErrEncoderUnavailable, codec.Encoder)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	out.Close()

	args := []string{
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", RateString(opts.FrameRate),
		"-i", "pipe:0",
		"-an",
	}
	args = append(args, codec.args(f.quality)...)
	args = append(args, path)

	s := &sink{
		width:  opts.Width,
		height: opts.Height,
		buf:    image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height)),
	}
	s.cmd = exec.Command(bin, args...)
	s.cmd.Stderr = &s.stderr

	stdin, err := s.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	if err := s.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	s.stdin = stdin
	return s, nil
}

// hasEncoder asks ffmpeg whether an encoder is compiled in. Results are cached.
func (f *SinkFactory) hasEncoder(bin, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if ok, cached := f.encoders[name]; cached {
		return ok
	}
	out, err := exec.Command(bin, "-hide_banner", "-h", "encoder="+name).CombinedOutput()
	ok := err == nil && !strings.Contains(string(out), "is not recognized")
	f.encoders[name] = ok
	return ok
}

type sink struct {
	mu     sync.Mutex
	width  int
	height int
	buf    *image.RGBA
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr stderrBuffer
	frames int
	closed bool
}

// WriteFrame appends a frame. The frame must match the sink's dimensions.
func (s *sink) WriteFrame(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if err := ports.CheckFrameSize(img, s.width, s.height); err != nil {
		return err
	}

	pix := s.buf.Pix
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*s.width {
		pix = rgba.Pix[:4*s.width*s.height]
	} else {
		draw.Draw(s.buf, s.buf.Bounds(), img, img.Bounds().Min, draw.Src)
	}

	if _, err := s.stdin.Write(pix); err != nil {
		return fmt.Errorf("%w: failed to write frame: %v: %s", ErrEncodeFailed, err, s.stderr.Text())
	}
	s.frames++
	return nil
}

func (s *sink) FramesWritten() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Close flushes the encoder and finalizes the container. Safe to call
// more than once. A sink that never received a frame leaves the output
// file empty and reports no error.
func (s *sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.stdin.Close()

	err := s.cmd.Wait()
	if s.frames == 0 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v: %s", ErrEncodeFailed, err, s.stderr.Text())
	}
	return nil
}

var (
	_ ports.SinkFactory = (*SinkFactory)(nil)
	_ ports.VideoSink   = (*sink)(nil)
)
