package ffmpeg

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"sync"

	"github.com/user/framecut/pkg/ports"
)

// SourceOpener opens videos for sequential decoding through ffmpeg.
// Stream properties come from the configured prober.
type SourceOpener struct {
	locator Locator
	prober  ports.StreamProber
}

// NewSourceOpener creates a source opener.
func NewSourceOpener(locator Locator, prober ports.StreamProber) *SourceOpener {
	return &SourceOpener{locator: locator, prober: prober}
}

// Open probes path and starts an ffmpeg process emitting raw RGBA frames
// of the first video stream in decode order.
func (o *SourceOpener) Open(path string) (ports.VideoSource, error) {
	info, err := o.prober.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", path, err)
	}
	if info.Width <= 0 || info.Height <= 0 || info.FrameRate <= 0 {
		return nil, fmt.Errorf("%w: %dx%d @ %g fps", ErrInvalidStream, info.Width, info.Height, info.FrameRate)
	}

	bin, err := o.locator.FFmpeg()
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(bin,
		"-v", "error",
		"-nostdin",
		"-i", path,
		"-map", "0:v:0",
		"-an", "-sn",
		"-vsync", "passthrough",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"pipe:1",
	)
	s := &source{info: info, cmd: cmd}
	cmd.Stderr = &s.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	s.stdout = stdout
	s.reader = bufio.NewReaderSize(stdout, info.Width*info.Height*4)
	return s, nil
}

type source struct {
	mu     sync.Mutex
	info   ports.StreamInfo
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader
	stderr stderrBuffer
	waited bool
	closed bool
}

func (s *source) Info() ports.StreamInfo {
	return s.info
}

// ReadFrame returns the next frame, or io.EOF once the stream is exhausted.
func (s *source) ReadFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.waited {
		return nil, io.EOF
	}

	img := image.NewRGBA(image.Rect(0, 0, s.info.Width, s.info.Height))
	_, err := io.ReadFull(s.reader, img.Pix)
	switch {
	case err == nil:
		return img, nil
	case errors.Is(err, io.EOF):
		s.waited = true
		if werr := s.cmd.Wait(); werr != nil {
			return nil, fmt.Errorf("%w: %v: %s", ErrDecodeFailed, werr, s.stderrText())
		}
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: truncated frame: %s", ErrDecodeFailed, s.stderrText())
	default:
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
}

// Close stops the decoder process. Safe to call more than once.
func (s *source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.waited {
		return nil
	}
	s.waited = true
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	s.cmd.Wait()
	return nil
}

func (s *source) stderrText() string {
	return s.stderr.Text()
}

var (
	_ ports.SourceOpener = (*SourceOpener)(nil)
	_ ports.VideoSource  = (*source)(nil)
)
