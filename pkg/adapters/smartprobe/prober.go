// Package smartprobe reads stream properties from the container index
// when possible and falls back to ffprobe otherwise.
package smartprobe

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/framecut/pkg/adapters/ffmpeg"
	"github.com/user/framecut/pkg/adapters/mp4probe"
	"github.com/user/framecut/pkg/ports"
)

// Backend identifies which prober produced a result.
type Backend string

const (
	// BackendMP4 reads the MP4 sample tables directly.
	BackendMP4 Backend = "mp4"
	// BackendFFprobe runs ffprobe.
	BackendFFprobe Backend = "ffprobe"
)

// ErrProbeFailed is returned when every backend failed.
var ErrProbeFailed = errors.New("smartprobe: could not read stream properties")

// mp4Extensions are containers the ISO-BMFF reader understands.
var mp4Extensions = map[string]bool{
	".mp4": true,
	".m4v": true,
	".mov": true,
	".3gp": true,
}

// Prober chains a container reader and a fallback prober.
type Prober struct {
	container ports.StreamProber
	fallback  ports.StreamProber
	log       ports.Logger
}

// New creates a prober reading MP4 indexes first and ffprobe second.
func New(locator ffmpeg.Locator, log ports.Logger) *Prober {
	return NewWith(mp4probe.New(), ffmpeg.NewProber(locator), log)
}

// NewWith creates a prober from explicit backends. Either may be nil.
func NewWith(container, fallback ports.StreamProber, log ports.Logger) *Prober {
	return &Prober{container: container, fallback: fallback, log: log.WithComponent("probe")}
}

// Probe implements ports.StreamProber.
func (p *Prober) Probe(path string) (ports.StreamInfo, error) {
	info, _, err := p.ProbeWithBackend(path)
	return info, err
}

// ProbeWithBackend returns the stream properties and the backend that read them.
func (p *Prober) ProbeWithBackend(path string) (ports.StreamInfo, Backend, error) {
	var errs []error

	if p.container != nil && mp4Extensions[strings.ToLower(filepath.Ext(path))] {
		info, err := p.container.Probe(path)
		if err == nil && info.FrameRate > 0 && info.Width > 0 && info.Height > 0 {
			return info, BackendMP4, nil
		}
		if err == nil {
			err = fmt.Errorf("incomplete stream properties")
		}
		p.log.Debug("Container probe failed for %s: %v", path, err)
		errs = append(errs, fmt.Errorf("%s: %w", BackendMP4, err))
	}

	if p.fallback != nil {
		info, err := p.fallback.Probe(path)
		if err == nil {
			return info, BackendFFprobe, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", BackendFFprobe, err))
	}

	return ports.StreamInfo{}, "", fmt.Errorf("%w: %w", ErrProbeFailed, errors.Join(errs...))
}

var _ ports.StreamProber = (*Prober)(nil)
