package mocks

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/user/framecut/pkg/ports"
)

// ErrNotRegistered is returned by SourceOpener for unknown paths.
var ErrNotRegistered = errors.New("mocks: no video registered for path")

// Frame returns a width x height frame whose pixels encode index.
func Frame(width, height, index int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: uint8(index), G: uint8(index >> 8), B: uint8(index >> 16), A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// FrameIndex decodes the index stored by Frame from the top-left pixel.
func FrameIndex(img image.Image) int {
	r, g, b, _ := img.At(img.Bounds().Min.X, img.Bounds().Min.Y).RGBA()
	return int(r>>8) | int(g>>8)<<8 | int(b>>8)<<16
}

// Video describes a synthetic video served by SourceOpener.
type Video struct {
	// Info is what the source reports. Its FrameCount may differ from
	// Frames to simulate inaccurate container metadata.
	Info ports.StreamInfo

	// Frames is the number of frames that actually decode.
	Frames int

	// FailAt makes ReadFrame fail at this index when FailAt > 0.
	FailAt int

	// Images replaces generated frames when set.
	Images []image.Image
}

// VideoSource is a mock implementation of ports.VideoSource.
type VideoSource struct {
	mu    sync.Mutex
	video Video
	next  int

	// Recorded calls for verification
	Reads      int
	CloseCount int
}

// NewVideoSource creates a source serving v.
func NewVideoSource(v Video) *VideoSource {
	if v.Images != nil {
		v.Frames = len(v.Images)
	}
	return &VideoSource{video: v}
}

func (m *VideoSource) Info() ports.StreamInfo {
	return m.video.Info
}

func (m *VideoSource) ReadFrame() (image.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CloseCount > 0 {
		return nil, errors.New("mocks: source closed")
	}
	m.Reads++
	if m.video.FailAt > 0 && m.next == m.video.FailAt {
		return nil, fmt.Errorf("mocks: corrupt frame %d", m.next)
	}
	if m.next >= m.video.Frames {
		return nil, io.EOF
	}
	i := m.next
	m.next++
	if m.video.Images != nil {
		return m.video.Images[i], nil
	}
	return Frame(m.video.Info.Width, m.video.Info.Height, i), nil
}

func (m *VideoSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCount++
	return nil
}

// Closed reports whether Close was called.
func (m *VideoSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CloseCount > 0
}

// SourceOpener is a mock implementation of ports.SourceOpener.
// Each Open creates a fresh VideoSource.
type SourceOpener struct {
	mu     sync.Mutex
	videos map[string]Video

	OpenFunc func(path string) (ports.VideoSource, error)

	// Recorded calls for verification
	Calls  []string
	Opened []*VideoSource
}

// NewSourceOpener creates a new mock SourceOpener.
func NewSourceOpener() *SourceOpener {
	return &SourceOpener{videos: make(map[string]Video)}
}

// AddVideo registers a synthetic video at path.
func (m *SourceOpener) AddVideo(path string, v Video) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.videos[path] = v
}

func (m *SourceOpener) Open(path string) (ports.VideoSource, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, path)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(path)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.videos[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, path)
	}
	src := NewVideoSource(v)
	m.Opened = append(m.Opened, src)
	return src, nil
}

// VideoSink is a mock implementation of ports.VideoSink.
type VideoSink struct {
	mu     sync.Mutex
	Path   string
	Opts   ports.SinkOptions
	Frames []image.Image

	WriteFrameFunc func(img image.Image) error
	CloseFunc      func() error

	CloseCount int
}

func (m *VideoSink) WriteFrame(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CloseCount > 0 {
		return errors.New("mocks: sink closed")
	}
	if err := ports.CheckFrameSize(img, m.Opts.Width, m.Opts.Height); err != nil {
		return err
	}
	if m.WriteFrameFunc != nil {
		if err := m.WriteFrameFunc(img); err != nil {
			return err
		}
	}
	m.Frames = append(m.Frames, img)
	return nil
}

func (m *VideoSink) FramesWritten() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Frames)
}

func (m *VideoSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCount++
	if m.CloseCount > 1 {
		return nil
	}
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Indexes returns the decoded frame indexes written to the sink.
func (m *VideoSink) Indexes() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.Frames))
	for i, f := range m.Frames {
		out[i] = FrameIndex(f)
	}
	return out
}

// Replay returns a Video that decodes the frames written to the sink.
func (m *VideoSink) Replay() Video {
	m.mu.Lock()
	defer m.mu.Unlock()
	images := append([]image.Image(nil), m.Frames...)
	return Video{
		Info: ports.StreamInfo{
			FrameRate:       m.Opts.FrameRate,
			Width:           m.Opts.Width,
			Height:          m.Opts.Height,
			FrameCount:      len(images),
			FrameCountKnown: true,
		},
		Images: images,
	}
}

// SinkFactory is a mock implementation of ports.SinkFactory.
type SinkFactory struct {
	mu sync.Mutex

	CreateFunc func(path string, opts ports.SinkOptions) (ports.VideoSink, error)

	// Configure is applied to every created sink before it is returned.
	Configure func(s *VideoSink)

	// Recorded calls for verification
	Created []*VideoSink
}

func (m *SinkFactory) Create(path string, opts ports.SinkOptions) (ports.VideoSink, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(path, opts)
	}
	s := &VideoSink{Path: path, Opts: opts}
	if m.Configure != nil {
		m.Configure(s)
	}
	m.mu.Lock()
	m.Created = append(m.Created, s)
	m.mu.Unlock()
	return s, nil
}

// Last returns the most recently created sink for path, or nil.
func (m *SinkFactory) Last(path string) *VideoSink {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.Created) - 1; i >= 0; i-- {
		if m.Created[i].Path == path {
			return m.Created[i]
		}
	}
	return nil
}

// StreamProber is a mock implementation of ports.StreamProber.
type StreamProber struct {
	Info ports.StreamInfo
	Err  error

	ProbeFunc func(path string) (ports.StreamInfo, error)

	Calls []string
}

func (m *StreamProber) Probe(path string) (ports.StreamInfo, error) {
	m.Calls = append(m.Calls, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	if m.Err != nil {
		return ports.StreamInfo{}, m.Err
	}
	return m.Info, nil
}

var (
	_ ports.VideoSource  = (*VideoSource)(nil)
	_ ports.SourceOpener = (*SourceOpener)(nil)
	_ ports.VideoSink    = (*VideoSink)(nil)
	_ ports.SinkFactory  = (*SinkFactory)(nil)
	_ ports.StreamProber = (*StreamProber)(nil)
)
