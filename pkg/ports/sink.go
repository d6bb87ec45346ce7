package ports

import (
	"errors"
	"fmt"
	"image"
)

// ErrFrameSizeMismatch is returned by a VideoSink when a frame does not
// have the dimensions declared at sink creation.
var ErrFrameSizeMismatch = errors.New("ports: frame size does not match sink")

// SinkOptions fixes the properties of a VideoSink at creation time.
type SinkOptions struct {
	Width     int
	Height    int
	FrameRate float64
	FourCC    string // Four-character codec identifier, e.g. "mp4v"
}

// VideoSink writes frames to a destination video file.
type VideoSink interface {
	// WriteFrame appends a frame. The frame must match the sink dimensions.
	WriteFrame(img image.Image) error

	// FramesWritten returns the number of frames accepted so far.
	FramesWritten() int

	// Close finalizes the output file. It is safe to call more than once.
	Close() error
}

// SinkFactory creates video sinks.
type SinkFactory interface {
	Create(path string, opts SinkOptions) (VideoSink, error)
}

// CheckFrameSize verifies that img is exactly width x height.
func CheckFrameSize(img image.Image, width, height int) error {
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSizeMismatch, b.Dx(), b.Dy(), width, height)
	}
	return nil
}
