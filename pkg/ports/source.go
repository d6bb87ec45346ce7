package ports

import (
	"image"
)

// StreamInfo describes the video stream of a source file.
type StreamInfo struct {
	FrameRate float64 // Frames per second
	Width     int
	Height    int

	// FrameCount is the number of frames reported by the container.
	// It is only meaningful when FrameCountKnown is true.
	FrameCount      int
	FrameCountKnown bool

	Codec string // Short codec name, e.g. "h264"
}

// VideoSource yields decoded frames of a video in presentation order.
type VideoSource interface {
	// Info returns the stream properties read when the source was opened.
	Info() StreamInfo

	// ReadFrame decodes the next frame. It returns io.EOF when the stream
	// has no more frames.
	ReadFrame() (image.Image, error)

	// Close releases the decoder. It is safe to call more than once.
	Close() error
}

// SourceOpener opens video files for sequential decoding.
type SourceOpener interface {
	Open(path string) (VideoSource, error)
}

// StreamProber reads stream properties without decoding frames.
type StreamProber interface {
	Probe(path string) (StreamInfo, error)
}
