// Package ffmpeg decodes and encodes video frames through ffmpeg
// subprocesses exchanging raw RGBA frames over pipes.
package ffmpeg

import "errors"

var (
	// ErrFFmpegNotFound is returned when the ffmpeg binary cannot be located.
	ErrFFmpegNotFound = errors.New("ffmpeg: ffmpeg not found")

	// ErrFFprobeNotFound is returned when the ffprobe binary cannot be located.
	ErrFFprobeNotFound = errors.New("ffmpeg: ffprobe not found")

	// ErrUnsupportedFourCC is returned for codec identifiers without an encoder mapping.
	ErrUnsupportedFourCC = errors.New("ffmpeg: unsupported fourcc")

	// ErrEncoderUnavailable is returned when ffmpeg lacks the mapped encoder.
	ErrEncoderUnavailable = errors.New("ffmpeg: encoder not available")

	// ErrInvalidStream is returned when probed stream properties cannot drive decoding.
	ErrInvalidStream = errors.New("ffmpeg: invalid stream properties")

	// ErrDecodeFailed is returned when the decoder process fails or truncates a frame.
	ErrDecodeFailed = errors.New("ffmpeg: decode failed")

	// ErrEncodeFailed is returned when the encoder process rejects frames or fails to finalize.
	ErrEncodeFailed = errors.New("ffmpeg: encode failed")

	// ErrClosed is returned when reading or writing after Close.
	ErrClosed = errors.New("ffmpeg: closed")
)
