// Package trim implements the frame-range extraction stage.
package trim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

// Stage copies the frames of a time range into a new video with the
// source's frame rate and dimensions.
type Stage struct {
	opener ports.SourceOpener
	sinks  ports.SinkFactory
	fs     ports.FileSystem
	log    ports.Logger
	fourcc string
}

// NewStage creates a new trim stage. fourcc selects the output codec.
func NewStage(opener ports.SourceOpener, sinks ports.SinkFactory, fs ports.FileSystem, log ports.Logger, fourcc string) *Stage {
	return &Stage{
		opener: opener,
		sinks:  sinks,
		fs:     fs,
		log:    log.WithComponent("trim"),
		fourcc: fourcc,
	}
}

// ExtractRange writes the frames from startSeconds to
// startSeconds+durationSeconds of inputPath to outputPath. It reports
// whether the extraction completed; failures are logged, never returned.
func (s *Stage) ExtractRange(inputPath, outputPath string, startSeconds, durationSeconds float64) bool {
	_, err := s.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Range: pipeline.TimeRange{
			StartSeconds:    startSeconds,
			DurationSeconds: durationSeconds,
		},
	})
	return err == nil
}

// Execute performs the extraction and returns a *pipeline.Error on failure.
// The context is only consulted before the source is opened.
func (s *Stage) Execute(ctx context.Context, input pipeline.TrimInput) (result pipeline.TrimResult, err error) {
	started := time.Now()
	defer func() {
		result.Elapsed = time.Since(started)
		if err != nil {
			s.log.Error("Trim failed for %s [%.3fs + %.3fs]: %v",
				input.InputPath, input.Range.StartSeconds, input.Range.DurationSeconds, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := input.Range.Validate(); err != nil {
		return result, pipeline.NewError(pipeline.KindInvalidRange, input.InputPath, err)
	}

	src, err := pipeline.OpenSource(s.fs, s.opener, input.InputPath)
	if err != nil {
		return result, err
	}
	defer src.Close()

	info := src.Info()
	result.Source = info
	if info.FrameCountKnown {
		s.log.Debug("Source %s: %dx%d @ %.3f fps, %d frames",
			input.InputPath, info.Width, info.Height, info.FrameRate, info.FrameCount)
	} else {
		s.log.Debug("Source %s: %dx%d @ %.3f fps, frame count unknown",
			input.InputPath, info.Width, info.Height, info.FrameRate)
	}

	frames := input.Range.Frames(info.FrameRate)
	if info.FrameCountKnown {
		if frames.Start >= info.FrameCount {
			return result, pipeline.NewError(pipeline.KindRangeOutOfBounds, input.InputPath,
				fmt.Errorf("start frame %d (%.3fs) is beyond the video (%d frames)",
					frames.Start, input.Range.StartSeconds, info.FrameCount))
		}
		if frames.End > info.FrameCount {
			s.log.Warn("End frame %d (%.3fs) is beyond the video (%d frames), clamping to the end",
				frames.End, input.Range.EndSeconds(), info.FrameCount)
			frames.End = info.FrameCount
			result.Clamped = true
		}
	}
	result.Frames = frames

	s.log.Info("Trimming frames %d to %d (%.3fs + %.3fs)",
		frames.Start, frames.End, input.Range.StartSeconds, input.Range.DurationSeconds)

	sink, err := s.sinks.Create(input.OutputPath, ports.SinkOptions{
		Width:     info.Width,
		Height:    info.Height,
		FrameRate: info.FrameRate,
		FourCC:    s.fourcc,
	})
	if err != nil {
		return result, pipeline.NewError(pipeline.KindSinkCreationFailed, input.OutputPath, err)
	}
	closed := false
	defer func() {
		if !closed {
			sink.Close()
		}
	}()

	written, err := s.copyRange(src, sink, frames)
	result.FramesWritten = written
	if err != nil {
		return result, pipeline.NewError(pipeline.KindDecodeOrWrite, input.InputPath, err)
	}

	closed = true
	if err := sink.Close(); err != nil {
		return result, pipeline.NewError(pipeline.KindDecodeOrWrite, input.OutputPath, err)
	}

	s.log.Info("Trim completed: %d frames written to %s in %s",
		written, input.OutputPath, time.Since(started).Round(time.Millisecond))
	return result, nil
}

// copyRange decodes from the first frame, discarding frames before the
// range and stopping once the end index is reached.
func (s *Stage) copyRange(src ports.VideoSource, sink ports.VideoSink, frames pipeline.FrameRange) (int, error) {
	written := 0
	for i := 0; i < frames.End; i++ {
		img, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			if i <= frames.Start {
				s.log.Warn("End of stream reached before frame %d", frames.Start)
			}
			break
		}
		if err != nil {
			return written, fmt.Errorf("read frame %d: %w", i, err)
		}
		if !frames.Contains(i) {
			continue
		}
		if err := sink.WriteFrame(img); err != nil {
			return written, fmt.Errorf("write frame %d: %w", i, err)
		}
		written++
	}
	return written, nil
}
