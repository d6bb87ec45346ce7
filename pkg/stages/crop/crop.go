// Package crop implements the region cropping stage.
package crop

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"time"

	"golang.org/x/image/draw"

	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

// Stage writes a rectangular region of every frame to a new video,
// optionally rescaled.
type Stage struct {
	opener ports.SourceOpener
	sinks  ports.SinkFactory
	fs     ports.FileSystem
	log    ports.Logger
	fourcc string
}

// NewStage creates a new crop stage. fourcc selects the output codec.
func NewStage(opener ports.SourceOpener, sinks ports.SinkFactory, fs ports.FileSystem, log ports.Logger, fourcc string) *Stage {
	return &Stage{
		opener: opener,
		sinks:  sinks,
		fs:     fs,
		log:    log.WithComponent("crop"),
		fourcc: fourcc,
	}
}

// CropRegion writes region of every frame of inputPath to outputPath and
// reports whether it completed. Failures are logged, never returned.
func (s *Stage) CropRegion(inputPath, outputPath string, region pipeline.Rectangle) bool {
	_, err := s.Execute(context.Background(), pipeline.CropInput{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Region:     region,
	})
	return err == nil
}

// Execute performs the crop and returns a *pipeline.Error on failure.
func (s *Stage) Execute(ctx context.Context, input pipeline.CropInput) (result pipeline.CropResult, err error) {
	started := time.Now()
	defer func() {
		result.Elapsed = time.Since(started)
		if err != nil {
			s.log.Error("Crop failed for %s region %s: %v", input.InputPath, input.Region, err)
		}
	}()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if input.Region.Empty() {
		return result, pipeline.NewError(pipeline.KindInvalidCrop, input.InputPath,
			fmt.Errorf("region %s has no area", input.Region))
	}
	if input.OutputWidth < 0 || input.OutputHeight < 0 || (input.OutputWidth > 0) != (input.OutputHeight > 0) {
		return result, pipeline.NewError(pipeline.KindInvalidCrop, input.InputPath,
			fmt.Errorf("output size %dx%d must set both dimensions", input.OutputWidth, input.OutputHeight))
	}

	src, err := pipeline.OpenSource(s.fs, s.opener, input.InputPath)
	if err != nil {
		return result, err
	}
	defer src.Close()

	info := src.Info()
	result.Source = info
	if !input.Region.Within(info.Width, info.Height) {
		return result, pipeline.NewError(pipeline.KindInvalidCrop, input.InputPath,
			fmt.Errorf("region %s exceeds the %dx%d frame", input.Region, info.Width, info.Height))
	}

	width, height := input.Region.Width, input.Region.Height
	if input.Scaled() {
		width, height = input.OutputWidth, input.OutputHeight
	}
	result.Width, result.Height = width, height

	s.log.Info("Cropping region %s from %dx%d, output %dx%d",
		input.Region, info.Width, info.Height, width, height)

	sink, err := s.sinks.Create(input.OutputPath, ports.SinkOptions{
		Width:     width,
		Height:    height,
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

	written, err := copyCropped(src, sink, input.Region, width, height)
	result.FramesWritten = written
	if err != nil {
		return result, pipeline.NewError(pipeline.KindDecodeOrWrite, input.InputPath, err)
	}

	closed = true
	if err := sink.Close(); err != nil {
		return result, pipeline.NewError(pipeline.KindDecodeOrWrite, input.OutputPath, err)
	}

	s.log.Info("Crop completed: %d frames written to %s in %s",
		written, input.OutputPath, time.Since(started).Round(time.Millisecond))
	return result, nil
}

func copyCropped(src ports.VideoSource, sink ports.VideoSink, region pipeline.Rectangle, width, height int) (int, error) {
	written := 0
	for i := 0; ; i++ {
		img, err := src.ReadFrame()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, fmt.Errorf("read frame %d: %w", i, err)
		}
		if err := sink.WriteFrame(Frame(img, region, width, height)); err != nil {
			return written, fmt.Errorf("write frame %d: %w", i, err)
		}
		written++
	}
}

// Frame returns region of img as a new width x height image. The region
// is relative to the image bounds and is rescaled with Catmull-Rom when
// its size differs from the output size.
func Frame(img image.Image, region pipeline.Rectangle, width, height int) *image.RGBA {
	b := img.Bounds()
	sr := image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).Add(b.Min)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	if width == region.Width && height == region.Height {
		draw.Draw(dst, dst.Bounds(), img, sr.Min, draw.Src)
		return dst
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	return dst
}
