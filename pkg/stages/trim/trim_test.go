package trim

import (
	"context"
	"errors"
	"image"
	"math"
	"reflect"
	"testing"

	"github.com/user/framecut/pkg/adapters/logger"
	"github.com/user/framecut/pkg/mocks"
	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

const (
	testFPS    = 30.0
	testFrames = 300
	testWidth  = 8
	testHeight = 6
)

type fixture struct {
	fs     *mocks.FileSystem
	opener *mocks.SourceOpener
	sinks  *mocks.SinkFactory
	stage  *Stage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		fs:     mocks.NewFileSystem(),
		opener: mocks.NewSourceOpener(),
		sinks:  &mocks.SinkFactory{},
	}
	f.addVideo("input.mp4", mocks.Video{
		Info: ports.StreamInfo{
			FrameRate:       testFPS,
			Width:           testWidth,
			Height:          testHeight,
			FrameCount:      testFrames,
			FrameCountKnown: true,
		},
		Frames: testFrames,
	})
	f.stage = NewStage(f.opener, f.sinks, f.fs, logger.NewNoop(), "mp4v")
	return f
}

func (f *fixture) addVideo(path string, v mocks.Video) {
	f.fs.AddFile(path, nil)
	f.opener.AddVideo(path, v)
}

func sequence(start, end int) []int {
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, i)
	}
	return out
}

func TestExtractRange_WholeSeconds(t *testing.T) {
	f := newFixture(t)

	if !f.stage.ExtractRange("input.mp4", "out.mp4", 2.0, 3.0) {
		t.Fatal("expected success")
	}

	sink := f.sinks.Last("out.mp4")
	if sink == nil {
		t.Fatal("expected sink to be created")
	}
	if got := sink.Indexes(); !reflect.DeepEqual(got, sequence(60, 150)) {
		t.Errorf("wrote frames %v..., want 60..149 (%d frames)", head(got), len(got))
	}
	if sink.FramesWritten() != 90 {
		t.Errorf("FramesWritten = %d, want 90", sink.FramesWritten())
	}
	if sink.CloseCount != 1 {
		t.Errorf("sink closed %d times, want 1", sink.CloseCount)
	}

	want := ports.SinkOptions{Width: testWidth, Height: testHeight, FrameRate: testFPS, FourCC: "mp4v"}
	if sink.Opts != want {
		t.Errorf("sink options = %+v, want %+v", sink.Opts, want)
	}
	if !f.opener.Opened[0].Closed() {
		t.Error("source was not released")
	}
}

func TestExecute_ClampsEnd(t *testing.T) {
	f := newFixture(t)

	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 9.5, DurationSeconds: 5.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Clamped {
		t.Error("expected Clamped")
	}
	if result.Frames != (pipeline.FrameRange{Start: 285, End: 300}) {
		t.Errorf("Frames = %+v, want 285..300", result.Frames)
	}
	if result.FramesWritten != 15 {
		t.Errorf("FramesWritten = %d, want 15", result.FramesWritten)
	}
	if got := f.sinks.Last("out.mp4").Indexes(); !reflect.DeepEqual(got, sequence(285, 300)) {
		t.Errorf("wrote frames %v, want 285..299", got)
	}
}

func TestExecute_StartBeyondEnd(t *testing.T) {
	f := newFixture(t)

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 15.0, DurationSeconds: 2.0},
	})
	if !errors.Is(err, pipeline.ErrRangeOutOfBounds) {
		t.Fatalf("error = %v, want RangeOutOfBounds", err)
	}
	if len(f.sinks.Created) != 0 {
		t.Errorf("created %d sinks, want 0", len(f.sinks.Created))
	}
	if !f.opener.Opened[0].Closed() {
		t.Error("source was not released")
	}
}

func TestExecute_HugeDurationClampsToEnd(t *testing.T) {
	f := newFixture(t)

	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 2.0, DurationSeconds: 1e18},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Clamped {
		t.Error("expected Clamped")
	}
	if result.Frames != (pipeline.FrameRange{Start: 60, End: 300}) {
		t.Errorf("Frames = %+v, want 60..300", result.Frames)
	}
	if result.FramesWritten != 240 {
		t.Errorf("FramesWritten = %d, want 240", result.FramesWritten)
	}
	if got := f.sinks.Last("out.mp4").Indexes(); !reflect.DeepEqual(got, sequence(60, 300)) {
		t.Errorf("wrote frames %v, want 60..299", head(got))
	}
}

func TestExecute_HugeStartOutOfBounds(t *testing.T) {
	f := newFixture(t)

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 1e19, DurationSeconds: 1.0},
	})
	if !errors.Is(err, pipeline.ErrRangeOutOfBounds) {
		t.Fatalf("error = %v, want RangeOutOfBounds", err)
	}
	if len(f.sinks.Created) != 0 {
		t.Errorf("created %d sinks, want 0", len(f.sinks.Created))
	}
}

func TestExtractRange_StartAtFrameCount(t *testing.T) {
	f := newFixture(t)

	// 10.0s * 30fps = frame 300, one past the last frame
	if f.stage.ExtractRange("input.mp4", "out.mp4", 10.0, 1.0) {
		t.Error("expected failure")
	}
	if len(f.sinks.Created) != 0 {
		t.Error("no sink should be created")
	}
}

func TestExecute_MissingInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "missing.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, pipeline.ErrSourceNotFound) {
		t.Fatalf("error = %v, want SourceNotFound", err)
	}
	if len(f.opener.Calls) != 0 {
		t.Error("opener should not be called for a missing file")
	}
	if len(f.sinks.Created) != 0 {
		t.Error("no sink should be created")
	}
	if f.stage.ExtractRange("missing.mp4", "out.mp4", 0, 1) {
		t.Error("ExtractRange should report failure")
	}
}

func TestExecute_UnreadableSource(t *testing.T) {
	f := newFixture(t)
	f.fs.AddFile("notavideo.txt", []byte("hello"))

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "notavideo.txt",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, pipeline.ErrSourceUnreadable) {
		t.Fatalf("error = %v, want SourceUnreadable", err)
	}
	if len(f.sinks.Created) != 0 {
		t.Error("no sink should be created")
	}
}

func TestExecute_LastFrame(t *testing.T) {
	f := newFixture(t)

	// 9.97s * 30fps = frame 299.1, the last frame
	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 9.97, DurationSeconds: 1.0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FramesWritten != 1 {
		t.Errorf("FramesWritten = %d, want 1", result.FramesWritten)
	}
	if got := f.sinks.Last("out.mp4").Indexes(); !reflect.DeepEqual(got, []int{299}) {
		t.Errorf("wrote frames %v, want [299]", got)
	}
}

func TestExecute_StopsAtEndIndex(t *testing.T) {
	f := newFixture(t)

	if !f.stage.ExtractRange("input.mp4", "out.mp4", 2.0, 3.0) {
		t.Fatal("expected success")
	}

	// Frames 0..149 are decoded; frame 150 and beyond are never requested
	if reads := f.opener.Opened[0].Reads; reads != 150 {
		t.Errorf("decoded %d frames, want 150", reads)
	}
}

func TestExecute_Idempotent(t *testing.T) {
	f := newFixture(t)

	if !f.stage.ExtractRange("input.mp4", "out.mp4", 1.25, 2.5) {
		t.Fatal("first run failed")
	}
	first := f.sinks.Created[0].Indexes()

	if !f.stage.ExtractRange("input.mp4", "out.mp4", 1.25, 2.5) {
		t.Fatal("second run failed")
	}
	second := f.sinks.Created[1].Indexes()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ: %d vs %d frames", len(first), len(second))
	}
	// floor(37.5)=37 .. floor(112.5)=112
	if !reflect.DeepEqual(first, sequence(37, 112)) {
		t.Errorf("wrote %v..., want 37..111", head(first))
	}
}

func TestExecute_InvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		dur   float64
	}{
		{"negative start", -1, 2},
		{"zero duration", 1, 0},
		{"negative duration", 1, -2},
		{"nan start", math.NaN(), 1},
		{"infinite duration", 0, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
				InputPath:  "input.mp4",
				OutputPath: "out.mp4",
				Range:      pipeline.TimeRange{StartSeconds: tt.start, DurationSeconds: tt.dur},
			})
			if !errors.Is(err, pipeline.ErrInvalidRange) {
				t.Errorf("error = %v, want InvalidRange", err)
			}
			if len(f.opener.Calls) != 0 {
				t.Error("source should not be opened")
			}
		})
	}
}

func TestExecute_UnknownFrameCount(t *testing.T) {
	f := newFixture(t)
	f.addVideo("stream.mkv", mocks.Video{
		Info:   ports.StreamInfo{FrameRate: testFPS, Width: testWidth, Height: testHeight},
		Frames: 100,
	})

	// Start past the actual end: zero frames, success
	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "stream.mkv",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 5, DurationSeconds: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FramesWritten != 0 {
		t.Errorf("FramesWritten = %d, want 0", result.FramesWritten)
	}
	if result.Clamped {
		t.Error("unknown frame count should not clamp")
	}
	sink := f.sinks.Last("out.mp4")
	if sink == nil || sink.CloseCount != 1 {
		t.Error("expected sink to be created and closed")
	}

	// Range running past the actual end writes what exists
	result, err = f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "stream.mkv",
		OutputPath: "tail.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 3, DurationSeconds: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FramesWritten != 10 {
		t.Errorf("FramesWritten = %d, want 10", result.FramesWritten)
	}
}

func TestExecute_OverstatedFrameCount(t *testing.T) {
	f := newFixture(t)
	f.addVideo("short.mp4", mocks.Video{
		Info: ports.StreamInfo{
			FrameRate: testFPS, Width: testWidth, Height: testHeight,
			FrameCount: 300, FrameCountKnown: true,
		},
		Frames: 200,
	})

	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "short.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 8, DurationSeconds: 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.FramesWritten != 0 {
		t.Errorf("FramesWritten = %d, want 0", result.FramesWritten)
	}
}

func TestExecute_SinkCreationFailed(t *testing.T) {
	f := newFixture(t)
	f.sinks.CreateFunc = func(path string, opts ports.SinkOptions) (ports.VideoSink, error) {
		return nil, errors.New("permission denied")
	}

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "/readonly/out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, pipeline.ErrSinkCreationFailed) {
		t.Fatalf("error = %v, want SinkCreationFailed", err)
	}
	var perr *pipeline.Error
	if errors.As(err, &perr) && perr.Path != "/readonly/out.mp4" {
		t.Errorf("error path = %q, want output path", perr.Path)
	}
	if !f.opener.Opened[0].Closed() {
		t.Error("source was not released")
	}
}

func TestExecute_DecodeError(t *testing.T) {
	f := newFixture(t)
	f.addVideo("corrupt.mp4", mocks.Video{
		Info: ports.StreamInfo{
			FrameRate: testFPS, Width: testWidth, Height: testHeight,
			FrameCount: testFrames, FrameCountKnown: true,
		},
		Frames: testFrames,
		FailAt: 70,
	})

	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "corrupt.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 2, DurationSeconds: 3},
	})
	if !errors.Is(err, pipeline.ErrDecodeOrWrite) {
		t.Fatalf("error = %v, want DecodeOrWriteError", err)
	}
	if result.FramesWritten != 10 {
		t.Errorf("FramesWritten = %d, want 10", result.FramesWritten)
	}
	sink := f.sinks.Last("out.mp4")
	if sink.CloseCount != 1 {
		t.Errorf("sink closed %d times, want 1", sink.CloseCount)
	}
	if !f.opener.Opened[0].Closed() {
		t.Error("source was not released")
	}
}

func TestExecute_WriteError(t *testing.T) {
	f := newFixture(t)
	f.sinks.Configure = func(s *mocks.VideoSink) {
		s.WriteFrameFunc = func(img image.Image) error {
			if len(s.Frames) == 5 {
				return errors.New("broken pipe")
			}
			return nil
		}
	}

	result, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, pipeline.ErrDecodeOrWrite) {
		t.Fatalf("error = %v, want DecodeOrWriteError", err)
	}
	if result.FramesWritten != 5 {
		t.Errorf("FramesWritten = %d, want 5", result.FramesWritten)
	}
}

func TestExecute_FinalizeError(t *testing.T) {
	f := newFixture(t)
	f.sinks.Configure = func(s *mocks.VideoSink) {
		s.CloseFunc = func() error { return errors.New("disk full") }
	}

	_, err := f.stage.Execute(context.Background(), pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, pipeline.ErrDecodeOrWrite) {
		t.Fatalf("error = %v, want DecodeOrWriteError", err)
	}
	if n := f.sinks.Last("out.mp4").CloseCount; n != 1 {
		t.Errorf("sink closed %d times, want 1", n)
	}
}

func TestExecute_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.stage.Execute(ctx, pipeline.TrimInput{
		InputPath:  "input.mp4",
		OutputPath: "out.mp4",
		Range:      pipeline.TimeRange{StartSeconds: 0, DurationSeconds: 1},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(f.opener.Calls) != 0 {
		t.Error("source should not be opened")
	}
}

func head(s []int) []int {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}
