package summarizer

import (
	"errors"
	"testing"
	"time"

	"github.com/user/framecut/pkg/mocks"
	"github.com/user/framecut/pkg/pipeline"
)

func sampleReport() pipeline.BatchReport {
	crop := &pipeline.CropJob{
		Region:     pipeline.Rectangle{X: 47, Y: 106, Width: 40, Height: 85},
		OutputPath: "out/video_crop_002.mp4",
	}
	return pipeline.BatchReport{
		Jobs: []pipeline.JobReport{
			{
				Job: pipeline.ClipJob{
					InputPath:  "video.mp4",
					OutputPath: "out/video_trim_001.mp4",
					Range:      pipeline.TimeRange{StartSeconds: 2, DurationSeconds: 3},
				},
				TrimOK:      true,
				Trim:        pipeline.TrimResult{Frames: pipeline.FrameRange{Start: 60, End: 150}, FramesWritten: 90},
				TrimElapsed: 1500 * time.Millisecond,
			},
			{
				Job: pipeline.ClipJob{
					InputPath:  "video.mp4",
					OutputPath: "out/video_trim_002.mp4",
					Range:      pipeline.TimeRange{StartSeconds: 9.5, DurationSeconds: 5},
					Crop:       crop,
				},
				TrimOK:      true,
				CropOK:      true,
				Trim:        pipeline.TrimResult{Frames: pipeline.FrameRange{Start: 285, End: 300}, Clamped: true, FramesWritten: 15},
				CropResult:  pipeline.CropResult{Width: 40, Height: 85, FramesWritten: 15},
				TrimElapsed: 200 * time.Millisecond,
				CropElapsed: 100 * time.Millisecond,
			},
			{
				Job: pipeline.ClipJob{
					InputPath:  "video.mp4",
					OutputPath: "out/video_trim_003.mp4",
					Range:      pipeline.TimeRange{StartSeconds: 15, DurationSeconds: 2},
				},
				Err: errors.New("trim: range out of bounds"),
			},
		},
		TrimSucceeded: 2,
		CropSucceeded: 1,
		Elapsed:       2 * time.Second,
	}
}

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithBatch(t *testing.T) {
	summary := NewBuilder().
		WithSettings(Settings{FourCC: "mp4v"}).
		WithBatch(sampleReport()).
		Build()

	if len(summary.Jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(summary.Jobs))
	}
	if summary.TrimSucceeded != 2 || summary.CropSucceeded != 1 || summary.CropRequested != 1 {
		t.Errorf("unexpected totals: %+v", summary)
	}

	second := summary.Jobs[1]
	if !second.Cropped || !second.CropOK || second.CropOutput != "out/video_crop_002.mp4" {
		t.Errorf("unexpected crop summary: %+v", second)
	}
	if !second.Clamped || second.FramesWritten != 15 {
		t.Errorf("unexpected trim summary: %+v", second)
	}

	third := summary.Jobs[2]
	if third.TrimOK || third.Error != "trim: range out of bounds" {
		t.Errorf("unexpected failed job summary: %+v", third)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	writer := NewWriter(FormatFunc(func(s *Summary) string {
		return "jobs"
	}), fs)

	if err := writer.Write("reports/summary.md", NewSummary()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := fs.ReadFile("reports/summary.md")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "jobs" {
		t.Errorf("expected 'jobs', got %q", data)
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	writer := NewWriter(NewMarkdownFormatter(), fs)

	if err := writer.Write("summary.md", NewSummary()); err == nil {
		t.Error("expected an error")
	}
}
