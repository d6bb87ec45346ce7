// Package summarizer provides summary reports for batch runs.
package summarizer

import (
	"time"

	"github.com/user/framecut/pkg/pipeline"
)

// Summary contains the data reported for one batch run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	Settings Settings
	Jobs     []JobSummary

	// Totals
	TrimSucceeded int
	CropRequested int
	CropSucceeded int
	Elapsed       time.Duration
	Interrupted   bool
}

// Settings contains the encoder configuration of the run.
type Settings struct {
	FourCC  string
	Quality int // 0 = codec default
}

// JobSummary describes the outcome of one clip job.
type JobSummary struct {
	Input  string
	Output string
	Range  pipeline.TimeRange

	TrimOK        bool
	Frames        pipeline.FrameRange
	Clamped       bool
	FramesWritten int
	TrimElapsed   time.Duration

	Cropped     bool // A crop was requested
	CropOK      bool
	CropOutput  string
	CropWidth   int
	CropHeight  int
	CropElapsed time.Duration

	Error string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSettings sets the encoder settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithBatch copies the per-job outcomes and totals of report.
func (b *Builder) WithBatch(report pipeline.BatchReport) *Builder {
	s := b.summary
	s.Jobs = make([]JobSummary, 0, len(report.Jobs))
	s.CropRequested = 0
	for _, jr := range report.Jobs {
		js := JobSummary{
			Input:         jr.Job.InputPath,
			Output:        jr.Job.OutputPath,
			Range:         jr.Job.Range,
			TrimOK:        jr.TrimOK,
			Frames:        jr.Trim.Frames,
			Clamped:       jr.Trim.Clamped,
			FramesWritten: jr.Trim.FramesWritten,
			TrimElapsed:   jr.TrimElapsed,
		}
		if jr.Job.Crop != nil {
			s.CropRequested++
			js.Cropped = true
			js.CropOK = jr.CropOK
			js.CropOutput = jr.Job.Crop.OutputPath
			js.CropWidth = jr.CropResult.Width
			js.CropHeight = jr.CropResult.Height
			js.CropElapsed = jr.CropElapsed
		}
		if jr.Err != nil {
			js.Error = jr.Err.Error()
		}
		s.Jobs = append(s.Jobs, js)
	}
	s.TrimSucceeded = report.TrimSucceeded
	s.CropSucceeded = report.CropSucceeded
	s.Elapsed = report.Elapsed
	s.Interrupted = report.Interrupted
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
