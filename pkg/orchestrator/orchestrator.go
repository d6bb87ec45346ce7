// Package orchestrator runs batches of trim and crop jobs.
package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

// Runner executes clip jobs sequentially. A failed job never stops the
// batch; cancelling the context stops it between jobs.
type Runner struct {
	trimStage pipeline.Stage[pipeline.TrimInput, pipeline.TrimResult]
	cropStage pipeline.Stage[pipeline.CropInput, pipeline.CropResult]
	fs        ports.FileSystem
	logger    ports.Logger
}

// New creates a new Runner.
func New(
	trimStage pipeline.Stage[pipeline.TrimInput, pipeline.TrimResult],
	cropStage pipeline.Stage[pipeline.CropInput, pipeline.CropResult],
	fs ports.FileSystem,
	logger ports.Logger,
) *Runner {
	return &Runner{
		trimStage: trimStage,
		cropStage: cropStage,
		fs:        fs,
		logger:    logger.WithComponent("batch"),
	}
}

// Run executes jobs in order and reports per-job outcomes and totals.
func (r *Runner) Run(ctx context.Context, jobs []pipeline.ClipJob) pipeline.BatchReport {
	started := time.Now()
	report := pipeline.BatchReport{Jobs: make([]pipeline.JobReport, 0, len(jobs))}

	crops := 0
	for i, job := range jobs {
		if ctx.Err() != nil {
			report.Interrupted = true
			r.logger.Warn("Batch interrupted after %d jobs", i)
			break
		}

		r.logger.Info("Job %d/%d: %s [%.3fs + %.3fs]",
			i+1, len(jobs), job.InputPath, job.Range.StartSeconds, job.Range.DurationSeconds)

		jr := r.runJob(ctx, job)
		if jr.TrimOK {
			report.TrimSucceeded++
		}
		if job.Crop != nil {
			crops++
			if jr.CropOK {
				report.CropSucceeded++
			}
		}
		report.Jobs = append(report.Jobs, jr)
	}

	report.Elapsed = time.Since(started)
	r.logger.Info("Batch finished: %d/%d trimmed, %d/%d cropped in %s",
		report.TrimSucceeded, len(report.Jobs), report.CropSucceeded, crops,
		report.Elapsed.Round(time.Millisecond))
	return report
}

func (r *Runner) runJob(ctx context.Context, job pipeline.ClipJob) pipeline.JobReport {
	jr := pipeline.JobReport{Job: job}

	trimStarted := time.Now()
	trim, err := r.trimStage.Execute(ctx, pipeline.TrimInput{
		InputPath:  job.InputPath,
		OutputPath: job.OutputPath,
		Range:      job.Range,
	})
	jr.TrimElapsed = time.Since(trimStarted)
	jr.Trim = trim
	if err != nil {
		jr.Err = fmt.Errorf("trim: %w", err)
		return jr
	}
	jr.TrimOK = true
	r.logger.Info("Trim took %s", jr.TrimElapsed.Round(time.Millisecond))

	if job.Crop == nil {
		return jr
	}

	cropStarted := time.Now()
	crop, err := r.cropStage.Execute(ctx, pipeline.CropInput{
		InputPath:    job.OutputPath,
		OutputPath:   job.Crop.OutputPath,
		Region:       job.Crop.Region,
		OutputWidth:  job.Crop.OutputWidth,
		OutputHeight: job.Crop.OutputHeight,
	})
	jr.CropElapsed = time.Since(cropStarted)
	jr.CropResult = crop
	if err != nil {
		jr.Err = fmt.Errorf("crop: %w", err)
		return jr
	}
	jr.CropOK = true
	r.logger.Info("Crop took %s", jr.CropElapsed.Round(time.Millisecond))

	if job.DiscardTrimmed {
		if err := r.fs.Remove(job.OutputPath); err != nil {
			r.logger.Warn("Could not remove %s: %v", job.OutputPath, err)
		}
	}
	return jr
}

// StepJobs returns count trim jobs over input whose windows start at
// start, start+step, start+2*step and so on, each lasting duration seconds.
// Outputs are written to outDir as <name>_trim_NNN<ext>.
func StepJobs(input, outDir string, start, step, duration float64, count int) []pipeline.ClipJob {
	base, ext := splitName(input)
	jobs := make([]pipeline.ClipJob, 0, count)
	for i := 0; i < count; i++ {
		jobs = append(jobs, pipeline.ClipJob{
			InputPath:  input,
			OutputPath: filepath.Join(outDir, fmt.Sprintf("%s_trim_%03d%s", base, i+1, ext)),
			Range: pipeline.TimeRange{
				StartSeconds:    start + float64(i)*step,
				DurationSeconds: duration,
			},
		})
	}
	return jobs
}

// WithCrop attaches a crop of region to every job. The cropped clip is
// written next to the trimmed one with "_trim_" replaced by "_crop_".
func WithCrop(jobs []pipeline.ClipJob, region pipeline.Rectangle, outWidth, outHeight int, discardTrimmed bool) []pipeline.ClipJob {
	out := make([]pipeline.ClipJob, len(jobs))
	for i, job := range jobs {
		dir, name := filepath.Split(job.OutputPath)
		cropName := strings.Replace(name, "_trim_", "_crop_", 1)
		if cropName == name {
			base, ext := splitName(name)
			cropName = base + "_crop" + ext
		}
		job.Crop = &pipeline.CropJob{
			Region:       region,
			OutputWidth:  outWidth,
			OutputHeight: outHeight,
			OutputPath:   filepath.Join(dir, cropName),
		}
		job.DiscardTrimmed = discardTrimmed
		out[i] = job
	}
	return out
}

func splitName(path string) (string, string) {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".mp4"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)), ext
}
