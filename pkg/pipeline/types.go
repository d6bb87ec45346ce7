package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/user/framecut/pkg/ports"
)

// =============================================================================
// Common Types
// =============================================================================

// Rectangle represents a rectangular area in pixels.
type Rectangle struct {
	X      int `yaml:"x" json:"x"`
	Y      int `yaml:"y" json:"y"`
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// Empty reports whether the rectangle has no area.
func (r Rectangle) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Within reports whether r lies entirely inside a width x height frame.
func (r Rectangle) Within(width, height int) bool {
	if r.X < 0 || r.Y < 0 || r.X > width || r.Y > height {
		return false
	}
	return r.Width <= width-r.X && r.Height <= height-r.Y
}

func (r Rectangle) String() string {
	return fmt.Sprintf("(%d,%d) %dx%d", r.X, r.Y, r.Width, r.Height)
}

// TimeRange is a span of a video expressed in seconds.
type TimeRange struct {
	StartSeconds    float64
	DurationSeconds float64
}

// Validate checks that the start is non-negative and the duration positive.
func (t TimeRange) Validate() error {
	if math.IsNaN(t.StartSeconds) || math.IsInf(t.StartSeconds, 0) || t.StartSeconds < 0 {
		return fmt.Errorf("start %v must be a finite value >= 0", t.StartSeconds)
	}
	if math.IsNaN(t.DurationSeconds) || math.IsInf(t.DurationSeconds, 0) || t.DurationSeconds <= 0 {
		return fmt.Errorf("duration %v must be a finite value > 0", t.DurationSeconds)
	}
	return nil
}

// EndSeconds returns the end of the range.
func (t TimeRange) EndSeconds() float64 {
	return t.StartSeconds + t.DurationSeconds
}

// Frames converts the range to frame indices at the given frame rate.
func (t TimeRange) Frames(frameRate float64) FrameRange {
	return FrameRange{
		Start: frameIndex(t.StartSeconds * frameRate),
		End:   frameIndex(t.EndSeconds() * frameRate),
	}
}

// frameIndex floors v to a frame index, saturating at 0 and math.MaxInt.
func frameIndex(v float64) int {
	v = math.Floor(v)
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxInt:
		return math.MaxInt
	}
	return int(v)
}

// FrameRange is a half-open interval [Start, End) of frame indices.
type FrameRange struct {
	Start int
	End   int
}

// Len returns the number of frames in the range.
func (f FrameRange) Len() int {
	if f.End <= f.Start {
		return 0
	}
	return f.End - f.Start
}

// Contains reports whether frame index i falls inside the range.
func (f FrameRange) Contains(i int) bool {
	return i >= f.Start && i < f.End
}

// =============================================================================
// Trim Stage Types
// =============================================================================

// TrimInput contains parameters for frame-range extraction.
type TrimInput struct {
	InputPath  string
	OutputPath string
	Range      TimeRange
}

// TrimResult contains the outcome of a frame-range extraction.
type TrimResult struct {
	Source        ports.StreamInfo
	Frames        FrameRange // Requested range after clamping
	Clamped       bool       // End was beyond the last frame
	FramesWritten int
	Elapsed       time.Duration
}

// =============================================================================
// Crop Stage Types
// =============================================================================

// CropInput contains parameters for region cropping.
type CropInput struct {
	InputPath  string
	OutputPath string
	Region     Rectangle

	// Optional output size. When both are > 0 the cropped region is
	// rescaled to OutputWidth x OutputHeight.
	OutputWidth  int
	OutputHeight int
}

// Scaled reports whether the crop output is rescaled.
func (c CropInput) Scaled() bool {
	return c.OutputWidth > 0 && c.OutputHeight > 0
}

// CropResult contains the outcome of a crop.
type CropResult struct {
	Source        ports.StreamInfo
	Width         int // Output frame width
	Height        int // Output frame height
	FramesWritten int
	Elapsed       time.Duration
}

// =============================================================================
// Batch Types
// =============================================================================

// CropJob describes an optional crop applied to a trimmed clip.
type CropJob struct {
	Region       Rectangle
	OutputWidth  int
	OutputHeight int
	OutputPath   string
}

// ClipJob is one unit of work for the batch runner.
type ClipJob struct {
	InputPath  string
	OutputPath string // Trimmed clip path
	Range      TimeRange

	Crop           *CropJob // Optional crop of the trimmed clip
	DiscardTrimmed bool     // Remove the trimmed clip after a successful crop
}

// JobReport is the outcome of a single ClipJob.
type JobReport struct {
	Job         ClipJob
	TrimOK      bool
	CropOK      bool
	Trim        TrimResult
	CropResult  CropResult
	Err         error
	TrimElapsed time.Duration
	CropElapsed time.Duration
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Jobs          []JobReport
	TrimSucceeded int
	CropSucceeded int
	Elapsed       time.Duration
	Interrupted   bool
}

// =============================================================================
// Caption Collection Types
// =============================================================================

// CollectInput contains parameters for caption collection.
type CollectInput struct {
	URLs      []string // Video or playlist URLs
	Languages []string // Caption language preference, most preferred first
}

// CaptionRecord is one persisted caption entry.
type CaptionRecord struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Captions string `json:"captions"`
	Language string `json:"language,omitempty"`
}

// CollectResult contains the records gathered by a caption collection.
type CollectResult struct {
	Records []CaptionRecord
	Skipped int // Videos without usable captions
	Failed  int // URLs that could not be resolved
}
