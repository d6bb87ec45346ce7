package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# Batch Summary\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", s.GeneratedAt.Format(time.RFC3339))

	b.WriteString("## Totals\n\n")
	b.WriteString("| Item | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Jobs | %d |\n", len(s.Jobs))
	fmt.Fprintf(&b, "| Trimmed | %d/%d |\n", s.TrimSucceeded, len(s.Jobs))
	if s.CropRequested > 0 {
		fmt.Fprintf(&b, "| Cropped | %d/%d |\n", s.CropSucceeded, s.CropRequested)
	}
	fmt.Fprintf(&b, "| Elapsed | %s |\n", formatDuration(s.Elapsed))
	if s.Settings.FourCC != "" {
		fmt.Fprintf(&b, "| Codec | %s |\n", s.Settings.FourCC)
	}
	if s.Settings.Quality > 0 {
		fmt.Fprintf(&b, "| Quality | %d |\n", s.Settings.Quality)
	}
	if s.Interrupted {
		b.WriteString("| Status | Interrupted |\n")
	}

	if len(s.Jobs) == 0 {
		return b.String()
	}

	b.WriteString("\n## Jobs\n\n")
	b.WriteString("| # | Output | Range | Frames | Trim | Crop |\n|---|---|---|---|---|---|\n")
	for i, j := range s.Jobs {
		fmt.Fprintf(&b, "| %d | %s | %.3fs + %.3fs | %s | %s | %s |\n",
			i+1, j.Output, j.Range.StartSeconds, j.Range.DurationSeconds,
			frames(j), status(j.TrimOK, j.TrimElapsed), cropCell(j))
	}

	var failures []string
	for i, j := range s.Jobs {
		if j.Error != "" {
			failures = append(failures, fmt.Sprintf("- Job %d (%s): %s", i+1, j.Input, j.Error))
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		b.WriteString(strings.Join(failures, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

func frames(j JobSummary) string {
	if !j.TrimOK {
		return "-"
	}
	s := fmt.Sprintf("%d-%d (%d)", j.Frames.Start, j.Frames.End, j.FramesWritten)
	if j.Clamped {
		s += " clamped"
	}
	return s
}

func status(ok bool, elapsed time.Duration) string {
	if !ok {
		return "failed"
	}
	return "ok " + formatDuration(elapsed)
}

func cropCell(j JobSummary) string {
	if !j.Cropped {
		return "-"
	}
	if !j.CropOK {
		return "failed"
	}
	return fmt.Sprintf("%dx%d %s", j.CropWidth, j.CropHeight, formatDuration(j.CropElapsed))
}

func formatDuration(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}
