package ports

import (
	"context"
	"strings"
)

// VideoInfo identifies a YouTube video.
type VideoInfo struct {
	ID    string
	Title string
	URL   string
}

// CaptionSegment is one timed line of a transcript.
type CaptionSegment struct {
	Start    float64 // Seconds
	Duration float64 // Seconds
	Text     string
}

// Transcript holds the captions of a single video in one language.
type Transcript struct {
	VideoID   string
	Language  string
	Generated bool // Auto-generated (ASR) track
	Segments  []CaptionSegment
}

// CaptionFetcher retrieves captions and basic metadata for videos.
type CaptionFetcher interface {
	// FetchCaptions returns the first available track matching langs, in
	// preference order. An empty langs accepts any track.
	FetchCaptions(ctx context.Context, videoID string, langs []string) (Transcript, error)

	// VideoTitle returns the title of the video.
	VideoTitle(ctx context.Context, videoID string) (string, error)
}

// PlaylistLister lists the videos of a playlist.
type PlaylistLister interface {
	ListPlaylist(ctx context.Context, playlistID string) ([]VideoInfo, error)
}

// Text joins the segment texts with single spaces.
func (t Transcript) Text() string {
	parts := make([]string, 0, len(t.Segments))
	for _, s := range t.Segments {
		if s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.Join(parts, " ")
}

// LanguageTag returns the language code, prefixed with "a." for
// auto-generated tracks.
func (t Transcript) LanguageTag() string {
	if t.Generated && t.Language != "" {
		return "a." + t.Language
	}
	return t.Language
}
