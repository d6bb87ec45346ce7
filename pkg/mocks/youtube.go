package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/framecut/pkg/ports"
)

// CaptionFetcher is a mock implementation of ports.CaptionFetcher.
type CaptionFetcher struct {
	mu sync.Mutex

	// Transcripts and Titles are keyed by video ID.
	Transcripts map[string]ports.Transcript
	Titles      map[string]string
	Errors      map[string]error

	FetchCaptionsFunc func(ctx context.Context, videoID string, langs []string) (ports.Transcript, error)

	// Recorded calls for verification
	FetchCalls []string
	TitleCalls []string
}

// NewCaptionFetcher creates a new mock CaptionFetcher.
func NewCaptionFetcher() *CaptionFetcher {
	return &CaptionFetcher{
		Transcripts: make(map[string]ports.Transcript),
		Titles:      make(map[string]string),
		Errors:      make(map[string]error),
	}
}

func (m *CaptionFetcher) FetchCaptions(ctx context.Context, videoID string, langs []string) (ports.Transcript, error) {
	m.mu.Lock()
	m.FetchCalls = append(m.FetchCalls, videoID)
	m.mu.Unlock()

	if m.FetchCaptionsFunc != nil {
		return m.FetchCaptionsFunc(ctx, videoID, langs)
	}
	if err := m.Errors[videoID]; err != nil {
		return ports.Transcript{}, err
	}
	t, ok := m.Transcripts[videoID]
	if !ok {
		return ports.Transcript{}, fmt.Errorf("mocks: no transcript for %s", videoID)
	}
	return t, nil
}

func (m *CaptionFetcher) VideoTitle(ctx context.Context, videoID string) (string, error) {
	m.mu.Lock()
	m.TitleCalls = append(m.TitleCalls, videoID)
	m.mu.Unlock()

	title, ok := m.Titles[videoID]
	if !ok {
		return "", fmt.Errorf("mocks: no title for %s", videoID)
	}
	return title, nil
}

// PlaylistLister is a mock implementation of ports.PlaylistLister.
type PlaylistLister struct {
	Playlists map[string][]ports.VideoInfo
	Err       error

	Calls []string
}

func (m *PlaylistLister) ListPlaylist(ctx context.Context, playlistID string) ([]ports.VideoInfo, error) {
	m.Calls = append(m.Calls, playlistID)
	if m.Err != nil {
		return nil, m.Err
	}
	videos, ok := m.Playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("mocks: playlist %s not found", playlistID)
	}
	return videos, nil
}

var (
	_ ports.CaptionFetcher = (*CaptionFetcher)(nil)
	_ ports.PlaylistLister = (*PlaylistLister)(nil)
)
