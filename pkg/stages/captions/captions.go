// Package captions implements the caption collection stage.
package captions

import (
	"context"
	"unicode/utf8"

	"bitbucket.org/creachadair/stringset"

	"github.com/user/framecut/pkg/adapters/youtube"
	"github.com/user/framecut/pkg/pipeline"
	"github.com/user/framecut/pkg/ports"
)

// NoTitle is recorded when a video's title cannot be read.
const NoTitle = "No title"

// Stage resolves video and playlist URLs and gathers the captions of
// every video. Videos without captions are skipped; failures on one URL
// or video never stop the run.
type Stage struct {
	captions  ports.CaptionFetcher
	playlists ports.PlaylistLister
	logger    ports.Logger
}

// NewStage creates a new caption collection stage.
func NewStage(captions ports.CaptionFetcher, playlists ports.PlaylistLister, logger ports.Logger) *Stage {
	return &Stage{
		captions:  captions,
		playlists: playlists,
		logger:    logger.WithComponent("captions"),
	}
}

// Execute collects caption records for input.URLs in order. Each video
// appears at most once. It returns ctx's error with the records gathered
// so far when cancelled.
func (s *Stage) Execute(ctx context.Context, input pipeline.CollectInput) (pipeline.CollectResult, error) {
	var result pipeline.CollectResult
	seen := stringset.New()
	langs := youtube.UniqueLanguages(input.Languages)

	for _, url := range input.URLs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if youtube.IsPlaylistURL(url) {
			s.collectPlaylist(ctx, url, langs, seen, &result)
			continue
		}

		id, err := youtube.VideoID(url)
		if err != nil {
			s.logger.Warn("Could not parse a video or playlist ID from %s", url)
			result.Failed++
			continue
		}
		if seen.Contains(id) {
			continue
		}
		seen.Add(id)

		rec, ok := s.collectVideo(ctx, ports.VideoInfo{ID: id, URL: youtube.WatchURL(id)}, langs)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, ctx.Err()
}

func (s *Stage) collectPlaylist(ctx context.Context, url string, langs []string, seen stringset.Set, result *pipeline.CollectResult) {
	playlistID, err := youtube.PlaylistID(url)
	if err != nil {
		s.logger.Warn("Could not parse a video or playlist ID from %s", url)
		result.Failed++
		return
	}

	videos, err := s.playlists.ListPlaylist(ctx, playlistID)
	if err != nil {
		s.logger.Error("Could not list playlist %s: %v", playlistID, err)
		result.Failed++
		return
	}
	s.logger.Info("Found %d videos in playlist %s", len(videos), playlistID)

	for _, video := range videos {
		if ctx.Err() != nil {
			return
		}
		if seen.Contains(video.ID) {
			continue
		}
		seen.Add(video.ID)

		rec, ok := s.collectVideo(ctx, video, langs)
		if !ok {
			result.Skipped++
			continue
		}
		result.Records = append(result.Records, rec)
	}
}

// collectVideo fetches captions, then the title when the video did not
// come with one.
func (s *Stage) collectVideo(ctx context.Context, video ports.VideoInfo, langs []string) (pipeline.CaptionRecord, bool) {
	transcript, err := s.captions.FetchCaptions(ctx, video.ID, langs)
	if err != nil {
		s.logger.Warn("No captions for %s: %v", video.ID, err)
		return pipeline.CaptionRecord{}, false
	}
	text := transcript.Text()
	if text == "" {
		s.logger.Warn("No captions for %s: %v", video.ID, youtube.ErrNoCaptions)
		return pipeline.CaptionRecord{}, false
	}

	title := video.Title
	if title == "" {
		title, err = s.captions.VideoTitle(ctx, video.ID)
		if err != nil || title == "" {
			s.logger.Warn("Could not read the title of %s: %v", video.ID, err)
			title = NoTitle
		}
	}

	s.logger.Info("Captions for %s (%s): %d characters",
		video.ID, transcript.LanguageTag(), utf8.RuneCountInString(text))

	return pipeline.CaptionRecord{
		ID:       video.ID,
		Title:    title,
		URL:      video.URL,
		Captions: text,
		Language: transcript.LanguageTag(),
	}, true
}
