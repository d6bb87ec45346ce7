package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/user/framecut/pkg/ports"
)

// PlaylistClient lists playlists through the YouTube Data API v3.
type PlaylistClient struct {
	*fetcher
}

// NewPlaylistClient creates a playlist client. The API key is required
// when listing, not here.
func NewPlaylistClient(opts Options) *PlaylistClient {
	return &PlaylistClient{fetcher: newFetcher(opts.withDefaults())}
}

// Pages returns a lazy page sequence over a playlist.
func (c *PlaylistClient) Pages(playlistID string) *PlaylistPages {
	return &PlaylistPages{client: c, playlistID: playlistID}
}

// ListPlaylist implements ports.PlaylistLister.
func (c *PlaylistClient) ListPlaylist(ctx context.Context, playlistID string) ([]ports.VideoInfo, error) {
	return CollectPlaylist(ctx, c.Pages(playlistID))
}

// PlaylistPages yields a playlist one API page at a time. It is not safe
// for concurrent use.
type PlaylistPages struct {
	client     *PlaylistClient
	playlistID string
	token      string
	page       int
	done       bool
}

// Next fetches the next page. ok is false once the last page was returned.
func (p *PlaylistPages) Next(ctx context.Context) (videos []ports.VideoInfo, ok bool, err error) {
	if p.done {
		return nil, false, nil
	}
	p.client.opts.Logger.Debug("Fetching playlist page %d of %s", p.page+1, p.playlistID)
	videos, next, err := p.client.fetchPage(ctx, p.playlistID, p.token)
	if err != nil {
		return nil, false, err
	}
	p.page++
	p.token = next
	p.done = next == ""
	return videos, true, nil
}

// Page returns the number of pages fetched since the last Reset.
func (p *PlaylistPages) Page() int {
	return p.page
}

// Reset restarts the sequence from the first page.
func (p *PlaylistPages) Reset() {
	p.token = ""
	p.page = 0
	p.done = false
}

// CollectPlaylist drains pages and joins their items.
func CollectPlaylist(ctx context.Context, pages *PlaylistPages) ([]ports.VideoInfo, error) {
	var all []ports.VideoInfo
	for {
		videos, ok, err := pages.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return all, nil
		}
		all = append(all, videos...)
	}
}

type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		Snippet *struct {
			Title      string `json:"title"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	} `json:"items"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *PlaylistClient) fetchPage(ctx context.Context, playlistID, token string) ([]ports.VideoInfo, string, error) {
	if c.opts.APIKey == "" {
		return nil, "", ErrMissingAPIKey
	}
	if playlistID == "" {
		return nil, "", errors.New("youtube: empty playlist ID")
	}

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("maxResults", strconv.Itoa(c.opts.PageSize))
	q.Set("playlistId", playlistID)
	q.Set("key", c.opts.APIKey)
	if token != "" {
		q.Set("pageToken", token)
	}

	body, status, err := c.get(ctx, c.opts.APIBaseURL+"/playlistItems?"+q.Encode(), nil)
	if err != nil {
		return nil, "", err
	}
	if status != http.StatusOK {
		apiErr := &APIError{StatusCode: status, Status: fmt.Sprintf("%d %s", status, http.StatusText(status))}
		var rsp apiErrorResponse
		if json.Unmarshal(body, &rsp) == nil {
			apiErr.Message = rsp.Error.Message
		}
		return nil, "", apiErr
	}

	var rsp playlistItemsResponse
	if err := json.Unmarshal(body, &rsp); err != nil {
		return nil, "", fmt.Errorf("decoding playlist page: %w", err)
	}

	videos := make([]ports.VideoInfo, 0, len(rsp.Items))
	for _, item := range rsp.Items {
		if item.Snippet == nil {
			continue
		}
		id := item.Snippet.ResourceID.VideoID
		if id == "" || item.Snippet.Title == "" {
			continue
		}
		videos = append(videos, ports.VideoInfo{
			ID:    id,
			Title: CleanText(item.Snippet.Title),
			URL:   WatchURL(id),
		})
	}
	return videos, rsp.NextPageToken, nil
}

var _ ports.PlaylistLister = (*PlaylistClient)(nil)
