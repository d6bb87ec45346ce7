package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	idPattern       = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	bareIDPattern   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	playlistPattern = regexp.MustCompile(`list=([A-Za-z0-9_-]+)`)
)

// VideoID extracts the video ID from a watch, youtu.be, shorts, embed or
// live URL. A bare 11-character ID is returned unchanged.
func VideoID(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if bareIDPattern.MatchString(s) {
		return s, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	var id string
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch {
	case host == "youtu.be":
		id = strings.Trim(u.Path, "/")
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	default:
		for _, prefix := range []string{"/shorts/", "/embed/", "/live/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id, _, _ = strings.Cut(rest, "/")
				break
			}
		}
	}

	if id == "" || !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video ID in %s", ErrInvalidURL, rawURL)
	}
	return id, nil
}

// PlaylistID extracts the value of the list= parameter.
func PlaylistID(rawURL string) (string, error) {
	m := playlistPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: no playlist ID in %s", ErrInvalidURL, rawURL)
	}
	return m[1], nil
}

// IsPlaylistURL reports whether rawURL names a playlist rather than a
// video. Watch URLs carrying both v= and list= name the video.
func IsPlaylistURL(rawURL string) bool {
	if _, err := PlaylistID(rawURL); err != nil {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return true
	}
	if strings.HasSuffix(u.Path, "/playlist") {
		return true
	}
	_, err = VideoID(rawURL)
	return err != nil
}

// WatchURL returns the canonical watch URL of a video.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
