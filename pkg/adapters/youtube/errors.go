// Package youtube fetches captions, titles and playlist contents from YouTube.
package youtube

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingAPIKey is returned when the Data API is used without a key.
	ErrMissingAPIKey = errors.New("youtube: no YouTube Data API key")

	// ErrNoCaptions is returned when no caption track matches the requested languages.
	ErrNoCaptions = errors.New("youtube: no captions found")

	// ErrCaptionsDisabled is returned when the video exposes no caption tracks.
	ErrCaptionsDisabled = errors.New("youtube: captions are disabled")

	// ErrVideoNotFound is returned when the watch page does not describe a video.
	ErrVideoNotFound = errors.New("youtube: video not found")

	// ErrRateLimited is returned when YouTube answers with a captcha page.
	ErrRateLimited = errors.New("youtube: rate limit exceeded")

	// ErrInvalidURL is returned when no video or playlist ID can be parsed.
	ErrInvalidURL = errors.New("youtube: no ID in URL")
)

// APIError is a non-200 response from the YouTube Data API.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("youtube api: %s", e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if hint := e.Hint(); hint != "" {
		msg += " (" + hint + ")"
	}
	return msg
}

// Hint suggests a cause for common status codes.
func (e *APIError) Hint() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return "check the playlist ID or URL"
	case http.StatusForbidden:
		return "check the API key and its quota"
	case http.StatusNotFound:
		return "playlist not found or private"
	default:
		return ""
	}
}
