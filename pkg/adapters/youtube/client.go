package youtube

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/framecut/pkg/adapters/logger"
	"github.com/user/framecut/pkg/ports"
)

const (
	// DefaultWatchBaseURL serves watch pages.
	DefaultWatchBaseURL = "https://www.youtube.com"

	// DefaultAPIBaseURL serves the YouTube Data API v3.
	DefaultAPIBaseURL = "https://www.googleapis.com/youtube/v3"

	// MaxPageSize is the largest page the Data API returns.
	MaxPageSize = 50

	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Options configures the YouTube clients.
type Options struct {
	HTTPClient *http.Client

	// RequestsPerSecond paces outgoing requests. 0 disables pacing.
	RequestsPerSecond float64

	WatchBaseURL string
	APIBaseURL   string
	UserAgent    string

	// Language sent as Accept-Language for watch pages.
	Language string

	APIKey   string
	PageSize int

	Logger ports.Logger
}

func (o Options) withDefaults() Options {
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.WatchBaseURL == "" {
		o.WatchBaseURL = DefaultWatchBaseURL
	}
	if o.APIBaseURL == "" {
		o.APIBaseURL = DefaultAPIBaseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Language == "" {
		o.Language = "en-US,en;q=0.8"
	}
	if o.Logger == nil {
		o.Logger = logger.NewNoop()
	}
	if o.PageSize <= 0 || o.PageSize > MaxPageSize {
		o.PageSize = MaxPageSize
	}
	return o
}

// fetcher performs paced GET requests.
type fetcher struct {
	opts    Options
	limiter *rate.Limiter
}

func newFetcher(opts Options) *fetcher {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return &fetcher{opts: opts, limiter: limiter}
}

// get returns the body and status code of a GET request.
func (f *fetcher) get(ctx context.Context, url string, headers map[string]string) ([]byte, int, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rsp, err := f.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer rsp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rsp.Body); err != nil {
		return nil, rsp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return buf.Bytes(), rsp.StatusCode, nil
}

// getOK is get that fails on a non-200 status.
func (f *fetcher) getOK(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, status, err := f.get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("request failed: %d %s", status, http.StatusText(status))
	}
	return body, nil
}
