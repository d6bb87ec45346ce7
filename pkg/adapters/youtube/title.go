package youtube

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// VideoTitle reads the title of a video from its watch page.
func (c *CaptionClient) VideoTitle(ctx context.Context, videoID string) (string, error) {
	page, err := c.watchPage(ctx, videoID)
	if err != nil {
		return "", fmt.Errorf("loading watch page: %w", err)
	}
	return pageTitle(page)
}

func pageTitle(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parsing watch page: %w", err)
	}

	for _, sel := range []string{`meta[property="og:title"]`, `meta[name="title"]`} {
		if title := strings.TrimSpace(doc.Find(sel).AttrOr("content", "")); title != "" {
			return title, nil
		}
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(strings.TrimSuffix(title, "- YouTube"))
	if title == "" {
		return "", fmt.Errorf("%w: page has no title", ErrVideoNotFound)
	}
	return title, nil
}
