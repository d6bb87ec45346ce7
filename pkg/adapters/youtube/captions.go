package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"strings"

	"bitbucket.org/creachadair/stringset"

	"github.com/user/framecut/pkg/ports"
)

// GeneratedPrefix marks a language code that selects an auto-generated track.
const GeneratedPrefix = "a."

// CaptionClient reads caption tracks through the public watch page and
// the timedtext endpoint.
type CaptionClient struct {
	*fetcher
}

// NewCaptionClient creates a caption client.
func NewCaptionClient(opts Options) *CaptionClient {
	return &CaptionClient{fetcher: newFetcher(opts.withDefaults())}
}

type captionTrack struct {
	URL  string `json:"baseUrl"`
	Lang string `json:"languageCode"`
	Kind string `json:"kind"`
}

func (t captionTrack) generated() bool {
	return t.Kind == "asr"
}

func (c *CaptionClient) watchPage(ctx context.Context, videoID string) ([]byte, error) {
	url := fmt.Sprintf("%s/watch?v=%s", c.opts.WatchBaseURL, videoID)
	return c.getOK(ctx, url, map[string]string{"Accept-Language": c.opts.Language})
}

// captionTracks lists the tracks advertised by the watch page.
func captionTracks(page []byte, videoID string) ([]captionTrack, error) {
	const needle = `"captions":`
	i := bytes.Index(page, []byte(needle))
	if i < 0 {
		switch {
		case bytes.Contains(page, []byte(`class="g-recaptcha"`)):
			return nil, ErrRateLimited
		case !bytes.Contains(page, []byte(`playabilityStatus`)):
			return nil, fmt.Errorf("%w: %s", ErrVideoNotFound, videoID)
		default:
			return nil, fmt.Errorf("%w: %s", ErrCaptionsDisabled, videoID)
		}
	}

	var data struct {
		R *struct {
			Tracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	// The blob is followed by the rest of the page, which the decoder ignores.
	dec := json.NewDecoder(bytes.NewReader(page[i+len(needle):]))
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding caption tracks: %w", err)
	}
	if data.R == nil || len(data.R.Tracks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCaptionsDisabled, videoID)
	}
	return data.R.Tracks, nil
}

// selectTrack returns the first track matching langs in order. A plain
// code prefers a manual track and falls back to a generated one; an "a."
// code matches generated tracks only. Empty langs selects the first track.
func selectTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	if len(langs) == 0 {
		return tracks[0], true
	}

	find := func(lang string, generated bool) (captionTrack, bool) {
		for _, t := range tracks {
			if strings.EqualFold(t.Lang, lang) && t.generated() == generated {
				return t, true
			}
		}
		return captionTrack{}, false
	}

	for _, lang := range UniqueLanguages(langs) {
		if code, ok := strings.CutPrefix(lang, GeneratedPrefix); ok {
			if t, ok := find(code, true); ok {
				return t, true
			}
			continue
		}
		if t, ok := find(lang, false); ok {
			return t, true
		}
		if t, ok := find(lang, true); ok {
			return t, true
		}
	}
	return captionTrack{}, false
}

// UniqueLanguages drops repeated and blank codes, keeping first occurrences in order.
func UniqueLanguages(langs []string) []string {
	seen := stringset.New()
	out := make([]string, 0, len(langs))
	for _, lang := range langs {
		lang = strings.TrimSpace(lang)
		if lang == "" || seen.Contains(lang) {
			continue
		}
		seen.Add(lang)
		out = append(out, lang)
	}
	return out
}

type transcriptXML struct {
	XMLName xml.Name `xml:"transcript"`
	Texts   []struct {
		Start    float64 `xml:"start,attr"`
		Duration float64 `xml:"dur,attr"`
		Text     string  `xml:",chardata"`
	} `xml:"text"`
}

func parseTranscript(data []byte) ([]ports.CaptionSegment, error) {
	var doc transcriptXML
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding XML: %w", err)
	}

	segments := make([]ports.CaptionSegment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		// Caption text is escaped twice; the XML decoder undoes the first layer
		text := CleanText(html.UnescapeString(t.Text))
		if text == "" {
			continue
		}
		segments = append(segments, ports.CaptionSegment{
			Start:    t.Start,
			Duration: t.Duration,
			Text:     text,
		})
	}
	return segments, nil
}

// FetchCaptions implements ports.CaptionFetcher.
func (c *CaptionClient) FetchCaptions(ctx context.Context, videoID string, langs []string) (ports.Transcript, error) {
	page, err := c.watchPage(ctx, videoID)
	if err != nil {
		return ports.Transcript{}, fmt.Errorf("loading watch page: %w", err)
	}

	tracks, err := captionTracks(page, videoID)
	if err != nil {
		return ports.Transcript{}, err
	}

	track, ok := selectTrack(tracks, langs)
	if !ok {
		return ports.Transcript{}, fmt.Errorf("%w: %s in %s", ErrNoCaptions, videoID, strings.Join(langs, ","))
	}

	data, err := c.getOK(ctx, track.URL, nil)
	if err != nil {
		return ports.Transcript{}, fmt.Errorf("loading captions: %w", err)
	}
	segments, err := parseTranscript(data)
	if err != nil {
		return ports.Transcript{}, err
	}

	return ports.Transcript{
		VideoID:   videoID,
		Language:  track.Lang,
		Generated: track.generated(),
		Segments:  segments,
	}, nil
}

var _ ports.CaptionFetcher = (*CaptionClient)(nil)
