// Package transcript resolves video references and fetches caption text via
// the YouTube Innertube API.
package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/guiyumin/ytsum/internal/errs"
)

const (
	defaultPlayerURL = "https://www.youtube.com/youtubei/v1/player?prettyPrint=false"

	androidClientName    = "ANDROID"
	androidClientID      = "3"
	androidClientVersion = "19.09.37"
	androidUserAgent     = "com.google.android.youtube/19.09.37 (Linux; U; Android 11) gzip"
)

// playerResponse is the subset of the /player API response we need: the
// playability verdict and the caption track list.
type playerResponse struct {
	PlayabilityStatus struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
	Captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated tracks
}

// timedText is the json3 caption payload behind a track's baseUrl.
type timedText struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// Client fetches transcripts for video IDs.
type Client struct {
	HTTPClient *http.Client
	PlayerURL  string // overridden in tests
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) playerURL() string {
	if c.PlayerURL != "" {
		return c.PlayerURL
	}
	return defaultPlayerURL
}

// Fetch returns the full transcript text for a video ID. An empty transcript
// is an error: there is nothing to summarize.
func (c *Client) Fetch(ctx context.Context, videoID string) (string, error) {
	player, err := c.loadPlayerData(ctx, videoID)
	if err != nil {
		return "", err
	}

	if s := player.PlayabilityStatus.Status; s != "" && s != "OK" {
		reason := player.PlayabilityStatus.Reason
		if reason == "" {
			reason = s
		}
		return "", &errs.TranscriptFetchError{Msg: fmt.Sprintf("video is not playable: %s", reason)}
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", &errs.TranscriptFetchError{Msg: fmt.Sprintf("no captions available for video %s", videoID)}
	}

	text, err := c.fetchTrack(ctx, selectTrack(tracks))
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", &errs.TranscriptFetchError{Msg: "transcript is empty"}
	}
	return text, nil
}

// loadPlayerData calls the Innertube /player endpoint with an Android client
// context, which returns caption tracks without a web session.
func (c *Client) loadPlayerData(ctx context.Context, videoID string) (*playerResponse, error) {
	payload := map[string]any{
		"context": map[string]any{
			"client": map[string]any{
				"clientName":    androidClientName,
				"clientVersion": androidClientVersion,
				"hl":            "en",
				"gl":            "US",
			},
		},
		"videoId":        videoID,
		"contentCheckOk": true,
		"racyCheckOk":    true,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, &errs.TranscriptFetchError{Msg: "failed to build player request: " + err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.playerURL(), bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &errs.TranscriptFetchError{Msg: "failed to create player request: " + err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", androidClientID)
	req.Header.Set("X-Youtube-Client-Version", androidClientVersion)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &errs.TranscriptFetchError{Msg: "player request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &errs.TranscriptFetchError{Msg: "failed to read player response: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &errs.TranscriptFetchError{Msg: fmt.Sprintf("player API returned status %d: %s", resp.StatusCode, body)}
	}

	var player playerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, &errs.TranscriptFetchError{Msg: "failed to parse player response: " + err.Error(), Err: err}
	}
	return &player, nil
}

// selectTrack prefers a manually-authored English track, then any English
// track, then the first one available.
func selectTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t
		}
	}
	return tracks[0]
}

func (c *Client) fetchTrack(ctx context.Context, track captionTrack) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL+"&fmt=json3", nil)
	if err != nil {
		return "", &errs.TranscriptFetchError{Msg: "failed to create caption request: " + err.Error(), Err: err}
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", &errs.TranscriptFetchError{Msg: "caption request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &errs.TranscriptFetchError{Msg: "failed to read captions: " + err.Error(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return "", &errs.TranscriptFetchError{Msg: fmt.Sprintf("caption API returned status %d", resp.StatusCode)}
	}

	var captions timedText
	if err := json.Unmarshal(body, &captions); err != nil {
		return "", &errs.TranscriptFetchError{Msg: "failed to parse captions: " + err.Error(), Err: err}
	}

	var parts []string
	for _, event := range captions.Events {
		for _, seg := range event.Segs {
			if s := strings.TrimSpace(seg.UTF8); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return strings.Join(parts, " "), nil
}
