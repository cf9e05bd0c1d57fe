package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"trendclipper/internal/models"
)

// TranscriptClient fetches caption tracks from YouTube's timedtext API.
type TranscriptClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewTranscriptClient() *TranscriptClient {
	return &TranscriptClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.youtube.com/api/timedtext",
	}
}

// timedtextResponse is the raw JSON3 payload returned by the endpoint.
type timedtextResponse struct {
	Events []timedtextEvent `json:"events"`
}

type timedtextEvent struct {
	StartMs    int64              `json:"tStartMs"`
	DurationMs int64              `json:"dDurationMs"`
	Segs       []timedtextSegment `json:"segs,omitempty"`
}

type timedtextSegment struct {
	UTF8 string `json:"utf8"`
}

// Transcript returns the ordered caption segments for a video, or an empty
// sequence when captions are unavailable. It never returns an error; the
// moment selector has its own fallback for transcript-less videos.
func (tc *TranscriptClient) Transcript(ctx context.Context, videoID string) []models.TranscriptSegment {
	segments, err := tc.fetch(ctx, videoID, "en")
	if err != nil {
		log.Printf("Warning: transcript unavailable for %s: %v", videoID, err)
		return nil
	}
	return segments
}

func (tc *TranscriptClient) fetch(ctx context.Context, videoID, langCode string) ([]models.TranscriptSegment, error) {
	if videoID == "" {
		return nil, fmt.Errorf("video ID is required")
	}

	params := url.Values{}
	params.Set("v", videoID)
	params.Set("lang", langCode)
	params.Set("fmt", "json3")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create timedtext request: %w", err)
	}

	response, err := tc.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("timedtext request failed: %w", err)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("no captions for video %s in language %s", videoID, langCode)
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited by timedtext API")
	default:
		return nil, fmt.Errorf("timedtext API returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read timedtext response: %w", err)
	}

	return parseTimedtext(body)
}

func parseTimedtext(data []byte) ([]models.TranscriptSegment, error) {
	var response timedtextResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse timedtext JSON: %w", err)
	}

	var segments []models.TranscriptSegment
	for _, event := range response.Events {
		// Events without text segments carry window metadata only.
		if len(event.Segs) == 0 {
			continue
		}

		var text strings.Builder
		for _, seg := range event.Segs {
			text.WriteString(seg.UTF8)
		}

		segments = append(segments, models.TranscriptSegment{
			Start:    float64(event.StartMs) / 1000.0,
			Duration: float64(event.DurationMs) / 1000.0,
			Text:     strings.TrimSpace(text.String()),
		})
	}

	return segments, nil
}
