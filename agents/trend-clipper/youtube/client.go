package youtube

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"trendclipper/internal/models"
	"trendclipper/shared/config"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// detailsTimeout bounds a single video-details lookup. Expiry falls back to
// a minimal record instead of surfacing an error.
const detailsTimeout = 8 * time.Second

// searchWindow restricts search results to recently published videos.
const searchWindow = 7 * 24 * time.Hour

// Client wraps the YouTube Data API for search and metadata lookups. These
// endpoints only need an API key, no OAuth.
type Client struct {
	service *youtube.Service
}

func NewClient(cfg *config.YouTubeConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{service: service}, nil
}

// SearchCandidates returns up to limit videos matching the query, ordered by
// view count and restricted to the last week. Errors propagate: the
// aggregator decides whether a failed query is fatal.
func (c *Client) SearchCandidates(ctx context.Context, query string, limit int) ([]models.VideoCandidate, error) {
	publishedAfter := time.Now().Add(-searchWindow).UTC().Format(time.RFC3339)

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		Order("viewCount").
		PublishedAfter(publishedAfter).
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search videos for %q: %w", query, err)
	}

	candidates := make([]models.VideoCandidate, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}

		candidate := models.VideoCandidate{
			VideoID: item.Id.VideoId,
			URL:     WatchURL(item.Id.VideoId),
		}
		if item.Snippet != nil {
			candidate.Title = item.Snippet.Title
			candidate.Description = item.Snippet.Description
			candidate.ChannelTitle = item.Snippet.ChannelTitle
			if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
				candidate.Thumbnail = item.Snippet.Thumbnails.Default.Url
			}
			if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				candidate.PublishedAt = publishedAt
			}
		}
		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// VideoDetails returns fresh statistics for a video. It never fails: any
// API error, timeout, or missing item degrades to a minimal record with
// zeroed counters and the publish time set to now.
func (c *Client) VideoDetails(ctx context.Context, videoID string) (models.VideoCandidate, error) {
	minimal := MinimalDetails(videoID)

	ctx, cancel := context.WithTimeout(ctx, detailsTimeout)
	defer cancel()

	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("Warning: video details lookup for %s failed, using minimal record: %v", videoID, err)
		return minimal, nil
	}

	if len(response.Items) == 0 {
		log.Printf("Warning: video %s not found, using minimal record", videoID)
		return minimal, nil
	}

	item := response.Items[0]
	details := models.VideoCandidate{
		VideoID: item.Id,
		URL:     WatchURL(item.Id),
	}
	if item.Snippet != nil {
		details.Title = item.Snippet.Title
		details.Description = item.Snippet.Description
		details.ChannelTitle = item.Snippet.ChannelTitle
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.High != nil {
			details.Thumbnail = item.Snippet.Thumbnails.High.Url
		}
		if publishedAt, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
			details.PublishedAt = publishedAt
		}
	}
	if item.ContentDetails != nil {
		details.DurationSeconds = parseDurationSeconds(item.ContentDetails.Duration)
	}
	if item.Statistics != nil {
		details.ViewCount = int64(item.Statistics.ViewCount)
		details.LikeCount = int64(item.Statistics.LikeCount)
	}

	return details, nil
}

// MinimalDetails is the degraded record returned when the catalog API is
// unreachable or the video is missing.
func MinimalDetails(videoID string) models.VideoCandidate {
	return models.VideoCandidate{
		VideoID:     videoID,
		Title:       "Video",
		PublishedAt: time.Now(),
		URL:         WatchURL(videoID),
	}
}

// WatchURL returns the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

var durationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

func parseDurationSeconds(duration string) int {
	if duration == "" {
		return 0
	}

	// ISO 8601 duration, e.g. "PT1M30S", "PT45S", "PT2H15M30S"
	matches := durationPattern.FindStringSubmatch(duration)
	if len(matches) == 0 {
		return 0
	}

	var totalSeconds int

	if matches[1] != "" {
		if hours, err := strconv.Atoi(matches[1]); err == nil {
			totalSeconds += hours * 3600
		}
	}
	if matches[2] != "" {
		if minutes, err := strconv.Atoi(matches[2]); err == nil {
			totalSeconds += minutes * 60
		}
	}
	if matches[3] != "" {
		if seconds, err := strconv.Atoi(matches[3]); err == nil {
			totalSeconds += seconds
		}
	}

	return totalSeconds
}
