package trend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"trendclipper/internal/models"
)

// recencyWindowHours is the decay window for the recency bonus: a video
// published right now scores 1.0, one published 7 days ago scores 0.
const recencyWindowHours = 168

// Score computes the trend score and supporting metrics for a candidate.
// It is a pure function of its inputs: no I/O, no clock access beyond the
// supplied now, deterministic for identical arguments.
//
// Degenerate inputs fail open: a zero publish time is treated as "published
// now", and non-positive elapsed time yields zero views/hour rather than a
// division blowup.
func Score(candidate models.VideoCandidate, now time.Time, popularCreators []string) models.TrendScore {
	views := float64(candidate.ViewCount)
	likes := float64(candidate.LikeCount)

	publishedAt := candidate.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = now
	}
	hours := now.Sub(publishedAt).Hours()
	if hours < 0 {
		// Clock skew or a publish time in the future.
		hours = 0
	}

	viewsPerHour := 0.0
	if hours > 0 {
		viewsPerHour = views / hours
	}

	likeRatio := 0.0
	if views > 0 {
		likeRatio = likes / views
	}

	recencyBonus := math.Max(0, recencyWindowHours-hours) / recencyWindowHours

	channelBonus := 1.0
	channel := strings.ToLower(candidate.ChannelTitle)
	for _, creator := range popularCreators {
		if strings.Contains(channel, strings.ToLower(creator)) {
			channelBonus = 1.5
			break
		}
	}

	score := (viewsPerHour*0.4 +
		likeRatio*1000*0.3 +
		recencyBonus*100*0.2 +
		views/10000*0.1) * channelBonus

	metrics := models.TrendMetrics{
		ViewsPerHour:        viewsPerHour,
		LikeRatio:           likeRatio,
		RecencyBonus:        recencyBonus,
		ChannelBonus:        channelBonus,
		HoursSincePublished: hours,
	}

	return models.TrendScore{
		Score:   math.Round(score*100) / 100,
		Metrics: metrics,
		Reason:  selectionReason(candidate, metrics),
	}
}

// selectionReason picks the single human-readable explanation for a score.
// The branches are checked in priority order and the first match wins.
func selectionReason(candidate models.VideoCandidate, m models.TrendMetrics) string {
	switch {
	case m.ViewsPerHour > 1000:
		return fmt.Sprintf("Spike in views: %.0f views/hour", m.ViewsPerHour)
	case m.LikeRatio > 0.05:
		return fmt.Sprintf("High engagement: %.2f%% like ratio", m.LikeRatio*100)
	case m.HoursSincePublished < 24:
		return fmt.Sprintf("Recent upload: %.0f hours ago", m.HoursSincePublished)
	case m.ChannelBonus > 1:
		return "Popular creator content"
	default:
		return fmt.Sprintf("Trending content with %d views", candidate.ViewCount)
	}
}
