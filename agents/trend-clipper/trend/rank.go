package trend

import (
	"context"
	"log"
	"sort"
	"time"

	"trendclipper/internal/models"
)

// MetadataFetcher returns fresh details for a single video.
type MetadataFetcher interface {
	VideoDetails(ctx context.Context, videoID string) (models.VideoCandidate, error)
}

// Rank enriches every candidate with fresh metadata, scores it, and returns
// the candidates ordered by trend score, highest first. Candidates whose
// enrichment fails are dropped with a logged cause; one bad candidate never
// aborts ranking of the rest.
//
// Equal scores keep their aggregation order: the sort is stable on the
// input sequence rather than relying on incidental sort behavior.
func Rank(ctx context.Context, fetcher MetadataFetcher, candidates []models.VideoCandidate, now time.Time, popularCreators []string) []models.RankedCandidate {
	ranked := make([]models.RankedCandidate, 0, len(candidates))

	for _, candidate := range candidates {
		if ctx.Err() != nil {
			break
		}

		details, err := fetcher.VideoDetails(ctx, candidate.VideoID)
		if err != nil {
			log.Printf("Skipping video %s: metadata enrichment failed: %v", candidate.VideoID, err)
			continue
		}

		merged := merge(candidate, details)
		ranked = append(ranked, models.RankedCandidate{
			VideoCandidate: merged,
			Trend:          Score(merged, now, popularCreators),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Trend.Score > ranked[j].Trend.Score
	})

	log.Printf("Ranked %d videos", len(ranked))
	return ranked
}

// merge combines a search result with its enriched details. Search snippet
// fields win where both are present; counters and duration always come from
// the enrichment because search results carry stale statistics.
func merge(candidate, details models.VideoCandidate) models.VideoCandidate {
	merged := candidate
	merged.ViewCount = details.ViewCount
	merged.LikeCount = details.LikeCount
	merged.DurationSeconds = details.DurationSeconds

	switch {
	case details.ChannelTitle != "":
		merged.ChannelTitle = details.ChannelTitle
	case candidate.ChannelTitle != "":
		// keep it
	default:
		merged.ChannelTitle = "Unknown"
	}

	if merged.Title == "" {
		merged.Title = details.Title
	}
	if merged.PublishedAt.IsZero() {
		merged.PublishedAt = details.PublishedAt
	}
	if merged.URL == "" {
		merged.URL = details.URL
	}
	return merged
}
