package trend

import (
	"context"
	"log"

	"trendclipper/internal/models"
)

// Searcher issues a single candidate search against the video catalog.
type Searcher interface {
	SearchCandidates(ctx context.Context, query string, limit int) ([]models.VideoCandidate, error)
}

// maxQueriesPerRun bounds the number of search calls issued per aggregation
// to stay inside API quota. The first N queries are used, never a random
// subset.
const maxQueriesPerRun = 5

// Aggregate runs the configured search queries sequentially, de-duplicates
// results by video ID and caps the combined set at totalCap.
//
// A failing query is logged and skipped; aggregation succeeds with whatever
// the remaining queries returned. The result is empty only when every query
// failed or returned nothing. When the same video appears under multiple
// queries, the output keeps its first-occurrence position but the most
// recently seen attributes.
func Aggregate(ctx context.Context, searcher Searcher, queries []string, totalCap int) []models.VideoCandidate {
	if totalCap < 1 || len(queries) == 0 {
		return nil
	}

	// Spread the cap across the full query list, even though only the
	// first few queries are issued.
	perQuery := (totalCap + len(queries) - 1) / len(queries)

	active := queries
	if len(active) > maxQueriesPerRun {
		active = active[:maxQueriesPerRun]
	}

	var order []string
	byID := make(map[string]models.VideoCandidate)

	for _, query := range active {
		if ctx.Err() != nil {
			break
		}

		results, err := searcher.SearchCandidates(ctx, query, perQuery)
		if err != nil {
			log.Printf("Search %q failed: %v", query, err)
			continue
		}

		for _, candidate := range results {
			if _, seen := byID[candidate.VideoID]; !seen {
				order = append(order, candidate.VideoID)
			}
			byID[candidate.VideoID] = candidate
		}
	}

	unique := make([]models.VideoCandidate, 0, len(order))
	for _, id := range order {
		unique = append(unique, byID[id])
	}

	if len(unique) > totalCap {
		unique = unique[:totalCap]
	}

	log.Printf("Aggregated %d unique candidates from %d queries", len(unique), len(active))
	return unique
}
