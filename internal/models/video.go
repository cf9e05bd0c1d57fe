package models

import "time"

// VideoCandidate is a video considered for ranking, as returned by search.
// View and like counts may be stale until the ranking engine enriches them.
type VideoCandidate struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ChannelTitle    string    `json:"channel_title"`
	Thumbnail       string    `json:"thumbnail"`
	PublishedAt     time.Time `json:"published_at"`
	DurationSeconds int       `json:"duration_seconds"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	URL             string    `json:"url"`
}

// TrendMetrics are the derived signals behind a trend score. They are
// recomputed on every scoring call and never persisted on their own.
type TrendMetrics struct {
	ViewsPerHour        float64 `json:"views_per_hour"`
	LikeRatio           float64 `json:"like_ratio"` // likes/views, 0 when views is 0
	RecencyBonus        float64 `json:"recency_bonus"`
	ChannelBonus        float64 `json:"channel_bonus"`
	HoursSincePublished float64 `json:"hours_since_published"`
}

// TrendScore is the composite ranking signal plus a human-readable reason
// for why the video was selected.
type TrendScore struct {
	Score   float64      `json:"score"` // rounded to 2 decimals
	Metrics TrendMetrics `json:"metrics"`
	Reason  string       `json:"reason"`
}

// RankedCandidate is a candidate enriched with fresh metadata and scored.
type RankedCandidate struct {
	VideoCandidate
	Trend TrendScore `json:"trend"`
}
