package trend

import (
	"math"
	"strings"
	"testing"
	"time"

	"trendclipper/internal/models"
)

var creators = []string{"MrBeast", "xQc", "Kai Cenat"}

func candidate(views, likes int64, publishedAgo time.Duration, channel string, now time.Time) models.VideoCandidate {
	return models.VideoCandidate{
		VideoID:      "vid-1",
		Title:        "Test video",
		ChannelTitle: channel,
		ViewCount:    views,
		LikeCount:    likes,
		PublishedAt:  now.Add(-publishedAgo),
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := candidate(100000, 8000, 10*time.Hour, "Some Channel", now)

	first := Score(c, now, creators)
	second := Score(c, now, creators)

	if first != second {
		t.Errorf("Score() not deterministic: %+v vs %+v", first, second)
	}
}

func TestScoreJustPublishedHasZeroViewsPerHour(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := candidate(500000, 1000, 0, "Channel", now)

	got := Score(c, now, creators)

	if got.Metrics.ViewsPerHour != 0 {
		t.Errorf("ViewsPerHour = %v, want 0 for a just-published video", got.Metrics.ViewsPerHour)
	}
	if math.IsNaN(got.Score) || math.IsInf(got.Score, 0) {
		t.Errorf("Score = %v, want a finite number", got.Score)
	}
}

func TestScoreZeroViewsHasZeroLikeRatio(t *testing.T) {
	now := time.Now()
	c := candidate(0, 0, time.Hour, "Channel", now)

	got := Score(c, now, creators)
	if got.Metrics.LikeRatio != 0 {
		t.Errorf("LikeRatio = %v, want 0 when views is 0", got.Metrics.LikeRatio)
	}
}

func TestScoreRecencyBonusBounds(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ago  time.Duration
	}{
		{"just published", 0},
		{"one day old", 24 * time.Hour},
		{"one week old", 168 * time.Hour},
		{"one month old", 30 * 24 * time.Hour},
		{"future publish time", -2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(candidate(1000, 50, tt.ago, "Channel", now), now, creators)
			bonus := got.Metrics.RecencyBonus
			if bonus < 0 || bonus > 1 {
				t.Errorf("RecencyBonus = %v, want value in [0,1]", bonus)
			}
		})
	}
}

func TestScoreZeroPublishTimeTreatedAsNow(t *testing.T) {
	now := time.Now()
	c := models.VideoCandidate{VideoID: "vid-1", ViewCount: 9000}

	got := Score(c, now, creators)

	if got.Metrics.ViewsPerHour != 0 {
		t.Errorf("ViewsPerHour = %v, want 0 for a zero publish time", got.Metrics.ViewsPerHour)
	}
	if got.Metrics.RecencyBonus != 1 {
		t.Errorf("RecencyBonus = %v, want 1 (no decay) for a zero publish time", got.Metrics.RecencyBonus)
	}
}

func TestScoreChannelBonus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		channel string
		want    float64
	}{
		{"exact creator name", "MrBeast", 1.5},
		{"case insensitive", "MRBEAST", 1.5},
		{"creator name within channel title", "xQc Clips Daily", 1.5},
		{"unknown channel", "Random Channel", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(candidate(1000, 10, time.Hour, tt.channel, now), now, creators)
			if got.Metrics.ChannelBonus != tt.want {
				t.Errorf("ChannelBonus = %v, want %v", got.Metrics.ChannelBonus, tt.want)
			}
		})
	}
}

func TestScoreRoundedToTwoDecimals(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	got := Score(candidate(123457, 9871, 13*time.Hour, "Channel", now), now, creators)

	rounded := math.Round(got.Score*100) / 100
	if got.Score != rounded {
		t.Errorf("Score = %v, want a value rounded to 2 decimals", got.Score)
	}
}

func TestSelectionReasonPriority(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		views      int64
		likes      int64
		ago        time.Duration
		channel    string
		wantPrefix string
	}{
		{
			// Both the spike and engagement branches match; the spike
			// branch must win because it is checked first.
			name:       "view spike beats engagement",
			views:      20000,
			likes:      2000, // 10% like ratio
			ago:        10 * time.Hour,
			channel:    "Channel",
			wantPrefix: "Spike in views:",
		},
		{
			name:       "engagement beats recency",
			views:      100,
			likes:      10,
			ago:        2 * time.Hour,
			channel:    "Channel",
			wantPrefix: "High engagement:",
		},
		{
			name:       "recency beats popular creator",
			views:      100,
			likes:      1,
			ago:        3 * time.Hour,
			channel:    "MrBeast",
			wantPrefix: "Recent upload:",
		},
		{
			name:       "popular creator",
			views:      100,
			likes:      1,
			ago:        48 * time.Hour,
			channel:    "MrBeast",
			wantPrefix: "Popular creator content",
		},
		{
			name:       "generic fallback",
			views:      100,
			likes:      1,
			ago:        48 * time.Hour,
			channel:    "Channel",
			wantPrefix: "Trending content with",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(candidate(tt.views, tt.likes, tt.ago, tt.channel, now), now, creators)
			if !strings.HasPrefix(got.Reason, tt.wantPrefix) {
				t.Errorf("Reason = %q, want prefix %q", got.Reason, tt.wantPrefix)
			}
		})
	}
}
