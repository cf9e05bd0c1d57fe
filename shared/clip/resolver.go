// Package clip assembles the final clip descriptor from ranking and moment
// selection output. Pure assembly, no I/O.
package clip

import (
	"strings"

	"trendclipper/internal/models"
)

const (
	// MinDurationSeconds and MaxDurationSeconds bound a publishable clip.
	MinDurationSeconds = 15.0
	MaxDurationSeconds = 60.0

	captionDisplayLength = 100

	defaultTitle = "Viral Moment"
)

// DefaultHashtags is used when no analysis supplied its own set.
var DefaultHashtags = []string{"#viral", "#shorts", "#trending"}

// Resolve combines the top-ranked candidate and its selected moment into a
// clip descriptor. Duration is clamped to [15, 60] seconds; when clamping
// changes the window, the end moves and the start stays put. The analysis
// is optional and only decorates presentation fields.
func Resolve(top models.RankedCandidate, moment models.MomentCandidate, analysis *models.VideoAnalysis) models.ClipDescriptor {
	duration := clampDuration(moment.End - moment.Start)

	descriptor := models.ClipDescriptor{
		VideoID:   top.VideoID,
		VideoURL:  top.URL,
		StartTime: moment.Start,
		EndTime:   moment.Start + duration,
		Duration:  duration,
		Text:      moment.Text,
		Caption:   resolveCaption(top, moment, analysis),
		Reason:    moment.Reason,
		Title:     resolveCaption(top, moment, analysis),
		Hashtags:  resolveHashtags(analysis),
	}

	if analysis != nil {
		descriptor.Subtitle = analysis.Subtitle
		if analysis.Reason != "" {
			descriptor.Reason = analysis.Reason
		}
	}

	return descriptor
}

func clampDuration(duration float64) float64 {
	if duration < MinDurationSeconds {
		return MinDurationSeconds
	}
	if duration > MaxDurationSeconds {
		return MaxDurationSeconds
	}
	return duration
}

// resolveCaption picks the display title by precedence: analysis title,
// then moment text, then candidate title, then a fixed default.
func resolveCaption(top models.RankedCandidate, moment models.MomentCandidate, analysis *models.VideoAnalysis) string {
	if analysis != nil && strings.TrimSpace(analysis.Title) != "" {
		return strings.TrimSpace(analysis.Title)
	}
	if text := strings.TrimSpace(moment.Text); text != "" {
		return truncateDisplay(text, captionDisplayLength)
	}
	if title := strings.TrimSpace(top.Title); title != "" {
		return title
	}
	return defaultTitle
}

func resolveHashtags(analysis *models.VideoAnalysis) []string {
	if analysis != nil && len(analysis.Hashtags) > 0 {
		return analysis.Hashtags
	}
	tags := make([]string, len(DefaultHashtags))
	copy(tags, DefaultHashtags)
	return tags
}

func truncateDisplay(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
