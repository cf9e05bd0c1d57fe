package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"trendclipper/internal/models"
)

const captionSystemInstruction = `You are a social media assistant writing captions for Instagram, TikTok, YouTube Shorts, and Facebook.`

const analysisSystemInstruction = `You are an expert social media content analyst. You analyze viral videos and create engaging short-form content.`

const captionDisplayLength = 100

// Caption asks the model for a short caption for the chosen moment. Soft
// failure: any error degrades to the moment text (truncated) so the clip is
// never left uncaptioned.
func (s *Selector) Caption(ctx context.Context, moment models.MomentCandidate, video models.VideoCandidate) string {
	fallback := truncateDisplay(moment.Text, captionDisplayLength)
	if fallback == "" {
		fallback = truncateDisplay(video.Title, captionDisplayLength)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	prompt := fmt.Sprintf(`Write an engaging caption for a short clip from this video.

Video: %s
Clip moment: %s

Rules:
- Keep the caption under 100 words.
- Write conversationally, in first person.
- Use emojis, but sparingly.

Return JSON: {"caption": ""}`, video.Title, moment.Text)

	raw, err := s.generator.Generate(ctx, captionSystemInstruction, prompt)
	if err != nil {
		log.Printf("Warning: caption generation failed for %s: %v", video.VideoID, err)
		return fallback
	}

	var payload struct {
		Caption string `json:"caption"`
	}
	attempt := raw
	if extracted, ok := extractJSONObject(raw); ok {
		attempt = extracted
	}
	if err := json.Unmarshal([]byte(attempt), &payload); err != nil || payload.Caption == "" {
		// A bare-text reply is still a usable caption.
		if trimmed := strings.TrimSpace(raw); trimmed != "" && !strings.Contains(trimmed, "{") {
			return truncateDisplay(trimmed, captionDisplayLength)
		}
		return fallback
	}

	return payload.Caption
}

// Analyze asks the model for the richer presentation package: trend reason,
// candidate clip ranges, title, subtitle, and hashtags. Unlike moment
// selection it has no synthesized fallback; callers treat an error as
// "no analysis" and resolve the clip from moment and candidate fields.
func (s *Selector) Analyze(ctx context.Context, video models.VideoCandidate, transcript []models.TranscriptSegment) (*models.VideoAnalysis, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, analysisSystemInstruction, buildAnalysisPrompt(video, transcript))
	if err != nil {
		return nil, fmt.Errorf("video analysis failed for %s: %w", video.VideoID, err)
	}

	attempt := raw
	if extracted, ok := extractJSONObject(raw); ok {
		attempt = extracted
	}

	var analysis models.VideoAnalysis
	if err := json.Unmarshal([]byte(attempt), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response for %s: %w", video.VideoID, err)
	}

	for i := range analysis.Clips {
		normalizeClipTimes(&analysis.Clips[i])
	}

	return &analysis, nil
}

func buildAnalysisPrompt(video models.VideoCandidate, transcript []models.TranscriptSegment) string {
	var lines strings.Builder
	limit := len(transcript)
	if limit > promptSegmentLimit {
		limit = promptSegmentLimit
	}
	for _, segment := range transcript[:limit] {
		fmt.Fprintf(&lines, "[%ds] %s\n", int(segment.Start), segment.Text)
	}

	return fmt.Sprintf(`Analyze this video and provide the best content for a viral short.

Video Title: %s
Views: %d
Likes: %d
Channel: %s

Transcript:
%s
Your task:
1. Explain why this video is trending (1-2 sentences)
2. Find the best 1-3 timestamp ranges for 15-30 second clips
3. Create a catchy top title (one line, 80-120 characters) with emojis
4. Suggest 3-5 relevant hashtags

Return ONLY valid JSON in this exact format:
{
  "reason": "Why this video is trending...",
  "clips": [
    {"start": "00:02", "end": "00:22", "startSeconds": 2, "endSeconds": 22, "reason": "Funny reaction moment"}
  ],
  "title": "Catchy title with emojis",
  "subtitle": "Supporting hook line",
  "hashtags": ["#viral", "#shorts", "#trending"]
}

Important:
- Include emojis in the title
- Clips should be 15-30 seconds each
- Start/end times in "MM:SS" format AND as startSeconds/endSeconds numbers
- Choose moments with emotional peaks, humor, or unexpected reactions`,
		video.Title, video.ViewCount, video.LikeCount, video.ChannelTitle, lines.String())
}

// normalizeClipTimes fills the numeric fields from "MM:SS" strings when the
// model only returned one representation.
func normalizeClipTimes(clip *models.AnalysisClip) {
	if clip.StartSeconds == 0 && clip.Start != "" {
		clip.StartSeconds = parseClock(clip.Start)
	}
	if clip.EndSeconds == 0 && clip.End != "" {
		clip.EndSeconds = parseClock(clip.End)
	}
}

func parseClock(clock string) float64 {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return float64(minutes*60 + seconds)
}

func truncateDisplay(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}
