package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"trendclipper/internal/models"
)

const (
	// promptSegmentLimit bounds request size. Moments beyond the prefix
	// window cannot be discovered; this is a deliberate cost tradeoff.
	promptSegmentLimit = 50

	// defaultWindowSeconds is the synthesized window length used by the
	// repair and fallback paths.
	defaultWindowSeconds = 30.0

	repairReason   = "AI-selected engaging moment"
	fallbackReason = "Fallback: first 30 seconds"
)

const momentSystemInstruction = `You are a short-form video editor. You identify the single most engaging moment in a video transcript. Respond with strict JSON only, no markdown and no commentary.`

// Selector picks the best clip window for a video. A model proposal is used
// when it arrives and validates; otherwise the selector degrades through a
// deterministic repair heuristic down to a fixed first-segment window, so a
// moment is always produced.
type Selector struct {
	generator TextGenerator
	timeout   time.Duration
}

func NewSelector(generator TextGenerator, timeout time.Duration) *Selector {
	return &Selector{
		generator: generator,
		timeout:   timeout,
	}
}

// SelectMoment returns a moment with End strictly greater than Start on
// every path. Model call failure or timeout takes the fallback window from
// the first segment; an unparseable or invalid response takes the repair
// window from the midpoint segment.
func (s *Selector) SelectMoment(ctx context.Context, transcript []models.TranscriptSegment, video models.VideoCandidate) models.MomentCandidate {
	prompt := buildMomentPrompt(transcript, video)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, momentSystemInstruction, prompt)
	if err != nil {
		log.Printf("Warning: moment selection model call failed for %s, using fallback window: %v", video.VideoID, err)
		return fallbackMoment(transcript)
	}

	moment, ok := decodeMoment(raw)
	if !ok {
		log.Printf("Warning: unparseable moment response for %s, using repair window", video.VideoID)
		return repairMoment(transcript)
	}

	if moment.End <= moment.Start {
		log.Printf("Warning: model proposed invalid window [%.1f, %.1f] for %s, using repair window", moment.Start, moment.End, video.VideoID)
		return repairMoment(transcript)
	}

	return moment
}

func buildMomentPrompt(transcript []models.TranscriptSegment, video models.VideoCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Video: %s\n", video.Title)
	fmt.Fprintf(&b, "Channel: %s\n", video.ChannelTitle)
	fmt.Fprintf(&b, "Views: %d, Likes: %d\n\n", video.ViewCount, video.LikeCount)

	if len(transcript) == 0 {
		b.WriteString("No transcript is available for this video.\n")
	} else {
		b.WriteString("Transcript (truncated):\n")
		limit := len(transcript)
		if limit > promptSegmentLimit {
			limit = promptSegmentLimit
		}
		for _, segment := range transcript[:limit] {
			fmt.Fprintf(&b, "[%s] %s\n", formatTimestamp(segment.Start), segment.Text)
		}
	}

	b.WriteString("\nPick the single most engaging 15-60 second moment for a viral short clip.\n")
	b.WriteString(`Respond with JSON: {"start": <seconds>, "end": <seconds>, "text": "<what happens>", "reason": "<why it will perform>"}`)

	return b.String()
}

// momentPayload is the wire shape of a model response. Start and End are
// pointers so a missing field is distinguishable from zero.
type momentPayload struct {
	Start   *float64 `json:"start"`
	End     *float64 `json:"end"`
	Text    string   `json:"text"`
	Reason  string   `json:"reason"`
	Caption string   `json:"caption"`
}

// decodeMoment resolves a response that may be raw JSON, JSON embedded in
// prose, or a {"caption": "..."} envelope around either. Each step is
// total: decode failure yields ok=false, never an error.
func decodeMoment(raw string) (models.MomentCandidate, bool) {
	return decodeMomentDepth(raw, 0)
}

func decodeMomentDepth(raw string, depth int) (models.MomentCandidate, bool) {
	attempts := []string{raw}
	if extracted, ok := extractJSONObject(raw); ok && extracted != raw {
		attempts = append(attempts, extracted)
	}

	for _, attempt := range attempts {
		var payload momentPayload
		if err := json.Unmarshal([]byte(attempt), &payload); err != nil {
			continue
		}

		if payload.Start != nil && payload.End != nil {
			return models.MomentCandidate{
				Start:  *payload.Start,
				End:    *payload.End,
				Text:   payload.Text,
				Reason: payload.Reason,
			}, true
		}

		// Some responses wrap the real payload in a caption envelope.
		// Unwrap once; deeper nesting is treated as garbage.
		if payload.Caption != "" && depth == 0 {
			return decodeMomentDepth(payload.Caption, depth+1)
		}
	}

	return models.MomentCandidate{}, false
}

// extractJSONObject returns the outermost {...} block embedded in prose.
func extractJSONObject(raw string) (string, bool) {
	startIdx := strings.Index(raw, "{")
	endIdx := strings.LastIndex(raw, "}")
	if startIdx == -1 || endIdx <= startIdx {
		return "", false
	}
	return raw[startIdx : endIdx+1], true
}

// repairMoment synthesizes a window from the midpoint transcript segment.
// Used when the model responded but its proposal could not be used.
func repairMoment(transcript []models.TranscriptSegment) models.MomentCandidate {
	var segment models.TranscriptSegment
	if len(transcript) > 0 {
		segment = transcript[len(transcript)/2]
	}

	return models.MomentCandidate{
		Start:  segment.Start,
		End:    segment.Start + defaultWindowSeconds,
		Text:   segment.Text,
		Reason: repairReason,
	}
}

// fallbackMoment synthesizes a window from the first transcript segment.
// Used when the model call itself failed.
func fallbackMoment(transcript []models.TranscriptSegment) models.MomentCandidate {
	var segment models.TranscriptSegment
	if len(transcript) > 0 {
		segment = transcript[0]
	}

	return models.MomentCandidate{
		Start:  segment.Start,
		End:    segment.Start + defaultWindowSeconds,
		Text:   segment.Text,
		Reason: fallbackReason,
	}
}

func formatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
