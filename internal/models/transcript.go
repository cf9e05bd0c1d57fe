package models

// TranscriptSegment is a single timestamped caption line. Segments arrive
// ordered by start time; gaps and overlaps between segments are tolerated.
type TranscriptSegment struct {
	Start    float64 `json:"start"`    // seconds
	Duration float64 `json:"duration"` // seconds
	Text     string  `json:"text"`
}

// MomentCandidate is a proposed clip window within a video.
// End is always strictly greater than Start by the time it leaves the
// moment selector.
type MomentCandidate struct {
	Start  float64 `json:"start"` // seconds
	End    float64 `json:"end"`   // seconds
	Text   string  `json:"text"`
	Reason string  `json:"reason"`
}
