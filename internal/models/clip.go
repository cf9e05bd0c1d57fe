package models

// ClipDescriptor is the finalized clip window plus presentation metadata,
// ready to hand to the media processor and uploader. It is assembled once
// per workflow run for the top-ranked candidate.
type ClipDescriptor struct {
	VideoID   string   `json:"video_id"`
	VideoURL  string   `json:"video_url"`
	StartTime float64  `json:"start_time"` // seconds
	EndTime   float64  `json:"end_time"`   // seconds
	Duration  float64  `json:"duration"`   // seconds, clamped to [15,60]
	Text      string   `json:"text"`
	Caption   string   `json:"caption"`
	Subtitle  string   `json:"subtitle"`
	Reason    string   `json:"reason"`
	Title     string   `json:"title"`
	Hashtags  []string `json:"hashtags"`
}

// AnalysisClip is one timestamp range proposed by the video analysis.
type AnalysisClip struct {
	Start        string  `json:"start"` // "MM:SS"
	End          string  `json:"end"`   // "MM:SS"
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
	Reason       string  `json:"reason"`
}

// VideoAnalysis is the richer model output used to decorate a clip with a
// title, subtitle and hashtags. It is optional; the clip resolver falls
// back to moment and candidate fields when it is absent.
type VideoAnalysis struct {
	Reason   string         `json:"reason"`
	Clips    []AnalysisClip `json:"clips"`
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Hashtags []string       `json:"hashtags"`
}
