package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"trendclipper/internal/models"
)

type fakeGenerator struct {
	response string
	err      error
	delay    time.Duration
	prompts  []string
}

func (f *fakeGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func sampleTranscript() []models.TranscriptSegment {
	return []models.TranscriptSegment{
		{Start: 0, Duration: 30, Text: "intro"},
		{Start: 30, Duration: 30, Text: "middle"},
		{Start: 60, Duration: 30, Text: "ending"},
	}
}

func TestSelectMomentAcceptsValidResponse(t *testing.T) {
	gen := &fakeGenerator{response: `{"start": 45, "end": 90, "text": "big play", "reason": "crowd goes wild"}`}
	selector := NewSelector(gen, 0)

	moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{VideoID: "v1"})

	if moment.Start != 45 || moment.End != 90 {
		t.Errorf("moment window = [%v, %v], want [45, 90]", moment.Start, moment.End)
	}
	if moment.Reason != "crowd goes wild" {
		t.Errorf("reason = %q, want model reason verbatim", moment.Reason)
	}
}

func TestSelectMomentFallbackOnModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("rate limited")}
	selector := NewSelector(gen, 0)

	moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{VideoID: "v1"})

	if moment.Start != 0 || moment.End != 30 {
		t.Errorf("fallback window = [%v, %v], want [0, 30]", moment.Start, moment.End)
	}
	if moment.Reason != "Fallback: first 30 seconds" {
		t.Errorf("reason = %q", moment.Reason)
	}
}

func TestSelectMomentRepairOnUnparseableResponse(t *testing.T) {
	gen := &fakeGenerator{response: "I think the best moment is around the middle somewhere"}
	selector := NewSelector(gen, 0)

	moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{VideoID: "v1"})

	if moment.Start != 30 || moment.End != 60 {
		t.Errorf("repair window = [%v, %v], want midpoint [30, 60]", moment.Start, moment.End)
	}
	if moment.Reason != "AI-selected engaging moment" {
		t.Errorf("reason = %q", moment.Reason)
	}
}

func TestSelectMomentRepairOnInvalidWindow(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"end equals start", `{"start": 10, "end": 10}`},
		{"end before start", `{"start": 50, "end": 20}`},
		{"missing end", `{"start": 10, "text": "x"}`},
		{"missing start", `{"end": 40}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{response: tt.response}
			selector := NewSelector(gen, 0)

			moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{})
			if moment.Reason != "AI-selected engaging moment" {
				t.Errorf("expected repair path, got reason %q", moment.Reason)
			}
			if moment.End <= moment.Start {
				t.Errorf("repair must preserve End > Start, got [%v, %v]", moment.Start, moment.End)
			}
		})
	}
}

func TestSelectMomentTimeoutFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: `{"start": 45, "end": 90}`, delay: 200 * time.Millisecond}
	selector := NewSelector(gen, 10*time.Millisecond)

	moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{})

	if moment.Reason != "Fallback: first 30 seconds" {
		t.Errorf("timeout should take fallback path, got reason %q", moment.Reason)
	}
}

func TestSelectMomentEmptyTranscript(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"fallback path", &fakeGenerator{err: errors.New("down")}},
		{"repair path", &fakeGenerator{response: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := NewSelector(tt.gen, 0)
			moment := selector.SelectMoment(context.Background(), nil, models.VideoCandidate{})

			if moment.Start != 0 || moment.End != 30 {
				t.Errorf("empty transcript window = [%v, %v], want [0, 30]", moment.Start, moment.End)
			}
		})
	}
}

func TestSelectMomentEndAlwaysAfterStart(t *testing.T) {
	// The invariant must hold across accept, repair, and fallback paths.
	generators := []*fakeGenerator{
		{response: `{"start": 12, "end": 40}`},
		{response: "garbage"},
		{err: errors.New("unreachable")},
	}

	for i, gen := range generators {
		selector := NewSelector(gen, 0)
		moment := selector.SelectMoment(context.Background(), sampleTranscript(), models.VideoCandidate{})
		if !(moment.End > moment.Start) {
			t.Errorf("generator %d: End (%v) must exceed Start (%v)", i, moment.End, moment.Start)
		}
	}
}

func TestDecodeMoment(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOK    bool
		wantStart float64
		wantEnd   float64
	}{
		{"raw json", `{"start": 1, "end": 2}`, true, 1, 2},
		{"json in prose", "Here you go:\n```json\n{\"start\": 5, \"end\": 25}\n```", true, 5, 25},
		{"caption envelope", `{"caption": "{\"start\": 3, \"end\": 9}"}`, true, 3, 9},
		{"plain text", "no structure here", false, 0, 0},
		{"empty envelope", `{"caption": "still not json"}`, false, 0, 0},
		{"non-numeric fields", `{"start": "a", "end": "b"}`, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			moment, ok := decodeMoment(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("decodeMoment ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && (moment.Start != tt.wantStart || moment.End != tt.wantEnd) {
				t.Errorf("window = [%v, %v], want [%v, %v]", moment.Start, moment.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBuildMomentPromptTruncatesSegments(t *testing.T) {
	transcript := make([]models.TranscriptSegment, 80)
	for i := range transcript {
		transcript[i] = models.TranscriptSegment{Start: float64(i * 10), Text: fmt.Sprintf("segment %d", i)}
	}

	prompt := buildMomentPrompt(transcript, models.VideoCandidate{Title: "Long VOD"})

	if !strings.Contains(prompt, "[08:10] segment 49") {
		t.Error("prompt should include segment 49")
	}
	if strings.Contains(prompt, "segment 50") {
		t.Error("prompt should not include segments beyond the prefix window")
	}
	if !strings.Contains(prompt, "[00:30] segment 3") {
		t.Error("timestamps should render as mm:ss")
	}
}

func TestCaptionFallsBackToMomentText(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	selector := NewSelector(gen, 0)

	caption := selector.Caption(context.Background(), models.MomentCandidate{Text: "wild reaction"}, models.VideoCandidate{Title: "Stream"})
	if caption != "wild reaction" {
		t.Errorf("caption = %q, want moment text fallback", caption)
	}
}

func TestCaptionParsesEnvelope(t *testing.T) {
	gen := &fakeGenerator{response: `{"caption": "You will not believe this one 🔥"}`}
	selector := NewSelector(gen, 0)

	caption := selector.Caption(context.Background(), models.MomentCandidate{Text: "x"}, models.VideoCandidate{})
	if caption != "You will not believe this one 🔥" {
		t.Errorf("caption = %q", caption)
	}
}

func TestAnalyzeNormalizesClipTimes(t *testing.T) {
	gen := &fakeGenerator{response: `{
		"reason": "big moment",
		"clips": [{"start": "01:05", "end": "01:30", "reason": "peak"}],
		"title": "TITLE",
		"subtitle": "sub",
		"hashtags": ["#viral"]
	}`}
	selector := NewSelector(gen, 0)

	analysis, err := selector.Analyze(context.Background(), models.VideoCandidate{VideoID: "v1"}, nil)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}

	if len(analysis.Clips) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(analysis.Clips))
	}
	if analysis.Clips[0].StartSeconds != 65 || analysis.Clips[0].EndSeconds != 90 {
		t.Errorf("normalized times = %v/%v, want 65/90", analysis.Clips[0].StartSeconds, analysis.Clips[0].EndSeconds)
	}
}

func TestAnalyzeErrorOnModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	selector := NewSelector(gen, 0)

	if _, err := selector.Analyze(context.Background(), models.VideoCandidate{VideoID: "v1"}, nil); err == nil {
		t.Error("expected error when model call fails")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		clock    string
		expected float64
	}{
		{"00:02", 2},
		{"01:30", 90},
		{"10:00", 600},
		{"garbage", 0},
		{"1:2:3", 0},
	}

	for _, tt := range tests {
		if got := parseClock(tt.clock); got != tt.expected {
			t.Errorf("parseClock(%q) = %v, want %v", tt.clock, got, tt.expected)
		}
	}
}
