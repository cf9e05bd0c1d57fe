package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseTimedtext(t *testing.T) {
	payload := []byte(`{
		"events": [
			{"tStartMs": 0, "dDurationMs": 2500, "segs": [{"utf8": "hello "}, {"utf8": "world"}]},
			{"tStartMs": 2500, "dDurationMs": 1000},
			{"tStartMs": 3500, "dDurationMs": 2000, "segs": [{"utf8": "second line\n"}]}
		]
	}`)

	segments, err := parseTimedtext(payload)
	if err != nil {
		t.Fatalf("parseTimedtext returned error: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments (metadata event skipped), got %d", len(segments))
	}

	if segments[0].Start != 0 || segments[0].Duration != 2.5 {
		t.Errorf("segment 0 timing = %v/%v, want 0/2.5", segments[0].Start, segments[0].Duration)
	}
	if segments[0].Text != "hello world" {
		t.Errorf("segment 0 text = %q, want %q", segments[0].Text, "hello world")
	}
	if segments[1].Start != 3.5 {
		t.Errorf("segment 1 start = %v, want 3.5", segments[1].Start)
	}
	if segments[1].Text != "second line" {
		t.Errorf("segment 1 text should be trimmed, got %q", segments[1].Text)
	}
}

func TestParseTimedtextInvalidJSON(t *testing.T) {
	if _, err := parseTimedtext([]byte("<html>not json</html>")); err == nil {
		t.Error("expected error for non-JSON payload")
	}
}

func TestTranscriptSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "vid1" {
			t.Errorf("unexpected video ID: %q", r.URL.Query().Get("v"))
		}
		if r.URL.Query().Get("fmt") != "json3" {
			t.Errorf("unexpected format: %q", r.URL.Query().Get("fmt"))
		}
		w.Write([]byte(`{"events": [{"tStartMs": 1000, "dDurationMs": 3000, "segs": [{"utf8": "caption text"}]}]}`))
	}))
	defer server.Close()

	client := NewTranscriptClient()
	client.baseURL = server.URL

	segments := client.Transcript(context.Background(), "vid1")
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Start != 1.0 || segments[0].Text != "caption text" {
		t.Errorf("unexpected segment: %+v", segments[0])
	}
}

func TestTranscriptUnavailableReturnsNil(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"not found", http.StatusNotFound},
		{"rate limited", http.StatusTooManyRequests},
		{"server error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewTranscriptClient()
			client.baseURL = server.URL

			if segments := client.Transcript(context.Background(), "vid1"); segments != nil {
				t.Errorf("expected nil segments, got %v", segments)
			}
		})
	}
}

func TestTranscriptEmptyVideoID(t *testing.T) {
	client := NewTranscriptClient()
	if segments := client.Transcript(context.Background(), ""); segments != nil {
		t.Errorf("expected nil for empty video ID, got %v", segments)
	}
}
