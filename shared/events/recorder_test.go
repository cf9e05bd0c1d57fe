package events

import "testing"

func TestRecorderKeepsNewestFirst(t *testing.T) {
	r := NewRecorder(10)
	r.Record(TypeSearch, "run-1", "first")
	r.Record(TypeClip, "run-1", "second")

	got := r.Events(Filter{})
	if len(got) != 2 {
		t.Fatalf("Events() returned %d events, want 2", len(got))
	}
	if got[0].Message != "second" || got[1].Message != "first" {
		t.Errorf("events not newest-first: got %q then %q", got[0].Message, got[1].Message)
	}
}

func TestRecorderEvictsBeyondCapacity(t *testing.T) {
	r := NewRecorder(3)
	for i := 0; i < 5; i++ {
		r.Record(TypeProcessing, "", "event %d", i)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	got := r.Events(Filter{})
	if got[0].Message != "event 4" {
		t.Errorf("newest event = %q, want %q", got[0].Message, "event 4")
	}
	if got[2].Message != "event 2" {
		t.Errorf("oldest kept event = %q, want %q", got[2].Message, "event 2")
	}
}

func TestRecorderFiltering(t *testing.T) {
	r := NewRecorder(10)
	r.Record(TypeSearch, "run-a", "search a")
	r.Record(TypeError, "run-a", "error a")
	r.Record(TypeSearch, "run-b", "search b")

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"by run", Filter{RunID: "run-a"}, []string{"error a", "search a"}},
		{"by type", Filter{Type: TypeSearch}, []string{"search b", "search a"}},
		{"by run and type", Filter{RunID: "run-a", Type: TypeSearch}, []string{"search a"}},
		{"with limit", Filter{Limit: 1}, []string{"search b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Events(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("Events() returned %d events, want %d", len(got), len(tt.want))
			}
			for i, want := range tt.want {
				if got[i].Message != want {
					t.Errorf("event %d = %q, want %q", i, got[i].Message, want)
				}
			}
		})
	}
}

func TestRecorderClear(t *testing.T) {
	r := NewRecorder(10)
	r.Record(TypeSuccess, "", "done")
	r.Clear()

	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", r.Len())
	}
}
