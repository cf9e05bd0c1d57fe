package models

import "time"

// RunOptions configures a single workflow run. Zero values are replaced by
// configuration defaults before the run starts.
type RunOptions struct {
	MaxResults      int  `json:"max_results"`
	TopCount        int  `json:"top_count"`
	ExtractClip     bool `json:"extract_clip"`
	UploadToYouTube bool `json:"upload_to_youtube"`
	ProcessVideo    bool `json:"process_video"`
}

// RunState is the lifecycle state of a workflow run.
type RunState string

const (
	RunPending   RunState = "pending"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
)

// RunResult is the structured outcome returned to the invoker. A run always
// produces one of these; only hard failures carry Success=false.
type RunResult struct {
	Success bool              `json:"success"`
	Videos  []RankedCandidate `json:"videos,omitempty"`
	Clip    *ClipDescriptor   `json:"clip,omitempty"`
	Message string            `json:"message"`
}

// RunStatus is the pollable view of an asynchronous run.
type RunStatus struct {
	RunID      string     `json:"run_id"`
	State      RunState   `json:"state"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Result     *RunResult `json:"result,omitempty"`
	Error      string     `json:"error,omitempty"`
}
