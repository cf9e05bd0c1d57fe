package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ClipTracker keeps a persistent record of videos that already produced a
// clip so scheduled runs do not re-clip the same source.
type ClipTracker struct {
	filePath   string
	clippedIDs map[string]time.Time
	mu         sync.RWMutex
	maxAge     time.Duration
}

// clippedVideo is the on-disk record of one processed source video.
type clippedVideo struct {
	VideoID   string    `json:"video_id"`
	ClippedAt time.Time `json:"clipped_at"`
}

// NewClipTracker creates a tracker backed by a JSON file under dataDir.
// Entries older than maxAge are dropped on load so a source video becomes
// eligible again once its record expires.
func NewClipTracker(dataDir string, maxAge time.Duration) (*ClipTracker, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	tracker := &ClipTracker{
		filePath:   filepath.Join(dataDir, "clipped_videos.json"),
		clippedIDs: make(map[string]time.Time),
		maxAge:     maxAge,
	}

	if err := tracker.load(); err != nil {
		return nil, fmt.Errorf("failed to load clip tracker data: %w", err)
	}

	tracker.cleanup()

	return tracker, nil
}

// IsProcessed reports whether a clip was produced from this video recently.
func (ct *ClipTracker) IsProcessed(videoID string) bool {
	ct.mu.RLock()
	defer ct.mu.RUnlock()

	clippedAt, exists := ct.clippedIDs[videoID]
	if !exists {
		return false
	}

	return time.Since(clippedAt) < ct.maxAge
}

// MarkProcessed records that a clip was produced from this video.
func (ct *ClipTracker) MarkProcessed(videoID string) error {
	ct.mu.Lock()
	defer ct.mu.Unlock()

	ct.clippedIDs[videoID] = time.Now()
	return ct.save()
}

// ProcessedCount returns the number of tracked videos.
func (ct *ClipTracker) ProcessedCount() int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return len(ct.clippedIDs)
}

func (ct *ClipTracker) cleanup() {
	cutoff := time.Now().Add(-ct.maxAge)

	for videoID, clippedAt := range ct.clippedIDs {
		if clippedAt.Before(cutoff) {
			delete(ct.clippedIDs, videoID)
		}
	}
}

func (ct *ClipTracker) load() error {
	file, err := os.Open(ct.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open tracker file: %w", err)
	}
	defer file.Close()

	var records []clippedVideo
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		return fmt.Errorf("failed to decode tracker data: %w", err)
	}

	for _, record := range records {
		ct.clippedIDs[record.VideoID] = record.ClippedAt
	}

	return nil
}

func (ct *ClipTracker) save() error {
	records := make([]clippedVideo, 0, len(ct.clippedIDs))
	for videoID, clippedAt := range ct.clippedIDs {
		records = append(records, clippedVideo{
			VideoID:   videoID,
			ClippedAt: clippedAt,
		})
	}

	file, err := os.Create(ct.filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
