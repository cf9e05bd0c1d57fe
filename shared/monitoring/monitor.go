package monitoring

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Monitor tracks the health of the most recent workflow run. Runs can be
// triggered concurrently from the scheduler and the run registry, so state
// is guarded.
type Monitor struct {
	mu             sync.RWMutex
	lastRunSuccess bool
	lastRunTime    time.Time
	totalRuns      int
	failedRuns     int
	clipsCreated   int
}

func NewMonitor() *Monitor {
	return &Monitor{}
}

func (m *Monitor) RecordSuccess(summary string, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = true
	m.lastRunTime = time.Now()
	m.totalRuns++
	m.mu.Unlock()

	log.Printf("✅ Run completed successfully - %s (took %v)", summary, duration)
}

func (m *Monitor) RecordPartialFailure(err error, duration time.Duration) {
	// Partial failures do not flip the health status
	log.Printf("⚠️  PARTIAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

func (m *Monitor) RecordCriticalFailure(err error, duration time.Duration) {
	m.mu.Lock()
	m.lastRunSuccess = false
	m.lastRunTime = time.Now()
	m.totalRuns++
	m.failedRuns++
	m.mu.Unlock()

	log.Printf("🚨 CRITICAL FAILURE: %s (Duration: %v)", err.Error(), duration)
}

// RecordClip counts a successfully rendered clip.
func (m *Monitor) RecordClip() {
	m.mu.Lock()
	m.clipsCreated++
	m.mu.Unlock()
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No runs yet, assume healthy
	}

	return m.lastRunSuccess
}

func (m *Monitor) GetStatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return "No runs yet"
	}

	state := "✅ Last run"
	if !m.lastRunSuccess {
		state = "❌ Last run failed"
	}
	return fmt.Sprintf("%s: %s (%d runs, %d failed, %d clips)",
		state, m.lastRunTime.Format("Jan 2 15:04"), m.totalRuns, m.failedRuns, m.clipsCreated)
}
