package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"trendclipper/shared/events"
)

// HealthServer exposes /health for probes and /status for humans. The
// status payload includes the recent workflow events when a recorder is
// attached.
type HealthServer struct {
	monitor  *Monitor
	recorder *events.Recorder
	port     string
}

func NewHealthServer(monitor *Monitor, recorder *events.Recorder, port string) *HealthServer {
	if port == "" {
		port = "8080"
	}
	return &HealthServer{
		monitor:  monitor,
		recorder: recorder,
		port:     port,
	}
}

func (h *HealthServer) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.healthHandler)
	mux.HandleFunc("/status", h.statusHandler)

	log.Printf("Health check server starting on port %s", h.port)
	go func() {
		if err := http.ListenAndServe(":"+h.port, mux); err != nil {
			log.Printf("Health server error: %v", err)
		}
	}()
}

func (h *HealthServer) healthHandler(w http.ResponseWriter, r *http.Request) {
	if h.monitor.IsHealthy() {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK - %s", h.monitor.GetStatusSummary())
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, "Service unhealthy - %s", h.monitor.GetStatusSummary())
	}
}

func (h *HealthServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Healthy bool           `json:"healthy"`
		Summary string         `json:"summary"`
		Events  []events.Event `json:"events,omitempty"`
	}{
		Healthy: h.monitor.IsHealthy(),
		Summary: h.monitor.GetStatusSummary(),
	}

	if h.recorder != nil {
		payload.Events = h.recorder.Events(events.Filter{Limit: 50})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode status response: %v", err)
	}
}
