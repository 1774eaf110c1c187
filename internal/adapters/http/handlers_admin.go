package web

import (
	"net/http"
	"strconv"
	"time"

	"fitpro/internal/adapters/http/perf"
)

// Defaults for the perf snapshot window.
const (
	defaultPerfWindow = time.Hour
	defaultPerfTopN   = 10
)

// handlePerf handles GET /api/admin/perf?window=1h&top=10
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeErrorMessage(w, http.StatusNotFound, "Performance collection is disabled.")
		return
	}

	window := defaultPerfWindow
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "window must be a positive duration such as 15m")
			return
		}
		window = d
	}
	topN := defaultPerfTopN
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "top must be a positive integer")
			return
		}
		topN = n
	}

	// The collector stamps entries with the wall clock.
	snap := s.collector.Snapshot(time.Now().Add(-window), topN)
	writeJSON(w, http.StatusOK, struct {
		Uptime string        `json:"uptime"`
		Perf   perf.Snapshot `json:"perf"`
	}{time.Since(s.startedAt).Round(time.Second).String(), snap})
}
