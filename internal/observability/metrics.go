package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
)

// Metrics tracks operational counters for the dashboard client.
type Metrics struct {
	// Poll metrics
	PollsTotal   atomic.Int64
	PollsFailed  atomic.Int64
	StaleDropped atomic.Int64

	// Interaction metrics
	SearchesFired atomic.Int64
	PageSwitches  atomic.Int64

	// Refresh metrics
	RefreshAttempts atomic.Int64
	RefreshDeclined atomic.Int64
	RefreshFailed   atomic.Int64

	Renders atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	metrics := []struct {
		name  string
		help  string
		value int64
	}{
		{"scrapewatch_polls_total", "Total status fetches issued", m.PollsTotal.Load()},
		{"scrapewatch_polls_failed_total", "Total status fetches that failed", m.PollsFailed.Load()},
		{"scrapewatch_stale_responses_dropped_total", "Responses discarded because a newer one was applied", m.StaleDropped.Load()},
		{"scrapewatch_searches_total", "Debounced searches fired", m.SearchesFired.Load()},
		{"scrapewatch_page_switches_total", "Page changes requested", m.PageSwitches.Load()},
		{"scrapewatch_refresh_attempts_total", "Confirmed restart requests", m.RefreshAttempts.Load()},
		{"scrapewatch_refresh_declined_total", "Restart prompts declined", m.RefreshDeclined.Load()},
		{"scrapewatch_refresh_failed_total", "Restart requests that failed", m.RefreshFailed.Load()},
		{"scrapewatch_renders_total", "Views handed to the renderer", m.Renders.Load()},
	}

	for _, metric := range metrics {
		fmt.Fprintf(w, "# HELP %s %s\n", metric.name, metric.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", metric.name)
		fmt.Fprintf(w, "%s %d\n", metric.name, metric.value)
	}
}

// StartServer starts the metrics HTTP server.
func (m *Metrics) StartServer(port int, path string) error {
	mux := http.NewServeMux()
	mux.Handle(path, m)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	addr := fmt.Sprintf(":%d", port)
	m.logger.Info("metrics server starting", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			m.logger.Error("metrics server error", "error", err)
		}
	}()

	return nil
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"polls_total":      m.PollsTotal.Load(),
		"polls_failed":     m.PollsFailed.Load(),
		"stale_dropped":    m.StaleDropped.Load(),
		"searches":         m.SearchesFired.Load(),
		"page_switches":    m.PageSwitches.Load(),
		"refresh_attempts": m.RefreshAttempts.Load(),
		"refresh_declined": m.RefreshDeclined.Load(),
		"refresh_failed":   m.RefreshFailed.Load(),
		"renders":          m.Renders.Load(),
	}
}
