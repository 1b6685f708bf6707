package statusapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 500
)

// Server serves scraper status for the dashboard.
type Server struct {
	mux     *http.ServeMux
	srv     *http.Server
	port    int
	store   Store
	sampler SystemSampler
	logger  *slog.Logger

	mu    sync.RWMutex
	state *State

	refreshing atomic.Bool
}

// NewServer creates a status server backed by store.
func NewServer(cfg *config.ServerConfig, store Store, sampler SystemSampler, logger *slog.Logger) *Server {
	s := &Server{
		mux:     http.NewServeMux(),
		port:    cfg.Port,
		store:   store,
		sampler: sampler,
		logger:  logger.With("component", "status_server"),
		state:   &State{},
	}

	s.registerRoutes(cfg.Web)
	return s
}

// Load reads the initial state from the store.
func (s *Server) Load(ctx context.Context) error {
	st, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.setState(st)
	return nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts listening in the background.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("status server starting", "addr", addr, "store", s.store.Name())

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("status server error", "error", err)
		}
	}()

	return nil
}

// Shutdown stops the listener and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

func (s *Server) registerRoutes(web bool) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	if web {
		s.mux.HandleFunc("GET /{$}", s.handleDashboard)
	}
}

func (s *Server) setState(st *State) {
	if st.Scrapers == nil {
		st.Scrapers = map[string]types.ScraperStatus{}
	}
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
		"store":   s.store.Name(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		s.jsonResponse(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	s.mu.RLock()
	snap := s.state.Query(q)
	s.mu.RUnlock()

	if s.sampler != nil {
		m, err := s.sampler.Sample(r.Context())
		if err != nil {
			s.logger.Warn("system metrics unavailable", "error", err)
		}
		snap.SystemMetrics = m
	}

	s.jsonResponse(w, http.StatusOK, snap)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.jsonResponse(w, http.StatusConflict, &types.RefreshResult{
			Status:  "error",
			Message: types.ErrRefreshBusy.Error(),
		})
		return
	}
	defer s.refreshing.Store(false)

	st, err := s.store.Load(r.Context())
	if err != nil {
		s.logger.Error("refresh failed", "error", err)
		s.jsonResponse(w, http.StatusInternalServerError, &types.RefreshResult{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	s.setState(st)

	s.logger.Info("scrapers restarted", "scrapers", len(st.Scrapers))
	s.jsonResponse(w, http.StatusOK, &types.RefreshResult{Status: "success"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(dashboardHTML))
}

// parseQuery reads page, limit and q. Out-of-range page and limit values fall back to defaults.
func parseQuery(r *http.Request) (types.StatusQuery, error) {
	v := r.URL.Query()
	q := types.StatusQuery{Page: defaultPage, Limit: defaultLimit, Q: v.Get("q")}

	if raw := v.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid page %q", raw)
		}
		if n >= 1 {
			q.Page = n
		}
	}
	if raw := v.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, fmt.Errorf("invalid limit %q", raw)
		}
		if n >= 1 && n <= maxLimit {
			q.Limit = n
		}
	}
	return q, nil
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("write response failed", "error", err)
	}
}
