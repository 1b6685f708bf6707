package statusapi

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// State is everything the backend knows about its scrapers.
type State struct {
	CurrStatus string                         `json:"curr_status"`
	PageCount  int                            `json:"page_count"`
	TasksCount int                            `json:"tasks_count"`
	Scrapers   map[string]types.ScraperStatus `json:"scrapers_status"`
}

// Store is the interface for scraper state backends.
type Store interface {
	// Load reads the current state.
	Load(ctx context.Context) (*State, error)

	// Close releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// NewStore opens the backend selected by cfg. For mongodb a non-empty
// seedFile is imported before the store is returned.
func NewStore(ctx context.Context, cfg *config.StorageConfig, seedFile string, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemoryStore(seedFile, logger), nil
	case "mongodb":
		store, err := NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection, logger)
		if err != nil {
			return nil, err
		}
		if seedFile != "" {
			seed, err := ReadSeedFile(seedFile)
			if err == nil {
				err = store.Save(ctx, seed)
			}
			if err != nil {
				store.Close()
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ReadSeedFile parses a JSON state file.
func ReadSeedFile(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	if st.Scrapers == nil {
		st.Scrapers = map[string]types.ScraperStatus{}
	}
	return &st, nil
}

// MemoryStore keeps state in memory. With a seed file it re-reads the
// file on every Load, so a refresh picks up edits.
type MemoryStore struct {
	seedFile string
	logger   *slog.Logger
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(seedFile string, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		seedFile: seedFile,
		logger:   logger.With("component", "memory_store"),
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Load(ctx context.Context) (*State, error) {
	if s.seedFile == "" {
		return &State{Scrapers: map[string]types.ScraperStatus{}}, nil
	}
	st, err := ReadSeedFile(s.seedFile)
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Err: err}
	}
	s.logger.Debug("state loaded", "file", s.seedFile, "scrapers", len(st.Scrapers))
	return st, nil
}

func (s *MemoryStore) Close() error { return nil }

// activeCount counts scrapers whose post status reads as running.
func (st *State) activeCount() int {
	n := 0
	for _, s := range st.Scrapers {
		if types.ClassifyStatus(s.PostStatus) == types.StatusActive {
			n++
		}
	}
	return n
}

// status returns the stored global status, or one derived from the scrapers.
func (st *State) status() string {
	if st.CurrStatus != "" {
		return st.CurrStatus
	}
	if st.activeCount() > 0 {
		return "running"
	}
	return "idle"
}

// Query filters, sorts and pages the state. q is matched case-insensitively
// as a substring of the BSN or the theme title.
func (st *State) Query(q types.StatusQuery) *types.StatusSnapshot {
	needle := strings.ToLower(strings.TrimSpace(q.Q))

	bsns := make([]string, 0, len(st.Scrapers))
	for bsn, s := range st.Scrapers {
		if needle == "" ||
			strings.Contains(strings.ToLower(bsn), needle) ||
			strings.Contains(strings.ToLower(s.ThemeTitle), needle) {
			bsns = append(bsns, bsn)
		}
	}
	sort.Strings(bsns)

	// Bounds are checked before multiplying so a huge page cannot overflow.
	start := len(bsns)
	if q.Page >= 1 && q.Limit > 0 && q.Page-1 <= len(bsns)/q.Limit {
		start = (q.Page - 1) * q.Limit
	}
	end := len(bsns)
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}

	page := make(map[string]types.ScraperStatus, end-start)
	for _, bsn := range bsns[start:end] {
		page[bsn] = st.Scrapers[bsn]
	}

	return &types.StatusSnapshot{
		CurrStatus:          st.status(),
		PageCount:           st.PageCount,
		ActiveScrapersCount: st.activeCount(),
		TotalScrapersCount:  len(st.Scrapers),
		TasksCount:          st.TasksCount,
		ScrapersStatus:      page,
		FilteredCount:       len(bsns),
		Page:                q.Page,
		Limit:               q.Limit,
	}
}
