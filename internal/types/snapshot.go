package types

import (
	"net/url"
	"sort"
	"strconv"
)

// StatusSnapshot is one body returned by GET /api/status.
type StatusSnapshot struct {
	// CurrStatus is the global system status label.
	CurrStatus string `json:"curr_status"`

	PageCount           int `json:"page_count"`
	ActiveScrapersCount int `json:"active_scrapers_count"`
	TotalScrapersCount  int `json:"total_scrapers_count"`
	TasksCount          int `json:"tasks_count"`

	SystemMetrics SystemMetrics `json:"system_metrics"`

	// ScrapersStatus holds the current page of scrapers keyed by BSN.
	ScrapersStatus map[string]ScraperStatus `json:"scrapers_status"`

	// FilteredCount is the number of scrapers matching the query across all pages.
	FilteredCount int `json:"filtered_count"`

	// Page and Limit echo the request when the backend reports them.
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
}

// SystemMetrics reports host utilisation of the scraper backend.
type SystemMetrics struct {
	CPUUsage        float64 `json:"cpu_usage"`
	MemoryUsage     float64 `json:"memory_usage"`
	MemoryUsed      uint64  `json:"memory_used"`
	MemoryTotal     uint64  `json:"memory_total"`
	MemoryAvailable uint64  `json:"memory_available,omitempty"`
}

// ScraperStatus is the state of a single board scraper.
type ScraperStatus struct {
	PostStatus     string `json:"post_status"          bson:"post_status"`
	PostListStatus string `json:"post_list_status"     bson:"post_list_status"`
	ThemeTitle     string `json:"theme_title,omitempty" bson:"theme_title,omitempty"`
	StartTime      string `json:"start_time,omitempty"  bson:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"    bson:"end_time,omitempty"`
}

// SortedBSNs returns the snapshot's scraper keys in ascending order.
func (s *StatusSnapshot) SortedBSNs() []string {
	keys := make([]string, 0, len(s.ScrapersStatus))
	for bsn := range s.ScrapersStatus {
		keys = append(keys, bsn)
	}
	sort.Strings(keys)
	return keys
}

// RefreshResult is the body returned by POST /api/refresh.
type RefreshResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Succeeded reports whether the backend accepted the restart.
func (r *RefreshResult) Succeeded() bool {
	return r != nil && r.Status == "success"
}

// StatusQuery selects one page of scrapers.
type StatusQuery struct {
	Page  int
	Limit int
	Q     string
}

// Values encodes the query as URL parameters.
func (q StatusQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("q", q.Q)
	return v
}
