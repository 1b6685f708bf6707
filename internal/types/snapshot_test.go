package types

import (
	"errors"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotDecodeOptionalFields(t *testing.T) {
	body := `{
		"curr_status": "scraping_all_themes_start",
		"page_count": 3,
		"active_scrapers_count": 1,
		"total_scrapers_count": 2,
		"tasks_count": 2,
		"system_metrics": {"cpu_usage": 12.5, "memory_usage": 40.1, "memory_used": 1024, "memory_total": 4096},
		"scrapers_status": {
			"60076": {"post_status": "", "post_list_status": "Fetched"},
			"123": {"post_status": "fetching", "post_list_status": "done", "theme_title": "Board", "start_time": "2024-01-02T03:04:05Z"}
		},
		"filtered_count": 41
	}`

	var snap StatusSnapshot
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(body, &snap))

	assert.Equal(t, 41, snap.FilteredCount)
	assert.Equal(t, uint64(4096), snap.SystemMetrics.MemoryTotal)
	assert.Equal(t, []string{"123", "60076"}, snap.SortedBSNs())
	assert.Empty(t, snap.ScrapersStatus["60076"].ThemeTitle)
	assert.Empty(t, snap.ScrapersStatus["60076"].EndTime)
	assert.Equal(t, "Board", snap.ScrapersStatus["123"].ThemeTitle)
}

func TestStatusQueryValues(t *testing.T) {
	v := StatusQuery{Page: 2, Limit: 20, Q: "anime"}.Values()
	assert.Equal(t, "limit=20&page=2&q=anime", v.Encode())

	empty := StatusQuery{Page: 1, Limit: 20}.Values()
	assert.Equal(t, "", empty.Get("q"))
	assert.True(t, empty.Has("q"))
}

func TestRefreshResultSucceeded(t *testing.T) {
	assert.True(t, (&RefreshResult{Status: "success"}).Succeeded())
	assert.False(t, (&RefreshResult{Status: "error", Message: "busy"}).Succeeded())
	assert.False(t, (*RefreshResult)(nil).Succeeded())
}

func TestFetchErrorUnwrap(t *testing.T) {
	err := &FetchError{URL: "http://x/api/status", StatusCode: 502, Err: ErrEmptyBody}
	assert.True(t, errors.Is(err, ErrEmptyBody))
	assert.Contains(t, err.Error(), "status 502")
}
