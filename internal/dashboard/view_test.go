package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/scrapewatch/internal/types"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		status string
		want   Tone
	}{
		{"scraping_all_themes_start", ToneNeutral},
		{"fetching_all_themes_3", ToneActive},
		{"RUNNING", ToneActive},
		{"Fetched", ToneSuccess},
		{"scraping_all_themes_complete", ToneSuccess},
		{"done", ToneSuccess},
		{"FAILED", ToneError},
		{"waiting_429_5s", ToneNeutral},
		{"", ToneNeutral},
		// first rule wins even when a later keyword also matches
		{"Error while running", ToneActive},
		{"fetched with errors", ToneSuccess},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.status), "status %q", tc.status)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct{ filtered, want int }{
		{0, 1}, {1, 1}, {20, 1}, {21, 2}, {40, 2}, {41, 3}, {-3, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TotalPages(tc.filtered, 20), "filtered=%d", tc.filtered)
	}
}

func TestPagerDisabledFlags(t *testing.T) {
	p := NewPager(1, 45, 20)
	assert.Equal(t, "Page 1 of 3", p.Label)
	assert.True(t, p.PrevDisabled)
	assert.False(t, p.NextDisabled)

	p = NewPager(2, 45, 20)
	assert.False(t, p.PrevDisabled)
	assert.False(t, p.NextDisabled)

	p = NewPager(3, 45, 20)
	assert.True(t, p.NextDisabled)

	// a page past the end still disables next
	p = NewPager(5, 45, 20)
	assert.Equal(t, "Page 5 of 3", p.Label)
	assert.True(t, p.NextDisabled)

	p = NewPager(1, 0, 20)
	assert.True(t, p.PrevDisabled)
	assert.True(t, p.NextDisabled)
}

func TestBuildViewCards(t *testing.T) {
	snap := &types.StatusSnapshot{
		CurrStatus:          "fetching_all_themes_2",
		PageCount:           2,
		ActiveScrapersCount: 1,
		TotalScrapersCount:  2,
		TasksCount:          2,
		SystemMetrics: types.SystemMetrics{
			CPUUsage:    12.5,
			MemoryUsage: 40,
			MemoryUsed:  2 * 1024 * 1024 * 1024,
			MemoryTotal: 8 * 1024 * 1024 * 1024,
		},
		ScrapersStatus: map[string]types.ScraperStatus{
			"60076": {PostStatus: "", PostListStatus: "Fetched"},
			"123":   {PostStatus: "fetching", PostListStatus: "done", ThemeTitle: "Board", StartTime: "2024-01-02T03:04:05Z"},
		},
		FilteredCount: 2,
	}
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	v := BuildView(snap, 1, 20, now)

	assert.Equal(t, Label{Text: "fetching_all_themes_2", Tone: ToneActive}, v.Status)
	assert.Equal(t, "12.5%", v.CPU)
	assert.Equal(t, "40%", v.Memory)
	assert.Equal(t, "2.0 GiB / 8.0 GiB", v.MemoryDetail)
	assert.Equal(t, now, v.LastUpdated)
	assert.Equal(t, RefreshLabel, v.Refresh.Label)
	require.Len(t, v.Cards, 2)

	board := v.Cards[0]
	assert.Equal(t, "123", board.BSN)
	assert.Equal(t, "Board", board.Title)
	assert.Equal(t, Label{Text: "fetching", Tone: ToneActive}, board.Pill)
	assert.Equal(t, "status-done", board.StateClass)

	fallback := v.Cards[1]
	assert.Equal(t, "60076", fallback.Title)
	assert.Equal(t, Label{Text: "Fetched", Tone: ToneSuccess}, fallback.Pill)
	assert.Equal(t, "status-fetched", fallback.StateClass)
	assert.Equal(t, []Detail{
		{Name: "BSN", Value: "60076"},
		{Name: "Post Status", Value: ""},
		{Name: "List Status", Value: "Fetched"},
		{Name: "Start Time", Value: "-"},
		{Name: "End Time", Value: "-"},
	}, fallback.Details)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", formatTimeIn("", time.UTC))
	assert.Equal(t, "2024-01-02 03:04:05", formatTimeIn("2024-01-02T03:04:05.123456+00:00", time.UTC))
	assert.Equal(t, "2024-01-02 05:04:05", formatTimeIn("2024-01-02T03:04:05Z", time.FixedZone("EET", 2*3600)))
	assert.Equal(t, "2024-01-02 03:04:05", formatTimeIn("2024-01-02 03:04:05", time.UTC))
	assert.Equal(t, "yesterday", formatTimeIn("yesterday", time.UTC))
}

func TestInitialView(t *testing.T) {
	v := InitialView()
	assert.Equal(t, ConnectingLabel, v.Status.Text)
	assert.Equal(t, "Page 1 of 1", v.Pager.Label)
	assert.False(t, v.Refresh.Disabled)
}
