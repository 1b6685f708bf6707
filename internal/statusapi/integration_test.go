package statusapi_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/dashboard"
	"github.com/IshaanNene/scrapewatch/internal/statusapi"
	"github.com/IshaanNene/scrapewatch/internal/statusclient"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type lastView struct {
	mu sync.Mutex
	v  dashboard.View
	n  int
}

func (l *lastView) Render(v dashboard.View) {
	l.mu.Lock()
	l.v = v
	l.n++
	l.mu.Unlock()
}

func (l *lastView) get() (dashboard.View, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.v, l.n
}

type yes struct{}

func (yes) Confirm(context.Context, string) bool { return true }
func (yes) Alert(string)                         {}

func writeSeed(t *testing.T, path string, n int, status string) {
	t.Helper()
	scrapers := map[string]types.ScraperStatus{}
	for i := 1; i <= n; i++ {
		scrapers[fmt.Sprintf("%04d", i)] = types.ScraperStatus{
			PostStatus:     status,
			PostListStatus: "Fetching",
			ThemeTitle:     fmt.Sprintf("Board %d", i),
			StartTime:      "2024-05-01T10:00:00Z",
		}
	}
	scrapers["0007"] = types.ScraperStatus{PostStatus: status, PostListStatus: "Fetching", ThemeTitle: "Anime"}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(&statusapi.State{CurrStatus: status, PageCount: 99, Scrapers: scrapers})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// TestDashboardAgainstServer runs the client against the real backend.
func TestDashboardAgainstServer(t *testing.T) {
	seed := filepath.Join(t.TempDir(), "seed.json")
	writeSeed(t, seed, 30, "running")

	srv := statusapi.NewServer(&config.ServerConfig{}, statusapi.NewMemoryStore(seed, testLogger), nil, testLogger)
	require.NoError(t, srv.Load(context.Background()))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	cfg := config.DefaultConfig().Client
	cfg.BaseURL = ts.URL
	cfg.PollInterval = 20 * time.Millisecond
	cfg.SearchDebounce = 10 * time.Millisecond

	rec := &lastView{}
	client := dashboard.New(&cfg, statusclient.New(&cfg, testLogger), rec, yes{}, testLogger)
	client.Start()
	defer client.Close()

	require.Eventually(t, func() bool {
		v, _ := rec.get()
		return v.Status.Text == "running" && len(v.Cards) == 20
	}, 2*time.Second, 10*time.Millisecond)

	v, _ := rec.get()
	assert.Equal(t, "Page 1 of 2", v.Pager.Label)
	assert.Equal(t, 30, v.TotalScrapers)
	assert.Equal(t, 30, v.ActiveScrapers)

	client.NextPage()
	require.Eventually(t, func() bool {
		v, _ := rec.get()
		return v.Pager.Label == "Page 2 of 2" && len(v.Cards) == 10
	}, 2*time.Second, 10*time.Millisecond)

	client.Search("anime")
	require.Eventually(t, func() bool {
		v, _ := rec.get()
		return len(v.Cards) == 1 && v.Cards[0].Title == "Anime" && v.Pager.Label == "Page 1 of 1"
	}, 2*time.Second, 10*time.Millisecond)

	writeSeed(t, seed, 5, "done")
	require.NoError(t, client.Refresh(context.Background()))
	require.Eventually(t, func() bool {
		v, _ := rec.get()
		return v.Status.Text == "done"
	}, 2*time.Second, 10*time.Millisecond)
	v, _ = rec.get()
	assert.Equal(t, dashboard.ToneSuccess, v.Status.Tone)
	assert.False(t, v.Refresh.Disabled)
}

// TestDashboardServerDown shows the connection error label and keeps polling.
func TestDashboardServerDown(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	cfg := config.DefaultConfig().Client
	cfg.BaseURL = url
	cfg.PollInterval = 20 * time.Millisecond

	rec := &lastView{}
	client := dashboard.New(&cfg, statusclient.New(&cfg, testLogger), rec, yes{}, testLogger)
	client.Start()
	defer client.Close()

	require.Eventually(t, func() bool {
		_, n := rec.get()
		return n >= 3
	}, 2*time.Second, 10*time.Millisecond)

	v, _ := rec.get()
	assert.Equal(t, dashboard.ConnectionErrorLabel, v.Status.Text)
	assert.Equal(t, dashboard.Placeholder, v.CPU)
}
