package statusclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const snapshotBody = `{"curr_status":"running","page_count":2,"active_scrapers_count":1,"total_scrapers_count":3,
"tasks_count":3,"system_metrics":{"cpu_usage":5,"memory_usage":50,"memory_used":1,"memory_total":2},
"scrapers_status":{"A1":{"post_status":"","post_list_status":"Fetched"}},"filtered_count":21}`

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().Client
	cfg.BaseURL = srv.URL + "/"
	return New(&cfg, testLogger)
}

func TestFetchStatusSendsQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/status", r.URL.Path)
		gotQuery = r.URL.RawQuery
		io.WriteString(w, snapshotBody)
	}))

	snap, err := c.FetchStatus(context.Background(), types.StatusQuery{Page: 2, Limit: 20, Q: "a b"})
	require.NoError(t, err)
	assert.Equal(t, "limit=20&page=2&q=a+b", gotQuery)
	assert.Equal(t, 21, snap.FilteredCount)
	assert.Equal(t, "Fetched", snap.ScrapersStatus["A1"].PostListStatus)
}

func TestFetchStatusBrotliBody(t *testing.T) {
	var buf bytes.Buffer
	bw := brotli.NewWriter(&buf)
	_, err := bw.Write([]byte(snapshotBody))
	require.NoError(t, err)
	require.NoError(t, bw.Close())

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "br")
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))

	snap, err := c.FetchStatus(context.Background(), types.StatusQuery{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "running", snap.CurrStatus)
}

func TestFetchStatusNonJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>bad gateway</html>")
	}))

	_, err := c.FetchStatus(context.Background(), types.StatusQuery{Page: 1, Limit: 20})
	var decErr *types.DecodeError
	assert.True(t, errors.As(err, &decErr))
}

func TestFetchStatusHTTPError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"detail":"boom"}`)
	}))

	_, err := c.FetchStatus(context.Background(), types.StatusQuery{Page: 1, Limit: 20})
	var fetchErr *types.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestFetchStatusConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	cfg := config.DefaultConfig().Client
	cfg.BaseURL = srv.URL
	c := New(&cfg, testLogger)

	_, err := c.FetchStatus(context.Background(), types.StatusQuery{Page: 1, Limit: 20})
	var fetchErr *types.FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestRefreshReturnsBodyAndStatus(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/refresh", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		io.WriteString(w, `{"status":"error","message":"busy"}`)
	}))

	res, status, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "busy", res.Message)
	assert.False(t, res.Succeeded())
}
