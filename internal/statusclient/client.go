package statusclient

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	jsoniter "github.com/json-iterator/go"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	statusPath  = "/api/status"
	refreshPath = "/api/refresh"
)

// Client talks to the scraper status backend over HTTP.
type Client struct {
	client      *http.Client
	baseURL     string
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// New creates a status client for the configured backend.
func New(cfg *config.ClientConfig, logger *slog.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
		DisableCompression:  true, // decoded in decompressReader, including brotli
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = "scrapewatch/" + config.Version
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   ua,
		maxBodySize: cfg.MaxBodySize,
		logger:      logger.With("component", "status_client"),
	}
}

// FetchStatus requests one page of scraper status.
func (c *Client) FetchStatus(ctx context.Context, q types.StatusQuery) (*types.StatusSnapshot, error) {
	target := c.baseURL + statusPath + "?" + q.Values().Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &types.FetchError{URL: target, Err: err}
	}

	var snap types.StatusSnapshot
	status, err := c.do(req, &snap)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &types.FetchError{URL: target, StatusCode: status, Err: fmt.Errorf("HTTP %d", status)}
	}
	return &snap, nil
}

// Refresh asks the backend to restart its scrapers. The decoded body is
// returned alongside the HTTP status so callers can combine both.
func (c *Client) Refresh(ctx context.Context) (*types.RefreshResult, int, error) {
	target := c.baseURL + refreshPath

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return nil, 0, &types.FetchError{URL: target, Err: err}
	}

	var result types.RefreshResult
	status, err := c.do(req, &result)
	if err != nil {
		return nil, status, err
	}
	return &result, status, nil
}

// do executes req and decodes the JSON body into out whatever the HTTP status.
func (c *Client) do(req *http.Request, out any) (int, error) {
	target := req.URL.String()
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, &types.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if c.maxBodySize > 0 {
		reader = io.LimitReader(reader, c.maxBodySize)
	}
	reader, err = decompressReader(resp, reader)
	if err != nil {
		return resp.StatusCode, &types.FetchError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return resp.StatusCode, &types.FetchError{URL: target, StatusCode: resp.StatusCode, Err: err}
	}
	if len(body) == 0 {
		return resp.StatusCode, &types.DecodeError{URL: target, Err: types.ErrEmptyBody}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, &types.DecodeError{URL: target, Err: err}
	}

	c.logger.Debug("request complete",
		"method", req.Method,
		"url", target,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", time.Since(start),
	)
	return resp.StatusCode, nil
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
