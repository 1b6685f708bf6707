package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/IshaanNene/scrapewatch/internal/config"
	"github.com/IshaanNene/scrapewatch/internal/observability"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

// Messages shown around the restart action.
const (
	RefreshConfirmMessage   = "Restart all scrapers?"
	RefreshFailedMessage    = "Failed to restart scrapers"
	RefreshConnErrorMessage = "Connection error while restarting scrapers"
)

// StatusSource is the status backend as seen by the client.
type StatusSource interface {
	FetchStatus(ctx context.Context, q types.StatusQuery) (*types.StatusSnapshot, error)
	Refresh(ctx context.Context) (*types.RefreshResult, int, error)
}

// Renderer draws a View. Calls are serialized by the client.
type Renderer interface {
	Render(v View)
}

// Prompter asks the user questions on behalf of the client.
type Prompter interface {
	// Confirm blocks until the user answers; false means declined.
	Confirm(ctx context.Context, message string) bool
	// Alert shows a message the user must acknowledge.
	Alert(message string)
}

// Client polls the status backend and keeps the display model current.
type Client struct {
	source   StatusSource
	renderer Renderer
	prompter Prompter
	metrics  *observability.Metrics
	logger   *slog.Logger

	interval     time.Duration
	limit        int
	discardStale bool
	debouncer    *Debouncer

	// renderMu orders view updates so renderers see them in apply order.
	renderMu sync.Mutex

	mu         sync.Mutex
	page       int
	query      string
	issued     uint64
	applied    uint64
	view       View
	refreshing bool
	closed     bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a dashboard client. Call Start to begin polling and Close to tear it down.
func New(cfg *config.ClientConfig, source StatusSource, renderer Renderer, prompter Prompter, logger *slog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		source:       source,
		renderer:     renderer,
		prompter:     prompter,
		metrics:      observability.NewMetrics(logger),
		logger:       logger.With("component", "dashboard"),
		interval:     cfg.PollInterval,
		limit:        cfg.PageSize,
		discardStale: cfg.DiscardStale,
		debouncer:    NewDebouncer(cfg.SearchDebounce),
		page:         1,
		view:         InitialView(),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SetMetrics replaces the client's counters, e.g. with ones served over HTTP.
func (c *Client) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// Metrics returns the client's counters.
func (c *Client) Metrics() *observability.Metrics {
	return c.metrics
}

// Start fetches once immediately and then every poll interval until Close.
func (c *Client) Start() {
	c.spawnFetch()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-ticker.C:
				c.spawnFetch()
			}
		}
	}()

	c.logger.Info("polling started", "interval", c.interval, "limit", c.limit)
}

// Close stops polling, cancels the pending search and any in-flight
// requests, and waits for them to finish.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.debouncer.Stop()
	c.wg.Wait()
	c.logger.Info("polling stopped")
}

// Page returns the current page number.
func (c *Client) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Query returns the active search query.
func (c *Client) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// View returns the most recently rendered display model.
func (c *Client) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// spawnFetch runs FetchStatus in the background without waiting for it.
// Overlapping fetches are allowed.
func (c *Client) spawnFetch() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		_ = c.FetchStatus(c.ctx)
	}()
}

// FetchStatus requests the current page and re-renders every region. On
// failure only the status label changes; the rest of the view is kept.
func (c *Client) FetchStatus(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return types.ErrClientClosed
	}
	c.issued++
	seq := c.issued
	q := types.StatusQuery{Page: c.page, Limit: c.limit, Q: c.query}
	c.mu.Unlock()

	c.metrics.PollsTotal.Add(1)
	snap, err := c.source.FetchStatus(ctx, q)

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	if c.closed && errors.Is(err, context.Canceled) {
		c.mu.Unlock()
		return types.ErrClientClosed
	}
	if c.discardStale && seq < c.applied {
		c.mu.Unlock()
		c.metrics.StaleDropped.Add(1)
		c.logger.Debug("stale status response dropped", "seq", seq, "applied", c.applied)
		return nil
	}
	if seq > c.applied {
		c.applied = seq
	}

	if err != nil {
		c.view.Status = Label{Text: ConnectionErrorLabel, Tone: ToneError}
	} else {
		v := BuildView(snap, c.page, c.limit, time.Now())
		v.Refresh = c.refreshButton()
		c.view = v
	}
	view := c.view
	c.mu.Unlock()

	if err != nil {
		c.metrics.PollsFailed.Add(1)
		c.logger.Error("status fetch failed", "page", q.Page, "q", q.Q, "error", err)
	}

	c.metrics.Renders.Add(1)
	c.renderer.Render(view)
	return err
}

// Search debounces input; once idle it sets the trimmed query, resets to
// page 1 and fetches.
func (c *Client) Search(input string) {
	c.debouncer.Trigger(func() {
		c.mu.Lock()
		c.query = strings.TrimSpace(input)
		c.page = 1
		c.mu.Unlock()

		c.metrics.SearchesFired.Add(1)
		c.spawnFetch()
	})
}

// PrevPage moves back one page when not already on the first.
func (c *Client) PrevPage() {
	c.mu.Lock()
	if c.page <= 1 {
		c.mu.Unlock()
		return
	}
	c.page--
	c.mu.Unlock()

	c.metrics.PageSwitches.Add(1)
	c.spawnFetch()
}

// NextPage always moves forward one page. Renderers gate it on
// View.Pager.NextDisabled; the backend's filtered_count corrects an
// out-of-range page on the following render.
func (c *Client) NextPage() {
	c.mu.Lock()
	c.page++
	c.mu.Unlock()

	c.metrics.PageSwitches.Add(1)
	c.spawnFetch()
}

// Refresh asks for confirmation, then tells the backend to restart its
// scrapers. The refresh control is disabled while the request is in flight
// and restored on every exit path.
func (c *Client) Refresh(ctx context.Context) error {
	if !c.prompter.Confirm(ctx, RefreshConfirmMessage) {
		c.metrics.RefreshDeclined.Add(1)
		return types.ErrRefreshDeclined
	}
	c.metrics.RefreshAttempts.Add(1)

	c.setRefreshing(true)
	defer c.setRefreshing(false)

	res, status, err := c.source.Refresh(ctx)
	if err != nil {
		c.metrics.RefreshFailed.Add(1)
		c.logger.Error("refresh request failed", "error", err)
		c.prompter.Alert(RefreshConnErrorMessage)
		return err
	}

	if status >= 200 && status <= 299 && res.Succeeded() {
		c.logger.Info("scrapers restarted")
		if err := c.FetchStatus(ctx); err != nil {
			c.logger.Warn("status fetch after refresh failed", "error", err)
		}
		return nil
	}

	c.metrics.RefreshFailed.Add(1)
	msg := res.Message
	if msg == "" {
		msg = RefreshFailedMessage
	}
	c.logger.Warn("refresh rejected", "status", status, "message", msg)
	c.prompter.Alert(msg)
	return fmt.Errorf("refresh rejected: %s", msg)
}

func (c *Client) setRefreshing(on bool) {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	c.mu.Lock()
	c.refreshing = on
	c.view.Refresh = c.refreshButton()
	view := c.view
	c.mu.Unlock()

	c.metrics.Renders.Add(1)
	c.renderer.Render(view)
}

// refreshButton must be called with c.mu held.
func (c *Client) refreshButton() Button {
	if c.refreshing {
		return Button{Label: RefreshBusyLabel, Disabled: true}
	}
	return Button{Label: RefreshLabel}
}
