package monitor

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/IshaanNene/scrapewatch/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ChangeType identifies what kind of change occurred.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
)

// Change is one observed transition of a scraper or of the global status.
type Change struct {
	BSN       string     `json:"bsn,omitempty"`
	Type      ChangeType `json:"type"`
	Field     string     `json:"field,omitempty"`
	OldValue  string     `json:"old_value,omitempty"`
	NewValue  string     `json:"new_value,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ChangeDetector compares each snapshot with what it has seen before.
// Scrapers missing from a snapshot are kept, since they are usually on
// another page rather than gone.
type ChangeDetector struct {
	mu       sync.Mutex
	status   string
	scrapers map[string]types.ScraperStatus
	now      func() time.Time
}

// NewChangeDetector creates an empty detector.
func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{
		scrapers: make(map[string]types.ScraperStatus),
		now:      time.Now,
	}
}

// Detect records snap and returns the changes since the previous sighting
// of each scraper. The first snapshot only reports scrapers as added.
func (cd *ChangeDetector) Detect(snap *types.StatusSnapshot) []Change {
	cd.mu.Lock()
	defer cd.mu.Unlock()

	ts := cd.now()
	var changes []Change

	if cd.status != "" && cd.status != snap.CurrStatus {
		changes = append(changes, Change{
			Type: ChangeModified, Field: "curr_status",
			OldValue: cd.status, NewValue: snap.CurrStatus, Timestamp: ts,
		})
	}
	cd.status = snap.CurrStatus

	for _, bsn := range snap.SortedBSNs() {
		cur := snap.ScrapersStatus[bsn]
		old, seen := cd.scrapers[bsn]
		cd.scrapers[bsn] = cur
		if !seen {
			changes = append(changes, Change{BSN: bsn, Type: ChangeAdded, NewValue: cur.PostStatus, Timestamp: ts})
			continue
		}
		for _, f := range []struct{ name, old, new string }{
			{"post_status", old.PostStatus, cur.PostStatus},
			{"post_list_status", old.PostListStatus, cur.PostListStatus},
		} {
			if f.old != f.new {
				changes = append(changes, Change{
					BSN: bsn, Type: ChangeModified, Field: f.name,
					OldValue: f.old, NewValue: f.new, Timestamp: ts,
				})
			}
		}
	}
	return changes
}

// --- Notification System ---

// NotificationChannel is an interface for notification delivery.
type NotificationChannel interface {
	Send(ctx context.Context, changes []Change) error
	Type() string
}

// Notifier sends notifications when changes are detected.
type Notifier struct {
	channels []NotificationChannel
	logger   *slog.Logger
}

// NewNotifier creates a new change notifier.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{
		logger: logger.With("component", "notifier"),
	}
}

// AddChannel registers a notification channel.
func (n *Notifier) AddChannel(ch NotificationChannel) {
	n.channels = append(n.channels, ch)
}

// Notify sends changes to all registered channels.
func (n *Notifier) Notify(ctx context.Context, changes []Change) {
	if len(changes) == 0 {
		return
	}
	for _, ch := range n.channels {
		if err := ch.Send(ctx, changes); err != nil {
			n.logger.Error("notification failed", "channel", ch.Type(), "error", err)
		}
	}
}

// LogChannel writes modifications to a logger. Added scrapers are logged at debug level.
type LogChannel struct {
	logger *slog.Logger
}

// NewLogChannel creates a channel that logs changes.
func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger.With("component", "change_log")}
}

func (l *LogChannel) Type() string { return "log" }

func (l *LogChannel) Send(ctx context.Context, changes []Change) error {
	for _, c := range changes {
		if c.Type == ChangeAdded {
			l.logger.Debug("scraper seen", "bsn", c.BSN, "status", c.NewValue)
			continue
		}
		l.logger.Info("status changed", "bsn", c.BSN, "field", c.Field, "from", c.OldValue, "to", c.NewValue)
	}
	return nil
}

// WebhookChannel posts modifications as JSON to a URL.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel creates a webhook channel.
func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	return &WebhookChannel{url: url, client: &http.Client{Timeout: timeout}}
}

func (w *WebhookChannel) Type() string { return "webhook" }

func (w *WebhookChannel) Send(ctx context.Context, changes []Change) error {
	modified := make([]Change, 0, len(changes))
	for _, c := range changes {
		if c.Type == ChangeModified {
			modified = append(modified, c)
		}
	}
	if len(modified) == 0 {
		return nil
	}

	data, err := json.Marshal(map[string]any{
		"changes":   modified,
		"count":     len(modified),
		"timestamp": time.Now(),
	})
	if err != nil {
		return fmt.Errorf("encode changes: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &types.FetchError{URL: w.url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &types.FetchError{URL: w.url, StatusCode: resp.StatusCode, Err: fmt.Errorf("webhook rejected changes")}
	}
	return nil
}

// StatusSource is the status backend being watched.
type StatusSource interface {
	FetchStatus(ctx context.Context, q types.StatusQuery) (*types.StatusSnapshot, error)
	Refresh(ctx context.Context) (*types.RefreshResult, int, error)
}

// changeBacklog is how many detected batches may wait for delivery before
// new ones are dropped.
const changeBacklog = 16

// Source wraps a StatusSource and reports changes in every snapshot it
// returns. Detection happens inline; delivery runs on its own goroutine so
// slow channels never hold up a fetch.
type Source struct {
	StatusSource
	detector *ChangeDetector
	notifier *Notifier

	mu      sync.Mutex
	pending chan []Change
	done    chan struct{}
}

// Watch returns a source that feeds every fetched snapshot through a change
// detector. Delivery stops when ctx is cancelled.
func Watch(ctx context.Context, src StatusSource, notifier *Notifier) *Source {
	s := &Source{
		StatusSource: src,
		detector:     NewChangeDetector(),
		notifier:     notifier,
		pending:      make(chan []Change, changeBacklog),
		done:         make(chan struct{}),
	}
	go s.deliver(ctx)
	return s
}

// FetchStatus fetches from the wrapped source and queues any changes for
// notification.
func (s *Source) FetchStatus(ctx context.Context, q types.StatusQuery) (*types.StatusSnapshot, error) {
	snap, err := s.StatusSource.FetchStatus(ctx, q)
	if err != nil {
		return nil, err
	}

	// Detect and enqueue together so batches are delivered in detection order.
	s.mu.Lock()
	defer s.mu.Unlock()
	changes := s.detector.Detect(snap)
	if len(changes) == 0 {
		return snap, nil
	}
	select {
	case s.pending <- changes:
	default:
		s.notifier.logger.Warn("change backlog full, dropping batch", "changes", len(changes))
	}
	return snap, nil
}

// Done is closed once the delivery goroutine has stopped.
func (s *Source) Done() <-chan struct{} {
	return s.done
}

func (s *Source) deliver(ctx context.Context) {
	defer close(s.done)
	for {
		select {
		case <-ctx.Done():
			return
		case changes := <-s.pending:
			s.notifier.Notify(ctx, changes)
		}
	}
}
