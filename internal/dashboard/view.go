package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/IshaanNene/scrapewatch/internal/types"
)

// Fixed labels shown by every renderer.
const (
	ConnectingLabel      = "Connecting..."
	ConnectionErrorLabel = "Connection Error"
	Placeholder          = "-"

	RefreshLabel     = "Restart Scrapers"
	RefreshBusyLabel = "Restarting..."
)

// Label is a piece of text with the tone it should be drawn in.
type Label struct {
	Text string
	Tone Tone
}

// Detail is one labelled row on a scraper card.
type Detail struct {
	Name  string
	Value string
}

// Card is the rendered form of one ScraperStatus.
type Card struct {
	BSN   string
	Title string
	Pill  Label
	// StateClass is "status-" plus the lower-cased post_list_status.
	StateClass string
	Details    []Detail
}

// Pager describes the pagination controls.
type Pager struct {
	Page         int
	TotalPages   int
	Label        string
	PrevDisabled bool
	NextDisabled bool
}

// Button is the state of the refresh control.
type Button struct {
	Label    string
	Disabled bool
}

// View is the renderer-independent display model for one snapshot.
// Every field is replaced wholesale on each render.
type View struct {
	Status Label

	PageCount      int
	ActiveScrapers int
	TotalScrapers  int
	Tasks          int

	CPU          string
	Memory       string
	MemoryDetail string

	LastUpdated time.Time

	Cards   []Card
	Pager   Pager
	Refresh Button
}

// TotalPages returns ceil(filtered/limit), never less than 1.
func TotalPages(filtered, limit int) int {
	if limit <= 0 || filtered <= 0 {
		return 1
	}
	return (filtered + limit - 1) / limit
}

// NewPager derives the pagination controls for the given page.
func NewPager(page, filtered, limit int) Pager {
	total := TotalPages(filtered, limit)
	return Pager{
		Page:         page,
		TotalPages:   total,
		Label:        fmt.Sprintf("Page %d of %d", page, total),
		PrevDisabled: page <= 1,
		NextDisabled: page >= total,
	}
}

// InitialView is what renderers show before the first snapshot arrives.
func InitialView() View {
	return View{
		Status:  Label{Text: ConnectingLabel, Tone: ToneNeutral},
		CPU:     Placeholder,
		Memory:  Placeholder,
		Pager:   NewPager(1, 0, 1),
		Refresh: Button{Label: RefreshLabel},
	}
}

// BuildView translates a snapshot into a display model. page is the
// client's current page at render time.
func BuildView(snap *types.StatusSnapshot, page, limit int, now time.Time) View {
	m := snap.SystemMetrics
	v := View{
		Status:         Label{Text: snap.CurrStatus, Tone: Classify(snap.CurrStatus)},
		PageCount:      snap.PageCount,
		ActiveScrapers: snap.ActiveScrapersCount,
		TotalScrapers:  snap.TotalScrapersCount,
		Tasks:          snap.TasksCount,
		CPU:            percent(m.CPUUsage),
		Memory:         percent(m.MemoryUsage),
		LastUpdated:    now,
		Pager:          NewPager(page, snap.FilteredCount, limit),
		Refresh:        Button{Label: RefreshLabel},
	}
	if m.MemoryTotal > 0 {
		v.MemoryDetail = humanize.IBytes(m.MemoryUsed) + " / " + humanize.IBytes(m.MemoryTotal)
	}

	v.Cards = make([]Card, 0, len(snap.ScrapersStatus))
	for _, bsn := range snap.SortedBSNs() {
		v.Cards = append(v.Cards, buildCard(bsn, snap.ScrapersStatus[bsn]))
	}
	return v
}

func buildCard(bsn string, s types.ScraperStatus) Card {
	title := s.ThemeTitle
	if title == "" {
		title = bsn
	}
	pill := s.PostStatus
	if pill == "" {
		pill = s.PostListStatus
	}
	return Card{
		BSN:        bsn,
		Title:      title,
		Pill:       Label{Text: pill, Tone: Classify(pill)},
		StateClass: "status-" + strings.ToLower(s.PostListStatus),
		Details: []Detail{
			{Name: "BSN", Value: bsn},
			{Name: "Post Status", Value: s.PostStatus},
			{Name: "List Status", Value: s.PostListStatus},
			{Name: "Start Time", Value: FormatTime(s.StartTime)},
			{Name: "End Time", Value: FormatTime(s.EndTime)},
		},
	}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// FormatTime renders a backend timestamp in local time, or Placeholder
// when absent. Unparseable values are shown verbatim.
func FormatTime(raw string) string {
	return formatTimeIn(raw, time.Local)
}

func formatTimeIn(raw string, loc *time.Location) string {
	if raw == "" {
		return Placeholder
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc).Format("2006-01-02 15:04:05")
		}
	}
	return raw
}
