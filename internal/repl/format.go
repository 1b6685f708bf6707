package repl

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
	"github.com/IshaanNene/scrapewatch/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FormatView renders a view as plain text without the timestamp line.
func FormatView(v dashboard.View) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Status:   %s\n", v.Status.Text)
	fmt.Fprintf(&b, "Pages:    %s\n", humanize.Comma(int64(v.PageCount)))
	fmt.Fprintf(&b, "Active:   %s / %s\n",
		humanize.Comma(int64(v.ActiveScrapers)), humanize.Comma(int64(v.TotalScrapers)))
	fmt.Fprintf(&b, "Tasks:    %s\n", humanize.Comma(int64(v.Tasks)))
	fmt.Fprintf(&b, "CPU:      %s\n", v.CPU)
	if v.MemoryDetail != "" {
		fmt.Fprintf(&b, "Memory:   %s (%s)\n", v.Memory, v.MemoryDetail)
	} else {
		fmt.Fprintf(&b, "Memory:   %s\n", v.Memory)
	}

	if len(v.Cards) > 0 {
		b.WriteString("\n")
	}
	for _, c := range v.Cards {
		fmt.Fprintf(&b, "  [%s] %s\n", c.Pill.Text, c.Title)
		for _, d := range c.Details {
			fmt.Fprintf(&b, "      %-12s %s\n", d.Name+":", d.Value)
		}
	}

	fmt.Fprintf(&b, "\n%s", v.Pager.Label)
	if v.Refresh.Disabled {
		fmt.Fprintf(&b, "    (%s)", v.Refresh.Label)
	}
	b.WriteString("\n")
	return b.String()
}

// WriteView writes a view followed by its update time.
func WriteView(w io.Writer, v dashboard.View) error {
	text := FormatView(v)
	if !v.LastUpdated.IsZero() {
		text = "Updated:  " + v.LastUpdated.Format("2006-01-02 15:04:05") + "\n" + text
	}
	_, err := io.WriteString(w, text)
	return err
}

// JSONLines is a renderer that writes every view as one JSON object per line.
type JSONLines struct {
	mu  sync.Mutex
	enc *jsoniter.Encoder
}

// NewJSONLines creates a JSON-lines renderer writing to w.
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

// Render implements dashboard.Renderer.
func (j *JSONLines) Render(v dashboard.View) {
	j.mu.Lock()
	defer j.mu.Unlock()
	_ = j.enc.Encode(v)
}

// WriteJSON writes the raw snapshot as indented JSON.
func WriteJSON(w io.Writer, snap *types.StatusSnapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
