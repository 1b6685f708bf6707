package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
)

// Controller is the subset of dashboard.Client the UI drives.
type Controller interface {
	Search(input string)
	PrevPage()
	NextPage()
	Refresh(ctx context.Context) error
}

// headerLines is the number of rows used above and below the card list.
const headerLines = 12

type model struct {
	ctx    context.Context
	ctrl   Controller
	title  string
	view   dashboard.View
	search textinput.Model
	styles styles

	confirm *confirmMsg
	alert   *alertMsg

	offset int
	width  int
	height int
}

// NewModel creates the bubbletea model for the dashboard.
func NewModel(ctx context.Context, ctrl Controller, title string) tea.Model {
	return newModel(ctx, ctrl, title)
}

func newModel(ctx context.Context, ctrl Controller, title string) *model {
	si := textinput.New()
	si.Placeholder = "search BSN or title"
	si.Prompt = "/ "
	si.Width = 30
	si.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))
	si.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaForeground))
	si.PlaceholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaComment))

	return &model{
		ctx:    ctx,
		ctrl:   ctrl,
		title:  title,
		view:   dashboard.InitialView(),
		search: si,
		styles: newStyles(),
		height: 40,
	}
}

func (*model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case viewMsg:
		m.view = msg.view
		m.clampOffset()
		return m, nil
	case confirmMsg:
		m.confirm = &msg
		return m, nil
	case alertMsg:
		m.alert = &msg
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.clampOffset()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.dismissPrompts()
		return m, tea.Quit
	}

	if m.alert != nil {
		switch msg.Type {
		case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
			m.alert.ack <- struct{}{}
			m.alert = nil
		}
		return m, nil
	}

	if m.confirm != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			m.confirm.reply <- true
			m.confirm = nil
		case "n", "N", "esc":
			m.confirm.reply <- false
			m.confirm = nil
		}
		return m, nil
	}

	if m.search.Focused() {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter, tea.KeyTab:
			m.search.Blur()
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.ctrl.Search(m.search.Value())
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		return m, m.search.Focus()
	case "n", "right", "pgdown":
		if !m.view.Pager.NextDisabled {
			m.offset = 0
			m.ctrl.NextPage()
		}
	case "p", "left", "pgup":
		if !m.view.Pager.PrevDisabled {
			m.offset = 0
			m.ctrl.PrevPage()
		}
	case "j", "down":
		m.offset++
		m.clampOffset()
	case "k", "up":
		if m.offset > 0 {
			m.offset--
		}
	case "r":
		if !m.view.Refresh.Disabled {
			ctx, ctrl := m.ctx, m.ctrl
			return m, func() tea.Msg {
				_ = ctrl.Refresh(ctx)
				return nil
			}
		}
	}
	return m, nil
}

// dismissPrompts answers outstanding prompts so the client is not left waiting.
func (m *model) dismissPrompts() {
	if m.confirm != nil {
		m.confirm.reply <- false
		m.confirm = nil
	}
	if m.alert != nil {
		m.alert.ack <- struct{}{}
		m.alert = nil
	}
}

func (m *model) visibleCards() int {
	n := (m.height - headerLines) / 3
	if n < 1 {
		n = 1
	}
	return n
}

func (m *model) clampOffset() {
	last := len(m.view.Cards) - m.visibleCards()
	if last < 0 {
		last = 0
	}
	if m.offset > last {
		m.offset = last
	}
}

func (m *model) View() string {
	s := m.styles
	v := m.view
	var b strings.Builder

	b.WriteString(s.title.Render(m.title))
	b.WriteString("  ")
	b.WriteString(s.pill(v.Status))
	b.WriteString("\n\n")

	b.WriteString(m.metric("Pages", humanize.Comma(int64(v.PageCount))))
	b.WriteString(m.metric("Active", fmt.Sprintf("%s / %s",
		humanize.Comma(int64(v.ActiveScrapers)), humanize.Comma(int64(v.TotalScrapers)))))
	b.WriteString(m.metric("Tasks", humanize.Comma(int64(v.Tasks))))
	b.WriteString("\n")
	b.WriteString(m.metric("CPU", v.CPU))
	mem := v.Memory
	if v.MemoryDetail != "" {
		mem += " (" + v.MemoryDetail + ")"
	}
	b.WriteString(m.metric("Memory", mem))
	updated := dashboard.Placeholder
	if !v.LastUpdated.IsZero() {
		updated = v.LastUpdated.Format("15:04:05")
	}
	b.WriteString(m.metric("Updated", updated))
	b.WriteString("\n\n")

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(v.Cards) == 0 {
		b.WriteString(s.dim.Render("no scrapers match"))
		b.WriteString("\n")
	}
	end := m.offset + m.visibleCards()
	if end > len(v.Cards) {
		end = len(v.Cards)
	}
	for _, c := range v.Cards[m.offset:end] {
		b.WriteString(m.card(c))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.pagerLine())
	b.WriteString("\n")

	switch {
	case m.alert != nil:
		b.WriteString(s.alert.Render(m.alert.message + "  [enter]"))
	case m.confirm != nil:
		b.WriteString(s.prompt.Render(m.confirm.message + " [y/N]"))
	default:
		b.WriteString(s.help.Render("/ search • n/p page • j/k scroll • r restart • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *model) metric(name, value string) string {
	return m.styles.label.Render(name+": ") + m.styles.value.Render(value) + "   "
}

func (m *model) card(c dashboard.Card) string {
	s := m.styles
	head := s.value.Render(c.Title) + " " + s.pill(c.Pill) + " " + s.dim.Render(c.StateClass)
	parts := make([]string, 0, len(c.Details))
	for _, d := range c.Details {
		parts = append(parts, s.label.Render(d.Name+": ")+d.Value)
	}
	return s.card.Render(head + "\n" + strings.Join(parts, "  "))
}

func (m *model) pagerLine() string {
	s := m.styles
	v := m.view
	prev, next := s.pager.Render("◀ prev"), s.pager.Render("next ▶")
	if v.Pager.PrevDisabled {
		prev = s.dim.Render("◀ prev")
	}
	if v.Pager.NextDisabled {
		next = s.dim.Render("next ▶")
	}
	refresh := s.prompt.Render("[r] " + v.Refresh.Label)
	if v.Refresh.Disabled {
		refresh = s.dim.Render("[r] " + v.Refresh.Label)
	}
	return prev + "  " + s.value.Render(v.Pager.Label) + "  " + next + "    " + refresh
}
