package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
)

// Run builds a client wired to a full-screen program and blocks until the
// user quits or ctx is cancelled. newClient receives the renderer and
// prompter the client must use.
func Run(ctx context.Context, title string, newClient func(dashboard.Renderer, dashboard.Prompter) *dashboard.Client) error {
	bridge := NewBridge()
	client := newClient(bridge, bridge)

	p := tea.NewProgram(NewModel(ctx, client, title), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)

	client.Start()
	_, err := p.Run()

	bridge.Close()
	client.Close()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
