package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
)

type viewMsg struct{ view dashboard.View }

type confirmMsg struct {
	message string
	reply   chan bool
}

type alertMsg struct {
	message string
	ack     chan struct{}
}

type sender interface {
	Send(msg tea.Msg)
}

// Bridge delivers client callbacks to a running tea.Program. It implements
// dashboard.Renderer and dashboard.Prompter.
type Bridge struct {
	mu      sync.Mutex
	program sender
	done    chan struct{}
	once    sync.Once
}

// NewBridge creates a bridge; Attach it to the program before the client starts.
func NewBridge() *Bridge {
	return &Bridge{done: make(chan struct{})}
}

// Attach sets the program that receives messages.
func (b *Bridge) Attach(p sender) {
	b.mu.Lock()
	b.program = p
	b.mu.Unlock()
}

// Close releases any caller blocked in Confirm or Alert.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

func (b *Bridge) send(msg tea.Msg) bool {
	b.mu.Lock()
	p := b.program
	b.mu.Unlock()
	if p == nil {
		return false
	}
	select {
	case <-b.done:
		return false
	default:
	}
	p.Send(msg)
	return true
}

// Render implements dashboard.Renderer.
func (b *Bridge) Render(v dashboard.View) {
	b.send(viewMsg{view: v})
}

// Confirm implements dashboard.Prompter. It blocks until the user answers,
// ctx ends, or the bridge is closed.
func (b *Bridge) Confirm(ctx context.Context, message string) bool {
	reply := make(chan bool, 1)
	if !b.send(confirmMsg{message: message, reply: reply}) {
		return false
	}
	select {
	case ok := <-reply:
		return ok
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	}
}

// Alert implements dashboard.Prompter. It blocks until the user dismisses the message.
func (b *Bridge) Alert(message string) {
	ack := make(chan struct{}, 1)
	if !b.send(alertMsg{message: message, ack: ack}) {
		return
	}
	select {
	case <-ack:
	case <-b.done:
	}
}
