package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/IshaanNene/scrapewatch/internal/dashboard"
)

// Controller is the subset of dashboard.Client the shell drives.
type Controller interface {
	Search(input string)
	PrevPage()
	NextPage()
	Refresh(ctx context.Context) error
}

// REPL is a line-oriented front end for terminals without a full-screen UI
// and for piped input. It implements dashboard.Renderer and dashboard.Prompter.
type REPL struct {
	in     io.Reader
	out    io.Writer
	msgs   io.Writer
	logger *slog.Logger

	outMu sync.Mutex
	last  string

	mu     sync.Mutex
	prompt *prompt
	eof    bool

	done chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// prompt is an outstanding confirmation. It is armed before the command
// that triggers it runs so the following input line always reaches it.
type prompt struct {
	answer   chan string
	answered bool
}

// New creates a shell reading commands from in and printing to out.
func New(in io.Reader, out io.Writer, logger *slog.Logger) *REPL {
	return &REPL{
		in:     in,
		out:    out,
		msgs:   out,
		logger: logger.With("component", "repl"),
		done:   make(chan struct{}),
	}
}

// SetMessageOutput sends prompts, alerts and command feedback to w instead of
// the view output. Call it before Run.
func (r *REPL) SetMessageOutput(w io.Writer) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	r.msgs = w
}

// Render implements dashboard.Renderer. A view whose text matches the
// previous one is not printed again.
func (r *REPL) Render(v dashboard.View) {
	text := FormatView(v)

	r.outMu.Lock()
	defer r.outMu.Unlock()
	if text == r.last {
		return
	}
	r.last = text
	fmt.Fprintln(r.out)
	if err := WriteView(r.out, v); err != nil {
		r.logger.Debug("write view failed", "error", err)
	}
}

// Confirm implements dashboard.Prompter. The next input line answers it.
func (r *REPL) Confirm(ctx context.Context, message string) bool {
	p := r.arm()
	if p == nil {
		return false
	}
	defer func() {
		r.mu.Lock()
		if r.prompt == p {
			r.prompt = nil
		}
		r.mu.Unlock()
	}()

	r.printf("%s [y/N] ", message)

	select {
	case line := <-p.answer:
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	case <-ctx.Done():
		return false
	case <-r.done:
		return false
	}
}

// arm returns the pending prompt, creating it if needed. It returns nil
// once input has ended.
func (r *REPL) arm() *prompt {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.eof {
		return nil
	}
	if r.prompt == nil {
		r.prompt = &prompt{answer: make(chan string, 1)}
	}
	return r.prompt
}

// Alert implements dashboard.Prompter.
func (r *REPL) Alert(message string) {
	r.printf("! %s\n", message)
}

// Run reads commands until quit, end of input or ctx cancellation.
func (r *REPL) Run(ctx context.Context, ctrl Controller) {
	defer func() {
		r.close()
		r.wg.Wait()
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := bufio.NewReader(r.in)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-r.done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	r.printf("Type 'help' for available commands, 'q' to quit.\n")

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				r.endOfInput()
				r.wg.Wait()
				return
			}
			if r.answer(line) {
				continue
			}
			if !r.dispatch(ctx, ctrl, strings.TrimRight(line, "\r\n")) {
				return
			}
		}
	}
}

// answer routes a line to a pending Confirm.
func (r *REPL) answer(line string) bool {
	r.mu.Lock()
	p := r.prompt
	if p == nil || p.answered {
		r.mu.Unlock()
		return false
	}
	p.answered = true
	r.mu.Unlock()
	p.answer <- line
	return true
}

// endOfInput declines any unanswered prompt so in-flight commands finish.
func (r *REPL) endOfInput() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eof = true
	if p := r.prompt; p != nil && !p.answered {
		p.answered = true
		p.answer <- ""
	}
}

func (r *REPL) dispatch(ctx context.Context, ctrl Controller, line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	if strings.HasPrefix(trimmed, "/") {
		ctrl.Search(strings.TrimPrefix(trimmed, "/"))
		return true
	}

	parts := strings.Fields(trimmed)
	switch parts[0] {
	case "help", "?":
		r.printHelp()
	case "exit", "quit", "q":
		return false
	case "n", "next":
		ctrl.NextPage()
	case "p", "prev":
		ctrl.PrevPage()
	case "search":
		ctrl.Search(strings.TrimSpace(strings.TrimPrefix(trimmed, "search")))
	case "r", "restart":
		r.arm()
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			if err := ctrl.Refresh(ctx); err != nil {
				r.logger.Debug("restart not completed", "error", err)
			}
		}()
	case "show":
		r.outMu.Lock()
		r.last = ""
		r.outMu.Unlock()
		r.printf("view will be reprinted on the next update\n")
	default:
		r.printf("Unknown command: %s. Type 'help' for available commands.\n", parts[0])
	}
	return true
}

func (r *REPL) printHelp() {
	r.printf(`
Available Commands:
  n, next               Next page
  p, prev               Previous page
  /<text>               Search by BSN or title ("/" alone clears)
  search <text>         Same as /<text>
  r, restart            Restart all scrapers
  show                  Print the dashboard again on the next update
  help                  Show this help
  q, exit               Quit
`)
}

func (r *REPL) printf(format string, args ...any) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	fmt.Fprintf(r.msgs, format, args...)
}

func (r *REPL) close() {
	r.once.Do(func() { close(r.done) })
}
