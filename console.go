package gate

import (
	"context"
	"strings"
	"sync"
)

// LineType distinguishes echoed input from command output in a transcript.
type LineType string

const (
	LineInput  LineType = "input"
	LineOutput LineType = "output"
)

// Line is one rendered transcript entry. The transcript is display state
// only and is never parsed.
type Line struct {
	Type    LineType `json:"type"`
	Content string   `json:"content"`
}

// CommandHandler executes one console verb. Handlers must not let errors
// escape the dispatch loop; failures become output lines.
type CommandHandler func(ctx context.Context, raw string) []Line

// Console is a single-line, prompt-driven command interpreter bound to one
// authenticated identity. Submissions are serialized per console; typing is
// not blocked while a command's network call is in flight, only the
// interpretation of Enter.
//
// The history buffer and the transcript are independent: `clear` wipes the
// displayed lines while Up/Down recall keeps working over every submitted
// command, empty submissions included.
type Console struct {
	mu       sync.Mutex
	identity Identity
	invites  InviteService
	gateway  AuthGateway
	logger   Logger

	promptHost string
	handlers   map[string]CommandHandler

	history    []string
	cursor     int
	transcript []Line
}

// ConsoleOption customizes console construction.
type ConsoleOption func(*Console)

// WithConsoleLogger overrides the logger.
func WithConsoleLogger(logger Logger) ConsoleOption {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPromptHost sets the host portion of the prompt, e.g. user@host:~$.
func WithPromptHost(host string) ConsoleOption {
	return func(c *Console) {
		if host != "" {
			c.promptHost = host
		}
	}
}

// NewConsole binds a console to an authenticated identity. The identity is
// immutable for the console's lifetime.
func NewConsole(identity Identity, invites InviteService, gateway AuthGateway, opts ...ConsoleOption) *Console {
	c := &Console{
		identity:   identity,
		invites:    invites,
		gateway:    gateway,
		logger:     defLogger{},
		promptHost: defaultPromptHost,
		cursor:     -1,
	}

	c.handlers = map[string]CommandHandler{
		"help":       c.helpCommand,
		"whoami":     c.whoamiCommand,
		"gen-invite": c.genInviteCommand,
		"clear":      c.clearCommand,
		"logout":     c.logoutCommand,
	}

	c.transcript = []Line{{Type: LineOutput, Content: welcomeMessage}}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Prompt is the input marker echoed in front of submitted commands.
func (c *Console) Prompt() string {
	name := c.identity.Username()
	if name == "" {
		if email := c.identity.Email(); strings.Contains(email, "@") {
			name = strings.Split(email, "@")[0]
		}
	}
	if name == "" {
		name = "user"
	}
	return name + "@" + c.promptHost + ":~$"
}

// Submit interprets one entered line (the Enter key). The command is always
// recorded in history, the cursor resets to the editing state, and the
// returned lines are what the command emitted. Empty input produces no
// transcript lines but still occupies a history slot so recall stays 1:1
// with submissions.
func (c *Console) Submit(ctx context.Context, input string) []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	command := strings.TrimSpace(input)
	c.history = append(c.history, command)
	c.cursor = -1

	if command == "" {
		return nil
	}

	c.transcript = append(c.transcript, Line{Type: LineInput, Content: c.Prompt() + " " + command})

	out := c.dispatch(ctx, command)
	c.transcript = append(c.transcript, out...)

	return out
}

// dispatch resolves the verb case-insensitively from the first whitespace
// delimited field. Arguments beyond the verb are currently ignored, but the
// raw trimmed text is preserved for display fidelity.
func (c *Console) dispatch(ctx context.Context, command string) []Line {
	verb := strings.ToLower(strings.Fields(command)[0])

	handler, ok := c.handlers[verb]
	if !ok {
		return []Line{{Type: LineOutput, Content: "command not found: " + command}}
	}

	return handler(ctx, command)
}

// RecallPrev moves the history cursor one entry older (Up) and returns the
// text to load into the input buffer. Clamped at the oldest entry; the
// second return reports whether the cursor moved.
func (c *Console) RecallPrev() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.history) == 0 {
		return "", false
	}

	if c.cursor+1 >= len(c.history) {
		return c.entryAt(c.cursor), false
	}

	c.cursor++
	return c.entryAt(c.cursor), true
}

// RecallNext moves one entry newer (Down). Stepping past the most recent
// entry returns to the editing state with a cleared buffer; a no-op while
// already editing.
func (c *Console) RecallNext() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor < 0 {
		return "", false
	}

	if c.cursor == 0 {
		c.cursor = -1
		return "", true
	}

	c.cursor--
	return c.entryAt(c.cursor), true
}

// HistoryCursor exposes the browse position: -1 while editing a fresh line,
// otherwise the offset back from the most recent submission.
func (c *Console) HistoryCursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// History returns a copy of the submitted commands in append order.
func (c *Console) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.history))
	copy(out, c.history)
	return out
}

// Transcript returns a copy of the displayed lines.
func (c *Console) Transcript() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Line, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Identity is the principal this console is bound to.
func (c *Console) Identity() Identity {
	return c.identity
}

// entryAt resolves browse offset k to the history slot, k=0 being the most
// recently submitted command. Callers hold the lock.
func (c *Console) entryAt(k int) string {
	if k < 0 || k >= len(c.history) {
		return ""
	}
	return c.history[len(c.history)-1-k]
}
