// Package chat drives one submission cycle of a chat session: record the
// user's turn, relay the conversation, render the reply and record it.
//
// The controller is independent of any UI toolkit. It talks to the screen
// through Surface and to the relay through Transport.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lingo-backend/internal/conversation"
	"lingo-backend/internal/markup"
	"lingo-backend/internal/models"
)

const (
	PlaceholderText   = "Thinking..."
	FailedMessage     = "Failed to get response from server."
	NoResponseMessage = "Sorry, no response received."
)

var ErrEmptyInput = errors.New("message is empty")

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateRendering
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateRendering:
		return "rendering"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transport carries a conversation snapshot to the relay and returns the raw
// model reply.
type Transport interface {
	Send(ctx context.Context, conversation models.Conversation) (string, error)
}

// Surface is where the chat is displayed.
type Surface interface {
	ShowUserMessage(text string)
	ShowPlaceholder(text string) Placeholder
}

// Placeholder is a transient element later replaced by the final content.
// SetMarkup receives trusted markup; SetText receives inert text.
type Placeholder interface {
	SetMarkup(markup string)
	SetText(text string)
}

// RenderResult is the outcome of one submission. State is StateRendering
// with HTML set, or StateFailed with Message set and Err holding the cause.
type RenderResult struct {
	State   State
	HTML    string
	Message string
	Err     error
}

// Controller owns a session's conversation. Submissions are serialised: a
// second Submit waits until the first has finished.
type Controller struct {
	store     *conversation.Store
	transport Transport
	surface   Surface
	logger    *zap.Logger

	submitMu sync.Mutex

	stateMu sync.RWMutex
	state   State
}

func NewController(store *conversation.Store, transport Transport, surface Surface, logger *zap.Logger) *Controller {
	if surface == nil {
		surface = nopSurface{}
	}
	return &Controller{
		store:     store,
		transport: transport,
		surface:   surface,
		logger:    logger,
	}
}

func (c *Controller) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.stateMu.Lock()
	c.state = s
	c.stateMu.Unlock()
}

// Conversation returns a snapshot of the session history.
func (c *Controller) Conversation() models.Conversation {
	return c.store.Snapshot()
}

// Submit runs one cycle for the given input. Blank input is rejected with
// ErrEmptyInput before anything is recorded or sent. Relay and transport
// failures are reported through the result, not as an error.
func (c *Controller) Submit(ctx context.Context, text string) (RenderResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return RenderResult{}, ErrEmptyInput
	}

	c.submitMu.Lock()
	defer c.submitMu.Unlock()
	defer c.setState(StateIdle)

	c.setState(StateSubmitting)
	c.store.Append(models.UserTurn(text))
	c.surface.ShowUserMessage(text)
	placeholder := c.surface.ShowPlaceholder(PlaceholderText)

	reply, err := c.transport.Send(ctx, c.store.Snapshot())
	if err != nil {
		c.setState(StateFailed)
		msg := failureMessage(err)
		c.logger.Warn("submission failed", zap.Error(err), zap.String("shown", msg))
		placeholder.SetText(msg)
		return RenderResult{State: StateFailed, Message: msg, Err: err}, nil
	}

	c.setState(StateRendering)
	html := markup.Render(reply)
	placeholder.SetMarkup(html)
	c.store.Append(models.ModelTurn(reply))

	c.logger.Debug("submission rendered",
		zap.Int("reply_bytes", len(reply)),
		zap.Int("turns", c.store.Len()),
	)
	return RenderResult{State: StateRendering, HTML: html}, nil
}

func failureMessage(err error) string {
	if errors.Is(err, ErrNoResult) {
		return NoResponseMessage
	}
	return FailedMessage
}

type nopSurface struct{}

func (nopSurface) ShowUserMessage(string) {}

func (nopSurface) ShowPlaceholder(string) Placeholder { return nopPlaceholder{} }

type nopPlaceholder struct{}

func (nopPlaceholder) SetMarkup(string) {}
func (nopPlaceholder) SetText(string)   {}
