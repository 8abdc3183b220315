package session

import (
	"context"

	"voltdesk/internal/api"
	"voltdesk/internal/logging"
	"voltdesk/internal/types"
)

// ChatBackend answers general chat turns.
type ChatBackend interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.AnswerResponse, error)
}

// Conversation is the chat view's state.
type Conversation struct {
	*exchange
	backend ChatBackend
}

// NewConversation returns a conversation seeded with greeting (may be empty).
func NewConversation(backend ChatBackend, greeting string) *Conversation {
	return &Conversation{
		exchange: newExchange(greeting),
		backend:  backend,
	}
}

// Begin accepts a user turn. It fails with ErrEmptyInput or ErrPending without
// touching the transcript.
func (c *Conversation) Begin(text string) (Ticket, error) {
	t, err := c.begin(text)
	if err != nil {
		logging.Audit(logging.AuditEvent{Type: logging.AuditRequestRejected, Endpoint: api.EndpointChat, Err: err})
		return t, err
	}
	logging.SessionDebug("chat turn accepted, history=%d", len(t.History))
	return t, nil
}

// Request builds the outgoing body for a ticket.
func (c *Conversation) Request(t Ticket) api.ChatRequest {
	return api.ChatRequest{Message: t.Message, History: t.History}
}

// Call performs the network call for a ticket. It does not modify state.
func (c *Conversation) Call(ctx context.Context, t Ticket) (string, error) {
	resp, err := c.backend.Chat(ctx, c.Request(t))
	if err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Complete records the outcome of a ticket and returns the appended assistant turn.
func (c *Conversation) Complete(t Ticket, answer string, err error) types.Turn {
	turn, _ := c.complete(t, answer, err)
	return turn
}

// Send runs one full exchange. Local rejections return an error and leave the
// transcript unchanged; backend failures become an assistant turn, not an error.
func (c *Conversation) Send(ctx context.Context, text string) (types.Turn, error) {
	t, err := c.Begin(text)
	if err != nil {
		return types.Turn{}, err
	}
	answer, callErr := c.Call(ctx, t)
	return c.Complete(t, answer, callErr), nil
}

// Reset restores the seeded transcript. No network call.
func (c *Conversation) Reset() {
	c.reset()
	logging.Session("chat conversation reset")
}
