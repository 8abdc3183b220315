// Package session holds per-view conversation state: the append-only transcript,
// the single in-flight request gate, and the document session handle.
//
// Each send is split in two so an event loop can stay responsive:
// Begin appends the user turn and returns a Ticket carrying the outgoing history,
// and Complete appends the reply (or the error text) and releases the gate.
// The blocking Send methods compose both for scripted use.
package session

import (
	"errors"
	"sync"

	"voltdesk/internal/api"
	"voltdesk/internal/logging"
	"voltdesk/internal/types"
)

// ErrorPrefix starts every assistant turn that reports a failed request.
const ErrorPrefix = "오류: "

var (
	// ErrEmptyInput means the text was empty or whitespace-only.
	ErrEmptyInput = errors.New("empty input")
	// ErrPending means a request for this view is already in flight.
	ErrPending = errors.New("request already pending")
	// ErrNoSession means no document has been uploaded yet.
	ErrNoSession = errors.New("no document session")
	// ErrNoFile means upload was requested without a selected file.
	ErrNoFile = errors.New("no file selected")
)

// Ticket identifies one accepted send between Begin and Complete.
type Ticket struct {
	Message string
	// History is the transcript right after the user turn was appended.
	History []types.Turn
	epoch   uint64
}

// exchange is the transcript + gate pattern shared by the chat and document views.
type exchange struct {
	transcript *Transcript
	gate       *Gate

	mu sync.Mutex
	// epoch advances on Reset so replies to discarded turns are dropped.
	epoch uint64
}

func newExchange(greeting string) *exchange {
	return &exchange{
		transcript: NewTranscript(greeting),
		gate:       NewGate(),
	}
}

// begin enters the gate, appends the user turn and captures the outgoing history.
func (e *exchange) begin(text string) (Ticket, error) {
	if types.IsBlank(text) {
		return Ticket{}, ErrEmptyInput
	}
	if !e.gate.TryEnter() {
		return Ticket{}, ErrPending
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	history := e.transcript.appendAndSnapshot(types.UserTurn(text))
	return Ticket{Message: text, History: history, epoch: e.epoch}, nil
}

// complete appends the reply or error text and always leaves the gate. ok is
// false when the conversation was reset while the request was in flight.
func (e *exchange) complete(t Ticket, answer string, err error) (turn types.Turn, ok bool) {
	defer e.gate.Leave()

	if err != nil {
		turn = types.AssistantTurn(ErrorPrefix + api.ErrorDetail(err))
	} else {
		turn = types.AssistantTurn(answer)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if t.epoch != e.epoch {
		logging.SessionDebug("dropping reply for a reset conversation")
		return turn, false
	}
	e.transcript.Append(turn)
	return turn, true
}

func (e *exchange) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.epoch++
	e.transcript.Reset()
}

// Turns returns a copy of the transcript.
func (e *exchange) Turns() []types.Turn {
	return e.transcript.Turns()
}

// Len returns the transcript length.
func (e *exchange) Len() int {
	return e.transcript.Len()
}

// Pending reports whether a request is in flight.
func (e *exchange) Pending() bool {
	return e.gate.Pending()
}
