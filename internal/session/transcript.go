package session

import (
	"sync"

	"voltdesk/internal/types"
)

// Transcript is the append-only turn history of one conversation.
// Reset is the only destructive operation.
type Transcript struct {
	mu       sync.RWMutex
	turns    []types.Turn
	greeting string
}

// NewTranscript returns a transcript seeded with an assistant greeting, or empty
// when greeting is blank.
func NewTranscript(greeting string) *Transcript {
	t := &Transcript{greeting: greeting}
	t.turns = t.seed()
	return t
}

func (t *Transcript) seed() []types.Turn {
	if types.IsBlank(t.greeting) {
		return []types.Turn{}
	}
	return []types.Turn{types.AssistantTurn(t.greeting)}
}

// Append adds one turn at the end.
func (t *Transcript) Append(turn types.Turn) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
}

// appendAndSnapshot appends and returns a copy including the new turn, atomically.
func (t *Transcript) appendAndSnapshot(turn types.Turn) []types.Turn {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, turn)
	out := make([]types.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Turns returns a copy of the history in display order.
func (t *Transcript) Turns() []types.Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]types.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Len returns the number of turns.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Reset clears the history back to the seeded state.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = t.seed()
}
