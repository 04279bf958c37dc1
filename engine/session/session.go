package session

import (
	"strings"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one exchanged utterance or reply inside a conversation.
type Turn struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Session correlates a sequence of utterances. It exists only for
// conversational continuity ("yes, book it"); losing it degrades context,
// never data correctness.
type Session struct {
	ID        string    `json:"id"`
	Turns     []Turn    `json:"turns,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func New(id string, now time.Time) *Session {
	return &Session{
		ID:        strings.TrimSpace(id),
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Append(role, text string, now time.Time) {
	s.Turns = append(s.Turns, Turn{
		Role: role,
		Text: text,
		At:   now.UTC(),
	})
	s.UpdatedAt = now.UTC()
}

// Recent returns up to the last n turns, oldest first.
func (s *Session) Recent(n int) []Turn {
	if s == nil || n <= 0 || len(s.Turns) == 0 {
		return nil
	}
	if len(s.Turns) <= n {
		return s.Turns
	}
	return s.Turns[len(s.Turns)-n:]
}
