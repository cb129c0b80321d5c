package chat

import (
	"errors"
	"time"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// InitialStage is the advisory stage label of a fresh session.
const InitialStage = "greeting"

const (
	startFailedText   = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."
	messageFailedText = "I'm sorry, I encountered an error. Please try again."
)

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Text is stored raw; formatting happens at
// presentation time only.
type Message struct {
	ID        int64            `json:"id"`
	Sender    Sender           `json:"sender"`
	Text      string           `json:"text"`
	Timestamp time.Time        `json:"timestamp"`
	Metadata  *remote.Metadata `json:"metadata,omitempty"`
	// Synthetic marks bot messages produced locally after a failed call.
	Synthetic bool `json:"synthetic,omitempty"`
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	SessionID   string    `json:"sessionId"`
	Transcript  []Message `json:"transcript"`
	Stage       string    `json:"stage"`
	Progress    int       `json:"progress"`
	Suggestions []string  `json:"suggestions"`
	Pending     bool      `json:"pending"`
	Typing      bool      `json:"typing"`
}

// Config tunes the artificial pauses of the session.
type Config struct {
	// TypingMin and TypingMax bound the random pause before a successful
	// bot reply is shown.
	TypingMin time.Duration
	TypingMax time.Duration
	// EscalationDelay is the pause between an escalating reply and the
	// escalation signal.
	EscalationDelay time.Duration
}

// DefaultConfig mirrors the pauses of the web client.
func DefaultConfig() Config {
	return Config{TypingMin: time.Second, TypingMax: 2 * time.Second, EscalationDelay: 2 * time.Second}
}

var (
	ErrPending           = errors.New("a message is already pending")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrNotOpen           = errors.New("chat session is not open")
	ErrUnknownSuggestion = errors.New("suggestion is not currently offered")
	// ErrStale is returned when a response arrived for a session that has
	// since been reset. The response is dropped.
	ErrStale = errors.New("response belongs to a reset session")
)
