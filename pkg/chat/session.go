package chat

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// Session is a turn-based conversation with the remote assistant. At most
// one request is in flight; every user turn is answered by exactly one bot
// message, real or synthesized.
type Session struct {
	api   remote.ChatAPI
	cfg   Config
	now   func() time.Time
	pause func() time.Duration

	mu           sync.Mutex
	sessionID    string
	epoch        uint64
	resetCh      chan struct{}
	seq          int64
	transcript   []Message
	stage        string
	progress     int
	suggestions  []string
	pending      bool
	typing       bool
	greeted      bool
	onEscalation func(sessionID string)
	onReset      func(closed Snapshot)
}

// NewSession creates a session that is not yet open.
func NewSession(api remote.ChatAPI, cfg Config) *Session {
	if cfg.TypingMax < cfg.TypingMin {
		cfg.TypingMin, cfg.TypingMax = cfg.TypingMax, cfg.TypingMin
	}
	s := &Session{
		api:         api,
		cfg:         cfg,
		now:         time.Now,
		resetCh:     make(chan struct{}),
		stage:       InitialStage,
		suggestions: []string{},
	}
	s.pause = s.randomPause
	return s
}

// OnEscalation registers the one-way signal fired when the assistant asks
// to hand over to resume analysis.
func (s *Session) OnEscalation(fn func(sessionID string)) {
	s.mu.Lock()
	s.onEscalation = fn
	s.mu.Unlock()
}

// OnReset registers a hook receiving the state of a session being reset.
func (s *Session) OnReset(fn func(closed Snapshot)) {
	s.mu.Lock()
	s.onReset = fn
	s.mu.Unlock()
}

func (s *Session) randomPause() time.Duration {
	span := s.cfg.TypingMax - s.cfg.TypingMin
	if span <= 0 {
		return s.cfg.TypingMin
	}
	return s.cfg.TypingMin + rand.N(span+1)
}

// Open starts the conversation and appends the greeting. On failure an
// apology is appended and the session stays usable; a later Open retries.
// Open on a session that already has its greeting does nothing.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrPending
	}
	if s.greeted {
		s.mu.Unlock()
		return nil
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	s.pending = true
	sid, epoch := s.sessionID, s.epoch
	s.mu.Unlock()
	return s.start(ctx, sid, epoch)
}

// start asks the server for the greeting of sid. The caller has set pending.
func (s *Session) start(ctx context.Context, sid string, epoch uint64) error {
	ctx = logger.WithSession(ctx, sid)
	reply, err := s.api.StartChat(ctx, sid)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		logger.Debug(ctx, "discarding stale chat start")
		return ErrStale
	}
	s.pending = false
	if err != nil {
		err = remote.Wrap(remote.OpChatStart, err)
		logger.Warn(ctx, "chat start failed", "error", err)
		s.appendLocked(SenderBot, startFailedText, nil, true)
		return err
	}
	s.greeted = true
	s.applyReplyLocked(reply)
	return nil
}

// SendMessage sends one user turn. Empty text and calls made while another
// request is pending are no-ops reported as ErrEmptyMessage and ErrPending.
func (s *Session) SendMessage(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return ErrPending
	}
	if s.sessionID == "" {
		s.mu.Unlock()
		return ErrNotOpen
	}
	s.appendLocked(SenderUser, text, nil, false)
	s.pending = true
	s.typing = true
	sid, epoch, resetCh := s.sessionID, s.epoch, s.resetCh
	s.mu.Unlock()

	ctx = logger.WithSession(ctx, sid)
	reply, err := s.api.SendChatMessage(ctx, sid, text)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.epoch != epoch {
			return ErrStale
		}
		err = remote.Wrap(remote.OpChatMessage, err)
		logger.Warn(ctx, "chat message failed", "error", err)
		s.pending = false
		s.typing = false
		s.appendLocked(SenderBot, messageFailedText, nil, true)
		return err
	}

	if d := s.pause(); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-t.C:
		case <-resetCh:
			t.Stop()
			return ErrStale
		case <-ctx.Done():
			t.Stop()
		}
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrStale
	}
	s.pending = false
	s.typing = false
	s.applyReplyLocked(reply)
	escalate := s.onEscalation
	s.mu.Unlock()

	if reply.Escalates() && escalate != nil {
		logger.Info(ctx, "assistant requested resume analysis")
		time.AfterFunc(s.cfg.EscalationDelay, func() {
			s.mu.Lock()
			current := s.epoch == epoch
			s.mu.Unlock()
			if current {
				escalate(sid)
			}
		})
	}
	return nil
}

// SelectSuggestion sends one of the currently offered quick replies.
func (s *Session) SelectSuggestion(ctx context.Context, text string) error {
	s.mu.Lock()
	offered := false
	for _, sg := range s.suggestions {
		if sg == text {
			offered = true
			break
		}
	}
	s.mu.Unlock()
	if !offered {
		return ErrUnknownSuggestion
	}
	return s.SendMessage(ctx, text)
}

// SelectSuggestionAt sends the quick reply at index i.
func (s *Session) SelectSuggestionAt(ctx context.Context, i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return ErrUnknownSuggestion
	}
	text := s.suggestions[i]
	s.mu.Unlock()
	return s.SendMessage(ctx, text)
}

// Reset abandons the current session, tells the server on a best-effort
// basis and opens a fresh session with a new id. The session stays pending
// until the new greeting settles, so no message can precede it. Responses
// still in flight for the old session are dropped when they arrive.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	closed := s.snapshotLocked()
	oldID := s.sessionID
	s.epoch++
	close(s.resetCh)
	s.resetCh = make(chan struct{})
	s.sessionID = uuid.NewString()
	s.seq = 0
	s.transcript = nil
	s.stage = InitialStage
	s.progress = 0
	s.suggestions = []string{}
	s.pending = true
	s.typing = false
	s.greeted = false
	sid, epoch := s.sessionID, s.epoch
	hook := s.onReset
	s.mu.Unlock()

	if hook != nil && oldID != "" {
		hook(closed)
	}
	if oldID != "" {
		if err := s.api.ResetChat(ctx, oldID); err != nil {
			logger.Warn(logger.WithSession(ctx, oldID), "chat reset failed", "error", remote.Wrap(remote.OpChatReset, err))
		}
	}
	s.mu.Lock()
	superseded := s.epoch != epoch
	s.mu.Unlock()
	if superseded {
		return ErrStale
	}
	return s.start(ctx, sid, epoch)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SessionID returns the current session id, empty before Open.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		SessionID:   s.sessionID,
		Transcript:  append([]Message{}, s.transcript...),
		Stage:       s.stage,
		Progress:    s.progress,
		Suggestions: append([]string{}, s.suggestions...),
		Pending:     s.pending,
		Typing:      s.typing,
	}
}

func (s *Session) appendLocked(sender Sender, text string, md *remote.Metadata, synthetic bool) {
	s.seq++
	s.transcript = append(s.transcript, Message{
		ID:        s.seq,
		Sender:    sender,
		Text:      text,
		Timestamp: s.now(),
		Metadata:  md,
		Synthetic: synthetic,
	})
}

func (s *Session) applyReplyLocked(r remote.ChatReply) {
	s.appendLocked(SenderBot, r.Message, r.Metadata, false)
	if r.Stage != "" {
		s.stage = r.Stage
	}
	s.progress = remote.ClampPercent(r.Progress)
	s.suggestions = append([]string{}, r.Suggestions...)
}
