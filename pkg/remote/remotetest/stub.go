// Package remotetest provides an in-memory remote.Service for tests.
package remotetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// Stub is a programmable remote.Service that counts calls per operation.
// Unset funcs fall back to canned successful answers.
type Stub struct {
	UploadFn  func(ctx context.Context, f remote.File, progress remote.ProgressFunc) (string, error)
	ParseFn   func(ctx context.Context, fileID string) (remote.ParsedResume, error)
	SuggestFn func(ctx context.Context, fileID string) (remote.Suggestions, error)
	StartFn   func(ctx context.Context, sessionID string) (remote.ChatReply, error)
	SendFn    func(ctx context.Context, sessionID, text string) (remote.ChatReply, error)
	ResetFn   func(ctx context.Context, sessionID string) error
	SummaryFn func(ctx context.Context, sessionID string) (remote.ChatSummary, error)
	StatusFn  func(ctx context.Context) (remote.Status, error)

	mu       sync.Mutex
	calls    map[remote.Op]int
	sessions []string
	texts    []string
}

var _ remote.Service = (*Stub)(nil)

func (s *Stub) record(op remote.Op, session, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[remote.Op]int{}
	}
	s.calls[op]++
	if session != "" {
		s.sessions = append(s.sessions, session)
	}
	if text != "" {
		s.texts = append(s.texts, text)
	}
}

// Calls returns how many times op was invoked.
func (s *Stub) Calls(op remote.Op) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Sessions lists the session ids seen by chat calls, in call order.
func (s *Stub) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sessions...)
}

// Texts lists the user texts sent, in call order.
func (s *Stub) Texts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *Stub) UploadFile(ctx context.Context, f remote.File, progress remote.ProgressFunc) (string, error) {
	s.record(remote.OpUpload, "", "")
	if s.UploadFn != nil {
		return s.UploadFn(ctx, f, progress)
	}
	if progress != nil {
		progress(50)
		progress(100)
	}
	return f.Name, nil
}

func (s *Stub) FetchParsedResume(ctx context.Context, fileID string) (remote.ParsedResume, error) {
	s.record(remote.OpParse, "", "")
	if s.ParseFn != nil {
		return s.ParseFn(ctx, fileID)
	}
	return remote.ParsedResume{Skills: []string{}, Education: []string{}, Experience: []remote.Experience{}}, nil
}

func (s *Stub) FetchCareerSuggestions(ctx context.Context, fileID string) (remote.Suggestions, error) {
	s.record(remote.OpSuggest, "", "")
	if s.SuggestFn != nil {
		return s.SuggestFn(ctx, fileID)
	}
	return remote.Suggestions{Careers: []remote.CareerSuggestion{}}, nil
}

func (s *Stub) StartChat(ctx context.Context, sessionID string) (remote.ChatReply, error) {
	s.record(remote.OpChatStart, sessionID, "")
	if s.StartFn != nil {
		return s.StartFn(ctx, sessionID)
	}
	return Greeting(), nil
}

func (s *Stub) SendChatMessage(ctx context.Context, sessionID, text string) (remote.ChatReply, error) {
	s.record(remote.OpChatMessage, sessionID, text)
	if s.SendFn != nil {
		return s.SendFn(ctx, sessionID, text)
	}
	return Echo(text), nil
}

func (s *Stub) ResetChat(ctx context.Context, sessionID string) error {
	s.record(remote.OpChatReset, sessionID, "")
	if s.ResetFn != nil {
		return s.ResetFn(ctx, sessionID)
	}
	return nil
}

func (s *Stub) ChatSummary(ctx context.Context, sessionID string) (remote.ChatSummary, error) {
	s.record(remote.OpChatSummary, sessionID, "")
	if s.SummaryFn != nil {
		return s.SummaryFn(ctx, sessionID)
	}
	return remote.ChatSummary{SessionID: sessionID, Stage: "greeting"}, nil
}

func (s *Stub) Status(ctx context.Context) (remote.Status, error) {
	s.record(remote.OpStatus, "", "")
	if s.StatusFn != nil {
		return s.StatusFn(ctx)
	}
	return remote.Status{Status: "running", Model: "stub", Version: "0"}, nil
}

// Greeting is the canned opening turn.
func Greeting() remote.ChatReply {
	return remote.ChatReply{
		Message:     "Hello! What fields interest you?",
		Stage:       "interests",
		Progress:    10,
		Suggestions: []string{"Technology", "Business", "Healthcare"},
	}
}

// Echo is the canned reply to text.
func Echo(text string) remote.ChatReply {
	return remote.ChatReply{
		Message:     fmt.Sprintf("You said: %s", text),
		Stage:       "skills",
		Progress:    25,
		Suggestions: []string{"Programming", "Design"},
	}
}

// Gate blocks a stubbed call until released, signalling when it is entered.
type Gate struct {
	Entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func NewGate() *Gate {
	return &Gate{Entered: make(chan struct{}, 16), release: make(chan struct{})}
}

// Wait marks entry and blocks until Release or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	g.Entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release unblocks every current and future Wait.
func (g *Gate) Release() { g.once.Do(func() { close(g.release) }) }
