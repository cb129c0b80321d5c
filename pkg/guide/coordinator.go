// Package guide wires the chat session, the resume workflow and the view
// state together for a single user.
package guide

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/history"
	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/remote"
	"github.com/Anaswara-jk/Careerly/pkg/resume"
	"github.com/Anaswara-jk/Careerly/pkg/view"
)

const archiveTimeout = 5 * time.Second

var ErrNotComplete = errors.New("analysis is not complete")

type Config struct {
	Chat           chat.Config
	MaxUploadBytes int64
}

// Coordinator owns one chat session, the current resume workflow and the
// view state. The two state machines never touch each other; escalation only
// changes the view.
type Coordinator struct {
	api      remote.Service
	history  history.Repository
	maxBytes int64
	chat     *chat.Session

	mu       sync.Mutex
	workflow *resume.Workflow
	view     view.State
}

// New builds a coordinator. hist may be nil to disable archiving.
func New(api remote.Service, cfg Config, hist history.Repository) *Coordinator {
	c := &Coordinator{
		api:      api,
		history:  hist,
		maxBytes: cfg.MaxUploadBytes,
		chat:     chat.NewSession(api, cfg.Chat),
		view:     view.Initial(),
	}
	c.workflow = c.newWorkflow()
	c.chat.OnEscalation(c.escalate)
	c.chat.OnReset(c.archiveTranscript)
	return c
}

func (c *Coordinator) newWorkflow() *resume.Workflow {
	w := resume.NewWorkflow(c.api, c.maxBytes)
	w.OnTransition(func(from, to resume.Stage) {
		logger.Debug(context.Background(), "resume stage", "from", from, "to", to)
	})
	return w
}

func (c *Coordinator) Chat() *chat.Session { return c.chat }

// Workflow returns the current resume workflow.
func (c *Coordinator) Workflow() *resume.Workflow {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.workflow
}

func (c *Coordinator) History() history.Repository { return c.history }

func (c *Coordinator) View() view.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Coordinator) SetView(s view.State) error {
	if !s.Mode.Valid() {
		return view.ErrUnknownMode
	}
	c.mu.Lock()
	c.view = s
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) escalate(sessionID string) {
	c.mu.Lock()
	c.view = c.view.Escalated()
	c.mu.Unlock()
	logger.Info(logger.WithSession(context.Background(), sessionID), "switched to resume analysis")
}

// OpenChat opens the chat session if it has not been opened yet and shows
// the chat panel.
func (c *Coordinator) OpenChat(ctx context.Context) error {
	c.mu.Lock()
	c.view = c.view.WithChatOpen(true)
	c.mu.Unlock()
	if c.chat.SessionID() != "" {
		return nil
	}
	return c.chat.Open(ctx)
}

// ChatSummary fetches the server-side summary of the current conversation.
func (c *Coordinator) ChatSummary(ctx context.Context) (remote.ChatSummary, error) {
	sid := c.chat.SessionID()
	if sid == "" {
		return remote.ChatSummary{}, chat.ErrNotOpen
	}
	sum, err := c.api.ChatSummary(ctx, sid)
	if err != nil {
		return remote.ChatSummary{}, remote.Wrap(remote.OpChatSummary, err)
	}
	return sum, nil
}

func (c *Coordinator) SelectFile(f remote.File) error {
	return c.Workflow().SelectFile(f)
}

// Preview returns a text excerpt of the selected file.
func (c *Coordinator) Preview(maxRunes int) (string, error) {
	f, ok := c.Workflow().SelectedFile()
	if !ok {
		return "", resume.ErrNoFile
	}
	return resume.PreviewFile(f, maxRunes)
}

// Analyze runs the current workflow to completion and archives the result.
func (c *Coordinator) Analyze(ctx context.Context) error {
	w := c.Workflow()
	if err := w.BeginAnalysis(ctx); err != nil {
		return err
	}
	c.archiveAnalysis(w.Snapshot())
	return nil
}

func (c *Coordinator) ResetAnalysis() { c.Workflow().Reset() }

// AcknowledgeAnalysis dismisses a complete analysis and starts a fresh
// workflow for the next file.
func (c *Coordinator) AcknowledgeAnalysis() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.workflow.Stage() != resume.StageComplete {
		return ErrNotComplete
	}
	c.workflow = c.newWorkflow()
	return nil
}

func (c *Coordinator) archiveAnalysis(s resume.Snapshot) {
	if c.history == nil || s.Parsed == nil || s.Suggestions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	err := c.history.SaveAnalysis(ctx, history.Analysis{
		FileName:    s.SelectedFile,
		FileID:      s.FileID,
		Parsed:      *s.Parsed,
		Suggestions: *s.Suggestions,
	})
	if err != nil {
		logger.Warn(ctx, "archive analysis failed", "file", s.SelectedFile, "error", err)
	}
}

func (c *Coordinator) archiveTranscript(s chat.Snapshot) {
	if c.history == nil || len(s.Transcript) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(logger.WithSession(context.Background(), s.SessionID), archiveTimeout)
	defer cancel()
	err := c.history.SaveTranscript(ctx, history.Transcript{
		SessionID: s.SessionID,
		Stage:     s.Stage,
		Progress:  s.Progress,
		Messages:  s.Transcript,
	})
	if err != nil {
		logger.Warn(ctx, "archive transcript failed", "error", err)
	}
}
