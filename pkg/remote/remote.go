package remote

import (
	"context"
	"io"
)

// ActionEscalate is the reply action asking the chat surface to hand control
// to resume analysis.
const ActionEscalate = "redirect_to_resume_upload"

// File is a user-chosen document handed to the upload call.
type File struct {
	Name        string
	ContentType string
	Size        int64
	// Open returns a fresh reader over the file contents. It may be called
	// once per upload attempt.
	Open func() (io.ReadCloser, error)
}

// ProgressFunc receives upload progress as a percentage in [0,100].
type ProgressFunc func(percent int)

// Experience is one role block extracted from a resume.
type Experience struct {
	Role        string `json:"role"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// ParsedResume is the structured record returned by the parse stage.
type ParsedResume struct {
	Name       string       `json:"name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Skills     []string     `json:"skills"`
	Education  []string     `json:"education"`
	Experience []Experience `json:"experience"`
}

// CareerSuggestion is one ranked career returned by the suggest stage.
type CareerSuggestion struct {
	Title      string   `json:"title"`
	Confidence *float64 `json:"confidence,omitempty"`
	Score      *float64 `json:"score,omitempty"`
	Skills     []string `json:"skills"`
}

// Suggestions is the full suggest-stage result. Careers keeps server order.
type Suggestions struct {
	Careers      []CareerSuggestion `json:"careers"`
	ParsedSkills []string           `json:"parsedSkills,omitempty"`
	Method       string             `json:"method,omitempty"`
	Message      string             `json:"message,omitempty"`
}

// Recommendation is a career card attached to a bot message.
type Recommendation struct {
	Title string `json:"title"`
	// MatchScore is a percentage in 0..100.
	MatchScore float64  `json:"matchScore"`
	KeySkills  []string `json:"keySkills"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Metadata carries optional structured payload of a bot message.
type Metadata struct {
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Actions         []string         `json:"actions,omitempty"`
}

// ChatReply is one assistant turn.
type ChatReply struct {
	Message     string    `json:"message"`
	Stage       string    `json:"stage"`
	Progress    int       `json:"progress"`
	Suggestions []string  `json:"suggestions"`
	Metadata    *Metadata `json:"metadata,omitempty"`
	Action      string    `json:"action,omitempty"`
}

// Escalates reports whether the reply asks to switch to resume analysis.
func (r ChatReply) Escalates() bool { return r.Action == ActionEscalate }

// ChatSummary is the server-side view of a conversation.
type ChatSummary struct {
	SessionID          string         `json:"sessionId"`
	Stage              string         `json:"stage"`
	ConversationLength int            `json:"conversationLength"`
	CollectedData      map[string]any `json:"collectedData,omitempty"`
}

// Status is the remote root probe payload.
type Status struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// ResumeAPI is the part of the remote service used by the resume pipeline.
type ResumeAPI interface {
	UploadFile(ctx context.Context, file File, progress ProgressFunc) (string, error)
	FetchParsedResume(ctx context.Context, fileID string) (ParsedResume, error)
	FetchCareerSuggestions(ctx context.Context, fileID string) (Suggestions, error)
}

// ChatAPI is the part of the remote service used by the chat session.
type ChatAPI interface {
	StartChat(ctx context.Context, sessionID string) (ChatReply, error)
	SendChatMessage(ctx context.Context, sessionID, text string) (ChatReply, error)
	ResetChat(ctx context.Context, sessionID string) error
}

// Service is the whole remote contract.
type Service interface {
	ResumeAPI
	ChatAPI
	ChatSummary(ctx context.Context, sessionID string) (ChatSummary, error)
	Status(ctx context.Context) (Status, error)
}

// ClampPercent bounds p to [0,100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
