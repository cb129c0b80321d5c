// Package history archives finished resume analyses and closed chat
// conversations.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// Analysis is a completed resume analysis.
type Analysis struct {
	ID          uuid.UUID           `json:"id"`
	FileName    string              `json:"fileName"`
	FileID      string              `json:"fileId"`
	Parsed      remote.ParsedResume `json:"parsed"`
	Suggestions remote.Suggestions  `json:"careerSuggestions"`
	CreatedAt   time.Time           `json:"createdAt"`
}

// Transcript is a chat conversation closed by a reset.
type Transcript struct {
	ID        uuid.UUID      `json:"id"`
	SessionID string         `json:"sessionId"`
	Stage     string         `json:"stage"`
	Progress  int            `json:"progress"`
	Messages  []chat.Message `json:"messages"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Repository stores archived items. List methods return newest first.
type Repository interface {
	SaveAnalysis(ctx context.Context, a Analysis) error
	SaveTranscript(ctx context.Context, t Transcript) error
	ListAnalyses(ctx context.Context, limit, offset int) ([]Analysis, error)
	ListTranscripts(ctx context.Context, limit, offset int) ([]Transcript, error)
}

const DefaultLimit = 50
