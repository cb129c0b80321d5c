package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a process-local Repository used when no database is configured.
type Memory struct {
	mu          sync.RWMutex
	analyses    []Analysis
	transcripts []Transcript
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) SaveAnalysis(_ context.Context, a Analysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	m.analyses = append(m.analyses, a)
	m.mu.Unlock()
	return nil
}

func (m *Memory) SaveTranscript(_ context.Context, t Transcript) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.Messages = slices.Clone(t.Messages)
	m.mu.Lock()
	m.transcripts = append(m.transcripts, t)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListAnalyses(_ context.Context, limit, offset int) ([]Analysis, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.analyses, limit, offset), nil
}

func (m *Memory) ListTranscripts(_ context.Context, limit, offset int) ([]Transcript, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return page(m.transcripts, limit, offset), nil
}

// page returns items newest first.
func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	res := make([]T, 0, limit)
	for i := len(items) - 1 - offset; i >= 0 && len(res) < limit; i-- {
		res = append(res, items[i])
	}
	return res
}
