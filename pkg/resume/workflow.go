package resume

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/remote"
)

// TransitionFunc observes stage changes. It runs outside the workflow lock.
type TransitionFunc func(from, to Stage)

// Workflow drives one resume analysis: upload, parse, then suggest. Every
// remote result is applied only if it belongs to the current attempt, so a
// Reset while a call is in flight discards whatever arrives later.
type Workflow struct {
	api      remote.ResumeAPI
	maxBytes int64

	mu          sync.Mutex
	stage       Stage
	file        *remote.File
	progress    int
	fileID      string
	parsed      *remote.ParsedResume
	suggestions *remote.Suggestions
	failedAt    Stage
	status      string
	attempt     uuid.UUID
	cancel      context.CancelFunc
	observers   []TransitionFunc
	queued      [][2]Stage
}

// NewWorkflow creates an idle workflow. maxBytes <= 0 disables the size check.
func NewWorkflow(api remote.ResumeAPI, maxBytes int64) *Workflow {
	return &Workflow{api: api, maxBytes: maxBytes, stage: StageIdle}
}

// OnTransition registers fn for every stage change.
func (w *Workflow) OnTransition(fn TransitionFunc) {
	w.mu.Lock()
	w.observers = append(w.observers, fn)
	w.mu.Unlock()
}

// SelectFile validates and stores the file for the next analysis. Only
// allowed while idle or failed. Validation never touches the network.
func (w *Workflow) SelectFile(file remote.File) error {
	w.mu.Lock()
	defer w.unlock()

	if w.stage != StageIdle && w.stage != StageFailed {
		return ErrBusy
	}
	if !AllowedType(file.Name, file.ContentType) {
		w.status = "Please select a PDF, DOC or DOCX file"
		return fmt.Errorf("%w: %s", ErrInvalidFileType, file.Name)
	}
	if w.maxBytes > 0 && file.Size > w.maxBytes {
		w.status = fmt.Sprintf("File is too large (limit %d bytes)", w.maxBytes)
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, file.Size)
	}
	f := file
	w.file = &f
	w.clearDerived()
	w.status = ""
	w.advance(StageIdle)
	return nil
}

// BeginAnalysis runs the whole pipeline for the selected file and returns
// when it completes, fails or is superseded. Each stage is issued only after
// the previous one succeeded.
func (w *Workflow) BeginAnalysis(ctx context.Context) error {
	w.mu.Lock()
	if w.file == nil {
		w.unlock()
		return ErrNoFile
	}
	if w.stage != StageIdle && w.stage != StageFailed {
		w.unlock()
		return ErrBusy
	}
	attempt := uuid.New()
	ctx, cancel := context.WithCancel(ctx)
	w.attempt = attempt
	w.cancel = cancel
	file := *w.file
	w.clearDerived()
	w.status = ""
	w.advance(StageUploading)
	w.unlock()
	defer cancel()

	ctx = logger.WithAttempt(ctx, attempt.String())
	logger.Debug(ctx, "resume analysis started", "file", file.Name)

	fileID, err := w.api.UploadFile(ctx, file, w.progressFor(attempt))
	if err := w.settle(ctx, attempt, StageUploading, err, func() {
		w.fileID = fileID
		w.progress = 100
		w.status = "Resume uploaded successfully!"
		w.advance(StageUploaded)
		w.advance(StageParsing)
	}); err != nil {
		return err
	}

	parsed, err := w.api.FetchParsedResume(ctx, fileID)
	if err := w.settle(ctx, attempt, StageParsing, err, func() {
		w.parsed = &parsed
		w.status = "Resume parsed"
		w.advance(StageParsed)
		w.advance(StageSuggesting)
	}); err != nil {
		return err
	}

	sugg, err := w.api.FetchCareerSuggestions(ctx, fileID)
	return w.settle(ctx, attempt, StageSuggesting, err, func() {
		w.suggestions = &sugg
		w.status = "Career suggestions ready"
		w.cancel = nil
		w.advance(StageComplete)
	})
}

// settle applies the outcome of one stage call under the lock.
func (w *Workflow) settle(ctx context.Context, attempt uuid.UUID, stage Stage, err error, apply func()) error {
	w.mu.Lock()
	defer w.unlock()
	if w.attempt != attempt {
		logger.Debug(ctx, "discarding stale resume response", "stage", stage)
		return ErrSuperseded
	}
	if err != nil {
		err = remote.Wrap(stage.op(), err)
		w.failedAt = stage
		if stage == StageUploading {
			w.progress = 0
		}
		w.status = fmt.Sprintf("%s failed: %s", stage.label(), remote.Cause(err))
		w.cancel = nil
		w.advance(StageFailed)
		logger.Warn(ctx, "resume analysis failed", "stage", stage, "error", err)
		return err
	}
	apply()
	return nil
}

func (w *Workflow) progressFor(attempt uuid.UUID) remote.ProgressFunc {
	return func(p int) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.attempt != attempt || w.stage != StageUploading {
			return
		}
		if p = remote.ClampPercent(p); p > w.progress {
			w.progress = p
		}
	}
}

// Reset returns to idle from any stage and forgets the file and all results.
// A call in flight is cancelled and its result ignored.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.unlock()
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	w.attempt = uuid.Nil
	w.file = nil
	w.clearDerived()
	w.status = ""
	w.advance(StageIdle)
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := Snapshot{
		Stage:          w.stage,
		UploadProgress: w.progress,
		FileID:         w.fileID,
		FailedStage:    w.failedAt,
		Status:         w.status,
	}
	if w.file != nil {
		s.SelectedFile = w.file.Name
	}
	if w.attempt != uuid.Nil {
		s.AttemptID = w.attempt.String()
	}
	if w.parsed != nil {
		p := *w.parsed
		s.Parsed = &p
	}
	if w.suggestions != nil {
		sg := *w.suggestions
		s.Suggestions = &sg
	}
	return s
}

// SelectedFile returns the file chosen for the next or current analysis.
func (w *Workflow) SelectedFile() (remote.File, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return remote.File{}, false
	}
	return *w.file, true
}

// Stage returns the current stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

func (w *Workflow) clearDerived() {
	w.progress = 0
	w.fileID = ""
	w.parsed = nil
	w.suggestions = nil
	w.failedAt = ""
}

// advance must be called with mu held.
func (w *Workflow) advance(to Stage) {
	if w.stage == to {
		return
	}
	w.queued = append(w.queued, [2]Stage{w.stage, to})
	w.stage = to
}

// unlock releases mu and then notifies observers of queued transitions.
func (w *Workflow) unlock() {
	queued := w.queued
	w.queued = nil
	obs := w.observers
	w.mu.Unlock()
	for _, t := range queued {
		for _, fn := range obs {
			fn(t[0], t[1])
		}
	}
}

// IsStale reports whether err means the analysis result was discarded.
func IsStale(err error) bool { return errors.Is(err, ErrSuperseded) }
