package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/logger"
	"github.com/Anaswara-jk/Careerly/pkg/resume"
)

const previewRunes = 1200

type ResumeHandler struct {
	coord *guide.Coordinator
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
	baseDir  string

	// stored is the directory holding the currently selected file.
	mu     sync.Mutex
	stored string
}

func NewResumeHandler(coord *guide.Coordinator, maxBytes int64, baseDir string) *ResumeHandler {
	if maxBytes <= 0 {
		maxBytes = 15 << 20
	}
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &ResumeHandler{coord: coord, maxBytes: maxBytes, baseDir: baseDir}
}

// SelectFile stores the uploaded resume locally and selects it for analysis.
// @Summary Select a resume file
// @Description Accepts a PDF, DOC or DOCX file. Validation is local; nothing is sent to the backend yet.
// @Tags    resume
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Resume file (PDF, DOC or DOCX)"
// @Security BearerAuth
// @Success 200 {object} resume.Snapshot
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /resume/file [post]
func (h *ResumeHandler) SelectFile(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.Error(c, http.StatusBadRequest, "file is required (pdf, doc or docx)")
	}
	if !resume.AllowedType(fh.Filename, fh.Header.Get("Content-Type")) {
		return respondError(c, fmt.Errorf("%w: %s", resume.ErrInvalidFileType, fh.Filename))
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return respondError(c, err)
	}
	dir := filepath.Join(h.baseDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to prepare storage")
	}
	dst := filepath.Join(dir, filepath.Base(fh.Filename))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to store file")
	}
	f, err := resume.OpenFile(dst)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to store file")
	}
	if err := h.coord.SelectFile(f); err != nil {
		_ = os.RemoveAll(dir)
		return respondError(c, err)
	}
	h.keepStored(c.UserContext(), dir)
	return presenter.JSON(c, http.StatusOK, h.coord.Workflow().Snapshot())
}

// Analyze starts upload, parse and suggest for the selected file.
// @Summary Start resume analysis
// @Description Runs in the background; poll GET /resume for progress.
// @Tags    resume
// @Produce json
// @Security BearerAuth
// @Success 202 {object} presenter.Accepted
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /resume/analyze [post]
func (h *ResumeHandler) Analyze(c *fiber.Ctx) error {
	snap := h.coord.Workflow().Snapshot()
	if snap.SelectedFile == "" {
		return respondError(c, resume.ErrNoFile)
	}
	if snap.Busy() || snap.Stage == resume.StageComplete {
		return respondError(c, resume.ErrBusy)
	}
	ctx := logger.WithRequestID(context.Background(), requestID(c))
	go func() {
		if err := h.coord.Analyze(ctx); err != nil && !resume.IsStale(err) {
			logger.Warn(ctx, "resume analysis ended with error", "error", err)
		}
	}()
	return presenter.JSON(c, http.StatusAccepted, presenter.Accepted{Status: "started"})
}

// Get returns the current analysis state.
// @Summary Resume analysis state
// @Tags    resume
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resume.Snapshot
// @Router  /resume [get]
func (h *ResumeHandler) Get(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, h.coord.Workflow().Snapshot())
}

// Preview returns a plain-text excerpt of the selected file.
// @Summary Selected file preview
// @Tags    resume
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /resume/preview [get]
func (h *ResumeHandler) Preview(c *fiber.Ctx) error {
	text, err := h.coord.Preview(previewRunes)
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"text": text})
}

// Reset forgets the file and all results.
// @Summary Reset resume analysis
// @Tags    resume
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resume.Snapshot
// @Router  /resume/reset [post]
func (h *ResumeHandler) Reset(c *fiber.Ctx) error {
	h.coord.ResetAnalysis()
	h.keepStored(c.UserContext(), "")
	return presenter.JSON(c, http.StatusOK, h.coord.Workflow().Snapshot())
}

// Acknowledge dismisses a complete analysis.
// @Summary Acknowledge a complete analysis
// @Tags    resume
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resume.Snapshot
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /resume/ack [post]
func (h *ResumeHandler) Acknowledge(c *fiber.Ctx) error {
	if err := h.coord.AcknowledgeAnalysis(); err != nil {
		return respondError(c, err)
	}
	h.keepStored(c.UserContext(), "")
	return presenter.JSON(c, http.StatusOK, h.coord.Workflow().Snapshot())
}

// keepStored records dir as the live upload directory and removes the
// previous one, whose file the workflow no longer references.
func (h *ResumeHandler) keepStored(ctx context.Context, dir string) {
	h.mu.Lock()
	prev := h.stored
	h.stored = dir
	h.mu.Unlock()
	if prev == "" || prev == dir {
		return
	}
	if err := os.RemoveAll(prev); err != nil {
		logger.Warn(ctx, "failed to remove stored resume", "dir", prev, "error", err)
	}
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("%w: limit is %d bytes", resume.ErrFileTooLarge, max)
	}
	return b, nil
}

func requestID(c *fiber.Ctx) string {
	if id := c.Get(fiber.HeaderXRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}
