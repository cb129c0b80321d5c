package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
	"github.com/Anaswara-jk/Careerly/pkg/history"
)

type HistoryHandler struct {
	repo history.Repository
}

func NewHistoryHandler(repo history.Repository) *HistoryHandler { return &HistoryHandler{repo: repo} }

// Analyses lists archived analyses, newest first.
// @Summary Archived analyses
// @Tags    history
// @Produce json
// @Param   limit  query int false "Page size (max 200)"
// @Param   offset query int false "Offset"
// @Security BearerAuth
// @Success 200 {array} history.Analysis
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /history/analyses [get]
func (h *HistoryHandler) Analyses(c *fiber.Ctx) error {
	limit, offset := historyPage(c, history.DefaultLimit)
	items, err := h.repo.ListAnalyses(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list analyses")
	}
	return presenter.JSON(c, http.StatusOK, items)
}

// Transcripts lists archived chat conversations, newest first.
// @Summary Archived chat transcripts
// @Tags    history
// @Produce json
// @Param   limit  query int false "Page size (max 200)"
// @Param   offset query int false "Offset"
// @Security BearerAuth
// @Success 200 {array} history.Transcript
// @Failure 500 {object} presenter.ErrorResponse
// @Router  /history/transcripts [get]
func (h *HistoryHandler) Transcripts(c *fiber.Ctx) error {
	limit, offset := historyPage(c, history.DefaultLimit)
	items, err := h.repo.ListTranscripts(c.Context(), limit, offset)
	if err != nil {
		return presenter.Error(c, http.StatusInternalServerError, "failed to list transcripts")
	}
	return presenter.JSON(c, http.StatusOK, items)
}
