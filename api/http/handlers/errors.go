package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/remote"
	"github.com/Anaswara-jk/Careerly/pkg/resume"
	"github.com/Anaswara-jk/Careerly/pkg/view"
)

var (
	badRequest = []error{
		resume.ErrInvalidFileType, resume.ErrFileTooLarge, resume.ErrNoFile, resume.ErrPreviewUnsupported,
		chat.ErrEmptyMessage, chat.ErrUnknownSuggestion, view.ErrUnknownMode,
	}
	conflict = []error{
		resume.ErrBusy, resume.ErrSuperseded, guide.ErrNotComplete,
		chat.ErrPending, chat.ErrNotOpen, chat.ErrStale,
	}
)

// respondError maps domain errors onto HTTP statuses: 400 for validation,
// 409 for state conflicts, 502 for remote failures, 500 otherwise.
func respondError(c *fiber.Ctx, err error) error {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return presenter.Error(c, http.StatusBadRequest, err.Error())
		}
	}
	for _, target := range conflict {
		if errors.Is(err, target) {
			return presenter.Error(c, http.StatusConflict, err.Error())
		}
	}
	var re *remote.Error
	if errors.As(err, &re) {
		return presenter.RemoteError(c, http.StatusBadGateway, string(re.Op), remote.Cause(err))
	}
	return presenter.Error(c, http.StatusInternalServerError, err.Error())
}
