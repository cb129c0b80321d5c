package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
	"github.com/Anaswara-jk/Careerly/pkg/chat"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/logger"
)

type ChatHandler struct {
	coord *guide.Coordinator
}

func NewChatHandler(coord *guide.Coordinator) *ChatHandler { return &ChatHandler{coord: coord} }

type sendMessageRequest struct {
	Text string `json:"text"`
}

// Open starts the conversation if needed and opens the chat panel.
// @Summary Open chat
// @Tags    chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} chat.Snapshot
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /chat/open [post]
func (h *ChatHandler) Open(c *fiber.Ctx) error {
	if err := h.coord.OpenChat(c.Context()); err != nil && !errors.Is(err, chat.ErrPending) {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, h.coord.Chat().Snapshot())
}

// Get returns the transcript and session state.
// @Summary Chat state
// @Tags    chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} chat.Snapshot
// @Router  /chat [get]
func (h *ChatHandler) Get(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, h.coord.Chat().Snapshot())
}

// Send posts one user turn. The reply is delivered asynchronously.
// @Summary Send a chat message
// @Tags    chat
// @Accept  json
// @Produce json
// @Param   input body sendMessageRequest true "Message text"
// @Security BearerAuth
// @Success 202 {object} presenter.Accepted
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /chat/messages [post]
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return respondError(c, chat.ErrEmptyMessage)
	}
	return h.dispatch(c, func(ctx context.Context) error {
		return h.coord.Chat().SendMessage(ctx, req.Text)
	})
}

// Suggestion sends the quick reply at the given index.
// @Summary Pick a quick reply
// @Tags    chat
// @Produce json
// @Param   index path int true "Suggestion index"
// @Security BearerAuth
// @Success 202 {object} presenter.Accepted
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 409 {object} presenter.ErrorResponse
// @Router  /chat/suggestions/{index} [post]
func (h *ChatHandler) Suggestion(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid suggestion index")
	}
	if idx < 0 || idx >= len(h.coord.Chat().Snapshot().Suggestions) {
		return respondError(c, chat.ErrUnknownSuggestion)
	}
	return h.dispatch(c, func(ctx context.Context) error {
		return h.coord.Chat().SelectSuggestionAt(ctx, idx)
	})
}

// dispatch checks the pending guard and runs send in the background.
func (h *ChatHandler) dispatch(c *fiber.Ctx, send func(ctx context.Context) error) error {
	snap := h.coord.Chat().Snapshot()
	if snap.SessionID == "" {
		return respondError(c, chat.ErrNotOpen)
	}
	if snap.Pending {
		return respondError(c, chat.ErrPending)
	}
	ctx := logger.WithRequestID(context.Background(), requestID(c))
	go func() {
		if err := send(ctx); err != nil && !errors.Is(err, chat.ErrStale) {
			logger.Warn(ctx, "chat turn ended with error", "error", err)
		}
	}()
	return presenter.JSON(c, http.StatusAccepted, presenter.Accepted{Status: "sent"})
}

// Reset closes the conversation and opens a new one.
// @Summary Reset chat
// @Tags    chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} chat.Snapshot
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /chat/reset [post]
func (h *ChatHandler) Reset(c *fiber.Ctx) error {
	if err := h.coord.Chat().Reset(c.Context()); err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, h.coord.Chat().Snapshot())
}

// Summary returns the backend's summary of the conversation.
// @Summary Chat summary
// @Tags    chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} remote.ChatSummary
// @Failure 409 {object} presenter.ErrorResponse
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /chat/summary [get]
func (h *ChatHandler) Summary(c *fiber.Ctx) error {
	sum, err := h.coord.ChatSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, sum)
}
