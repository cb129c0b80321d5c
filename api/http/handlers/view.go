package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Anaswara-jk/Careerly/api/http/presenter"
	"github.com/Anaswara-jk/Careerly/pkg/guide"
	"github.com/Anaswara-jk/Careerly/pkg/view"
)

type ViewHandler struct {
	coord *guide.Coordinator
}

func NewViewHandler(coord *guide.Coordinator) *ViewHandler { return &ViewHandler{coord: coord} }

// Get returns the current page and chat panel state.
// @Summary View state
// @Tags    view
// @Produce json
// @Security BearerAuth
// @Success 200 {object} view.State
// @Router  /view [get]
func (h *ViewHandler) Get(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, h.coord.View())
}

// Put replaces the view state.
// @Summary Update view state
// @Tags    view
// @Accept  json
// @Produce json
// @Param   input body view.State true "View state"
// @Security BearerAuth
// @Success 200 {object} view.State
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /view [put]
func (h *ViewHandler) Put(c *fiber.Ctx) error {
	var s view.State
	if err := c.BodyParser(&s); err != nil {
		return presenter.Error(c, http.StatusBadRequest, err.Error())
	}
	if err := h.coord.SetView(s); err != nil {
		return respondError(c, err)
	}
	return presenter.JSON(c, http.StatusOK, h.coord.View())
}
