package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	"github.com/gupta1123/fieldsales-teams/internal/service"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// FiltersHandler persists list filters per user and screen.
type FiltersHandler struct {
	filters *service.FilterStateService
}

// NewFiltersHandler constructs handler.
func NewFiltersHandler(filters *service.FilterStateService) *FiltersHandler {
	return &FiltersHandler{filters: filters}
}

// Get GET /filters/:screen.
func (h *FiltersHandler) Get(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	state, err := h.filters.Load(c.UserContext(), caller, c.Params("screen"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": state})
}

// Put PUT /filters/:screen.
func (h *FiltersHandler) Put(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	var state domain.FilterState
	if err := c.BodyParser(&state); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	saved, err := h.filters.Save(c.UserContext(), caller, c.Params("screen"), state)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": saved})
}

// Delete DELETE /filters/:screen.
func (h *FiltersHandler) Delete(c *fiber.Ctx) error {
	caller, err := callerFrom(c)
	if err != nil {
		return err
	}
	if err := h.filters.Reset(c.UserContext(), caller, c.Params("screen")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
