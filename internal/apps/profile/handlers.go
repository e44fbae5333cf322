package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mybenefit/fitness-backend/internal/dto"
	"github.com/mybenefit/fitness-backend/internal/scope"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func (h *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fail(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidMeasure):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
}

// Get handles GET /profile.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	p, err := h.service.Get(userID)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(p)
}

// Update handles PUT /profile.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	p, err := h.service.Update(userID, &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(p)
}

// BMI handles GET /profile/bmi.
func (h *Handler) BMI(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	resp, err := h.service.BMI(userID)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(resp)
}
