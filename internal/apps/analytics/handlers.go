package analytics

import (
	"errors"
	"time"

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

func respond(c *fiber.Ctx, data interface{}, err error) error {
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(data)
}

// Series handles GET /analytics/series?range=week|month|year.
func (h *Handler) Series(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	data, err := h.service.Series(userID, c.Query("range", "week"), time.Now())
	return respond(c, data, err)
}

// Performance handles GET /analytics/performance?range=week|month|year.
func (h *Handler) Performance(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	data, err := h.service.Performance(userID, c.Query("range", "week"), time.Now())
	return respond(c, data, err)
}

// Predictions handles GET /analytics/predictions.
func (h *Handler) Predictions(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	data, err := h.service.Predictions(userID, time.Now())
	return respond(c, data, err)
}

// Distribution handles GET /analytics/distribution?range=week|month|year.
func (h *Handler) Distribution(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	data, err := h.service.Distribution(userID, c.Query("range", "week"), time.Now())
	return respond(c, data, err)
}
