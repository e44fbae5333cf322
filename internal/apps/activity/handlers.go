package activity

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/apps"
	"github.com/mybenefit/fitness-backend/internal/dto"
	"github.com/mybenefit/fitness-backend/internal/scope"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"github.com/mybenefit/fitness-backend/internal/timeutil"
)

type Handler struct {
	service *Service
	broker  *subscription.Broker
}

func NewHandler(service *Service, broker *subscription.Broker) *Handler {
	return &Handler{service: service, broker: broker}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: true, Message: "Unauthorized"})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: true, Message: "Something went wrong"})
}

// Create handles POST /activities.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.service.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidMetric):
			return badRequest(c, err.Error())
		default:
			return serverError(c)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// List handles GET /activities with optional from/to millis filters.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var (
		list []ExtendedActivity
	)
	from := c.QueryInt("from", 0)
	to := c.QueryInt("to", 0)
	if from > 0 && to > 0 {
		list, err = h.service.ListByRange(userID,
			timeutil.Timestamp(from).Time(), timeutil.Timestamp(to).Time())
	} else {
		list, err = h.service.List(userID)
	}
	if err != nil {
		return serverError(c)
	}
	return c.JSON(ListResponse{Activities: list, Total: len(list)})
}

// Update handles PUT /activities/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity id")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.service.Update(userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		case errors.Is(err, ErrInvalidType), errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidMetric):
			return badRequest(c, err.Error())
		default:
			return serverError(c)
		}
	}
	return c.JSON(a)
}

// Delete handles DELETE /activities/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid activity id")
	}

	if err := h.service.Delete(userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: err.Error()})
		}
		return serverError(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WeeklyStats handles GET /activities/stats/weekly.
func (h *Handler) WeeklyStats(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	stats, err := h.service.WeeklyStats(userID, time.Now())
	if err != nil {
		return serverError(c)
	}
	return c.JSON(stats)
}

// Stream handles GET /activities/stream: pushes the full activity list on
// every change until the client disconnects.
func (h *Handler) Stream(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	sub := subscription.Subscribe(context.Background(), h.broker,
		func(context.Context) ([]ExtendedActivity, error) {
			return h.service.List(userID)
		},
		scope.Topic(Collection, userID))

	return apps.StreamJSON(c, sub)
}

// CreateSimple handles POST /activities/simple.
func (h *Handler) CreateSimple(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req CreateSimpleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	a, err := h.service.CreateSimple(userID, &req)
	if err != nil {
		return serverError(c)
	}
	return c.Status(fiber.StatusCreated).JSON(a)
}

// ListSimple handles GET /activities/simple.
func (h *Handler) ListSimple(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return unauthorized(c)
	}

	list, err := h.service.ListSimple(userID, c.QueryInt("limit", 50))
	if err != nil {
		return serverError(c)
	}
	return c.JSON(list)
}
