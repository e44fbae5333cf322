package goals

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
)

type Handler struct {
	service *Service
	broker  *subscription.Broker
}

func NewHandler(service *Service, broker *subscription.Broker) *Handler {
	return &Handler{service: service, broker: broker}
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// Create handles POST /goals.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	g, err := h.service.Create(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidGoalType), errors.Is(err, ErrInvalidTarget):
			return fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return fail(c, fiber.StatusInternalServerError, "Something went wrong")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// List handles GET /goals with an optional achieved=true|false filter.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var achieved *bool
	switch c.Query("achieved") {
	case "true":
		v := true
		achieved = &v
	case "false":
		v := false
		achieved = &v
	}

	list, err := h.service.List(userID, achieved)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}

	now := time.Now()
	out := make([]GoalStatus, 0, len(list))
	for _, g := range list {
		out = append(out, Status(g, now))
	}
	return c.JSON(out)
}

// Update handles PUT /goals/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid goal id")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	g, err := h.service.Update(userID, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fail(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrInvalidGoalType), errors.Is(err, ErrInvalidTarget):
			return fail(c, fiber.StatusBadRequest, err.Error())
		default:
			return fail(c, fiber.StatusInternalServerError, "Something went wrong")
		}
	}
	return c.JSON(g)
}

// Delete handles DELETE /goals/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid goal id")
	}

	if err := h.service.Delete(userID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fail(c, fiber.StatusNotFound, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export handles GET /goals/export.
func (h *Handler) Export(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	out, err := h.service.Export(userID, time.Now())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	c.Set("Content-Disposition", `attachment; filename="goals-`+out.ExportedAt+`.json"`)
	return c.JSON(out)
}

// Stream handles GET /goals/stream.
func (h *Handler) Stream(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	sub := subscription.Subscribe(context.Background(), h.broker,
		func(context.Context) ([]Goal, error) {
			return h.service.List(userID, nil)
		},
		scope.Topic(Collection, userID))

	return apps.StreamJSON(c, sub)
}
