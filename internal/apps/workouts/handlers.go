package workouts

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
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
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidDuration),
		errors.Is(err, ErrInvalidExercise):
		return fail(c, fiber.StatusBadRequest, err.Error())
	default:
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
}

// Create handles POST /workouts.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	w, err := h.service.Create(userID, &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

// List handles GET /workouts.
func (h *Handler) List(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	list, err := h.service.List(userID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(ListResponse{Workouts: list, Total: len(list)})
}

// Get handles GET /workouts/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid workout id")
	}

	w, err := h.service.Get(userID, id)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(w)
}

// Update handles PUT /workouts/:id.
func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid workout id")
	}

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	w, err := h.service.Update(userID, id, &req)
	if err != nil {
		return h.serviceError(c, err)
	}
	return c.JSON(w)
}

// Delete handles DELETE /workouts/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid workout id")
	}

	if err := h.service.Delete(userID, id); err != nil {
		return h.serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
