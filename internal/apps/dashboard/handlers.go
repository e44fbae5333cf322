package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
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

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: msg})
}

// Get handles GET /dashboard.
func (h *Handler) Get(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	payload, err := h.service.Dashboard(userID, time.Now())
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(payload)
}

// UpsertDaily handles PUT /metrics/daily.
func (h *Handler) UpsertDaily(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req UpsertMetricsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	m, err := h.service.UpsertDaily(userID, &req)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(m)
}

// GetDaily handles GET /metrics/daily?date=<millis>; date defaults to today.
func (h *Handler) GetDaily(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	day := time.Now()
	if ms := c.QueryInt("date", 0); ms > 0 {
		day = timeutil.Timestamp(ms).Time()
	}

	m, err := h.service.GetDaily(userID, day)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	if m == nil {
		return fail(c, fiber.StatusNotFound, "No metrics tracked for that day")
	}
	return c.JSON(m)
}

// GetSettings handles GET /settings.
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	settings, err := h.service.Settings(userID)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(settings)
}

// UpdateSettings handles PUT /settings.
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	settings, err := h.service.UpdateSettings(userID, &req)
	if err != nil {
		if errors.Is(err, ErrInvalidTheme) || errors.Is(err, ErrInvalidStepsTarget) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(settings)
}

// StreamSettings handles GET /settings/stream.
func (h *Handler) StreamSettings(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	sub := subscription.Subscribe(context.Background(), h.broker,
		func(context.Context) ([]UserSettings, error) {
			return h.service.SettingsList(userID)
		},
		scope.Topic(SettingsCollection, userID))

	return apps.StreamJSON(c, sub)
}

// Progress handles GET /progress?type=weekly|monthly.
func (h *Handler) Progress(c *fiber.Ctx) error {
	userID, err := scope.UserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	list, err := h.service.Progress(userID, c.Query("type", "weekly"))
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			return fail(c, fiber.StatusBadRequest, err.Error())
		}
		return fail(c, fiber.StatusInternalServerError, "Something went wrong")
	}
	return c.JSON(list)
}
