package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "dashboard" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&DailyMetrics{}, &UserSettings{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	svc := NewService(db, broker)
	handler := NewHandler(svc, broker)

	router.Get("/dashboard", handler.Get)
	router.Put("/metrics/daily", handler.UpsertDaily)
	router.Get("/metrics/daily", handler.GetDaily)
	router.Get("/settings", handler.GetSettings)
	router.Put("/settings", handler.UpdateSettings)
	router.Get("/settings/stream", handler.StreamSettings)
	router.Get("/progress", handler.Progress)
}
