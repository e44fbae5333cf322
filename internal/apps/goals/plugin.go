package goals

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

func (p *Plugin) ID() string { return "goals" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Goal{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	svc := NewService(db, broker)
	handler := NewHandler(svc, broker)

	router.Post("/goals", handler.Create)
	router.Get("/goals", handler.List)
	router.Get("/goals/export", handler.Export)
	router.Get("/goals/stream", handler.Stream)
	router.Put("/goals/:id", handler.Update)
	router.Delete("/goals/:id", handler.Delete)
}
