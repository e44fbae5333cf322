package activity

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

func (p *Plugin) ID() string { return "activity" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{
		&Activity{},
		&ExtendedActivity{},
	}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	svc := NewService(db, broker)
	handler := NewHandler(svc, broker)

	router.Post("/activities", handler.Create)
	router.Get("/activities", handler.List)
	router.Get("/activities/stream", handler.Stream)
	router.Get("/activities/stats/weekly", handler.WeeklyStats)
	router.Post("/activities/simple", handler.CreateSimple)
	router.Get("/activities/simple", handler.ListSimple)
	router.Put("/activities/:id", handler.Update)
	router.Delete("/activities/:id", handler.Delete)
}
