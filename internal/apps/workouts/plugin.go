package workouts

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

func (p *Plugin) ID() string { return "workouts" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Workout{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	svc := NewService(db, broker)
	handler := NewHandler(svc)

	router.Post("/workouts", handler.Create)
	router.Get("/workouts", handler.List)
	router.Get("/workouts/:id", handler.Get)
	router.Put("/workouts/:id", handler.Update)
	router.Delete("/workouts/:id", handler.Delete)
}
