package profile

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

func (p *Plugin) ID() string { return "profile" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&Profile{}}
}

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	svc := NewService(db, broker)
	handler := NewHandler(svc)

	router.Get("/profile", handler.Get)
	router.Put("/profile", handler.Update)
	router.Get("/profile/bmi", handler.BMI)
}
