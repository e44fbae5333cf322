package analytics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mybenefit/fitness-backend/internal/config"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

// Plugin owns no tables of its own; everything it serves is derived from the
// activity and goals data at read time.
type Plugin struct{}

func New() *Plugin {
	return &Plugin{}
}

func (p *Plugin) ID() string { return "analytics" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterRoutes(router fiber.Router, db *gorm.DB, broker *subscription.Broker, cfg *config.Config) {
	handler := NewHandler(NewService(db))

	router.Get("/analytics/series", handler.Series)
	router.Get("/analytics/performance", handler.Performance)
	router.Get("/analytics/predictions", handler.Predictions)
	router.Get("/analytics/distribution", handler.Distribution)
}
