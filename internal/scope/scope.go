// Package scope carries the current identity through request handling. The
// signed-in user is always passed explicitly, never read from module-level
// state, so services stay testable.
package scope

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mybenefit/fitness-backend/internal/subscription"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope filtering rows by owning user. Every
// user-scoped table query goes through it, which is what the deletion
// fan-out's exact-match filter relies on.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// UserID extracts the user UUID from JWT claims in the Fiber context.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// Topic is the canonical subscription topic for one user's slice of a
// collection.
func Topic(collection string, userID uuid.UUID) subscription.Topic {
	return subscription.Topic(fmt.Sprintf("%s:%s", collection, userID))
}
