// Package unitofwork provides a fiber middleware creating one unit of work per request.
package unitofwork

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/greensocial/green/internal/db/uow"
)

const (
	// LocalsKey holds the *uow.UnitOfWork of the request.
	LocalsKey = "unitOfWork"
	// IDLocalsKey holds the unit of work id, used by the access log.
	IDLocalsKey = "uow"
)

// New returns a middleware binding a fresh unit of work to every request.
// The unit of work is bound to c.UserContext(), which is
// context.Background() unless an earlier middleware replaced it. Changes left
// unsaved when the handler returns are discarded.
func New(db *gorm.DB) fiber.Handler {
	if db == nil {
		panic("db cannot be nil")
	}

	return func(c *fiber.Ctx) error {
		u := uow.New(db.WithContext(c.UserContext()))

		c.Locals(LocalsKey, u)
		c.Locals(IDLocalsKey, u.ID())

		err := c.Next()

		if u.HasChanges() {
			log.Warn().Str("uow", u.ID()).Str("path", c.Path()).Msg("discarding unsaved changes")
			u.Discard()
		}

		return err
	}
}

// From returns the unit of work of the request, or nil outside the middleware.
func From(c *fiber.Ctx) *uow.UnitOfWork {
	u, _ := c.Locals(LocalsKey).(*uow.UnitOfWork)

	return u
}

// ID returns the unit of work id of the request, or an empty string.
func ID(c *fiber.Ctx) string {
	id, _ := c.Locals(IDLocalsKey).(string)

	return id
}
