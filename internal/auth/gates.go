package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ticketdesk/ticketdesk/internal/policy"
	apperrors "github.com/ticketdesk/ticketdesk/pkg/util/errorutil"
)

// RequireAction enforces the action-level role gate before the handler runs.
// Resource-level ownership checks still happen inside the services; this
// gate is the declarative, data-independent half of the policy.
func RequireAction(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !policy.RoleAllows(action, actor.Role) {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a valid actor is present without gating on
// role.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := ActorFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
