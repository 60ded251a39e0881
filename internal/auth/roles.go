package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// Capability selects one gate from the resolved capabilities.
type Capability func(domain.Capabilities) bool

// CanManageTeams gates team and city mutations.
func CanManageTeams(c domain.Capabilities) bool { return c.CanManageTeams }

// CanViewAllTeams gates unscoped team listings.
func CanViewAllTeams(c domain.Capabilities) bool { return c.CanViewAllTeams }

// RequireCapability ensures the principal holds the capability.
func RequireCapability(capability Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if !capability(principal.Capabilities) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller holds one of the given role tags, either
// as primary role or among the authorities.
func RequireAnyRole(allowed ...domain.RoleTag) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if !domain.HasAnyRole(principal.Role, principal.Authorities, allowed...) {
			return fiber.NewError(http.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
