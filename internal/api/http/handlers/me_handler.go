package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/api/dto"
	"github.com/gupta1123/fieldsales-teams/internal/auth"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

// Me GET /me.
func Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	authorities := principal.Authorities
	if authorities == nil {
		authorities = []string{}
	}
	return c.JSON(fiber.Map{"data": dto.MeResponse{
		EmployeeID:   principal.EmployeeID,
		Role:         principal.Role,
		Authorities:  authorities,
		Capabilities: principal.Capabilities,
	}})
}
