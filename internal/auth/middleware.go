package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
	apperrors "github.com/gupta1123/fieldsales-teams/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	EmployeeID   int64
	Role         string
	Authorities  []string
	Capabilities domain.Capabilities
	// Token is the raw bearer token, forwarded to the CRM backend.
	Token string
}

// AuthMiddleware validates bearer tokens and resolves capabilities.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}
	raw := strings.TrimSpace(parts[1])

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	employeeID, err := claims.EmployeeID()
	if err != nil {
		return apperrors.NewUnauthorized("invalid token subject")
	}

	principal := &Principal{
		EmployeeID:   employeeID,
		Role:         claims.Role,
		Authorities:  claims.Authorities,
		Capabilities: domain.ResolveCapabilities(claims.Role, claims.Authorities),
		Token:        raw,
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
