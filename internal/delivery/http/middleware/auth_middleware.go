package middleware

import (
	"slices"
	"strings"

	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/delivery/http/response"
	"kalaghar/internal/domain/entity"
	"kalaghar/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHORIZED", "Invalid or expired token")
		}

		// Set caller identity on the context for handlers to use
		deliverycontext.SetCaller(c, claims.UserID, claims.Role)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks the caller's role. Admins
// pass every role gate. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(roles ...entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := deliverycontext.GetCallerRole(c)
			if role == "" {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: role information missing")
			}
			if role != entity.RoleAdmin && !slices.Contains(roles, role) {
				return response.Forbidden(c, "FORBIDDEN", "Permission denied: insufficient role")
			}

			return next(c)
		}
	}
}
