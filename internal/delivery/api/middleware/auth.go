// Package middleware holds the echo middleware specific to the public API.
package middleware

import (
	"slices"
	"strings"

	"storefront/internal/delivery/api/response"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"

	"github.com/labstack/echo/v4"
)

const bearerPrefix = "Bearer "

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the caller on the context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Authorization header is missing")
		}

		tokenString, found := strings.CutPrefix(authHeader, bearerPrefix)
		if !found || tokenString == "" {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
				return response.AppError(c, appErr)
			}

			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Invalid or expired token")
		}

		// Refresh tokens carry no role and must never open the API.
		if claims.Type != service.TokenTypeAccess {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Access token required")
		}

		role := entity.Role(claims.Role)
		if !role.IsValid() {
			return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Token carries no valid role")
		}

		deliverycontext.SetCaller(c, entity.Caller{UserID: claims.UserID, Role: role})

		return next(c)
	}
}

// RequireRole admits callers holding one of the allowed roles. It must run after Authenticate.
func (m *AuthMiddleware) RequireRole(allowed ...entity.Role) echo.MiddlewareFunc {
	names := make([]string, len(allowed))
	for i, role := range allowed {
		names[i] = role.String()
	}
	denied := "Permission denied: requires role " + strings.Join(names, " or ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := deliverycontext.GetCaller(c)
			if !ok {
				return response.Unauthorized(c, domainerrors.ErrInvalidToken.ErrorCode(), "Authentication required")
			}

			if !slices.Contains(allowed, caller.Role) {
				return response.Forbidden(c, domainerrors.ErrForbidden.ErrorCode(), denied)
			}

			return next(c)
		}
	}
}
