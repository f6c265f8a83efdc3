package context

import (
	"storefront/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SetCaller attaches the authenticated identity to the request.
func SetCaller(c echo.Context, caller entity.Caller) {
	c.Set(echoCaller, caller)
}

// GetCaller reports false for anonymous requests.
func GetCaller(c echo.Context) (entity.Caller, bool) {
	caller, ok := c.Get(echoCaller).(entity.Caller)
	if !ok || caller.UserID == uuid.Nil {
		return entity.Caller{}, false
	}

	return caller, true
}
