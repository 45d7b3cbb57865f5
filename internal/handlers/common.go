package handlers

import (
	"github.com/anonto42/bookmarks/backend/internal/middleware"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the authenticated user's id, or 0
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get(middleware.ClaimsKey).(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}
