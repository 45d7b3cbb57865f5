package handlers

import (
	"net/http"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// FeedHandler serves the activity dashboard
type FeedHandler struct {
	feed *activity.Feed
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(feed *activity.Feed) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("", h.Dashboard)
}

// Dashboard returns the requester's activity feed
func (h *FeedHandler) Dashboard(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	entries, err := h.feed.ForUser(c.Request().Context(), currentUserID)
	if err != nil {
		log.Error().Err(err).Uint("user_id", currentUserID).Msg("failed to build dashboard")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load activity")
	}
	return c.JSON(http.StatusOK, echo.Map{"section": "dashboard", "actions": entries})
}
