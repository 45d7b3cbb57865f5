package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ActionFollow is the toggle value that follows; any other value unfollows
const ActionFollow = "follow"

// FollowHandler handles the follow/unfollow toggle
type FollowHandler struct {
	contactRepository repositories.ContactRepository
	userRepository    repositories.UserRepository
	recorder          *activity.Recorder
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(contactRepo repositories.ContactRepository, userRepo repositories.UserRepository, recorder *activity.Recorder) *FollowHandler {
	return &FollowHandler{
		contactRepository: contactRepo,
		userRepository:    userRepo,
		recorder:          recorder,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/follow", h.ToggleFollow)
}

func statusOK(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func statusError(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "error"})
}

// ToggleFollow follows or unfollows the user named by the "id" form value.
// Following logs an action every time, including when the edge already existed.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	rawID := c.FormValue("id")
	action := c.FormValue("action")
	if rawID == "" || action == "" {
		return statusError(c)
	}
	targetID, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return statusError(c)
	}

	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByID(ctx, uint(targetID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return statusError(c)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if action != ActionFollow {
		if err := h.contactRepository.Delete(ctx, currentUserID, target.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return statusOK(c)
	}

	if _, _, err := h.contactRepository.GetOrCreate(ctx, currentUserID, target.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if _, err := h.recorder.Log(ctx, currentUserID, activity.VerbFollowing, &models.Target{Kind: models.TargetUser, ID: target.ID}); err != nil {
		log.Error().Err(err).Uint("user_id", currentUserID).Uint("target_id", target.ID).Msg("failed to record follow action")
	}
	return statusOK(c)
}
