package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/anonto42/bookmarks/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Profile edit notices
const (
	MsgProfileUpdated     = "Profile updated successfully"
	MsgProfileUpdateError = "Error updating your profile"
)

// UserHandler handles the people directory and profile editing
type UserHandler struct {
	userRepository    repositories.UserRepository
	profileRepository repositories.ProfileRepository
	contactRepository repositories.ContactRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, profileRepo repositories.ProfileRepository, contactRepo repositories.ContactRepository) *UserHandler {
	return &UserHandler{
		userRepository:    userRepo,
		profileRepository: profileRepo,
		contactRepository: contactRepo,
	}
}

// RegisterProfileRoutes registers directory and profile routes
func (h *UserHandler) RegisterProfileRoutes(g *echo.Group) {
	g.GET("/edit", h.EditForm)
	g.POST("/edit", h.Edit)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:username", h.GetUser)
}

// ListUsers lists every active user
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.GetActiveUsers(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"section": "people", "users": users})
}

// GetUser shows one active user by username
func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.userRepository.GetActiveUserByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	followers, err := h.contactRepository.FollowersCount(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.contactRepository.FollowingCount(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	following, err := h.contactRepository.Exists(ctx, getUserIDFromContext(c), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"section":         "people",
		"user":            user,
		"followers_count": followers,
		"following_count": followingCount,
		"is_following":    following,
	})
}

// profileEditSubmission carries both halves of the edit form in one body
type profileEditSubmission struct {
	models.UserEditRequest
	models.ProfileEditRequest
}

// EditForm presents the current account and profile values
func (h *UserHandler) EditForm(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, editForms(user))
}

// Edit validates both forms and saves them only when both are valid
func (h *UserHandler) Edit(c echo.Context) error {
	user, err := h.currentUser(c)
	if err != nil {
		return err
	}

	var sub profileEditSubmission
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	fieldErrors := map[string]string{}
	for field, msg := range validators.FieldErrors(c.Validate(&sub.UserEditRequest)) {
		fieldErrors[field] = msg
	}
	for field, msg := range validators.FieldErrors(c.Validate(&sub.ProfileEditRequest)) {
		fieldErrors[field] = msg
	}
	if _, ok := fieldErrors["email"]; !ok && sub.Email != "" {
		other, err := h.userRepository.GetUserByEmail(ctx, sub.Email)
		switch {
		case err == nil && other.ID != user.ID:
			fieldErrors["email"] = "Email already in use."
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"level":        "error",
			"message":      MsgProfileUpdateError,
			"errors":       fieldErrors,
			"user_form":    sub.UserEditRequest,
			"profile_form": sub.ProfileEditRequest,
		})
	}

	user.FirstName = sub.FirstName
	user.LastName = sub.LastName
	user.Email = sub.Email

	profile := user.Profile
	if profile == nil {
		profile = &models.Profile{UserID: user.ID}
	}
	profile.Photo = sub.Photo
	profile.DateOfBirth = nil
	if sub.DateOfBirth != "" {
		dob, _ := time.Parse(models.DateLayout, sub.DateOfBirth) // format checked by the validator
		profile.DateOfBirth = &dob
	}

	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to save user")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.profileRepository.UpdateProfile(ctx, profile); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to save profile")
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	user.Profile = profile

	resp := editForms(user)
	resp["level"] = "success"
	resp["message"] = MsgProfileUpdated
	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) currentUser(c echo.Context) (*models.User, error) {
	user, err := h.userRepository.GetUserByID(c.Request().Context(), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User profile not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}

func editForms(user *models.User) echo.Map {
	profileForm := models.ProfileEditRequest{}
	if user.Profile != nil {
		profileForm.Photo = user.Profile.Photo
		if user.Profile.DateOfBirth != nil {
			profileForm.DateOfBirth = user.Profile.DateOfBirth.Format(models.DateLayout)
		}
	}
	return echo.Map{
		"user_form": models.UserEditRequest{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
		"profile_form": profileForm,
	}
}
