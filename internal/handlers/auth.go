package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/anonto42/bookmarks/backend/internal/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Login outcomes, returned as plain text
const (
	MsgAuthenticated   = "Authenticated successfully"
	MsgDisabledAccount = "Disabled account"
	MsgInvalidLogin    = "Invalid login"
	MsgLoggedOut       = "Logged out"
)

// SessionConfig describes how sessions are issued
type SessionConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
	Secure     bool
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	userRepository repositories.UserRepository
	recorder       *activity.Recorder
	session        SessionConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, recorder *activity.Recorder, session SessionConfig) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		recorder:       recorder,
		session:        session,
	}
}

// RegisterAuthRoutes registers authentication-related routes. login may carry
// extra middleware for the login submission.
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group, login ...echo.MiddlewareFunc) {
	g.GET("/login", h.LoginForm)
	g.POST("/login", h.Login, login...)
	g.POST("/logout", h.Logout)
	g.GET("/register", h.RegisterForm)
	g.POST("/register", h.Register)
}

func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"form": echo.Map{"username": "", "password": ""},
	})
}

// Login authenticates the credentials and opens a session on success
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, MsgInvalidLogin)
	}
	if err := c.Validate(&req); err != nil {
		return c.String(http.StatusBadRequest, MsgInvalidLogin)
	}

	user, err := h.authenticate(c, req.Username, req.Password)
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("failed to authenticate")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to authenticate")
	}
	if user == nil {
		return c.String(http.StatusUnauthorized, MsgInvalidLogin)
	}
	if !user.IsActive {
		return c.String(http.StatusForbidden, MsgDisabledAccount)
	}

	token, expires, err := h.generateJWT(user)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.String(http.StatusOK, MsgAuthenticated)
}

// authenticate returns the user matching the credentials, active or not, or
// nil when nothing matches.
func (h *AuthHandler) authenticate(c echo.Context, username, password string) (*models.User, error) {
	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// same cost as a wrong password
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     h.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.session.Secure,
	})
	return c.String(http.StatusOK, MsgLoggedOut)
}

func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_form": echo.Map{"username": "", "first_name": "", "email": "", "password": "", "password2": ""},
	})
}

// Register creates the account, its empty profile and the sign-up action
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.UserRegistrationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	ctx := c.Request().Context()
	fieldErrors := validators.FieldErrors(c.Validate(&req))
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	if _, ok := fieldErrors["username"]; !ok {
		if _, err := h.userRepository.GetUserByUsername(ctx, req.Username); err == nil {
			fieldErrors["username"] = "A user with that username already exists."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if _, ok := fieldErrors["email"]; !ok {
		if _, err := h.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
			fieldErrors["email"] = "Email already in use."
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if len(fieldErrors) > 0 {
		return h.registrationFailed(c, req, fieldErrors)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		Email:     req.Email,
		Password:  string(hashedPassword),
		IsActive:  true,
		Profile:   &models.Profile{},
	}
	if err := h.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return h.registrationFailed(c, req, map[string]string{
				"username": "A user with that username already exists.",
			})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if _, err := h.recorder.Log(ctx, user.ID, activity.VerbCreatedAccount, nil); err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("failed to record sign-up action")
	}

	return c.JSON(http.StatusCreated, echo.Map{"new_user": user})
}

func (h *AuthHandler) registrationFailed(c echo.Context, req models.UserRegistrationRequest, fieldErrors map[string]string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{
		"errors": fieldErrors,
		"user_form": echo.Map{
			"username":   req.Username,
			"first_name": req.FirstName,
			"email":      req.Email,
		},
	})
}

// generateJWT generates a session token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(h.session.TTL)
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t, err := token.SignedString([]byte(h.session.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return t, expires, nil
}
