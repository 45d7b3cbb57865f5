package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/anonto42/bookmarks/backend/internal/middleware"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/repositories"
	"github.com/anonto42/bookmarks/backend/internal/testhelpers"
	"github.com/anonto42/bookmarks/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testApp struct {
	e        *echo.Echo
	db       *gorm.DB
	users    *repositories.PostgresUserRepository
	profiles *repositories.PostgresProfileRepository
	contacts *repositories.PostgresContactRepository
	actions  repositories.ActionRepository
	recorder *activity.Recorder
}

func newTestApp(t *testing.T) *testApp {
	db := testhelpers.SetupTestDB(t)
	e := echo.New()
	e.Validator = validators.NewValidator()

	actions := repositories.NewPostgresActionRepository(db)
	return &testApp{
		e:        e,
		db:       db,
		users:    repositories.NewPostgresUserRepository(db),
		profiles: repositories.NewPostgresProfileRepository(db),
		contacts: repositories.NewPostgresContactRepository(db),
		actions:  actions,
		recorder: activity.NewRecorder(actions, 0),
	}
}

func (a *testApp) authHandler() *AuthHandler {
	return NewAuthHandler(a.users, a.recorder, SessionConfig{
		Secret:     testSecret,
		TTL:        time.Hour,
		CookieName: "sessionid",
	})
}

// formContext builds a context for a form POST, authenticated as userID when non-zero
func (a *testApp) formContext(userID uint, values url.Values) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return a.newContext(req, userID)
}

func (a *testApp) jsonContext(method string, userID uint, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return a.newContext(req, userID)
}

func (a *testApp) newContext(req *http.Request, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := a.e.NewContext(req, rec)
	if userID != 0 {
		c.Set(middleware.ClaimsKey, &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}
