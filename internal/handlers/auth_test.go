package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/anonto42/bookmarks/backend/internal/activity"
	"github.com/anonto42/bookmarks/backend/internal/models"
	"github.com/anonto42/bookmarks/backend/internal/testhelpers"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registrationForm(username, email string) url.Values {
	return url.Values{
		"username":   {username},
		"first_name": {"Ann"},
		"email":      {email},
		"password":   {"s3cret-pass"},
		"password2":  {"s3cret-pass"},
	}
}

func TestRegisterCreatesUserProfileAndAction(t *testing.T) {
	app := newTestApp(t)
	h := app.authHandler()

	c, rec := app.formContext(0, registrationForm("ann", "ann@example.com"))
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	newUser := body["new_user"].(map[string]any)
	assert.Equal(t, "ann", newUser["username"])
	assert.NotContains(t, newUser, "password")

	var user models.User
	require.NoError(t, app.db.Preload("Profile").Where("username = ?", "ann").First(&user).Error)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	require.NotNil(t, user.Profile)
	assert.Nil(t, user.Profile.DateOfBirth)
	assert.Empty(t, user.Profile.Photo)

	var actions []models.Action
	require.NoError(t, app.db.Where("user_id = ?", user.ID).Find(&actions).Error)
	require.Len(t, actions, 1)
	assert.Equal(t, activity.VerbCreatedAccount, actions[0].Verb)
	_, hasTarget := actions[0].Target()
	assert.False(t, hasTarget)
}

func TestRegisterDuplicateUsernameCreatesNothing(t *testing.T) {
	app := newTestApp(t)
	h := app.authHandler()
	testhelpers.CreateUser(t, app.db, "ann", true)

	c, rec := app.formContext(0, registrationForm("ann", "other@example.com"))
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "username")
	form := body["user_form"].(map[string]any)
	assert.Equal(t, "other@example.com", form["email"])
	assert.NotContains(t, form, "password")

	assert.EqualValues(t, 1, countRows(t, app.db, &models.User{}, "1 = 1"))
	assert.EqualValues(t, 1, countRows(t, app.db, &models.Profile{}, "1 = 1"))
	assert.EqualValues(t, 0, countRows(t, app.db, &models.Action{}, "1 = 1"))
}

func TestRegisterValidationErrors(t *testing.T) {
	app := newTestApp(t)
	h := app.authHandler()
	testhelpers.CreateUser(t, app.db, "bob", true)

	form := registrationForm("bad name!", "BOB@example.com")
	form.Set("password2", "something-else")
	c, rec := app.formContext(0, form)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errs := decode(t, rec)["errors"].(map[string]any)
	assert.Contains(t, errs, "username")
	assert.Equal(t, "Email already in use.", errs["email"])
	assert.Equal(t, "Passwords don't match.", errs["password2"])
	assert.EqualValues(t, 1, countRows(t, app.db, &models.User{}, "1 = 1"))
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	h := app.authHandler()
	active := testhelpers.CreateUser(t, app.db, "ann", true)
	testhelpers.CreateUser(t, app.db, "ghost", false)

	tests := []struct {
		name     string
		username string
		password string
		status   int
		body     string
	}{
		{"missing password", "ann", "", http.StatusBadRequest, MsgInvalidLogin},
		{"unknown user", "nobody", testhelpers.Password, http.StatusUnauthorized, MsgInvalidLogin},
		{"wrong password", "ann", "wrong-password", http.StatusUnauthorized, MsgInvalidLogin},
		{"inactive user", "ghost", testhelpers.Password, http.StatusForbidden, MsgDisabledAccount},
		{"success", "ann", testhelpers.Password, http.StatusOK, MsgAuthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := app.formContext(0, url.Values{"username": {tt.username}, "password": {tt.password}})
			require.NoError(t, h.Login(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())

			cookies := rec.Result().Cookies()
			if tt.status != http.StatusOK {
				assert.Empty(t, cookies)
				return
			}
			require.Len(t, cookies, 1)
			assert.Equal(t, "sessionid", cookies[0].Name)
			assert.True(t, cookies[0].HttpOnly)

			claims := &models.JwtCustomClaims{}
			_, err := jwt.ParseWithClaims(cookies[0].Value, claims, func(*jwt.Token) (interface{}, error) {
				return []byte(testSecret), nil
			})
			require.NoError(t, err)
			assert.Equal(t, active.ID, claims.UserID)
			assert.Equal(t, "ann", claims.Username)
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	app := newTestApp(t)
	c, rec := app.formContext(0, url.Values{})
	require.NoError(t, app.authHandler().Logout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, MsgLoggedOut, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sessionid", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}
