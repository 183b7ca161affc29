package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warbler-server/internal/middleware"
	"github.com/warbler-server/internal/models"
	"github.com/warbler-server/internal/service"
)

func TestSignupView(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.postForm(t, "/signup", url.Values{
		"username": {"testuser"},
		"email":    {"test@email.com"},
		"password": {"testpassword"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Signup established a session: posting a message works right away
	resp, _ = app.postForm(t, "/messages/new", url.Values{"text": {"first warble"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	_, body := app.get(t, "/users")
	var users []models.User
	decodeData(t, body, &users)
	require.Len(t, users, 1)
	assert.Equal(t, "testuser", users[0].Username)
}

func TestSignupViewDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "testuser", "test@email.com", "testpassword")

	resp, body := app.postForm(t, "/signup", url.Values{
		"username": {"testuser"},
		"email":    {"other@email.com"},
		"password": {"testpassword"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "username or email already taken")
}

func TestSignupViewMissingPassword(t *testing.T) {
	app := newTestApp(t)

	resp, body := app.postForm(t, "/signup", url.Values{
		"username": {"testuser"},
		"email":    {"test@email.com"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "password is required")
}

func TestLoginView(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "testuser", "test@email.com", "testpassword")

	resp, _ := app.postForm(t, "/login", url.Values{
		"username": {"testuser"},
		"password": {"testpassword"},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.postForm(t, "/messages/new", url.Values{"text": {"logged in"}})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	posted, err := app.messages.MessagesOf(u.ID)
	require.NoError(t, err)
	require.Len(t, posted, 1)
}

func TestLoginViewUniformFailure(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "testuser", "test@email.com", "testpassword")

	wrongPass, wrongPassBody := app.postForm(t, "/login", url.Values{
		"username": {"testuser"},
		"password": {"invalidpassword"},
	})
	unknownUser, unknownUserBody := app.postForm(t, "/login", url.Values{
		"username": {"invaliduser"},
		"password": {"testpassword"},
	})

	// Wrong password and unknown username are indistinguishable
	assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownUser.StatusCode)
	assert.Equal(t, wrongPassBody, unknownUserBody)
	assert.Contains(t, wrongPassBody, "invalid username or password")
}

func TestLogoutView(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "testuser", "test@email.com", "testpassword")
	app.forceLogin(t, u.ID)

	resp, _ := app.postForm(t, "/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The session is gone: the guard flashes and bounces to home
	_, body := app.postForm(t, "/messages/new", url.Values{"text": {"too late"}})
	assert.Contains(t, body, middleware.AccessUnauthorized)
}

func TestAPIToken(t *testing.T) {
	app := newTestApp(t)
	u := app.signup(t, "testuser", "test@email.com", "testpassword")

	_, body := app.postForm(t, "/api/token", url.Values{
		"username": {"testuser"},
		"password": {"testpassword"},
	})

	var token service.TokenResponse
	decodeData(t, body, &token)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	// The bearer token authenticates API clients that carry no cookies
	req, err := http.NewRequest(http.MethodPost, app.srv.URL+"/messages/new",
		strings.NewReader(url.Values{"text": {"api warble"}}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	posted, err := app.messages.MessagesOf(u.ID)
	require.NoError(t, err)
	require.Len(t, posted, 1)
	assert.Equal(t, "api warble", posted[0].Text)
}

func TestAPITokenInvalidCredentials(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "testuser", "test@email.com", "testpassword")

	resp, body := app.postForm(t, "/api/token", url.Values{
		"username": {"testuser"},
		"password": {"invalidpassword"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "invalid username or password")
}
