package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/warbler-server/internal/config"
	"github.com/warbler-server/internal/handler"
	"github.com/warbler-server/internal/middleware"
	"github.com/warbler-server/internal/models"
	"github.com/warbler-server/internal/repository"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
	"github.com/warbler-server/internal/testutil"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCookieName = "warbler_session"

// testApp wires the full router against an in-memory database and session
// store, fronted by a redirect-following client with a cookie jar, the way
// a browser would drive it.
type testApp struct {
	db       *gorm.DB
	store    *session.MemoryStore
	auth     *service.AuthService
	users    *service.UserService
	messages *service.MessageService
	srv      *httptest.Server
	client   *http.Client
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.NewTestDB(t)

	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	store := session.NewMemoryStore()
	sessions := session.NewManager(store, config.SessionConfig{
		CookieName:  testCookieName,
		ExpireHours: 1,
	})

	authService := service.NewAuthService(userRepo, config.JWTConfig{Secret: "test-secret", ExpireHours: 1})
	userService := service.NewUserService(userRepo, messageRepo, followRepo, likeRepo)
	messageService := service.NewMessageService(messageRepo, likeRepo, followRepo, nil)

	router := gin.New()
	router.Use(sessions.Middleware())

	root := router.Group("")
	authMiddleware := middleware.RequireUser(sessions, authService)

	handler.NewHomeHandler(messageService, sessions).RegisterRoutes(root)
	handler.NewAuthHandler(authService, sessions).RegisterRoutes(root)
	handler.NewUserHandler(userService, messageService, sessions).RegisterRoutes(root, authMiddleware)
	handler.NewMessageHandler(messageService, sessions).RegisterRoutes(root, authMiddleware)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		db:       db,
		store:    store,
		auth:     authService,
		users:    userService,
		messages: messageService,
		srv:      srv,
		client:   &http.Client{Jar: jar},
	}
}

func (a *testApp) signup(t *testing.T, username, email, password string) *models.User {
	t.Helper()
	user, err := a.auth.Signup(&service.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return user
}

// forceLogin plants a session holding userID straight into the store and
// hands its cookie to the client, mirroring the session-transaction trick
// browser test suites use. The user does not have to exist.
func (a *testApp) forceLogin(t *testing.T, userID uint) {
	t.Helper()

	s := &session.Session{ID: uuid.NewString(), UserID: userID}
	require.NoError(t, a.store.Save(context.Background(), s))

	srvURL, err := url.Parse(a.srv.URL)
	require.NoError(t, err)
	a.client.Jar.SetCookies(srvURL, []*http.Cookie{{Name: testCookieName, Value: s.ID}})
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.srv.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.srv.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// decodeData unmarshals the data field of the response envelope
func decodeData(t *testing.T, body string, target interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(strings.NewReader(body)).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}
