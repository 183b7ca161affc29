package session

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/warbler-server/internal/config"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is the server-side state addressed by the cookie. The cookie
// itself carries only the opaque session id; the authenticated user's id
// lives here under the curr_user key.
type Session struct {
	ID      string   `json:"id"`
	UserID  uint     `json:"curr_user"`
	Flashes []string `json:"flashes,omitempty"`
}

// Authenticated reports whether a user id is bound to the session
func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Store persists sessions by id
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

const contextKey = "session"

// Manager ties the cookie transport to a Store and exposes the login,
// logout and flash operations handlers need.
type Manager struct {
	store Store
	cfg   config.SessionConfig
}

// NewManager creates a new session Manager
func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{store: store, cfg: cfg}
}

// Middleware loads the request's session, if any, into the gin context
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := c.Cookie(m.cfg.CookieName); err == nil && id != "" {
			if s, err := m.store.Get(c.Request.Context(), id); err == nil {
				c.Set(contextKey, s)
			}
		}
		c.Next()
	}
}

func (m *Manager) current(c *gin.Context) *Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, ok := v.(*Session)
	if !ok {
		return nil
	}
	return s
}

// ensure returns the request's session, creating one and setting the
// cookie when the request arrived without a usable session.
func (m *Manager) ensure(c *gin.Context) *Session {
	if s := m.current(c); s != nil {
		return s
	}
	s := &Session{ID: uuid.NewString()}
	c.Set(contextKey, s)
	m.setCookie(c, s.ID)
	return s
}

// UserID returns the authenticated user's id from the session
func (m *Manager) UserID(c *gin.Context) (uint, bool) {
	s := m.current(c)
	if s == nil || !s.Authenticated() {
		return 0, false
	}
	return s.UserID, true
}

// Login binds the user id to the request's session
func (m *Manager) Login(c *gin.Context, userID uint) error {
	s := m.ensure(c)
	s.UserID = userID
	return m.store.Save(c.Request.Context(), s)
}

// Logout drops the session and expires the cookie
func (m *Manager) Logout(c *gin.Context) error {
	s := m.current(c)
	if s == nil {
		return nil
	}
	if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
		return err
	}
	c.Set(contextKey, nil)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.Secure, true)
	return nil
}

// Flash queues a one-shot notice shown on the next rendered page
func (m *Manager) Flash(c *gin.Context, msg string) error {
	s := m.ensure(c)
	s.Flashes = append(s.Flashes, msg)
	return m.store.Save(c.Request.Context(), s)
}

// PopFlashes drains and returns any queued notices
func (m *Manager) PopFlashes(c *gin.Context) []string {
	s := m.current(c)
	if s == nil || len(s.Flashes) == 0 {
		return nil
	}
	flashes := s.Flashes
	s.Flashes = nil
	_ = m.store.Save(c.Request.Context(), s)
	return flashes
}

func (m *Manager) setCookie(c *gin.Context, id string) {
	maxAge := int((time.Duration(m.cfg.ExpireHours) * time.Hour).Seconds())
	c.SetCookie(m.cfg.CookieName, id, maxAge, "/", "", m.cfg.Secure, true)
}
