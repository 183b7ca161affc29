package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warbler-server/internal/monitoring"
	"github.com/warbler-server/internal/repository"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
	"github.com/warbler-server/pkg/response"
)

// AuthHandler handles signup, login, logout and API token issuance
type AuthHandler struct {
	authService *service.AuthService
	sessions    *session.Manager
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
	}
}

// Signup handles user registration
// POST /signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req service.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Signup(&req)
	if err != nil {
		if errors.Is(err, service.ErrPasswordRequired) {
			response.BadRequest(c, "password is required")
			return
		}
		if repository.IsIntegrityViolation(err) {
			// One message for duplicate or missing username/email, so the
			// response doesn't reveal which column was at fault
			response.BadRequest(c, "username or email already taken")
			return
		}
		response.InternalError(c, "failed to sign up")
		return
	}

	if err := h.sessions.Login(c, user.ID); err != nil {
		response.InternalError(c, "failed to establish session")
		return
	}

	monitoring.SignupSuccess.Inc()
	c.Redirect(http.StatusFound, "/")
}

// Login handles browser login, establishing a session
// POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.authService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, "failed to login")
		return
	}

	if err := h.sessions.Login(c, user.ID); err != nil {
		response.InternalError(c, "failed to establish session")
		return
	}

	monitoring.LoginSuccess.Inc()
	c.Redirect(http.StatusFound, "/")
}

// Logout drops the session
// POST /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		response.InternalError(c, "failed to logout")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Token issues a JWT for API clients
// POST /api/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	token, err := h.authService.IssueToken(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		response.InternalError(c, "failed to issue token")
		return
	}

	response.Success(c, token)
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", h.Signup)
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.POST("/api/token", h.Token)
}
