package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/warbler-server/internal/middleware"
	"github.com/warbler-server/internal/monitoring"
	"github.com/warbler-server/internal/repository"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
	"github.com/warbler-server/pkg/response"
)

// UserHandler handles the user directory, follow graph and like routes
type UserHandler struct {
	userService    *service.UserService
	messageService *service.MessageService
	sessions       *session.Manager
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(
	userService *service.UserService,
	messageService *service.MessageService,
	sessions *session.Manager,
) *UserHandler {
	return &UserHandler{
		userService:    userService,
		messageService: messageService,
		sessions:       sessions,
	}
}

// ListUsers lists all users, filtered by ?q= username substring
// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		response.InternalError(c, "failed to list users")
		return
	}
	response.Success(c, users)
}

// ShowUser shows a profile with its four stat counts and messages
// GET /users/:id
func (h *UserHandler) ShowUser(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load user")
		return
	}

	stats, err := h.userService.Stats(userID)
	if err != nil {
		response.InternalError(c, "failed to load user stats")
		return
	}

	messages, err := h.messageService.MessagesOf(userID)
	if err != nil {
		response.InternalError(c, "failed to load user messages")
		return
	}

	response.Success(c, gin.H{
		"user":     user,
		"stats":    stats,
		"messages": messages,
	})
}

// Following lists the users the given user follows
// GET /users/:id/following
func (h *UserHandler) Following(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	users, err := h.userService.Following(userID)
	if err != nil {
		response.InternalError(c, "failed to load following")
		return
	}
	response.Success(c, users)
}

// Followers lists the users following the given user
// GET /users/:id/followers
func (h *UserHandler) Followers(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	users, err := h.userService.Followers(userID)
	if err != nil {
		response.InternalError(c, "failed to load followers")
		return
	}
	response.Success(c, users)
}

// Likes lists the messages the given user has liked
// GET /users/:id/likes
func (h *UserHandler) Likes(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	messages, err := h.messageService.LikedMessages(userID)
	if err != nil {
		response.InternalError(c, "failed to load likes")
		return
	}
	response.Success(c, messages)
}

// Follow creates a follow edge from the acting user to :id
// POST /users/follow/:id
func (h *UserHandler) Follow(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	followeeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Follow(actorID, followeeID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		if repository.IsIntegrityViolation(err) {
			response.BadRequest(c, "already following")
			return
		}
		response.InternalError(c, "failed to follow")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", actorID))
}

// StopFollowing removes the follow edge from the acting user to :id
// POST /users/stop-following/:id
func (h *UserHandler) StopFollowing(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	followeeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Unfollow(actorID, followeeID); err != nil {
		response.InternalError(c, "failed to unfollow")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d/following", actorID))
}

// AddLike toggles the acting user's like on a message: the first call adds
// it, a second call on the same message removes it again
// POST /users/add_like/:message_id
func (h *UserHandler) AddLike(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	messageID, ok := parseID(c, "message_id")
	if !ok {
		return
	}

	if _, err := h.messageService.ToggleLike(actorID, messageID); err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		response.InternalError(c, "failed to toggle like")
		return
	}

	monitoring.LikesToggled.Inc()
	c.Redirect(http.StatusFound, "/")
}

// RegisterRoutes registers user routes; authMiddleware guards the
// mutating ones
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.ShowUser)
	rg.GET("/users/:id/following", h.Following)
	rg.GET("/users/:id/followers", h.Followers)
	rg.GET("/users/:id/likes", h.Likes)

	rg.POST("/users/follow/:id", authMiddleware, h.Follow)
	rg.POST("/users/stop-following/:id", authMiddleware, h.StopFollowing)
	rg.POST("/users/add_like/:message_id", authMiddleware, h.AddLike)
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+param)
		return 0, false
	}
	return uint(id), true
}
