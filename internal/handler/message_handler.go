package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warbler-server/internal/middleware"
	"github.com/warbler-server/internal/monitoring"
	"github.com/warbler-server/internal/repository"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
	"github.com/warbler-server/pkg/response"
)

// MessageHandler handles message routes
type MessageHandler struct {
	messageService *service.MessageService
	sessions       *session.Manager
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService, sessions *session.Manager) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		sessions:       sessions,
	}
}

// New posts a message as the acting user
// POST /messages/new
func (h *MessageHandler) New(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	var req service.PostRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if _, err := h.messageService.Post(actorID, &req); err != nil {
		if errors.Is(err, service.ErrTextRequired) || errors.Is(err, service.ErrTextTooLong) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c, "failed to post message")
		return
	}

	monitoring.MessagesPosted.Inc()
	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", actorID))
}

// Show displays a single message
// GET /messages/:id
func (h *MessageHandler) Show(c *gin.Context) {
	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	message, err := h.messageService.Get(messageID)
	if err != nil {
		if errors.Is(err, repository.ErrMessageNotFound) {
			response.NotFound(c, "message not found")
			return
		}
		response.InternalError(c, "failed to load message")
		return
	}

	response.Success(c, message)
}

// Delete removes a message. Deleting someone else's message is refused the
// same way as acting without a session, so the response never says whether
// the message exists or who owns it.
// POST /messages/:id/delete
func (h *MessageHandler) Delete(c *gin.Context) {
	actorID := middleware.GetUserID(c)

	messageID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.Delete(messageID, actorID); err != nil {
		if errors.Is(err, service.ErrNotOwner) || errors.Is(err, repository.ErrMessageNotFound) {
			monitoring.UnauthorizedAttempts.Inc()
			_ = h.sessions.Flash(c, middleware.AccessUnauthorized)
			c.Redirect(http.StatusFound, "/")
			return
		}
		response.InternalError(c, "failed to delete message")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/users/%d", actorID))
}

// RegisterRoutes registers message routes; authMiddleware guards the
// mutating ones
func (h *MessageHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/messages/:id", h.Show)
	rg.POST("/messages/new", authMiddleware, h.New)
	rg.POST("/messages/:id/delete", authMiddleware, h.Delete)
}
