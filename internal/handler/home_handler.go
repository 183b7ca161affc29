package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/warbler-server/internal/service"
	"github.com/warbler-server/internal/session"
	"github.com/warbler-server/pkg/response"
)

// HomeHandler renders the home timeline
type HomeHandler struct {
	messageService *service.MessageService
	sessions       *session.Manager
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(messageService *service.MessageService, sessions *session.Manager) *HomeHandler {
	return &HomeHandler{
		messageService: messageService,
		sessions:       sessions,
	}
}

// Home shows the timeline: followed users plus self when logged in, the
// public timeline otherwise. Pending flashes (including the uniform
// "Access unauthorized" notice) surface here after a redirect.
// GET /
func (h *HomeHandler) Home(c *gin.Context) {
	flashes := h.sessions.PopFlashes(c)

	var (
		messages interface{}
		err      error
	)
	if userID, ok := h.sessions.UserID(c); ok {
		messages, err = h.messageService.TimelineFor(userID)
	} else {
		messages, err = h.messageService.PublicTimeline(100)
	}
	if err != nil {
		response.InternalError(c, "failed to load timeline")
		return
	}

	response.Success(c, gin.H{
		"messages": messages,
		"flashes":  flashes,
	})
}

// RegisterRoutes registers the home route
func (h *HomeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Home)
}
