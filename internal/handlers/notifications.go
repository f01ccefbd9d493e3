package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/ideaforge/ideaforge/internal/auth"
	"github.com/ideaforge/ideaforge/internal/notifications"
	"github.com/ideaforge/ideaforge/internal/services"
	apperrors "github.com/ideaforge/ideaforge/pkg/errors"
	"github.com/ideaforge/ideaforge/pkg/response"
)

// NotificationHandler serves the notification mailbox and live stream.
type NotificationHandler struct {
	notifications *services.NotificationService
	hub           *notifications.Hub
	jwt           *iauth.JWTService
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(svc *services.NotificationService, hub *notifications.Hub, jwt *iauth.JWTService) *NotificationHandler {
	return &NotificationHandler{notifications: svc, hub: hub, jwt: jwt}
}

// List returns the caller's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows, err := h.notifications.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, rows)
}

// MarkRead marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	notification, err := h.notifications.MarkRead(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, notification)
}

// MarkAllRead marks every unread notification of the caller as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), actor.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// Delete removes one of the caller's notifications.
func (h *NotificationHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// Stream upgrades the connection to a WebSocket delivering live notification
// events. Browsers cannot set headers on WebSocket dials, so the token is
// also accepted as a query parameter.
func (h *NotificationHandler) Stream(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		authz := c.GetHeader("Authorization")
		if len(authz) > 7 && strings.EqualFold(authz[:7], "Bearer ") {
			token = strings.TrimSpace(authz[7:])
		}
	}

	claims, err := h.jwt.ValidateAccessToken(token)
	if err != nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	h.hub.Serve(claims.UserID, c.Writer, c.Request)
}
