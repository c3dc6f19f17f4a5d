package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/clients"
	"github.com/pumaprintables/portal/middleware"
)

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)

// NotificationsController serves the notification log.
type NotificationsController struct {
	platform *clients.Platform
	log      *zap.Logger
}

func NewNotificationsController(platform *clients.Platform, log *zap.Logger) *NotificationsController {
	return &NotificationsController{platform: platform, log: log}
}

// List returns the most recent notifications, clamped to a sane limit.
func (n *NotificationsController) List(c *gin.Context) {
	sess, err := middleware.GetSession(c)
	if err != nil {
		apperrors.Respond(c, apperrors.ErrNotAuthenticated)
		return
	}

	limit := defaultNotificationLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			apperrors.Respond(c, apperrors.Validation("Limit must be a number"))
			return
		}
		limit = parsed
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	notifications, err := n.platform.GetNotifications(c.Request.Context(), sess.Token, limit)
	if err != nil {
		apperrors.Respond(c, apperrors.Upstream(err))
		return
	}
	c.JSON(http.StatusOK, notifications)
}
