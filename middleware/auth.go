package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pumaprintables/portal/apperrors"
	"github.com/pumaprintables/portal/session"
)

const sessionContextKey = "portal_session"

// SessionHeader lets non-browser clients carry the session ID explicitly.
const SessionHeader = "X-Session-ID"

// RequireSession guards a route group: it resolves the session ID from the
// cookie or header, asks the manager for a live session and aborts with the
// manager's error (not-authenticated or session-expired) otherwise.
func RequireSession(manager *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader(SessionHeader)
		if sid == "" {
			if v, err := c.Cookie(cookieName); err == nil {
				sid = v
			}
		}

		sess, err := manager.RequireSession(c.Request.Context(), sid)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// GetSession extracts the session installed by RequireSession.
func GetSession(c *gin.Context) (session.Session, error) {
	val, exists := c.Get(sessionContextKey)
	if !exists {
		return session.Session{}, errors.New("session not found in context")
	}
	sess, ok := val.(session.Session)
	if !ok {
		return session.Session{}, errors.New("session has invalid type in context")
	}
	return sess, nil
}
