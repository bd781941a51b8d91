// internal/interfaces/http/middleware/session.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/BeingRelentless/QKart-Shopping/internal/domain/session"
)

// SessionKey is the gin context key of the visitor's *session.Session
const SessionKey = "session"

// LoadSession attaches the visitor's session, if any. Visitors without
// one, or whose token expired, continue as guests.
func LoadSession(manager *session.Manager, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := manager.Current(c.Request.Context(), GetVisitorStore(c))
		switch {
		case err == nil:
			c.Set(SessionKey, sess)
		case errors.Is(err, session.ErrSessionExpired):
			logger.WithField("visitor_id", GetVisitorID(c)).Info("Session expired, continuing as guest")
		case errors.Is(err, session.ErrNoSession):
		default:
			// A signed-in visitor must never fall back to the guest cart
			logger.WithError(err).Error("Failed to load session")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Session storage unavailable",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSession rejects visitors that are not signed in
func RequireSession(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSession(c) == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSession returns the visitor's session or nil for guests
func GetSession(c *gin.Context) *session.Session {
	v, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
