package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
	"github.com/BeingRelentless/QKart-Shopping/internal/infrastructure/kv"
)

// Context keys set by Visitor
const (
	VisitorIDKey    = "visitor_id"
	VisitorStoreKey = "visitor_store"
)

// Visitor identifies the browser by a cookie, issuing one when it is
// missing or malformed, and scopes the store to that visitor.
func Visitor(cfg config.VisitorConfig, store kv.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		visitorID, err := c.Cookie(cfg.CookieName)
		if _, parseErr := uuid.Parse(visitorID); err != nil || parseErr != nil {
			visitorID = uuid.New().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.CookieName, visitorID, cfg.CookieMaxAge, "/", "", cfg.CookieSecure, true)
		}

		c.Set(VisitorIDKey, visitorID)
		c.Set(VisitorStoreKey, kv.Namespace(store, kv.VisitorKey(visitorID)))
		c.Next()
	}
}

// GetVisitorID returns the visitor id set by Visitor
func GetVisitorID(c *gin.Context) string {
	return c.GetString(VisitorIDKey)
}

// GetVisitorStore returns the visitor-scoped store set by Visitor
func GetVisitorStore(c *gin.Context) kv.Store {
	store, _ := c.Get(VisitorStoreKey)
	s, _ := store.(kv.Store)
	return s
}
