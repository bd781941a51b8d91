// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/BeingRelentless/QKart-Shopping/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Credentials are allowed so the visitor cookie crosses origins.
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     cfg.CORSAllowedMethods,
		AllowHeaders:     cfg.CORSAllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: true,
		AllowWildcard:    true,
		MaxAge:           24 * time.Hour,
	}

	if allowsAnyOrigin(cfg.CORSAllowedOrigins) {
		// Any origin is reflected back instead of "*" because credentials are allowed
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	}

	return cors.New(corsConfig)
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
