package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the given origins. With no origins every origin is allowed,
// unless isProduction is set, in which case cross-origin requests are denied.
func CORS(allowedOrigins []string, isProduction bool) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	switch {
	case len(allowedOrigins) > 0:
		corsConfig.AllowOrigins = allowedOrigins
	case isProduction:
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	default:
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "X-Request-ID")
	corsConfig.AddExposeHeaders("Content-Length", "X-Request-ID")
	return cors.New(corsConfig)
}
