package middleware

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5000",
	"http://127.0.0.1:5173",
}

// CORS allows origins, or the local dev origins when none are given.
// A single "*" opens the API to any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-Requested-With", "X-Request-Id", "X-Trace-Id"},
		ExposeHeaders: []string{"X-Request-Id", "X-Trace-Id"},
	}
	switch {
	case len(origins) == 1 && origins[0] == "*":
		cfg.AllowAllOrigins = true
	case len(origins) == 0:
		cfg.AllowOrigins = defaultOrigins
		cfg.AllowCredentials = true
	default:
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// OriginAllowed applies the CORS origin policy to requests that skip the
// middleware, such as WebSocket upgrades. An empty origin means a non-browser
// client and is allowed.
func OriginAllowed(origins []string, origin string) bool {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		return true
	}
	if len(origins) == 1 && origins[0] == "*" {
		return true
	}
	if len(origins) == 0 {
		origins = defaultOrigins
	}
	for _, o := range origins {
		if strings.EqualFold(strings.TrimRight(strings.TrimSpace(o), "/"), origin) {
			return true
		}
	}
	return false
}
