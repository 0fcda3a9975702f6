package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandstorm-backend/internal/platform/ctxutil"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

// Probe routes are scraped constantly; they only show up at debug level.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

// RequestLogger writes one line per request. Realtime streams are logged
// once, when the connection ends, with how long it stayed open.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		kv := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"route", route,
			"status", status,
			"client_ip", c.ClientIP(),
		}
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			kv = append(kv, "trace_id", td.TraceID, "request_id", td.RequestID)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		elapsed := time.Since(start)
		if strings.Contains(route, "/realtime/") {
			log.Info("Realtime connection ended", append(kv, "open_for", elapsed.Round(time.Millisecond).String())...)
			return
		}
		kv = append(kv, "duration_ms", elapsed.Milliseconds())

		switch {
		case status >= 500:
			log.Error("HTTP request", kv...)
		case status >= 400:
			log.Warn("HTTP request", kv...)
		case quietRoutes[route]:
			log.Debug("HTTP request", kv...)
		default:
			log.Info("HTTP request", kv...)
		}
	}
}
