package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/brandstorm-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxCallerIDLength = 128
)

// AttachTraceContext stamps every request with a trace id and a request id,
// echoes both as response headers, and stores them for the request logger.
// An active span's trace id wins over a caller-supplied one so log lines
// match exported spans.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		reqID := callerID(c.GetHeader(headerRequestID))
		var traceID string
		if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else {
			traceID = callerID(c.GetHeader(headerTraceID))
		}

		td := &ctxutil.TraceData{TraceID: traceID, RequestID: reqID}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(ctx, td))
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)

		h := c.Writer.Header()
		h.Set(headerTraceID, td.TraceID)
		h.Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

// callerID accepts a client-supplied id when it is short and printable,
// otherwise mints a fresh one.
func callerID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxCallerIDLength {
		return uuid.NewString()
	}
	for _, r := range raw {
		if r < 0x21 || r > 0x7e {
			return uuid.NewString()
		}
	}
	return raw
}
