package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smallbiznis/billboards/pkg/telemetry/correlation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const requestIDHeader = "X-Request-Id"

type MiddlewareConfig struct {
	// Debug adds the raw error message to failed request lines.
	Debug bool
	// Classify maps a handler error to (error_type, error_code) log fields.
	Classify func(err error) (string, string)
}

// GinMiddleware assigns the request id and writes one access log line per
// request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Request = c.Request.WithContext(correlation.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if importID := c.GetString("import_id"); importID != "" {
			fields = append(fields, zap.String("import_id", importID))
		}

		var errType string
		if last := c.Errors.Last(); last != nil && cfg.Classify != nil {
			var errCode string
			errType, errCode = cfg.Classify(last.Err)
			fields = append(fields, zap.String("error_type", errType), zap.String("error_code", errCode))
			if cfg.Debug {
				fields = append(fields, zap.Error(last.Err))
			}
		}

		FromContext(c.Request.Context()).Log(accessLevel(route, status, errType), "http_request", fields...)
	}
}

// accessLevel logs scrapes and rejected quote or billing lookups at debug.
func accessLevel(route string, status int, errType string) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case route == "/metrics" || route == "/health":
		return zapcore.DebugLevel
	case errType == "validation_error" || status == http.StatusNotFound:
		if route == "/api/quotes" || strings.HasPrefix(route, "/api/billing/") {
			return zapcore.DebugLevel
		}
	}
	return zapcore.InfoLevel
}
