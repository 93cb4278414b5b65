package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	ingestdomain "github.com/smallbiznis/billboards/internal/ingest/domain"
	"github.com/smallbiznis/billboards/internal/observability/logger"
	"github.com/smallbiznis/billboards/pkg/telemetry/correlation"
	"go.uber.org/zap"
)

const importFileField = "file"

// ImportRateLimit throttles uploads per client address. It is a no-op when
// the import guard is disabled.
func (s *Server) ImportRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.importGuard.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		result, err := s.importGuard.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("import rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			logger.FromContext(ctx).Warn("import rate limit exceeded", zap.String("endpoint", c.FullPath()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}

// ImportSheet loads an uploaded xlsx workbook of the kind named in the path.
func (s *Server) ImportSheet(c *gin.Context) {
	kind, err := ingestdomain.ParseKind(c.Param("kind"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)
	header, err := c.FormFile(importFileField)
	if err != nil {
		AbortWithError(c, newValidationError(importFileField, "invalid_file", "an xlsx file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		AbortWithError(c, newValidationError(importFileField, "invalid_file", "unreadable upload"))
		return
	}
	defer file.Close()

	ctx, importID := correlation.EnsureCorrelationID(c.Request.Context())
	c.Request = c.Request.WithContext(ctx)
	c.Set("import_id", importID)
	c.Header("X-Import-ID", importID)

	resp, err := s.ingestSvc.Import(ctx, kind, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
