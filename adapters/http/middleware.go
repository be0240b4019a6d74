package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/pictag/pkg/apperror"
	"github.com/khoahotran/pictag/pkg/logger"
)

const (
	HeaderRequestID        = "X-Request-ID"
	GinContextKeyRequestID = "requestID"
)

// RequestIDMiddleware tags every request for log correlation; the caller's
// id is honored when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(GinContextKeyRequestID, requestID)
		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// ErrorMiddleware turns errors pushed via c.Error into JSON responses.
// AppErrors carry their own status mapping; anything else is a 500.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		requestID := c.GetString(GinContextKeyRequestID)

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			status := apperror.ToHTTPStatus(appErr)
			if status >= http.StatusInternalServerError {
				log.Error("request failed", appErr, zap.String("request_id", requestID), zap.String("path", c.FullPath()))
			} else {
				log.Warn("request rejected", zap.String("request_id", requestID), zap.String("path", c.FullPath()), zap.String("reason", appErr.Details))
			}
			c.JSON(status, appErr.ToJSON())
			return
		}

		log.Error("unhandled error", err, zap.String("request_id", requestID), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
