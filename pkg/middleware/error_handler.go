package middleware

import (
	"errors"
	"net/http"

	apperrors "storefront-sync/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error attached with c.Error.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var stdErr *apperrors.StandardError
		if errors.As(err, &stdErr) {
			logger.Warn("Request error",
				zap.String("error_code", stdErr.Code),
				zap.String("message", stdErr.Message),
				zap.String("details", stdErr.Details),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
			c.JSON(stdErr.HTTPStatus(), stdErr)
			return
		}

		logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, apperrors.NewInternalError("internal server error", err))
	}
}

// RecoveryHandler is a panic recovery middleware
func RecoveryHandler(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.NewInternalError("internal server error", nil))
	})
}
