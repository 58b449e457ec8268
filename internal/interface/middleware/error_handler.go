package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/pkg/apperror"
	"github.com/oksasatya/bootcamp-directory/pkg/response"
)

// ErrorHandler is the terminal error stage. Handlers report failures with
// c.Error and return; this writes {success:false, error} with the status the
// error normalises to. Server-side failures are logged, never echoed.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ae := apperror.From(c.Errors.Last().Err)
		if ae.Status >= http.StatusInternalServerError && logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestID),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"status":     ae.Status,
			}).WithError(c.Errors.Last().Err).Error("request failed")
		}
		if c.Writer.Written() {
			return
		}
		c.JSON(ae.Status, response.Error(ae.Message))
	}
}

// Recovery turns a panic into a 500 in the standard error envelope.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(CtxRequestID),
				"path":       c.Request.URL.Path,
				"panic":      recovered,
			}).Error("panic recovered")
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("Server Error"))
	})
}

// NotFound answers unmatched routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Error("Route not found"))
	}
}
