package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON shape of every non-2xx body the API returns.
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers from handler panics and converts them into a plain
// 500 response so a single bad request cannot take the process down.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("panic in request handler",
					zap.String("path", c.FullPath()),
					zap.Any("panic", r))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Message: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// JSONError writes a structured error body and logs it at warn level.
func JSONError(c *gin.Context, status int, message, details string) {
	GetLogger().Warn("request failed",
		zap.Int("status", status),
		zap.String("message", message),
		zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
