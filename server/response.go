package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapbooth/snapbooth/apperrors"
)

func respondJSON(c *gin.Context, message string, status int, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
		"status":  http.StatusText(status),
	})
}

func respondAndAbort(c *gin.Context, message string, status int) {
	c.AbortWithStatusJSON(status, gin.H{
		"message": message,
		"status":  http.StatusText(status),
	})
}

// respondError maps application errors onto their HTTP status; anything
// unrecognized is a 500 with a generic message.
func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.Error); ok {
		c.JSON(appErr.Status, gin.H{
			"message": appErr.Message,
			"status":  http.StatusText(appErr.Status),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"message": "internal server error",
		"status":  http.StatusText(http.StatusInternalServerError),
	})
}
