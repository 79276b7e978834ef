package middleware

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError writes the service's uniform error body.
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"message": message,
	})
}
