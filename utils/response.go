package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError aborts the request with {"error": message}.
func RespondWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// RespondWithErrors aborts the request with {"errors": errs}, used for
// per-field validation failures.
func RespondWithErrors(c *gin.Context, code int, errs interface{}) {
	c.AbortWithStatusJSON(code, gin.H{"errors": errs})
}
