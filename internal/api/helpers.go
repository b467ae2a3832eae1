package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseSize parses the size query param with a default and an upper cap.
func parseSize(c *gin.Context, defaultSize, maxSize int) int {
	sizeStr := c.DefaultQuery("size", strconv.Itoa(defaultSize))
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		return defaultSize
	}
	if size > maxSize {
		return maxSize
	}
	return size
}

// respondError sends a JSON error response.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondInternalError sends a 500 with message.
func respondInternalError(c *gin.Context, message string) {
	respondError(c, http.StatusInternalServerError, message)
}
