package handlers

import (
	"fmt"
	"net/http"
	"tavern/access"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	etagHeader = "ETag"
	listLimit  = 100
)

// Access evaluates campaign permissions and applies membership changes
var Access *access.Evaluator

// isNotModified expects tx to select the latest updated_at and the row count
func isNotModified(c *gin.Context, tx *gorm.DB, variant string) bool {
	// Set the current ETag in all cases
	var lastUpdatedAt, count int64
	if tx.Row().Scan(&lastUpdatedAt, &count) != nil {
		return false
	}
	etag := fmt.Sprintf(`"%d-%d-%s"`, lastUpdatedAt, count, variant)
	c.Header("cache-control", "private, max-age=1")
	c.Header(etagHeader, etag)

	if c.Request.Header.Get("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
