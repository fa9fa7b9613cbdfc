package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	AccountIDHeader = "X-Account-Id"
	AccountIDKey    = "account_id"
)

// AccountScope requires every request to carry the tenant it acts for. All
// storage reads and writes downstream are filtered by this id; requests
// without one never reach a handler.
func AccountScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		accountID := strings.TrimSpace(c.GetHeader(AccountIDHeader))
		if accountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Missing " + AccountIDHeader + " header",
				},
			})
			return
		}
		c.Set(AccountIDKey, accountID)
		c.Next()
	}
}
