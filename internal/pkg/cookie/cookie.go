package cookie

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookieName is shared with the dashboard that owns the session.
const AccessTokenCookieName = "access_token"

// GetAccessToken returns the session cookie value, or "" when absent or blank.
func GetAccessToken(c *gin.Context) string {
	raw, err := c.Cookie(AccessTokenCookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(raw)
}
