package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	utils "rollcall-backend/shared/utils/auth"
)

// AccessCodeMiddleware guards the template editor. A missing or invalid
// access-code cookie is rejected before any external API call is made.
func AccessCodeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(utils.AccessCodeCookieName)
		if err != nil || cookie == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			c.Abort()
			return
		}

		if _, err := utils.ValidateAccessToken(cookie); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
