package auth

import (
	"strings"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/response"
	"github.com/gin-gonic/gin"
)

// ContextUserKey holds the *internal.User of an authenticated request.
const ContextUserKey = "user"

func AuthMiddleware(provider Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			user, err := provider.ValidateToken(c.Request.Context(), token)
			if err == nil {
				c.Set(ContextUserKey, user)
				c.Set("user_id", user.ID)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(internal.ErrUnauthorized.Status, response.Failure(internal.ErrUnauthorized))
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) *internal.User {
	return c.MustGet(ContextUserKey).(*internal.User)
}
