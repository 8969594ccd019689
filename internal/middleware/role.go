package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zipacres/zipacres-api/internal/models"
)

// RequireAdmin rejects requests whose attached user is not an admin.
// Must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, "User not authenticated")
			return
		}

		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Message: "Access denied: Admins only",
			})
			return
		}

		c.Next()
	}
}
