package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zipacres/zipacres-api/internal/models"
	"github.com/zipacres/zipacres-api/internal/services"
)

// userKey is the gin context key the authenticated user is stored under.
const userKey = "currentUser"

// Authenticate validates the Bearer token, loads the referenced user
// (password excluded) and attaches it to the request context. Requests
// without a valid token are rejected with 401.
func Authenticate(tokens services.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "No token, authorization denied")
			return
		}
		if !attachUser(c, tokens, db, token) {
			return
		}
		c.Next()
	}
}

// AuthenticateOptional attaches the user when a valid token is present
// but lets anonymous requests through. A token that is present and
// invalid is still rejected.
func AuthenticateOptional(tokens services.TokenService, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if !attachUser(c, tokens, db, token) {
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by the auth middleware.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}

// attachUser verifies the token and loads the user. Returns false after
// aborting the request on any failure.
func attachUser(c *gin.Context, tokens services.TokenService, db *gorm.DB, token string) bool {
	claims, err := tokens.Parse(token)
	if err != nil {
		abortUnauthorized(c, "Invalid token")
		return false
	}

	var user models.User
	if err := db.Omit("password").First(&user, claims.UserID).Error; err != nil {
		abortUnauthorized(c, "User not found")
		return false
	}

	c.Set(userKey, &user)
	return true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
		Success: false,
		Message: message,
	})
}
