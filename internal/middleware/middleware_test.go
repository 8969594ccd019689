package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zipacres/zipacres-api/internal/models"
	"github.com/zipacres/zipacres-api/internal/services"
)

const testSecret = "test-jwt-secret-key-32-characters"

func setupAuthTest(t *testing.T) (*gorm.DB, services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	return db, services.NewTokenService(testSecret, services.TokenTTL)
}

func protectedRouter(tokens services.TokenService, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.GET("/protected", Authenticate(tokens, db), func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "password": user.Password})
	})
	router.GET("/admin", Authenticate(tokens, db), RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/open", AuthenticateOptional(tokens, db), func(c *gin.Context) {
		_, authed := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"authenticated": authed})
	})
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateAttachesUser(t *testing.T) {
	db, tokens := setupAuthTest(t)
	user := &models.User{Name: "A", Email: "a@x.com", Password: "hash", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	token, err := tokens.Issue(user)
	require.NoError(t, err)

	rec := get(protectedRouter(tokens, db), "/protected", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a@x.com")
	// Password column is omitted on load
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestAuthenticateMissingToken(t *testing.T) {
	db, tokens := setupAuthTest(t)
	rec := get(protectedRouter(tokens, db), "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "authorization denied")
}

func TestAuthenticateInvalidToken(t *testing.T) {
	db, tokens := setupAuthTest(t)
	rec := get(protectedRouter(tokens, db), "/protected", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateExpiredToken(t *testing.T) {
	db, _ := setupAuthTest(t)
	user := &models.User{Name: "A", Email: "a@x.com", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	expired := services.NewTokenService(testSecret, -time.Minute)
	token, err := expired.Issue(user)
	require.NoError(t, err)

	tokens := services.NewTokenService(testSecret, services.TokenTTL)
	rec := get(protectedRouter(tokens, db), "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateUnknownUser(t *testing.T) {
	db, tokens := setupAuthTest(t)
	token, err := tokens.Issue(&models.User{ID: 404, Role: models.RoleUser})
	require.NoError(t, err)

	rec := get(protectedRouter(tokens, db), "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	db, tokens := setupAuthTest(t)
	user := &models.User{Name: "U", Email: "u@x.com", Role: models.RoleUser}
	admin := &models.User{Name: "A", Email: "admin@x.com", Role: models.RoleAdmin}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(admin).Error)

	router := protectedRouter(tokens, db)

	userToken, err := tokens.Issue(user)
	require.NoError(t, err)
	rec := get(router, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admins only")

	adminToken, err := tokens.Issue(admin)
	require.NoError(t, err)
	rec = get(router, "/admin", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateOptional(t *testing.T) {
	db, tokens := setupAuthTest(t)
	user := &models.User{Name: "A", Email: "a@x.com", Role: models.RoleUser}
	require.NoError(t, db.Create(user).Error)

	router := protectedRouter(tokens, db)

	// Anonymous passes through
	rec := get(router, "/open", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)

	// Valid token attaches the user
	token, err := tokens.Issue(user)
	require.NoError(t, err)
	rec = get(router, "/open", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":true`)

	// A present but invalid token is still rejected
	rec = get(router, "/open", "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
