package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zipacres/zipacres-api/internal/middleware"
	"github.com/zipacres/zipacres-api/internal/models"
	"github.com/zipacres/zipacres-api/internal/services"
)

const (
	testSecret    = "test-jwt-secret-key-32-characters"
	testAdminCode = "12345"
)

// fakeGoogle returns a fixed profile, or an error when unset.
type fakeGoogle struct {
	profile *services.GoogleProfile
}

func (f *fakeGoogle) Verify(_ context.Context, _ string) (*services.GoogleProfile, error) {
	if f.profile == nil {
		return nil, errors.New("invalid google token")
	}
	return f.profile, nil
}

// fakeOTP records calls and answers from canned state.
type fakeOTP struct {
	sendErr  error
	approved bool
	lastTo   string
}

func (f *fakeOTP) Send(phone string) (string, error) {
	f.lastTo = phone
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "pending", nil
}

func (f *fakeOTP) Check(phone, code string) (bool, error) {
	f.lastTo = phone
	return f.approved, nil
}

// recordingCRM counts notifications so tests can assert the side effect
// fired without a real webhook.
type recordingCRM struct {
	mu    sync.Mutex
	seen  []string
	fired chan struct{}
}

func newRecordingCRM() *recordingCRM {
	return &recordingCRM{fired: make(chan struct{}, 8)}
}

func (r *recordingCRM) NotifyRegistration(user *models.User) {
	r.mu.Lock()
	r.seen = append(r.seen, user.Email)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	tokens services.TokenService
	users  services.UserService
	props  services.PropertyService
	google *fakeGoogle
	otp    *fakeOTP
	crm    *recordingCRM
}

// newTestEnv wires the full router against an in-memory database, with
// the external collaborators faked.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Property{}))

	env := &testEnv{
		db:     db,
		tokens: services.NewTokenService(testSecret, services.TokenTTL),
		users:  services.NewUserService(db, testAdminCode),
		props:  services.NewPropertyService(db),
		google: &fakeGoogle{},
		otp:    &fakeOTP{},
		crm:    newRecordingCRM(),
	}

	authController := NewAuthController(env.users, env.tokens, env.google, env.crm)
	propertyController := NewPropertyController(env.props)
	leadsController := NewLeadsController(env.users)
	otpController := NewOTPController(env.otp)

	authRequired := middleware.Authenticate(env.tokens, db)
	authOptional := middleware.AuthenticateOptional(env.tokens, db)

	router := gin.New()
	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/google", authController.GoogleAuth)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", authOptional, propertyController.GetAll)
			properties.GET("/my", authRequired, middleware.RequireAdmin(), propertyController.GetMine)
			properties.GET("/:id", authOptional, propertyController.GetByID)
			properties.POST("", authRequired, middleware.RequireAdmin(), propertyController.Create)
			properties.PUT("/:id", authRequired, middleware.RequireAdmin(), propertyController.Update)
			properties.DELETE("/:id", authRequired, middleware.RequireAdmin(), propertyController.Delete)
		}

		leads := api.Group("/leads", authRequired)
		{
			leads.GET("", leadsController.List)
			leads.PUT("/:id", leadsController.Update)
		}

		api.POST("/send-otp", otpController.Send)
		api.POST("/verify-otp", otpController.Verify)
	}
	env.router = router
	return env
}

// do performs a JSON request against the test router.
func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body into a generic map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// registerUser creates an account through the API and returns its token.
func (env *testEnv) registerUser(t *testing.T, name, email, phone, role string) (string, *models.User) {
	t.Helper()
	payload := gin.H{
		"name":     name,
		"email":    email,
		"password": "Secret1",
		"phone":    phone,
		"role":     role,
	}
	if role == models.RoleAdmin {
		payload["adminCode"] = testAdminCode
	}

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	var user models.User
	require.NoError(t, env.db.Where("email = ?", email).First(&user).Error)
	return token, &user
}
