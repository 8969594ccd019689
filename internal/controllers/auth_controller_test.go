package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipacres/zipacres-api/internal/services"
)

func registerPayload() gin.H {
	return gin.H{
		"name":     "A",
		"email":    "a@x.com",
		"password": "Secret1",
		"role":     "user",
		"phone":    "9999999999",
	}
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])

	user, ok := body["user"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "a@x.com", user["email"])
	// The password hash must never be serialized
	assert.NotContains(t, user, "password")

	// The CRM side effect fires after the response
	select {
	case <-env.crm.fired:
	case <-time.After(time.Second):
		t.Fatal("CRM notification never fired")
	}
}

func TestRegisterDuplicateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/register", "", registerPayload())
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	payload := registerPayload()
	delete(payload, "phone")
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterBadAdminCode(t *testing.T) {
	env := newTestEnv(t)

	payload := registerPayload()
	payload["role"] = "admin"
	payload["adminCode"] = "wrong"
	rec := env.do(t, http.MethodPost, "/api/auth/register", "", payload)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid admin code")
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "A", "a@x.com", "9999999999", "user")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@x.com",
		"password": "Secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// The token round-trips to the same identity and role
	claims, err := env.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user", claims.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "A", "a@x.com", "9999999999", "user")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "a@x.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoogleAuthEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.google.profile = &services.GoogleProfile{Email: "g@x.com", Name: "Googler"}

	rec := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"tokenId": "google-token"})
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "g@x.com", user["email"])
	assert.Equal(t, "user", user["role"])
}

func TestGoogleAuthRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)
	// fakeGoogle with no profile fails verification

	rec := env.do(t, http.MethodPost, "/api/auth/google", "", gin.H{"tokenId": "bad"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
