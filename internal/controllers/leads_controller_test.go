package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipacres/zipacres-api/internal/models"
)

func TestListLeadsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "Lead", "lead@x.com", "1111111111", "user")
	adminToken, _ := env.registerUser(t, "Admin", "admin@x.com", "2222222222", "admin")

	rec := env.do(t, http.MethodGet, "/api/leads", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "lead@x.com", data[0].(map[string]interface{})["email"])
}

func TestListLeadsRequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/leads", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateLeadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, lead := env.registerUser(t, "Lead", "lead@x.com", "1111111111", "user")
	adminToken, _ := env.registerUser(t, "Admin", "admin@x.com", "2222222222", "admin")

	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/leads/%d", lead.ID), adminToken, gin.H{
		"contacted": true,
		"note":      "called",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, true, data["contacted"])
	assert.Equal(t, "called", data["note"])
}

func TestUpdateLeadIgnoresRole(t *testing.T) {
	env := newTestEnv(t)
	_, lead := env.registerUser(t, "Lead", "lead@x.com", "1111111111", "user")
	adminToken, _ := env.registerUser(t, "Admin", "admin@x.com", "2222222222", "admin")

	// role is outside the allow-list and must not be persisted
	rec := env.do(t, http.MethodPut, fmt.Sprintf("/api/leads/%d", lead.ID), adminToken, gin.H{
		"contacted": true,
		"role":      "admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.User
	require.NoError(t, env.db.First(&stored, lead.ID).Error)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.True(t, stored.Contacted)
}

func TestUpdateLeadNotFoundEndpoint(t *testing.T) {
	env := newTestEnv(t)
	adminToken, _ := env.registerUser(t, "Admin", "admin@x.com", "2222222222", "admin")

	rec := env.do(t, http.MethodPut, "/api/leads/999", adminToken, gin.H{"contacted": true})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Lead not found")
}
