package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zipacres/zipacres-api/internal/services"
)

type AuthController struct {
	users  services.UserService
	tokens services.TokenService
	google services.GoogleVerifier
	crm    services.CRMNotifier
}

func NewAuthController(users services.UserService, tokens services.TokenService, google services.GoogleVerifier, crm services.CRMNotifier) *AuthController {
	return &AuthController{
		users:  users,
		tokens: tokens,
		google: google,
		crm:    crm,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a user, agent or admin account. Admin registration requires the enrollment code.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body controllers.RegisterRequest true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := ac.users.Register(services.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Phone:     req.Phone,
		Role:      req.Role,
		AdminCode: req.AdminCode,
	})
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		fail(c, http.StatusConflict, "Email already exists")
		return
	case errors.Is(err, services.ErrPhoneTaken):
		fail(c, http.StatusConflict, "Phone already exists")
		return
	case errors.Is(err, services.ErrInvalidAdminCode):
		fail(c, http.StatusForbidden, "Invalid admin code")
		return
	case err != nil:
		failServer(c, err)
		return
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})

	// Best effort; runs after the response is committed.
	go ac.crm.NotifyRegistration(user)
}

// Login godoc
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body controllers.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := ac.users.Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}

// GoogleAuth godoc
// @Summary Log in or sign up with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body controllers.GoogleAuthRequest true "Google token"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/auth/google [post]
func (ac *AuthController) GoogleAuth(c *gin.Context) {
	var req GoogleAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "tokenId is required")
		return
	}

	profile, err := ac.google.Verify(c.Request.Context(), req.TokenID)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Google authentication failed")
		return
	}

	user, err := ac.users.UpsertGoogleUser(profile.Email, profile.Name)
	if err != nil {
		failServer(c, err)
		return
	}

	token, err := ac.tokens.Issue(user)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=user admin agent"`
	AdminCode string `json:"adminCode"`
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleAuthRequest is the payload for POST /api/auth/google.
type GoogleAuthRequest struct {
	TokenID string `json:"tokenId" binding:"required"`
}
