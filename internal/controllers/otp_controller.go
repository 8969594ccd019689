package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zipacres/zipacres-api/internal/services"
)

// OTPController fronts the third-party phone verification service.
type OTPController struct {
	otp services.OTPService
}

func NewOTPController(otp services.OTPService) *OTPController {
	return &OTPController{otp: otp}
}

// Send godoc
// @Summary Send a one-time code to a phone number
// @Tags otp
// @Accept json
// @Produce json
// @Param request body controllers.SendOTPRequest true "Phone number (E.164)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/send-otp [post]
func (oc *OTPController) Send(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Phone number is required")
		return
	}

	status, err := oc.otp.Send(req.Phone)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// Verify godoc
// @Summary Check a submitted one-time code
// @Tags otp
// @Accept json
// @Produce json
// @Param request body controllers.VerifyOTPRequest true "Phone number and code"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Router /api/verify-otp [post]
func (oc *OTPController) Verify(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Phone number and OTP are required")
		return
	}

	approved, err := oc.otp.Check(req.Phone, req.OTP)
	if err != nil {
		failServer(c, err)
		return
	}
	if !approved {
		fail(c, http.StatusBadRequest, "Invalid or expired OTP")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Phone verified"})
}

// SendOTPRequest is the payload for POST /api/send-otp.
type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// VerifyOTPRequest is the payload for POST /api/verify-otp.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}
