package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zipacres/zipacres-api/internal/services"
)

// LeadsController exposes the CRM view over role "user" accounts.
type LeadsController struct {
	users services.UserService
}

func NewLeadsController(users services.UserService) *LeadsController {
	return &LeadsController{users: users}
}

// List godoc
// @Summary List all leads
// @Description Returns every non-admin user account, newest first.
// @Tags leads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/leads [get]
func (lc *LeadsController) List(c *gin.Context) {
	leads, err := lc.users.ListLeads()
	if err != nil {
		failServer(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": leads})
}

// Update godoc
// @Summary Update a lead
// @Description Applies the allow-listed contact-tracking fields. Role and credentials can never be changed here.
// @Tags leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body controllers.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/leads/{id} [put]
func (lc *LeadsController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid lead ID")
		return
	}

	var req UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	lead, err := lc.users.UpdateLead(uint(id), services.LeadPatch{
		Contacted:       req.Contacted,
		Note:            req.Note,
		Tags:            req.Tags,
		LastContactedAt: req.LastContactedAt,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "Lead not found")
			return
		}
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": lead})
}

// UpdateLeadRequest is the allow-listed payload for PUT /api/leads/:id.
// Unknown fields in the body are ignored.
type UpdateLeadRequest struct {
	Contacted       *bool      `json:"contacted"`
	Note            *string    `json:"note"`
	Tags            *[]string  `json:"tags"`
	LastContactedAt *time.Time `json:"lastContactedAt"`
}
