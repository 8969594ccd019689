package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zipacres/zipacres-api/internal/middleware"
	"github.com/zipacres/zipacres-api/internal/models"
	"github.com/zipacres/zipacres-api/internal/services"
)

// PropertyController handles HTTP requests for property listings.
type PropertyController struct {
	properties services.PropertyService
}

func NewPropertyController(properties services.PropertyService) *PropertyController {
	return &PropertyController{properties: properties}
}

// Create godoc
// @Summary Create a property listing
// @Description Admin only. The authenticated admin becomes the owner.
// @Tags properties
// @Accept json
// @Produce json
// @Param request body controllers.CreatePropertyRequest true "Property payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/properties [post]
func (pc *PropertyController) Create(c *gin.Context) {
	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Required fields missing")
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	property, err := pc.properties.Create(&models.Property{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Type:        req.Type,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqft:    req.AreaSqft,
		Image:       req.Image,
		Gallery:     req.Gallery,
		Description: req.Description,
		OwnerID:     user.ID,
	})
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Property added successfully",
		"property": property,
	})
}

// GetAll godoc
// @Summary List visible properties
// @Description Public. Anonymous and non-owning callers only see listed properties; owners also see their own unlisted ones.
// @Tags properties
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/properties [get]
func (pc *PropertyController) GetAll(c *gin.Context) {
	viewer, _ := middleware.CurrentUser(c)

	properties, err := pc.properties.ListVisible(viewer)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": properties})
}

// GetMine godoc
// @Summary List the caller's own properties
// @Tags properties
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/properties/my [get]
func (pc *PropertyController) GetMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "You must be logged in")
		return
	}

	properties, err := pc.properties.ListOwned(user.ID)
	if err != nil {
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": properties})
}

// GetByID godoc
// @Summary Get a property by id
// @Tags properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/properties/{id} [get]
func (pc *PropertyController) GetByID(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	viewer, _ := middleware.CurrentUser(c)

	property, err := pc.properties.GetVisible(id, viewer)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			fail(c, http.StatusNotFound, "Property not found")
			return
		}
		failServer(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "property": property})
}

// Update godoc
// @Summary Update a property
// @Description Only the admin who owns the record may update it.
// @Tags properties
// @Accept json
// @Produce json
// @Param id path int true "Property ID"
// @Param request body controllers.UpdatePropertyRequest true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/properties/{id} [put]
func (pc *PropertyController) Update(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	property, err := pc.properties.Update(id, user, services.PropertyPatch{
		Title:       req.Title,
		Location:    req.Location,
		Price:       req.Price,
		Type:        req.Type,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqft:    req.AreaSqft,
		Image:       req.Image,
		Gallery:     req.Gallery,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			fail(c, http.StatusNotFound, "Property not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, "Not authorized to update this property")
		default:
			failServer(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Property updated",
		"property": property,
	})
}

// Delete godoc
// @Summary Delete a property
// @Description Only the admin who owns the record may delete it.
// @Tags properties
// @Produce json
// @Param id path int true "Property ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /api/properties/{id} [delete]
func (pc *PropertyController) Delete(c *gin.Context) {
	id, ok := propertyID(c)
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := pc.properties.Delete(id, user); err != nil {
		switch {
		case errors.Is(err, services.ErrPropertyNotFound):
			fail(c, http.StatusNotFound, "Property not found")
		case errors.Is(err, services.ErrNotOwner):
			fail(c, http.StatusForbidden, "Not authorized to delete this property")
		default:
			failServer(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Property deleted"})
}

// propertyID parses the :id path parameter, failing the request on junk.
func propertyID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid property ID")
		return 0, false
	}
	return uint(id), true
}

// CreatePropertyRequest is the payload for POST /api/properties.
type CreatePropertyRequest struct {
	Title       string   `json:"title" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Price       float64  `json:"price" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=Apartment House Land Villa Office"`
	Bedrooms    int      `json:"bedrooms"`
	Bathrooms   int      `json:"bathrooms"`
	AreaSqft    float64  `json:"areaSqft"`
	Image       string   `json:"image" binding:"required"`
	Gallery     []string `json:"gallery"`
	Description string   `json:"description"`
}

// UpdatePropertyRequest is the partial payload for PUT /api/properties/:id.
type UpdatePropertyRequest struct {
	Title       *string   `json:"title"`
	Location    *string   `json:"location"`
	Price       *float64  `json:"price"`
	Type        *string   `json:"type" binding:"omitempty,oneof=Apartment House Land Villa Office"`
	Bedrooms    *int      `json:"bedrooms"`
	Bathrooms   *int      `json:"bathrooms"`
	AreaSqft    *float64  `json:"areaSqft"`
	Image       *string   `json:"image"`
	Gallery     *[]string `json:"gallery"`
	Description *string   `json:"description"`
	Status      *string   `json:"status" binding:"omitempty,oneof=listed unlisted"`
}
