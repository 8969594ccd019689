package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/zipacres/zipacres-api/internal/models"
)

// fail writes the standard error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, models.ErrorResponse{Success: false, Message: message})
}

// failServer logs the cause under a correlation id and returns a generic
// 500 so exception detail never reaches the client.
func failServer(c *gin.Context, err error) {
	correlationID := uuid.NewString()
	log.WithFields(log.Fields{
		"correlation_id": correlationID,
		"method":         c.Request.Method,
		"path":           c.FullPath(),
	}).WithError(err).Error("request failed")

	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Success:       false,
		Message:       "Server error",
		CorrelationID: correlationID,
	})
}
