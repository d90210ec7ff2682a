package controllers

import (
	"errors"
	"net/http"

	"github.com/facilitydesk/backend/internal/logger"
	"github.com/facilitydesk/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func currentUserRole(c *gin.Context) models.UserRole {
	value, exists := c.Get("user_role")
	if !exists {
		return ""
	}
	role, _ := value.(string)
	return models.UserRole(role)
}

// respondServiceError maps service errors onto HTTP responses.
// Validation failures carry their message; not-found stays generic so
// callers cannot tell a deleted report from one that never existed;
// anything unexpected is logged and surfaced as an opaque 500.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Not found",
		})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "The report was modified by another request, please retry",
		})
	default:
		logger.WithError(err, "controller").Error("Unhandled service error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
	}
}
