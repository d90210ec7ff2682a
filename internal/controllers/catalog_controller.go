package controllers

import (
	"net/http"
	"strconv"

	"github.com/facilitydesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// CatalogController exposes the workflow reference data read-only.
// Catalog administration happens through seeding, not through the API.
type CatalogController struct {
	catalog *services.CatalogService
}

func NewCatalogController(catalog *services.CatalogService) *CatalogController {
	return &CatalogController{catalog: catalog}
}

func activeFilter(c *gin.Context) *bool {
	switch c.Query("active") {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

func (cc *CatalogController) GetStates(c *gin.Context) {
	states, err := cc.catalog.ListStates(activeFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": states})
}

func (cc *CatalogController) GetPriorities(c *gin.Context) {
	priorities, err := cc.catalog.ListPriorities(activeFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": priorities})
}

func (cc *CatalogController) GetCategories(c *gin.Context) {
	categories, err := cc.catalog.ListCategories(activeFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

func (cc *CatalogController) GetBuildings(c *gin.Context) {
	buildings, err := cc.catalog.ListBuildings(activeFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": buildings})
}

func (cc *CatalogController) GetRooms(c *gin.Context) {
	buildingID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid building id"})
		return
	}

	rooms, err := cc.catalog.ListRooms(uint(buildingID), activeFilter(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rooms})
}
