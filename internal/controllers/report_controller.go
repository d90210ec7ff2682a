package controllers

import (
	"net/http"
	"strconv"

	"github.com/facilitydesk/backend/internal/models"
	"github.com/facilitydesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type ReportController struct {
	reports  *services.ReportService
	history  *services.HistoryService
	stats    *services.StatsService
	comments *services.CommentService
}

func NewReportController(reports *services.ReportService, history *services.HistoryService, stats *services.StatsService, comments *services.CommentService) *ReportController {
	return &ReportController{reports: reports, history: history, stats: stats, comments: comments}
}

type CreateReportRequest struct {
	Title          *string `json:"title"`
	Description    string  `json:"description" binding:"required"`
	CategoryID     uint    `json:"categoryId" binding:"required"`
	Subcategory    *string `json:"subcategory"`
	BuildingID     *uint   `json:"buildingId"`
	RoomID         *uint   `json:"roomId"`
	LocationDetail *string `json:"locationDetail"`
	PriorityID     *uint   `json:"priorityId"`
}

type UpdateReportRequest struct {
	StateID    uint   `json:"stateId" binding:"required"`
	PriorityID uint   `json:"priorityId" binding:"required"`
	AssigneeID *uint  `json:"assigneeId"`
	Comment    string `json:"comment"`
}

// reportView decorates a report with its last public action for
// dashboard listings.
type reportView struct {
	models.Report
	LastAction *models.Comment `json:"lastAction,omitempty"`
}

func (rc *ReportController) GetReports(c *gin.Context) {
	var filters services.ReportFilters

	// Reporters only see their own reports.
	userID, _ := currentUserID(c)
	if currentUserRole(c) == models.RoleReporter {
		filters.ReporterID = &userID
	}

	if dashboardType := c.Query("dashboardType"); dashboardType != "" {
		filters.DashboardType = &dashboardType
	}
	if stateID := c.Query("stateId"); stateID != "" {
		if id, err := strconv.ParseUint(stateID, 10, 32); err == nil {
			v := uint(id)
			filters.StateID = &v
		}
	}
	if buildingID := c.Query("buildingId"); buildingID != "" {
		if id, err := strconv.ParseUint(buildingID, 10, 32); err == nil {
			v := uint(id)
			filters.BuildingID = &v
		}
	}

	reports, err := rc.reports.List(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	views := make([]reportView, 0, len(reports))
	for i := range reports {
		view := reportView{Report: reports[i]}
		if lastAction, err := rc.comments.LatestPublic(reports[i].ID); err == nil {
			view.LastAction = lastAction
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    views,
	})
}

func (rc *ReportController) GetReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	report, err := rc.reports.GetByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Reporters may only view their own reports.
	userID, _ := currentUserID(c)
	if currentUserRole(c) == models.RoleReporter && report.ReporterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Insufficient permissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

func (rc *ReportController) GetReportByFolio(c *gin.Context) {
	report, err := rc.reports.GetByFolio(c.Param("folio"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

func (rc *ReportController) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"errors":  err.Error(),
		})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	report, err := rc.reports.Create(services.CreateReportInput{
		Title:          req.Title,
		Description:    req.Description,
		CategoryID:     req.CategoryID,
		Subcategory:    req.Subcategory,
		BuildingID:     req.BuildingID,
		RoomID:         req.RoomID,
		LocationDetail: req.LocationDetail,
		PriorityID:     req.PriorityID,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    report,
	})
}

func (rc *ReportController) UpdateReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"errors":  err.Error(),
		})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}

	report, err := rc.reports.Transition(uint(id), services.TransitionInput{
		StateID:    req.StateID,
		PriorityID: req.PriorityID,
		AssigneeID: req.AssigneeID,
		Comment:    req.Comment,
	}, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
	})
}

func (rc *ReportController) DeleteReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	userID, _ := currentUserID(c)
	if err := rc.reports.SoftDelete(uint(id), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report deleted successfully",
	})
}

func (rc *ReportController) GetReportHistory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	entries, err := rc.history.ListByReport(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
	})
}

func (rc *ReportController) GetDashboardStats(c *gin.Context) {
	var filters services.StatsFilters
	if dashboardType := c.Query("dashboardType"); dashboardType != "" {
		filters.DashboardType = &dashboardType
	}
	// Reporters only see statistics over their own reports.
	userID, _ := currentUserID(c)
	if currentUserRole(c) == models.RoleReporter {
		filters.ReporterID = &userID
	}

	summary, err := rc.stats.Summary(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	monthly, err := rc.stats.MonthlyTrend(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	byCategory, err := rc.stats.CategoryDistribution(filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total":      summary.Total,
			"byState":    summary.ByState,
			"overdue":    summary.Overdue,
			"today":      summary.Today,
			"monthly":    monthly,
			"byCategory": byCategory,
		},
	})
}
