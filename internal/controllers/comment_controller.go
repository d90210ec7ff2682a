package controllers

import (
	"net/http"
	"strconv"

	"github.com/facilitydesk/backend/internal/models"
	"github.com/facilitydesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

type CreateCommentRequest struct {
	Body   string `json:"body" binding:"required"`
	Public *bool  `json:"public"`
}

type UpdateCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (cc *CommentController) GetCommentsByReport(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	// Reporters never see internal comments.
	publicOnly := currentUserRole(c) == models.RoleReporter
	if c.Query("publicOnly") == "true" {
		publicOnly = true
	}

	comments, err := cc.comments.ListByReport(uint(reportID), publicOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comments,
	})
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid report id"})
		return
	}

	var req CreateCommentRequest
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

	public := true
	if req.Public != nil {
		public = *req.Public
	}
	// Reporters cannot file internal comments.
	if currentUserRole(c) == models.RoleReporter {
		public = true
	}

	comment, err := cc.comments.Add(uint(reportID), userID, req.Body, public)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    comment,
	})
}

func (cc *CommentController) UpdateComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment id"})
		return
	}

	var req UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request data",
			"errors":  err.Error(),
		})
		return
	}

	comment, err := cc.comments.Update(uint(commentID), req.Body)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    comment,
	})
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid comment id"})
		return
	}

	if err := cc.comments.SoftDelete(uint(commentID)); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted successfully",
	})
}
