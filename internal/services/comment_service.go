package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facilitydesk/backend/internal/logger"
	"github.com/facilitydesk/backend/internal/models"
	"gorm.io/gorm"
)

// CommentService owns the annotation thread of a report. Comments can
// be public (visible to the reporter) or internal, and are soft-deleted
// like reports.
type CommentService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db, now: time.Now}
}

// Add attaches a comment to a non-deleted report.
func (cs *CommentService) Add(reportID, authorID uint, body string, public bool) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("body", "comment body is required")
	}

	var reportCount int64
	if err := cs.db.Model(&models.Report{}).Where("id = ? AND deleted = ?", reportID, false).Count(&reportCount).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve report: %w", err)
	}
	if reportCount == 0 {
		return nil, models.ErrNotFound
	}

	var authorCount int64
	if err := cs.db.Model(&models.User{}).Where("id = ?", authorID).Count(&authorCount).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve author: %w", err)
	}
	if authorCount == 0 {
		return nil, models.NewValidationError("authorId", "user not found")
	}

	comment := models.Comment{
		ReportID:  reportID,
		AuthorID:  authorID,
		Body:      body,
		Public:    public,
		CreatedAt: cs.now(),
	}
	if err := cs.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	logger.WithUser(authorID).Info("Comment added", map[string]interface{}{
		"report_id":  reportID,
		"comment_id": comment.ID,
		"public":     public,
	})

	if err := cs.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return &comment, nil
}

// ListByReport returns a report's non-deleted comments, newest first.
// With publicOnly set, internal comments are excluded.
func (cs *CommentService) ListByReport(reportID uint, publicOnly bool) ([]models.Comment, error) {
	query := cs.db.Where("report_id = ? AND deleted = ?", reportID, false)
	if publicOnly {
		query = query.Where("public = ?", true)
	}

	var comments []models.Comment
	err := query.Preload("Author").Order("created_at desc").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// Update replaces a comment's body and marks it edited.
func (cs *CommentService) Update(commentID uint, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("body", "comment body is required")
	}

	var comment models.Comment
	err := cs.db.Where("id = ? AND deleted = ?", commentID, false).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	now := cs.now()
	comment.Body = body
	comment.Edited = true
	comment.EditedAt = &now
	if err := cs.db.Save(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	if err := cs.db.Preload("Author").First(&comment, comment.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload comment: %w", err)
	}
	return &comment, nil
}

// SoftDelete hides a comment without removing the row.
func (cs *CommentService) SoftDelete(commentID uint) error {
	result := cs.db.Model(&models.Comment{}).
		Where("id = ? AND deleted = ?", commentID, false).
		Update("deleted", true)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// LatestPublic returns the most recent non-deleted public comment of a
// report, or nil when there is none. Dashboards show it as the report's
// last action.
func (cs *CommentService) LatestPublic(reportID uint) (*models.Comment, error) {
	var comment models.Comment
	err := cs.db.Where("report_id = ? AND public = ? AND deleted = ?", reportID, true, false).
		Order("created_at desc").
		First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest public comment: %w", err)
	}
	return &comment, nil
}
