package services

import (
	"fmt"

	"github.com/facilitydesk/backend/internal/models"
	"gorm.io/gorm"
)

// HistoryService is the append-only audit trail of state transitions.
// Entries are never updated or deleted and are kept even after the
// report itself is soft-deleted.
type HistoryService struct {
	db *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Append inserts one audit entry inside the caller's transaction so it
// commits or rolls back together with the report update.
func (hs *HistoryService) Append(tx *gorm.DB, entry *models.StateHistory) error {
	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append state history: %w", err)
	}
	return nil
}

// ListByReport returns the audit entries of a report in insertion
// order. It does not check the report's soft-delete flag: history stays
// retrievable for deleted reports.
func (hs *HistoryService) ListByReport(reportID uint) ([]models.StateHistory, error) {
	var entries []models.StateHistory
	err := hs.db.Where("report_id = ?", reportID).
		Preload("OldState").
		Preload("NewState").
		Preload("Actor").
		Order("changed_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list state history: %w", err)
	}
	return entries, nil
}
