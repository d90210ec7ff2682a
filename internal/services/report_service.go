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

// folioAttempts bounds the retries when the folio unique index rejects
// a freshly generated identifier.
const folioAttempts = 5

// ReportService is the lifecycle engine. It exclusively owns writes to
// a report's workflow fields (state, priority, assignee, derived
// timestamps) and the creation of audit entries.
type ReportService struct {
	db      *gorm.DB
	catalog *CatalogService
	folios  *FolioGenerator
	history *HistoryService
	policy  TransitionPolicy
	events  *EventPublisher
	now     func() time.Time
}

func NewReportService(db *gorm.DB, catalog *CatalogService, folios *FolioGenerator, history *HistoryService, policy TransitionPolicy, events *EventPublisher) *ReportService {
	if policy == nil {
		policy = AllowAllPolicy()
	}
	return &ReportService{
		db:      db,
		catalog: catalog,
		folios:  folios,
		history: history,
		policy:  policy,
		events:  events,
		now:     time.Now,
	}
}

type CreateReportInput struct {
	Title          *string
	Description    string
	CategoryID     uint
	Subcategory    *string
	BuildingID     *uint
	RoomID         *uint
	LocationDetail *string
	PriorityID     *uint
}

type TransitionInput struct {
	StateID    uint
	PriorityID uint
	AssigneeID *uint
	Comment    string
}

type ReportFilters struct {
	ReporterID    *uint
	StateID       *uint
	DashboardType *string
	BuildingID    *uint
}

// Create inserts a report in the catalog's initial state with a fresh
// folio. All references are validated against active catalog rows
// before anything is written.
func (rs *ReportService) Create(input CreateReportInput, reporterID uint) (*models.Report, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, models.NewValidationError("description", "description is required")
	}

	if _, err := rs.catalog.Category(input.CategoryID); err != nil {
		return nil, err
	}
	if input.BuildingID != nil {
		if _, err := rs.catalog.Building(*input.BuildingID); err != nil {
			return nil, err
		}
	}
	if input.RoomID != nil {
		if _, err := rs.catalog.Room(*input.RoomID, input.BuildingID); err != nil {
			return nil, err
		}
	}
	if err := rs.userExists(reporterID, "reporterId"); err != nil {
		return nil, err
	}

	var priorityID uint
	if input.PriorityID != nil {
		priority, err := rs.catalog.Priority(*input.PriorityID)
		if err != nil {
			return nil, err
		}
		priorityID = priority.ID
	} else {
		priority, err := rs.catalog.DefaultPriority()
		if err != nil {
			return nil, fmt.Errorf("failed to pick default priority: %w", err)
		}
		priorityID = priority.ID
	}

	initialState, err := rs.catalog.InitialState()
	if err != nil {
		return nil, fmt.Errorf("failed to load initial state: %w", err)
	}

	report := models.Report{
		Title:          input.Title,
		Description:    input.Description,
		CategoryID:     input.CategoryID,
		Subcategory:    input.Subcategory,
		BuildingID:     input.BuildingID,
		RoomID:         input.RoomID,
		LocationDetail: input.LocationDetail,
		StateID:        initialState.ID,
		PriorityID:     priorityID,
		ReporterID:     reporterID,
		CreatedAt:      rs.now(),
	}

	// The folio unique index is the real uniqueness guarantee; retry a
	// few times if the generator ever collides.
	var created bool
	for attempt := 0; attempt < folioAttempts; attempt++ {
		report.Folio = rs.folios.Generate()
		err := rs.db.Create(&report).Error
		if err == nil {
			created = true
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Warn("Folio collision, regenerating", map[string]interface{}{
				"folio":   report.Folio,
				"attempt": attempt + 1,
			})
			continue
		}
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	if !created {
		return nil, fmt.Errorf("failed to create report: folio generation exhausted %d attempts", folioAttempts)
	}

	logger.WithReport(report.ID, report.Folio).Info("Report created")
	rs.publish(models.EventReportCreated, &report, reporterID)

	return rs.GetByID(report.ID)
}

// Transition validates and applies a state/priority/assignee change,
// maintains the assigned/finalized timestamps, optionally records a
// public comment, and appends exactly one audit entry. Everything is
// committed atomically; a version check fails concurrent writers with
// ErrConflict.
func (rs *ReportService) Transition(reportID uint, input TransitionInput, actorID uint) (*models.Report, error) {
	report, err := rs.GetByID(reportID)
	if err != nil {
		return nil, err
	}

	newState, err := rs.catalog.State(input.StateID)
	if err != nil {
		return nil, err
	}
	newPriority, err := rs.catalog.Priority(input.PriorityID)
	if err != nil {
		return nil, err
	}
	if input.AssigneeID != nil {
		if err := rs.userExists(*input.AssigneeID, "assigneeId"); err != nil {
			return nil, err
		}
	}
	if err := rs.userExists(actorID, "actorId"); err != nil {
		return nil, err
	}
	if err := rs.policy.Validate(&report.State, newState); err != nil {
		return nil, err
	}

	oldStateID := report.StateID
	now := rs.now()

	updates := map[string]interface{}{
		"state_id":      newState.ID,
		"priority_id":   newPriority.ID,
		"assignee_id":   input.AssigneeID,
		"updated_by_id": actorID,
		"updated_at":    now,
		"version":       report.Version + 1,
	}
	if report.AssignedAt == nil && rs.isInProgress(newState) {
		updates["assigned_at"] = now
	}
	// finalized_at is set exactly once, on the first entry into any
	// terminal state; later terminal saves leave it alone.
	if report.FinalizedAt == nil && newState.IsTerminal {
		updates["finalized_at"] = now
	}

	err = rs.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND version = ? AND deleted = ?", report.ID, report.Version, false).
			Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("failed to update report: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return models.ErrConflict
		}

		var historyComment *string
		if comment := strings.TrimSpace(input.Comment); comment != "" {
			historyComment = &comment
			if err := tx.Create(&models.Comment{
				ReportID:  report.ID,
				AuthorID:  actorID,
				Body:      comment,
				Public:    true,
				CreatedAt: now,
			}).Error; err != nil {
				return fmt.Errorf("failed to record transition comment: %w", err)
			}
		}

		return rs.history.Append(tx, &models.StateHistory{
			ReportID:   report.ID,
			OldStateID: &oldStateID,
			NewStateID: newState.ID,
			ActorID:    actorID,
			Comment:    historyComment,
			ChangedAt:  now,
		})
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		return nil, err
	}

	logger.WithReport(report.ID, report.Folio).Info("Report transitioned", map[string]interface{}{
		"old_state_id": oldStateID,
		"new_state_id": newState.ID,
		"actor_id":     actorID,
	})

	updated, err := rs.GetByID(report.ID)
	if err != nil {
		return nil, err
	}
	rs.publish(models.EventReportTransitioned, updated, actorID)
	return updated, nil
}

// SoftDelete hides a report from listings and statistics without
// touching its state, priority or audit trail.
func (rs *ReportService) SoftDelete(reportID uint, actorID uint) error {
	now := rs.now()
	result := rs.db.Model(&models.Report{}).
		Where("id = ? AND deleted = ?", reportID, false).
		Updates(map[string]interface{}{
			"deleted":    true,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	logger.Info("Report soft-deleted", map[string]interface{}{
		"report_id": reportID,
		"actor_id":  actorID,
	})

	var report models.Report
	if err := rs.db.First(&report, reportID).Error; err == nil {
		rs.publish(models.EventReportDeleted, &report, actorID)
	}
	return nil
}

// GetByID loads a non-deleted report with its references.
func (rs *ReportService) GetByID(id uint) (*models.Report, error) {
	var report models.Report
	err := rs.withPreloads(rs.db).Where("id = ? AND deleted = ?", id, false).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

// GetByFolio loads a non-deleted report by its human-facing folio.
func (rs *ReportService) GetByFolio(folio string) (*models.Report, error) {
	var report models.Report
	err := rs.withPreloads(rs.db).Where("folio = ? AND deleted = ?", folio, false).First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	return &report, nil
}

// List returns non-deleted reports matching the filters, newest first.
func (rs *ReportService) List(filters ReportFilters) ([]models.Report, error) {
	query := rs.withPreloads(rs.db).Where("reports.deleted = ?", false)

	if filters.ReporterID != nil {
		query = query.Where("reports.reporter_id = ?", *filters.ReporterID)
	}
	if filters.StateID != nil {
		query = query.Where("reports.state_id = ?", *filters.StateID)
	}
	if filters.BuildingID != nil {
		query = query.Where("reports.building_id = ?", *filters.BuildingID)
	}
	if filters.DashboardType != nil {
		query = query.Joins("JOIN categories ON categories.id = reports.category_id").
			Where("categories.dashboard_type = ?", *filters.DashboardType)
	}

	var reports []models.Report
	if err := query.Order("reports.created_at desc").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (rs *ReportService) withPreloads(query *gorm.DB) *gorm.DB {
	return query.Model(&models.Report{}).
		Preload("Category").
		Preload("State").
		Preload("Priority").
		Preload("Reporter").
		Preload("Assignee").
		Preload("UpdatedBy").
		Preload("Building").
		Preload("Room")
}

// isInProgress reports whether entering state should stamp assigned_at:
// any non-terminal state past the initial one counts as in progress.
func (rs *ReportService) isInProgress(state *models.State) bool {
	if state.IsTerminal {
		return false
	}
	initial, err := rs.catalog.InitialState()
	if err != nil {
		return false
	}
	return state.Order > initial.Order
}

func (rs *ReportService) userExists(id uint, field string) error {
	var count int64
	if err := rs.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}
	if count == 0 {
		return models.NewValidationError(field, "user not found")
	}
	return nil
}

func (rs *ReportService) publish(eventType string, report *models.Report, actorID uint) {
	if rs.events == nil {
		return
	}
	event := models.ReportEvent{
		Type:       eventType,
		ReportID:   report.ID,
		Folio:      report.Folio,
		StateID:    report.StateID,
		ActorID:    actorID,
		OccurredAt: rs.now(),
	}
	if err := rs.events.Publish(event); err != nil {
		logger.WithError(err, "report_service").Warn("Failed to publish report event")
	}
}
