package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/facilitydesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateReport(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Flickering light in the hallway",
		CategoryID:  f.Electrical.ID,
		BuildingID:  uintPtr(f.MainBuilding.ID),
		RoomID:      uintPtr(f.RoomA101.ID),
	}, f.Reporter.ID)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^REP-\d{8}-[0-9A-F]{8}$`), report.Folio)
	assert.Equal(t, f.Received.ID, report.StateID)
	assert.Equal(t, f.Low.ID, report.PriorityID, "default priority is the lowest level")
	assert.Equal(t, f.Reporter.ID, report.ReporterID)
	assert.Equal(t, uint(1), report.Version)
	assert.Nil(t, report.AssignedAt)
	assert.Nil(t, report.FinalizedAt)
	assert.Nil(t, report.AssigneeID)

	// Creation is not a transition; the audit trail starts empty.
	history, err := NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestCreateReportExplicitPriority(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Water leak under the sink",
		CategoryID:  f.Cleaning.ID,
		PriorityID:  uintPtr(f.High.ID),
	}, f.Reporter.ID)
	require.NoError(t, err)
	assert.Equal(t, f.High.ID, report.PriorityID)
}

func TestCreateReportValidation(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	tests := []struct {
		name  string
		input CreateReportInput
		field string
	}{
		{
			name:  "empty description",
			input: CreateReportInput{Description: "   ", CategoryID: f.Electrical.ID},
			field: "description",
		},
		{
			name:  "unknown category",
			input: CreateReportInput{Description: "broken", CategoryID: 9999},
			field: "categoryId",
		},
		{
			name:  "unknown building",
			input: CreateReportInput{Description: "broken", CategoryID: f.Electrical.ID, BuildingID: uintPtr(9999)},
			field: "buildingId",
		},
		{
			name:  "unknown priority",
			input: CreateReportInput{Description: "broken", CategoryID: f.Electrical.ID, PriorityID: uintPtr(9999)},
			field: "priorityId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(tt.input, f.Reporter.ID)
			var verr *models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestCreateReportRoomBuildingMismatch(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	other := models.Building{Name: "Annex", Active: true}
	require.NoError(t, db.Create(&other).Error)

	_, err := svc.Create(CreateReportInput{
		Description: "Broken chair",
		CategoryID:  f.Electrical.ID,
		BuildingID:  uintPtr(other.ID),
		RoomID:      uintPtr(f.RoomA101.ID),
	}, f.Reporter.ID)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roomId", verr.Field)
}

func TestTransitionLifecycle(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	report, err := svc.Create(CreateReportInput{
		Description: "Projector not powering on",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	// Received -> In Process: assign a technician, stamp assigned_at.
	assignTime := base.Add(2 * time.Hour)
	svc.now = func() time.Time { return assignTime }

	report, err = svc.Transition(report.ID, TransitionInput{
		StateID:    f.InProcess.ID,
		PriorityID: f.High.ID,
		AssigneeID: uintPtr(f.Technician.ID),
		Comment:    "Technician dispatched",
	}, f.Admin.ID)
	require.NoError(t, err)

	assert.Equal(t, f.InProcess.ID, report.StateID)
	assert.Equal(t, f.High.ID, report.PriorityID)
	require.NotNil(t, report.AssigneeID)
	assert.Equal(t, f.Technician.ID, *report.AssigneeID)
	require.NotNil(t, report.AssignedAt)
	assert.True(t, report.AssignedAt.Equal(assignTime))
	assert.Nil(t, report.FinalizedAt)
	assert.Equal(t, uint(2), report.Version)
	require.NotNil(t, report.UpdatedByID)
	assert.Equal(t, f.Admin.ID, *report.UpdatedByID)

	history, err := NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.NotNil(t, history[0].OldStateID)
	assert.Equal(t, f.Received.ID, *history[0].OldStateID)
	assert.Equal(t, f.InProcess.ID, history[0].NewStateID)
	assert.Equal(t, f.Admin.ID, history[0].ActorID)
	require.NotNil(t, history[0].Comment)
	assert.Equal(t, "Technician dispatched", *history[0].Comment)

	// The transition comment is visible to the reporter.
	comments, err := NewCommentService(db).ListByReport(report.ID, true)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Technician dispatched", comments[0].Body)
	assert.True(t, comments[0].Public)

	// In Process -> Resolved: stamp finalized_at.
	resolveTime := base.Add(26 * time.Hour)
	svc.now = func() time.Time { return resolveTime }

	report, err = svc.Transition(report.ID, TransitionInput{
		StateID:    f.Resolved.ID,
		PriorityID: f.High.ID,
		AssigneeID: uintPtr(f.Technician.ID),
	}, f.Technician.ID)
	require.NoError(t, err)

	assert.Equal(t, f.Resolved.ID, report.StateID)
	require.NotNil(t, report.FinalizedAt)
	assert.True(t, report.FinalizedAt.Equal(resolveTime))
	require.NotNil(t, report.AssignedAt)
	assert.True(t, report.AssignedAt.Equal(assignTime), "assigned_at is set once")
	assert.Equal(t, uint(3), report.Version)

	history, err = NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[1].Comment)
}

func TestTransitionTimestampsSetOnce(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	base := time.Date(2025, time.June, 2, 9, 0, 0, 0, time.UTC)
	clock := base
	svc.now = func() time.Time { return clock }

	report, err := svc.Create(CreateReportInput{
		Description: "Clogged drain",
		CategoryID:  f.Cleaning.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	clock = base.Add(1 * time.Hour)
	report, err = svc.Transition(report.ID, TransitionInput{StateID: f.Resolved.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	require.NoError(t, err)
	firstFinalized := *report.FinalizedAt

	// Reopen and resolve again; the original finalized_at survives.
	clock = base.Add(2 * time.Hour)
	report, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	require.NoError(t, err)
	require.NotNil(t, report.AssignedAt)
	firstAssigned := *report.AssignedAt

	clock = base.Add(3 * time.Hour)
	report, err = svc.Transition(report.ID, TransitionInput{StateID: f.Resolved.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	require.NoError(t, err)

	assert.True(t, report.FinalizedAt.Equal(firstFinalized), "finalized_at is set once")
	assert.True(t, report.AssignedAt.Equal(firstAssigned), "assigned_at is set once")
}

func TestTransitionValidation(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Loose handrail",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	_, err = svc.Transition(report.ID, TransitionInput{StateID: 9999, PriorityID: f.Low.ID}, f.Admin.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stateId", verr.Field)

	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID, AssigneeID: uintPtr(9999)}, f.Admin.ID)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "assigneeId", verr.Field)

	_, err = svc.Transition(9999, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Nothing was written.
	history, err := NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTransitionForwardOnlyPolicy(t *testing.T) {
	db, f := setupTestDB(t)
	catalog := NewCatalogService(db)
	svc := NewReportService(db, catalog, NewFolioGenerator(""), NewHistoryService(db), ForwardOnlyPolicy(), nil)

	report, err := svc.Create(CreateReportInput{
		Description: "Cracked window",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	report, err = svc.Transition(report.ID, TransitionInput{StateID: f.Resolved.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	require.NoError(t, err)

	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stateId", verr.Field)
}

func TestTransitionConflict(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Door lock jammed",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	// Simulate a concurrent writer bumping the version between the read
	// and the guarded update.
	err = db.Callback().Update().Before("gorm:update").Register("simulate_concurrent_write", func(tx *gorm.DB) {
		if tx.Statement.Table != "reports" {
			return
		}
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE reports SET version = version + 1 WHERE id = ?", report.ID)
	})
	require.NoError(t, err)
	defer db.Callback().Update().Remove("simulate_concurrent_write")

	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	// The losing transition wrote nothing.
	history, histErr := NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, histErr)
	assert.Empty(t, history)
}

func TestTransitionAtomicity(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Ceiling tile fell",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	// Break the audit table so the history insert fails mid-transaction.
	require.NoError(t, db.Migrator().DropTable(&models.StateHistory{}))

	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.High.ID}, f.Admin.ID)
	require.Error(t, err)

	// The report update rolled back with it.
	reloaded, err := svc.GetByID(report.ID)
	require.NoError(t, err)
	assert.Equal(t, f.Received.ID, reloaded.StateID)
	assert.Equal(t, report.PriorityID, reloaded.PriorityID)
	assert.Equal(t, uint(1), reloaded.Version)
}

func TestSoftDelete(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Graffiti on the wall",
		CategoryID:  f.Cleaning.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.InProcess.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(report.ID, f.Admin.ID))

	_, err = svc.GetByID(report.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.GetByFolio(report.Folio)
	assert.ErrorIs(t, err, models.ErrNotFound)

	reports, err := svc.List(ReportFilters{})
	require.NoError(t, err)
	assert.Empty(t, reports)

	// The audit trail survives deletion.
	history, err := NewHistoryService(db).ListByReport(report.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// Deleting again reports not found.
	assert.ErrorIs(t, svc.SoftDelete(report.ID, f.Admin.ID), models.ErrNotFound)

	// A deleted report cannot be transitioned.
	_, err = svc.Transition(report.ID, TransitionInput{StateID: f.Resolved.ID, PriorityID: f.Low.ID}, f.Admin.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFolioStaysReservedAfterDelete(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	report, err := svc.Create(CreateReportInput{
		Description: "Broken vending machine",
		CategoryID:  f.Electrical.ID,
	}, f.Reporter.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SoftDelete(report.ID, f.Admin.ID))

	// The row is still there; a new report with the same folio would
	// violate the unique index.
	var count int64
	require.NoError(t, db.Model(&models.Report{}).Where("folio = ?", report.Folio).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err = db.Create(&models.Report{
		Folio:       report.Folio,
		Description: "dup",
		CategoryID:  f.Electrical.ID,
		StateID:     f.Received.ID,
		PriorityID:  f.Low.ID,
		ReporterID:  f.Reporter.ID,
	}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestListFilters(t *testing.T) {
	db, f := setupTestDB(t)
	svc := newTestReportService(db)

	electrical, err := svc.Create(CreateReportInput{
		Description: "Sparking outlet",
		CategoryID:  f.Electrical.ID,
		BuildingID:  uintPtr(f.MainBuilding.ID),
	}, f.Reporter.ID)
	require.NoError(t, err)

	_, err = svc.Create(CreateReportInput{
		Description: "Spilled paint",
		CategoryID:  f.Cleaning.ID,
	}, f.Admin.ID)
	require.NoError(t, err)

	maintenance := "maintenance"
	reports, err := svc.List(ReportFilters{DashboardType: &maintenance})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, electrical.ID, reports[0].ID)

	reports, err = svc.List(ReportFilters{ReporterID: &f.Reporter.ID})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, electrical.ID, reports[0].ID)

	reports, err = svc.List(ReportFilters{BuildingID: &f.MainBuilding.ID})
	require.NoError(t, err)
	require.Len(t, reports, 1)

	reports, err = svc.List(ReportFilters{StateID: &f.InProcess.ID})
	require.NoError(t, err)
	assert.Empty(t, reports)
}
