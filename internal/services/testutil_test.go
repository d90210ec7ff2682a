package services

import (
	"testing"

	"github.com/facilitydesk/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fixtures holds the seeded catalog and users every service test builds
// on: a four-state workflow, two priorities, two categories and one
// building with a room.
type fixtures struct {
	Admin      models.User
	Technician models.User
	Reporter   models.User

	Received  models.State
	InProcess models.State
	Resolved  models.State
	Cancelled models.State

	Low  models.Priority
	High models.Priority

	Electrical models.Category
	Cleaning   models.Category

	MainBuilding models.Building
	RoomA101     models.Room
}

func setupTestDB(t *testing.T) (*gorm.DB, *fixtures) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		// Unique violations must map to gorm.ErrDuplicatedKey, same as
		// the postgres setup in production.
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every session on the same in-memory
	// database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.State{},
		&models.Priority{},
		&models.Category{},
		&models.Building{},
		&models.Room{},
		&models.Report{},
		&models.StateHistory{},
		&models.Comment{},
	))

	f := &fixtures{
		Admin:      models.User{Email: "admin@test.local", Password: "x", FirstName: "Ada", LastName: "Admin", Role: models.RoleAdmin},
		Technician: models.User{Email: "tech@test.local", Password: "x", FirstName: "Tom", LastName: "Tech", Role: models.RoleTechnician},
		Reporter:   models.User{Email: "reporter@test.local", Password: "x", FirstName: "Rita", LastName: "Reporter", Role: models.RoleReporter},

		Received:  models.State{Name: "Received", Order: 1, Active: true},
		InProcess: models.State{Name: "In Process", Order: 2, Active: true},
		Resolved:  models.State{Name: "Resolved", Order: 3, IsTerminal: true, Active: true},
		Cancelled: models.State{Name: "Cancelled", Order: 4, IsTerminal: true, Active: true},

		Low:  models.Priority{Name: "Low", Level: 1, Active: true},
		High: models.Priority{Name: "High", Level: 3, Active: true},

		Electrical: models.Category{Name: "Electrical", DashboardType: strPtr("maintenance"), Active: true},
		Cleaning:   models.Category{Name: "Cleaning", DashboardType: strPtr("services"), Active: true},

		MainBuilding: models.Building{Name: "Main Building", Active: true},
	}

	require.NoError(t, db.Create(&f.Admin).Error)
	require.NoError(t, db.Create(&f.Technician).Error)
	require.NoError(t, db.Create(&f.Reporter).Error)

	require.NoError(t, db.Create(&f.Received).Error)
	require.NoError(t, db.Create(&f.InProcess).Error)
	require.NoError(t, db.Create(&f.Resolved).Error)
	require.NoError(t, db.Create(&f.Cancelled).Error)

	require.NoError(t, db.Create(&f.Low).Error)
	require.NoError(t, db.Create(&f.High).Error)

	require.NoError(t, db.Create(&f.Electrical).Error)
	require.NoError(t, db.Create(&f.Cleaning).Error)

	require.NoError(t, db.Create(&f.MainBuilding).Error)
	f.RoomA101 = models.Room{BuildingID: f.MainBuilding.ID, Name: "A-101", Active: true}
	require.NoError(t, db.Create(&f.RoomA101).Error)

	return db, f
}

// newTestReportService wires a report service against the test database
// with the default policy and no event publisher.
func newTestReportService(db *gorm.DB) *ReportService {
	catalog := NewCatalogService(db)
	return NewReportService(db, catalog, NewFolioGenerator(""), NewHistoryService(db), nil, nil)
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(v uint) *uint {
	return &v
}
