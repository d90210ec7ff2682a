package services

import (
	"testing"

	"github.com/facilitydesk/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialStateAndDefaultPriority(t *testing.T) {
	db, f := setupTestDB(t)
	svc := NewCatalogService(db)

	initial, err := svc.InitialState()
	require.NoError(t, err)
	assert.Equal(t, f.Received.ID, initial.ID)

	priority, err := svc.DefaultPriority()
	require.NoError(t, err)
	assert.Equal(t, f.Low.ID, priority.ID)
}

func TestInitialStateSkipsInactive(t *testing.T) {
	db, f := setupTestDB(t)
	svc := NewCatalogService(db)

	// Deactivating the first state moves the workflow entry point.
	require.NoError(t, db.Model(&f.Received).Update("active", false).Error)

	initial, err := svc.InitialState()
	require.NoError(t, err)
	assert.Equal(t, f.InProcess.ID, initial.ID)
}

func TestCatalogLookupsRejectInactive(t *testing.T) {
	db, f := setupTestDB(t)
	svc := NewCatalogService(db)

	require.NoError(t, db.Model(&f.Cancelled).Update("active", false).Error)

	_, err := svc.State(f.Cancelled.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stateId", verr.Field)

	// Active rows still resolve.
	state, err := svc.State(f.Resolved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Resolved", state.Name)
}

func TestRoomBuildingCheck(t *testing.T) {
	db, f := setupTestDB(t)
	svc := NewCatalogService(db)

	room, err := svc.Room(f.RoomA101.ID, &f.MainBuilding.ID)
	require.NoError(t, err)
	assert.Equal(t, "A-101", room.Name)

	other := models.Building{Name: "Annex", Active: true}
	require.NoError(t, db.Create(&other).Error)

	_, err = svc.Room(f.RoomA101.ID, &other.ID)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "roomId", verr.Field)

	// Without a building the room resolves on its own.
	_, err = svc.Room(f.RoomA101.ID, nil)
	assert.NoError(t, err)
}

func TestListStatesOrdering(t *testing.T) {
	db, _ := setupTestDB(t)
	svc := NewCatalogService(db)

	states, err := svc.ListStates(nil)
	require.NoError(t, err)
	require.Len(t, states, 4)

	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Received", "In Process", "Resolved", "Cancelled"}, names)
}

func TestListFiltersByActive(t *testing.T) {
	db, f := setupTestDB(t)
	svc := NewCatalogService(db)

	require.NoError(t, db.Model(&f.Cleaning).Update("active", false).Error)

	active := true
	categories, err := svc.ListCategories(&active)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Electrical", categories[0].Name)

	all, err := svc.ListCategories(nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
