package services

import (
	"errors"
	"fmt"

	"github.com/facilitydesk/backend/internal/models"
	"gorm.io/gorm"
)

// CatalogService reads the workflow reference data: states, priorities,
// categories and locations. Catalog rows referenced by reports are
// never hard-deleted, only deactivated, so lookups used for validation
// are restricted to active rows.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// State resolves an active state by ID.
func (cs *CatalogService) State(id uint) (*models.State, error) {
	var state models.State
	err := cs.db.Where("id = ? AND active = ?", id, true).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("stateId", "state not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve state: %w", err)
	}
	return &state, nil
}

// Priority resolves an active priority by ID.
func (cs *CatalogService) Priority(id uint) (*models.Priority, error) {
	var priority models.Priority
	err := cs.db.Where("id = ? AND active = ?", id, true).First(&priority).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("priorityId", "priority not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve priority: %w", err)
	}
	return &priority, nil
}

// Category resolves an active category by ID.
func (cs *CatalogService) Category(id uint) (*models.Category, error) {
	var category models.Category
	err := cs.db.Where("id = ? AND active = ?", id, true).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("categoryId", "category not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}
	return &category, nil
}

// Building resolves an active building by ID.
func (cs *CatalogService) Building(id uint) (*models.Building, error) {
	var building models.Building
	err := cs.db.Where("id = ? AND active = ?", id, true).First(&building).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("buildingId", "building not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve building: %w", err)
	}
	return &building, nil
}

// Room resolves an active room by ID, optionally checking it belongs to
// the given building.
func (cs *CatalogService) Room(id uint, buildingID *uint) (*models.Room, error) {
	var room models.Room
	err := cs.db.Where("id = ? AND active = ?", id, true).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewValidationError("roomId", "room not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve room: %w", err)
	}
	if buildingID != nil && room.BuildingID != *buildingID {
		return nil, models.NewValidationError("roomId", "room does not belong to the given building")
	}
	return &room, nil
}

// InitialState returns the active state with the lowest order. New
// reports always start here.
func (cs *CatalogService) InitialState() (*models.State, error) {
	var state models.State
	err := cs.db.Where("active = ?", true).Order("sort_order asc").First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("state catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load initial state: %w", err)
	}
	return &state, nil
}

// DefaultPriority returns the active priority with the lowest level,
// used when a report is created without an explicit priority.
func (cs *CatalogService) DefaultPriority() (*models.Priority, error) {
	var priority models.Priority
	err := cs.db.Where("active = ?", true).Order("level asc").First(&priority).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("priority catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load default priority: %w", err)
	}
	return &priority, nil
}

// ListStates returns states ordered by workflow order. When activeOnly
// is nil both active and inactive rows are returned.
func (cs *CatalogService) ListStates(activeOnly *bool) ([]models.State, error) {
	var states []models.State
	query := cs.db.Order("sort_order asc")
	if activeOnly != nil {
		query = query.Where("active = ?", *activeOnly)
	}
	if err := query.Find(&states).Error; err != nil {
		return nil, fmt.Errorf("failed to list states: %w", err)
	}
	return states, nil
}

// ListPriorities returns priorities ordered by level.
func (cs *CatalogService) ListPriorities(activeOnly *bool) ([]models.Priority, error) {
	var priorities []models.Priority
	query := cs.db.Order("level asc")
	if activeOnly != nil {
		query = query.Where("active = ?", *activeOnly)
	}
	if err := query.Find(&priorities).Error; err != nil {
		return nil, fmt.Errorf("failed to list priorities: %w", err)
	}
	return priorities, nil
}

// ListCategories returns categories ordered by name.
func (cs *CatalogService) ListCategories(activeOnly *bool) ([]models.Category, error) {
	var categories []models.Category
	query := cs.db.Order("name asc")
	if activeOnly != nil {
		query = query.Where("active = ?", *activeOnly)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// ListBuildings returns buildings ordered by name.
func (cs *CatalogService) ListBuildings(activeOnly *bool) ([]models.Building, error) {
	var buildings []models.Building
	query := cs.db.Order("name asc")
	if activeOnly != nil {
		query = query.Where("active = ?", *activeOnly)
	}
	if err := query.Find(&buildings).Error; err != nil {
		return nil, fmt.Errorf("failed to list buildings: %w", err)
	}
	return buildings, nil
}

// ListRooms returns the rooms of a building ordered by name.
func (cs *CatalogService) ListRooms(buildingID uint, activeOnly *bool) ([]models.Room, error) {
	var rooms []models.Room
	query := cs.db.Where("building_id = ?", buildingID).Order("name asc")
	if activeOnly != nil {
		query = query.Where("active = ?", *activeOnly)
	}
	if err := query.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}
