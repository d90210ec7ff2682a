package models

import "time"

// Category classifies a report. DashboardType is a coarse grouping
// ("maintenance", "services", "it") used to route reports to different
// dashboard views.
type Category struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"uniqueIndex;not null"`
	DashboardType *string   `json:"dashboardType" gorm:"index"`
	Description   *string   `json:"description"`
	Icon          *string   `json:"icon"`
	Color         *string   `json:"color"`
	Active        bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (Category) TableName() string {
	return "categories"
}
