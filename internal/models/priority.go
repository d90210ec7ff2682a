package models

import "time"

// Priority is a catalog entry ranking urgency. Lower level means less
// urgent; the lowest active level is the default for new reports.
type Priority struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Level       int       `json:"level" gorm:"not null"`
	Color       *string   `json:"color"`
	Description *string   `json:"description"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (Priority) TableName() string {
	return "priorities"
}
