package models

import "time"

// State is a workflow state from the catalog. Order drives the workflow
// sequence (lowest active order is the initial state); IsTerminal marks
// end-of-workflow outcomes such as resolved or cancelled.
type State struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Order       int       `json:"order" gorm:"column:sort_order;not null"`
	IsTerminal  bool      `json:"isTerminal" gorm:"not null;default:false"`
	Color       *string   `json:"color"`
	Description *string   `json:"description"`
	Active      bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (State) TableName() string {
	return "states"
}
