package models

import "time"

// StateHistory is one append-only audit entry per report transition.
// OldStateID is nil only for entries recorded without a prior state.
// Entries are never updated or deleted, even after the report itself is
// soft-deleted.
type StateHistory struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ReportID   uint      `json:"reportId" gorm:"not null;index"`
	OldStateID *uint     `json:"oldStateId"`
	OldState   *State    `json:"oldState" gorm:"foreignKey:OldStateID"`
	NewStateID uint      `json:"newStateId" gorm:"not null"`
	NewState   State     `json:"newState" gorm:"foreignKey:NewStateID"`
	ActorID    uint      `json:"actorId" gorm:"not null"`
	Actor      User      `json:"actor" gorm:"foreignKey:ActorID"`
	Comment    *string   `json:"comment" gorm:"type:text"`
	ChangedAt  time.Time `json:"changedAt" gorm:"not null;index"`
}

func (StateHistory) TableName() string {
	return "state_histories"
}
