package models

import "time"

// Report is the central entity: a filed facility issue moving through
// the workflow catalog. Soft delete is an explicit flag rather than
// gorm.DeletedAt so that the deletion timestamp is queryable and the
// state history stays reachable after deletion.
type Report struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Folio string `json:"folio" gorm:"uniqueIndex;not null"`

	Title          *string   `json:"title"`
	Description    string    `json:"description" gorm:"type:text;not null"`
	CategoryID     uint      `json:"categoryId" gorm:"not null"`
	Category       Category  `json:"category" gorm:"foreignKey:CategoryID"`
	Subcategory    *string   `json:"subcategory"`
	BuildingID     *uint     `json:"buildingId"`
	Building       *Building `json:"building" gorm:"foreignKey:BuildingID"`
	RoomID         *uint     `json:"roomId"`
	Room           *Room     `json:"room" gorm:"foreignKey:RoomID"`
	LocationDetail *string   `json:"locationDetail"`

	StateID    uint     `json:"stateId" gorm:"not null"`
	State      State    `json:"state" gorm:"foreignKey:StateID"`
	PriorityID uint     `json:"priorityId" gorm:"not null"`
	Priority   Priority `json:"priority" gorm:"foreignKey:PriorityID"`

	ReporterID  uint  `json:"reporterId" gorm:"not null"`
	Reporter    User  `json:"reporter" gorm:"foreignKey:ReporterID"`
	AssigneeID  *uint `json:"assigneeId"`
	Assignee    *User `json:"assignee" gorm:"foreignKey:AssigneeID"`
	UpdatedByID *uint `json:"updatedById"`
	UpdatedBy   *User `json:"updatedBy" gorm:"foreignKey:UpdatedByID"`

	// Version guards against concurrent transitions; bumped on every
	// successful update, checked with a WHERE clause.
	Version uint `json:"version" gorm:"not null;default:1"`

	AssignedAt  *time.Time `json:"assignedAt"`
	FinalizedAt *time.Time `json:"finalizedAt"`

	Deleted   bool       `json:"-" gorm:"not null;default:false;index"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Report) TableName() string {
	return "reports"
}
