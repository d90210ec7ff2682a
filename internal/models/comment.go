package models

import "time"

// Comment is an annotation on a report. Internal comments (Public =
// false) are only shown to staff. The most recent non-deleted public
// comment doubles as the report's "last action" in dashboard listings.
type Comment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	ReportID  uint       `json:"reportId" gorm:"not null;index"`
	AuthorID  uint       `json:"authorId" gorm:"not null"`
	Author    User       `json:"author" gorm:"foreignKey:AuthorID"`
	Body      string     `json:"body" gorm:"type:text;not null"`
	Public    bool       `json:"public" gorm:"not null;default:true"`
	Edited    bool       `json:"edited" gorm:"not null;default:false"`
	EditedAt  *time.Time `json:"editedAt"`
	Deleted   bool       `json:"-" gorm:"not null;default:false"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}
