package models

import "time"

type Building struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Code      *string   `json:"code"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Building) TableName() string {
	return "buildings"
}
