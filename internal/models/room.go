package models

import "time"

type Room struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	BuildingID uint      `json:"buildingId" gorm:"not null;index"`
	Building   Building  `json:"building" gorm:"foreignKey:BuildingID"`
	Name       string    `json:"name" gorm:"not null"`
	Active     bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Room) TableName() string {
	return "rooms"
}
