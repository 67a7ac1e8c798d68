package model

import "time"

type AdminNote struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    string    `gorm:"type:uuid;not null;index" json:"order_id"`
	AdminID    string    `gorm:"type:uuid;not null" json:"admin_id"`
	Note       string    `gorm:"type:text;not null" json:"note"`
	IsInternal bool      `gorm:"not null;default:true" json:"is_internal"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
