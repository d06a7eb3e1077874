package models

import "time"

type Role string

const (
	RoleManager   Role = "manager"
	RoleAssistant Role = "assistant"
)

type User struct {
	ID           uint64    `gorm:"primarykey;column:user_id" json:"user_id"`
	UserName     string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"user_name"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Role         Role      `gorm:"type:varchar(16);not null" json:"role"`
	ImgURL       string    `gorm:"type:varchar(256)" json:"img_url"`
	Phone        string    `gorm:"type:varchar(32)" json:"phone"`
	Address      string    `gorm:"type:varchar(256)" json:"address"`
	AuthProvider string    `gorm:"type:varchar(32)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Properties []Property `gorm:"foreignKey:ManagerID" json:"-"`
	Guests     []Guest    `gorm:"foreignKey:CleanerID" json:"-"`
}
