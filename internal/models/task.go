package models

import "time"

type Task struct {
	ID        uint64    `gorm:"primarykey;column:task_id" json:"task_id"`
	GuestID   uint64    `gorm:"not null" json:"guest_id"`
	Text      string    `gorm:"type:varchar(256);not null" json:"text"`
	Deadline  time.Time `json:"deadline"`
	Completed bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Guest Guest `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
}
