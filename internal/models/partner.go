package models

import "time"

// Partner links a manager and a cleaner. The relationship is created by
// invite acceptance and authorizes the cleaner to work the manager's
// properties.
type Partner struct {
	ManagerID uint64    `gorm:"primarykey" json:"manager_id"`
	CleanerID uint64    `gorm:"primarykey" json:"cleaner_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Manager User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Cleaner User `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
}
