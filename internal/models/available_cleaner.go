package models

import "time"

// AvailableCleaner marks a cleaner as opted in for a property, beyond the
// property's default cleaner. Rows are hints for assignment pickers; their
// absence never blocks a manager from assigning a partnered cleaner.
type AvailableCleaner struct {
	PropertyID uint64    `gorm:"primarykey" json:"property_id"`
	CleanerID  uint64    `gorm:"primarykey" json:"cleaner_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	Property Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Cleaner  User     `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
}
