package models

import "time"

type AssignmentState string

const (
	AssignmentUnassigned AssignmentState = "unassigned"
	AssignmentAssigned   AssignmentState = "assigned"
	AssignmentPending    AssignmentState = "reassignment-pending"
)

type Guest struct {
	ID               uint64    `gorm:"primarykey;column:guest_id" json:"guest_id"`
	PropertyID       uint64    `gorm:"not null;uniqueIndex:idx_guests_property_name" json:"property_id"`
	CleanerID        *uint64   `json:"cleaner_id"`
	PendingCleanerID *uint64   `json:"pending_cleaner_id"`
	GuestName        string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_guests_property_name" json:"guest_name"`
	Checkin          time.Time `gorm:"not null" json:"checkin"`
	Checkout         time.Time `gorm:"not null" json:"checkout"`
	Email            string    `gorm:"type:varchar(128)" json:"email"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Property       Property `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	Cleaner        *User    `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
	PendingCleaner *User    `gorm:"foreignKey:PendingCleanerID" json:"pending_cleaner,omitempty"`
	Tasks          []Task   `gorm:"foreignKey:GuestID" json:"tasks,omitempty"`
}

// State reports the guest's assignment state as an explicit tag instead of
// leaving callers to interpret the two nullable cleaner columns.
func (g *Guest) State() AssignmentState {
	switch {
	case g.PendingCleanerID != nil:
		return AssignmentPending
	case g.CleanerID != nil:
		return AssignmentAssigned
	default:
		return AssignmentUnassigned
	}
}
