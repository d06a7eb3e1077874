package models

import "time"

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusExpired  InviteStatus = "expired"
)

type Invite struct {
	ID        uint64       `gorm:"primarykey;column:invite_id" json:"invite_id"`
	Code      string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	ManagerID uint64       `gorm:"not null" json:"manager_id"`
	Email     string       `gorm:"type:varchar(128);not null" json:"email"`
	Status    InviteStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`

	// Relations
	Manager User `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
}
