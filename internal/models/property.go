package models

import "time"

type Property struct {
	ID             uint64    `gorm:"primarykey;column:property_id" json:"property_id"`
	ManagerID      uint64    `gorm:"not null;uniqueIndex:idx_properties_manager_name;uniqueIndex:idx_properties_manager_address" json:"manager_id"`
	CleanerID      *uint64   `json:"cleaner_id"`
	PropertyName   string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_properties_manager_name" json:"property_name"`
	Address        string    `gorm:"type:varchar(256);not null;uniqueIndex:idx_properties_manager_address" json:"address"`
	ImgURL         string    `gorm:"type:varchar(256)" json:"img_url"`
	GuestGuide     string    `gorm:"type:varchar(256)" json:"guest_guide"`
	AssistantGuide string    `gorm:"type:varchar(256)" json:"assistant_guide"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relations
	Manager           User               `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Cleaner           *User              `gorm:"foreignKey:CleanerID" json:"cleaner,omitempty"`
	Guests            []Guest            `gorm:"foreignKey:PropertyID" json:"guests,omitempty"`
	AvailableCleaners []AvailableCleaner `gorm:"foreignKey:PropertyID" json:"available_cleaners,omitempty"`
}
