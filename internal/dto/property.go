package dto

import (
	"time"

	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/utils"
)

// PropertyListItemDTO represents a property in list responses. Managers see
// the open task count; assistants additionally see who manages the property.
type PropertyListItemDTO struct {
	ID           uint64      `json:"property_id"`
	ManagerID    uint64      `json:"manager_id"`
	CleanerID    *uint64     `json:"cleaner_id"`
	PropertyName string      `json:"property_name"`
	Address      string      `json:"address"`
	ImgURL       string      `json:"img_url,omitempty"`
	TaskCount    int64       `json:"task_count"`
	ManagerName  string      `json:"manager_name,omitempty"`
	Cleaner      *CleanerDTO `json:"cleaner,omitempty"`
}

// PropertyDetailDTO represents a single property with its guests and the
// availability roster.
type PropertyDetailDTO struct {
	ID                uint64             `json:"property_id"`
	ManagerID         uint64             `json:"manager_id"`
	CleanerID         *uint64            `json:"cleaner_id"`
	PropertyName      string             `json:"property_name"`
	Address           string             `json:"address"`
	ImgURL            string             `json:"img_url,omitempty"`
	GuestGuide        string             `json:"guest_guide,omitempty"`
	AssistantGuide    string             `json:"assistant_guide,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	Cleaner           *CleanerDTO        `json:"cleaner,omitempty"`
	Guests            []GuestListItemDTO `json:"guests"`
	AvailableCleaners []CleanerDTO       `json:"available_cleaners"`
}

// PropertyListResponse represents a paginated list of properties
type PropertyListResponse struct {
	Properties []PropertyListItemDTO    `json:"properties"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToPropertyListItemDTO converts a Property model to a list item. taskCount
// is the property's number of open tasks; includeManager adds the manager's
// name for assistant-facing listings.
func ToPropertyListItemDTO(property models.Property, taskCount int64, includeManager bool) PropertyListItemDTO {
	item := PropertyListItemDTO{
		ID:           property.ID,
		ManagerID:    property.ManagerID,
		CleanerID:    property.CleanerID,
		PropertyName: property.PropertyName,
		Address:      property.Address,
		ImgURL:       property.ImgURL,
		TaskCount:    taskCount,
	}
	if includeManager && property.Manager.ID != 0 {
		item.ManagerName = property.Manager.UserName
	}
	if property.Cleaner != nil && property.Cleaner.ID != 0 {
		cleaner := ToCleanerDTO(*property.Cleaner)
		item.Cleaner = &cleaner
	}
	return item
}

// ToPropertyDetailDTO converts a preloaded Property model to its detail DTO
func ToPropertyDetailDTO(property models.Property) PropertyDetailDTO {
	detail := PropertyDetailDTO{
		ID:                property.ID,
		ManagerID:         property.ManagerID,
		CleanerID:         property.CleanerID,
		PropertyName:      property.PropertyName,
		Address:           property.Address,
		ImgURL:            property.ImgURL,
		GuestGuide:        property.GuestGuide,
		AssistantGuide:    property.AssistantGuide,
		CreatedAt:         property.CreatedAt,
		UpdatedAt:         property.UpdatedAt,
		Guests:            make([]GuestListItemDTO, len(property.Guests)),
		AvailableCleaners: make([]CleanerDTO, 0, len(property.AvailableCleaners)),
	}

	if property.Cleaner != nil && property.Cleaner.ID != 0 {
		cleaner := ToCleanerDTO(*property.Cleaner)
		detail.Cleaner = &cleaner
	}
	for i, guest := range property.Guests {
		detail.Guests[i] = ToGuestListItemDTO(guest)
	}
	for _, available := range property.AvailableCleaners {
		if available.Cleaner.ID != 0 {
			detail.AvailableCleaners = append(detail.AvailableCleaners, ToCleanerDTO(available.Cleaner))
		}
	}

	return detail
}
