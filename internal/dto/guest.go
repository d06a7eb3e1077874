package dto

import (
	"time"

	"github.com/well-broomed/cleaning-api/internal/models"
)

// TaskDTO represents a cleaning task in API responses
type TaskDTO struct {
	ID        uint64    `json:"task_id"`
	GuestID   uint64    `json:"guest_id"`
	Text      string    `json:"text"`
	Deadline  time.Time `json:"deadline"`
	Completed bool      `json:"completed"`
}

// GuestListItemDTO represents a guest stay in list responses
type GuestListItemDTO struct {
	ID               uint64                 `json:"guest_id"`
	PropertyID       uint64                 `json:"property_id"`
	CleanerID        *uint64                `json:"cleaner_id"`
	PendingCleanerID *uint64                `json:"pending_cleaner_id"`
	GuestName        string                 `json:"guest_name"`
	Checkin          time.Time              `json:"checkin"`
	Checkout         time.Time              `json:"checkout"`
	State            models.AssignmentState `json:"assignment_state"`
	PropertyName     string                 `json:"property_name,omitempty"`
	Cleaner          *CleanerDTO            `json:"cleaner,omitempty"`
}

// GuestDetailDTO represents a single guest stay with its tasks and the
// cleaners available at its property.
type GuestDetailDTO struct {
	ID                uint64                 `json:"guest_id"`
	PropertyID        uint64                 `json:"property_id"`
	CleanerID         *uint64                `json:"cleaner_id"`
	PendingCleanerID  *uint64                `json:"pending_cleaner_id"`
	GuestName         string                 `json:"guest_name"`
	Checkin           time.Time              `json:"checkin"`
	Checkout          time.Time              `json:"checkout"`
	Email             string                 `json:"email,omitempty"`
	State             models.AssignmentState `json:"assignment_state"`
	PropertyName      string                 `json:"property_name,omitempty"`
	Cleaner           *CleanerDTO            `json:"cleaner,omitempty"`
	PendingCleaner    *CleanerDTO            `json:"pending_cleaner,omitempty"`
	Tasks             []TaskDTO              `json:"tasks"`
	AvailableCleaners []CleanerDTO           `json:"available_cleaners"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		GuestID:   task.GuestID,
		Text:      task.Text,
		Deadline:  task.Deadline,
		Completed: task.Completed,
	}
}

// ToGuestListItemDTO converts a Guest model to a list item
func ToGuestListItemDTO(guest models.Guest) GuestListItemDTO {
	item := GuestListItemDTO{
		ID:               guest.ID,
		PropertyID:       guest.PropertyID,
		CleanerID:        guest.CleanerID,
		PendingCleanerID: guest.PendingCleanerID,
		GuestName:        guest.GuestName,
		Checkin:          guest.Checkin,
		Checkout:         guest.Checkout,
		State:            guest.State(),
	}
	if guest.Property.ID != 0 {
		item.PropertyName = guest.Property.PropertyName
	}
	if guest.Cleaner != nil && guest.Cleaner.ID != 0 {
		cleaner := ToCleanerDTO(*guest.Cleaner)
		item.Cleaner = &cleaner
	}
	return item
}

// ToGuestListItemDTOs converts a slice of guests to list items
func ToGuestListItemDTOs(guests []models.Guest) []GuestListItemDTO {
	items := make([]GuestListItemDTO, len(guests))
	for i, guest := range guests {
		items[i] = ToGuestListItemDTO(guest)
	}
	return items
}

// ToGuestDetailDTO converts a preloaded Guest model and the availability
// roster of its property to the detail DTO.
func ToGuestDetailDTO(guest models.Guest, roster []CleanerDTO) GuestDetailDTO {
	detail := GuestDetailDTO{
		ID:                guest.ID,
		PropertyID:        guest.PropertyID,
		CleanerID:         guest.CleanerID,
		PendingCleanerID:  guest.PendingCleanerID,
		GuestName:         guest.GuestName,
		Checkin:           guest.Checkin,
		Checkout:          guest.Checkout,
		Email:             guest.Email,
		State:             guest.State(),
		Tasks:             make([]TaskDTO, len(guest.Tasks)),
		AvailableCleaners: roster,
	}
	if detail.AvailableCleaners == nil {
		detail.AvailableCleaners = []CleanerDTO{}
	}
	if guest.Property.ID != 0 {
		detail.PropertyName = guest.Property.PropertyName
	}
	if guest.Cleaner != nil && guest.Cleaner.ID != 0 {
		cleaner := ToCleanerDTO(*guest.Cleaner)
		detail.Cleaner = &cleaner
	}
	if guest.PendingCleaner != nil && guest.PendingCleaner.ID != 0 {
		pending := ToCleanerDTO(*guest.PendingCleaner)
		detail.PendingCleaner = &pending
	}
	for i, task := range guest.Tasks {
		detail.Tasks[i] = ToTaskDTO(task)
	}
	return detail
}
