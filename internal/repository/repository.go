package repository

import (
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/utils"
)

// UserRepository defines the interface for user and partner data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindConflicting returns users whose user_name or email collide with the
	// candidate values, excluding the given user ID (0 to exclude nothing)
	FindConflicting(userName, email string, excludeID uint64) ([]models.User, error)

	// Update applies the given fields to a user and returns the fresh row
	Update(id uint64, fields map[string]interface{}) (*models.User, error)

	// AddPartner records a manager-cleaner partnership
	AddPartner(managerID, cleanerID uint64) error

	// FindPartner returns the cleaner's profile if partnered with the manager
	FindPartner(managerID, cleanerID uint64) (*models.User, error)

	// ListPartners lists all cleaners partnered with the manager
	ListPartners(managerID uint64) ([]models.User, error)
}

// PropertyRepository defines the interface for property data access
type PropertyRepository interface {
	// Create creates a new property
	Create(property *models.Property) error

	// FindByID finds a property by ID
	FindByID(id uint64) (*models.Property, error)

	// FindOwned finds a property owned by the given manager
	FindOwned(managerID, propertyID uint64) (*models.Property, error)

	// FindForCleaner finds a property reachable by a partnered cleaner
	FindForCleaner(cleanerID, propertyID uint64) (*models.Property, error)

	// FindDetail loads a property with its cleaner, guests, tasks and
	// availability roster for the detail view
	FindDetail(propertyID uint64) (*models.Property, error)

	// ListByManager lists a page of the manager's properties with cleaner
	// relations, alongside the unpaged total
	ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Property, int64, error)

	// ListForCleaner lists a page of properties of managers partnered with
	// the cleaner, alongside the unpaged total
	ListForCleaner(cleanerID uint64, params utils.PaginationParams) ([]models.Property, int64, error)

	// TaskCounts returns the open task count per property
	TaskCounts(propertyIDs []uint64) (map[uint64]int64, error)

	// FindConflicting returns properties of the manager whose name or address
	// collide with the candidate values, excluding the given property ID
	FindConflicting(managerID uint64, name, address string, excludeID uint64) ([]models.Property, error)

	// Update applies the given fields to an owned property
	Update(managerID, propertyID uint64, fields map[string]interface{}) (int64, error)

	// Delete removes an owned property
	Delete(managerID, propertyID uint64) (int64, error)

	// SetDefaultCleaner binds or clears a property's default cleaner
	SetDefaultCleaner(propertyID uint64, cleanerID *uint64) error

	// AddAvailableCleaner marks a cleaner available for a property. Repeated
	// calls are upserts: at most one row per (property, cleaner) ever exists.
	AddAvailableCleaner(propertyID, cleanerID uint64) error

	// RemoveAvailableCleaner removes the availability marker
	RemoveAvailableCleaner(propertyID, cleanerID uint64) (int64, error)

	// ListAvailableCleaners lists opted-in cleaners with their profiles
	ListAvailableCleaners(propertyID uint64) ([]models.AvailableCleaner, error)
}

// GuestRepository defines the interface for guest and guest-task data access
type GuestRepository interface {
	// Create creates a new guest
	Create(guest *models.Guest) error

	// FindByID finds a guest by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Guest, error)

	// ListByManager lists a page of guests staying at the manager's
	// properties, alongside the unpaged total
	ListByManager(managerID uint64, params utils.PaginationParams) ([]models.Guest, int64, error)

	// ListByCleaner lists a page of guests the cleaner is bound or proposed
	// to, alongside the unpaged total
	ListByCleaner(cleanerID uint64, params utils.PaginationParams) ([]models.Guest, int64, error)

	// FindConflicting returns guests of the property whose name collides with
	// the candidate, excluding the given guest ID
	FindConflicting(propertyID uint64, guestName string, excludeID uint64) ([]models.Guest, error)

	// Update applies the given fields to a guest
	Update(id uint64, fields map[string]interface{}) (int64, error)

	// Delete removes a guest and its tasks
	Delete(id uint64) (int64, error)

	// CreateTask creates a cleaning task under a guest
	CreateTask(task *models.Task) error

	// UpdateTask sets the completed flag on a guest's task
	UpdateTask(guestID, taskID uint64, completed bool) (*models.Task, error)
}

// InviteRepository defines the interface for invite data access
type InviteRepository interface {
	// Create creates a new invite
	Create(invite *models.Invite) error

	// FindByCode finds an invite by its code
	FindByCode(code string) (*models.Invite, error)

	// FindPending finds a pending invite from the manager to the email
	FindPending(managerID uint64, email string) (*models.Invite, error)

	// MarkAccepted transitions an invite to accepted
	MarkAccepted(id uint64) error

	// DeleteByCode removes an invite by its code
	DeleteByCode(code string) (int64, error)
}
