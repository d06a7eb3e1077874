package services

import (
	"errors"
	"fmt"

	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/repository"
	"gorm.io/gorm"
)

// CleanerService provides business logic for partner rosters, default
// cleaners, and per-property availability.
type CleanerService struct {
	userRepo     repository.UserRepository
	propertyRepo repository.PropertyRepository
}

// NewCleanerService creates a new CleanerService.
func NewCleanerService(userRepo repository.UserRepository, propertyRepo repository.PropertyRepository) *CleanerService {
	return &CleanerService{
		userRepo:     userRepo,
		propertyRepo: propertyRepo,
	}
}

// ListCleanerProfiles returns the manager's partnered cleaners plus the
// manager's own profile, so properties without partners can still be staffed
// by the manager.
func (s *CleanerService) ListCleanerProfiles(managerID uint64) ([]models.User, error) {
	partners, err := s.userRepo.ListPartners(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}

	manager, err := s.userRepo.FindByID(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}

	return append(partners, *manager), nil
}

// ListPartners lists the cleaners partnered with the manager.
func (s *CleanerService) ListPartners(managerID uint64) ([]models.User, error) {
	partners, err := s.userRepo.ListPartners(managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

// GetPartner returns a partnered cleaner's profile.
func (s *CleanerService) GetPartner(managerID, cleanerID uint64) (*models.User, error) {
	partner, err := s.userRepo.FindPartner(managerID, cleanerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssistant
		}
		return nil, fmt.Errorf("failed to find partner: %w", err)
	}
	return partner, nil
}

// ChangeDefaultCleaner binds or clears an owned property's default cleaner.
// The candidate must be a partner of the manager or the manager themself.
func (s *CleanerService) ChangeDefaultCleaner(managerID, propertyID uint64, cleanerID *uint64) (*models.Property, error) {
	if _, err := s.propertyRepo.FindOwned(managerID, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if cleanerID != nil && *cleanerID != managerID {
		if _, err := s.userRepo.FindPartner(managerID, *cleanerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidAssistant
			}
			return nil, fmt.Errorf("failed to check partner: %w", err)
		}
	}

	if err := s.propertyRepo.SetDefaultCleaner(propertyID, cleanerID); err != nil {
		return nil, fmt.Errorf("failed to change cleaner: %w", err)
	}

	return s.propertyRepo.FindByID(propertyID)
}

// SetAvailability toggles a cleaner's opt-in for a property. Repeated opt-ins
// are idempotent: exactly one availability row per (cleaner, property) ever
// exists, and opt-out removes it.
func (s *CleanerService) SetAvailability(actorID uint64, actorRole models.Role, propertyID, cleanerID uint64, available bool) error {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidProperty
		}
		return fmt.Errorf("failed to find property: %w", err)
	}

	// Only the target cleaner or the property's manager may toggle.
	if actorID != cleanerID && !(actorRole == models.RoleManager && property.ManagerID == actorID) {
		return ErrNotAuthorized
	}

	if cleanerID != property.ManagerID {
		if _, err := s.userRepo.FindPartner(property.ManagerID, cleanerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidAssistant
			}
			return fmt.Errorf("failed to check partner: %w", err)
		}
	}

	if available {
		if err := s.propertyRepo.AddAvailableCleaner(propertyID, cleanerID); err != nil {
			return fmt.Errorf("failed to add availability: %w", err)
		}
		return nil
	}

	if _, err := s.propertyRepo.RemoveAvailableCleaner(propertyID, cleanerID); err != nil {
		return fmt.Errorf("failed to remove availability: %w", err)
	}
	return nil
}

// ListPropertyCleaners returns the availability roster for a property the
// actor can reach, with the property's manager always included.
func (s *CleanerService) ListPropertyCleaners(actorID uint64, actorRole models.Role, propertyID uint64) ([]models.User, error) {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	if actorRole == models.RoleManager {
		if property.ManagerID != actorID {
			return nil, ErrInvalidProperty
		}
	} else if _, err := s.userRepo.FindPartner(property.ManagerID, actorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to check partner: %w", err)
	}

	rows, err := s.propertyRepo.ListAvailableCleaners(propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available cleaners: %w", err)
	}

	roster := make([]models.User, 0, len(rows)+1)
	for _, row := range rows {
		if row.Cleaner.ID != 0 && row.Cleaner.ID != property.ManagerID {
			roster = append(roster, row.Cleaner)
		}
	}
	manager, err := s.userRepo.FindByID(property.ManagerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find manager: %w", err)
	}
	roster = append(roster, *manager)

	return roster, nil
}
