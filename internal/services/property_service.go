package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/repository"
	"github.com/well-broomed/cleaning-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidProperty     = errors.New("invalid property")
	ErrInvalidAssistant    = errors.New("invalid assistant")
	ErrInvalidPropertyName = errors.New("property name cannot be empty")
	ErrNotAuthorized       = errors.New("not authorized")
)

// PropertyService provides business logic for property operations.
type PropertyService struct {
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
}

// NewPropertyService creates a new PropertyService.
func NewPropertyService(propertyRepo repository.PropertyRepository, userRepo repository.UserRepository) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
	}
}

// ListProperties returns a page of role-shaped property listings with open
// task counts, alongside the unpaged total. Managers see their own portfolio;
// assistants see partnered managers' properties.
func (s *PropertyService) ListProperties(userID uint64, role models.Role, params utils.PaginationParams) ([]models.Property, map[uint64]int64, int64, error) {
	var (
		properties []models.Property
		total      int64
		err        error
	)
	if role == models.RoleManager {
		properties, total, err = s.propertyRepo.ListByManager(userID, params)
	} else {
		properties, total, err = s.propertyRepo.ListForCleaner(userID, params)
	}
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}

	ids := make([]uint64, len(properties))
	for i, p := range properties {
		ids[i] = p.ID
	}
	counts, err := s.propertyRepo.TaskCounts(ids)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return properties, counts, total, nil
}

// ListDefaultProperties returns the compact listing used by default-cleaner
// dropdowns. Dropdowns want the whole portfolio, so no pagination applies.
func (s *PropertyService) ListDefaultProperties(userID uint64, role models.Role) ([]models.Property, error) {
	var (
		properties []models.Property
		err        error
	)
	if role == models.RoleManager {
		properties, _, err = s.propertyRepo.ListByManager(userID, utils.PaginationParams{})
	} else {
		properties, _, err = s.propertyRepo.ListForCleaner(userID, utils.PaginationParams{})
	}
	return properties, err
}

// GetProperty returns the detail view of a property the actor can reach:
// managers must own it, assistants must be partnered with its manager.
func (s *PropertyService) GetProperty(userID uint64, role models.Role, propertyID uint64) (*models.Property, error) {
	var err error
	if role == models.RoleManager {
		_, err = s.propertyRepo.FindOwned(userID, propertyID)
	} else {
		_, err = s.propertyRepo.FindForCleaner(userID, propertyID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	property, err := s.propertyRepo.FindDetail(propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property detail: %w", err)
	}
	return property, nil
}

// CreatePropertyInput represents parameters to create a new property.
type CreatePropertyInput struct {
	PropertyName   string
	Address        string
	GuestGuide     string
	AssistantGuide string
	ImgURL         string
}

// CreateProperty creates a property after checking `(manager, name)` and
// `(manager, address)` uniqueness. The pre-check gives field-specific
// feedback; the database constraint remains the final arbiter.
func (s *PropertyService) CreateProperty(managerID uint64, input CreatePropertyInput) (*models.Property, error) {
	if strings.TrimSpace(input.PropertyName) == "" {
		return nil, ErrInvalidPropertyName
	}

	conflicting, err := s.propertyRepo.FindConflicting(managerID, input.PropertyName, input.Address, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if conflicts := propertyConflicts(input.PropertyName, input.Address, conflicting); conflicts != nil {
		return nil, &ConflictError{Fields: conflicts}
	}

	property := &models.Property{
		ManagerID:      managerID,
		PropertyName:   input.PropertyName,
		Address:        input.Address,
		GuestGuide:     input.GuestGuide,
		AssistantGuide: input.AssistantGuide,
		ImgURL:         input.ImgURL,
	}

	if err := s.propertyRepo.Create(property); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictFromStore(managerID, input.PropertyName, input.Address, 0)
		}
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	return property, nil
}

// PropertyPatch holds the updatable property fields; only non-nil fields are
// applied, absent fields stay untouched.
type PropertyPatch struct {
	PropertyName   *string
	Address        *string
	GuestGuide     *string
	AssistantGuide *string
	ImgURL         *string
	CleanerID      *uint64
	ClearCleaner   bool
}

// UpdateProperty applies a sparse update to an owned property, re-checking
// uniqueness when the name or address changes.
func (s *PropertyService) UpdateProperty(managerID, propertyID uint64, patch PropertyPatch) (*models.Property, error) {
	current, err := s.propertyRepo.FindOwned(managerID, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	fields := map[string]interface{}{}
	candidateName, candidateAddress := "", ""
	if patch.PropertyName != nil {
		fields["property_name"] = *patch.PropertyName
		candidateName = *patch.PropertyName
	}
	if patch.Address != nil {
		fields["address"] = *patch.Address
		candidateAddress = *patch.Address
	}
	if patch.GuestGuide != nil {
		fields["guest_guide"] = *patch.GuestGuide
	}
	if patch.AssistantGuide != nil {
		fields["assistant_guide"] = *patch.AssistantGuide
	}
	if patch.ImgURL != nil {
		fields["img_url"] = *patch.ImgURL
	}
	if patch.CleanerID != nil {
		if err := s.checkCleanerAssignable(managerID, *patch.CleanerID); err != nil {
			return nil, err
		}
		fields["cleaner_id"] = *patch.CleanerID
	} else if patch.ClearCleaner {
		fields["cleaner_id"] = nil
	}

	if len(fields) == 0 {
		return current, nil
	}

	if candidateName != "" || candidateAddress != "" {
		conflicting, err := s.propertyRepo.FindConflicting(managerID, candidateName, candidateAddress, propertyID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if conflicts := propertyConflicts(candidateName, candidateAddress, conflicting); conflicts != nil {
			return nil, &ConflictError{Fields: conflicts}
		}
	}

	if _, err := s.propertyRepo.Update(managerID, propertyID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictFromStore(managerID, candidateName, candidateAddress, propertyID)
		}
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	return s.propertyRepo.FindByID(propertyID)
}

// DeleteProperty removes an owned property.
func (s *PropertyService) DeleteProperty(managerID, propertyID uint64) error {
	deleted, err := s.propertyRepo.Delete(managerID, propertyID)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if deleted == 0 {
		return ErrInvalidProperty
	}
	return nil
}

// CheckOwner reports whether the manager owns the property.
func (s *PropertyService) CheckOwner(managerID, propertyID uint64) (bool, error) {
	if _, err := s.propertyRepo.FindOwned(managerID, propertyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check owner: %w", err)
	}
	return true, nil
}

// checkCleanerAssignable enforces the single assignment rule: a cleaner is
// assignable when partnered with the manager, or when the cleaner is the
// manager self-assigning.
func (s *PropertyService) checkCleanerAssignable(managerID, cleanerID uint64) error {
	if cleanerID == managerID {
		return nil
	}
	if _, err := s.userRepo.FindPartner(managerID, cleanerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidAssistant
		}
		return fmt.Errorf("failed to check partner: %w", err)
	}
	return nil
}

func (s *PropertyService) conflictFromStore(managerID uint64, name, address string, excludeID uint64) error {
	conflicting, err := s.propertyRepo.FindConflicting(managerID, name, address, excludeID)
	if err != nil {
		return fmt.Errorf("failed to resolve conflict fields: %w", err)
	}
	conflicts := propertyConflicts(name, address, conflicting)
	if conflicts == nil {
		conflicts = utils.Conflicts{"property_name": true, "address": true}
	}
	return &ConflictError{Fields: conflicts}
}

func propertyConflicts(name, address string, existing []models.Property) utils.Conflicts {
	rows := make([]map[string]string, len(existing))
	for i, p := range existing {
		rows[i] = map[string]string{"property_name": p.PropertyName, "address": p.Address}
	}
	return utils.CheckForDuplicates(map[string]string{
		"property_name": name,
		"address":       address,
	}, rows)
}
