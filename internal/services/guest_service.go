package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/repository"
	"github.com/well-broomed/cleaning-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrInvalidGuest        = errors.New("invalid guest")
	ErrInvalidTask         = errors.New("invalid task id")
	ErrInvalidReassignment = errors.New("invalid request")
)

// GuestService provides business logic for guest stays, their cleaning tasks,
// and the cleaner reassignment workflow.
type GuestService struct {
	guestRepo    repository.GuestRepository
	propertyRepo repository.PropertyRepository
	userRepo     repository.UserRepository
	notifier     Notifier
}

// NewGuestService creates a new GuestService.
func NewGuestService(guestRepo repository.GuestRepository, propertyRepo repository.PropertyRepository, userRepo repository.UserRepository, notifier Notifier) *GuestService {
	return &GuestService{
		guestRepo:    guestRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

// ListGuests returns a page of the guests visible to the actor, alongside the
// unpaged total: managers see stays at their properties, assistants see stays
// they are bound or proposed to.
func (s *GuestService) ListGuests(userID uint64, role models.Role, params utils.PaginationParams) ([]models.Guest, int64, error) {
	var (
		guests []models.Guest
		total  int64
		err    error
	)
	if role == models.RoleManager {
		guests, total, err = s.guestRepo.ListByManager(userID, params)
	} else {
		guests, total, err = s.guestRepo.ListByCleaner(userID, params)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, total, nil
}

// GetGuest returns a guest the actor can reach, with its tasks and the
// property's availability roster. The managing manager is always part of the
// roster so a stay can be staffed even with no opted-in partners.
func (s *GuestService) GetGuest(userID uint64, role models.Role, guestID uint64) (*models.Guest, []models.User, error) {
	guest, err := s.guestRepo.FindByID(guestID, "Property", "Cleaner", "PendingCleaner", "Tasks")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidGuest
		}
		return nil, nil, fmt.Errorf("failed to find guest: %w", err)
	}

	if role == models.RoleManager {
		if guest.Property.ManagerID != userID {
			return nil, nil, ErrInvalidGuest
		}
	} else if !cleanerCanSee(guest, userID) {
		return nil, nil, ErrInvalidGuest
	}

	rows, err := s.propertyRepo.ListAvailableCleaners(guest.PropertyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list available cleaners: %w", err)
	}

	roster := make([]models.User, 0, len(rows)+1)
	for _, row := range rows {
		if row.Cleaner.ID != 0 && row.Cleaner.ID != guest.Property.ManagerID {
			roster = append(roster, row.Cleaner)
		}
	}
	manager, err := s.userRepo.FindByID(guest.Property.ManagerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find manager: %w", err)
	}
	roster = append(roster, *manager)

	return guest, roster, nil
}

// CreateGuestInput represents parameters to create a new guest stay.
type CreateGuestInput struct {
	GuestName string
	Checkin   time.Time
	Checkout  time.Time
	Email     string
	CleanerID *uint64
}

// CreateGuest creates a guest stay at an owned property. The assigned cleaner
// must be a partner of the manager or the manager self-assigning; the new
// cleaner is notified off the request path.
func (s *GuestService) CreateGuest(managerID, propertyID uint64, input CreateGuestInput) (*models.Guest, error) {
	if strings.TrimSpace(input.GuestName) == "" {
		return nil, fmt.Errorf("guest name is required")
	}

	property, err := s.propertyRepo.FindOwned(managerID, propertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidProperty
		}
		return nil, fmt.Errorf("failed to find property: %w", err)
	}

	var cleaner *models.User
	if input.CleanerID != nil {
		cleaner, err = s.resolveCleaner(managerID, *input.CleanerID)
		if err != nil {
			return nil, err
		}
	}

	conflicting, err := s.guestRepo.FindConflicting(propertyID, input.GuestName, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if conflicts := guestConflicts(input.GuestName, conflicting); conflicts != nil {
		return nil, &ConflictError{Fields: conflicts}
	}

	guest := &models.Guest{
		PropertyID: propertyID,
		CleanerID:  input.CleanerID,
		GuestName:  input.GuestName,
		Checkin:    normalizeStayTime(input.Checkin),
		Checkout:   normalizeStayTime(input.Checkout),
		Email:      input.Email,
	}

	if err := s.guestRepo.Create(guest); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Fields: utils.Conflicts{"guest_name": true}}
		}
		return nil, fmt.Errorf("failed to create guest: %w", err)
	}

	if cleaner != nil && cleaner.ID != managerID {
		s.notifier.GuestAssigned(*cleaner, guest.GuestName, property.PropertyName, guest.Checkin)
	}

	return guest, nil
}

// GuestPatch holds the updatable guest fields; only non-nil fields are applied.
type GuestPatch struct {
	GuestName    *string
	PropertyID   *uint64
	Checkin      *time.Time
	Checkout     *time.Time
	Email        *string
	CleanerID    *uint64
	ClearCleaner bool
}

// UpdateGuest applies a sparse update on behalf of the managing manager. A
// direct cleaner change bypasses the accept/reject workflow and notifies the
// new and previous cleaners.
func (s *GuestService) UpdateGuest(managerID, guestID uint64, patch GuestPatch) (*models.Guest, error) {
	guest, err := s.findManagedGuest(managerID, guestID)
	if err != nil {
		return nil, err
	}

	if patch.PropertyID != nil && *patch.PropertyID != guest.PropertyID {
		if _, err := s.propertyRepo.FindOwned(managerID, *patch.PropertyID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidProperty
			}
			return nil, fmt.Errorf("failed to find property: %w", err)
		}
	}

	var newCleaner *models.User
	if patch.CleanerID != nil {
		newCleaner, err = s.resolveCleaner(managerID, *patch.CleanerID)
		if err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	candidateName := ""
	if patch.GuestName != nil {
		fields["guest_name"] = *patch.GuestName
		candidateName = *patch.GuestName
	}
	if patch.PropertyID != nil {
		fields["property_id"] = *patch.PropertyID
	}
	if patch.Checkin != nil {
		fields["checkin"] = normalizeStayTime(*patch.Checkin)
	}
	if patch.Checkout != nil {
		fields["checkout"] = normalizeStayTime(*patch.Checkout)
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}

	cleanerChanged := false
	previousCleanerID := guest.CleanerID
	if patch.CleanerID != nil {
		cleanerChanged = previousCleanerID == nil || *previousCleanerID != *patch.CleanerID
		fields["cleaner_id"] = *patch.CleanerID
		// Direct manager overrides clear any pending proposal.
		fields["pending_cleaner_id"] = nil
	} else if patch.ClearCleaner {
		cleanerChanged = previousCleanerID != nil
		fields["cleaner_id"] = nil
		fields["pending_cleaner_id"] = nil
	}

	if len(fields) == 0 {
		return guest, nil
	}

	if candidateName != "" {
		targetProperty := guest.PropertyID
		if patch.PropertyID != nil {
			targetProperty = *patch.PropertyID
		}
		conflicting, err := s.guestRepo.FindConflicting(targetProperty, candidateName, guestID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if conflicts := guestConflicts(candidateName, conflicting); conflicts != nil {
			return nil, &ConflictError{Fields: conflicts}
		}
	}

	if _, err := s.guestRepo.Update(guestID, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Fields: utils.Conflicts{"guest_name": true}}
		}
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}

	updated, err := s.guestRepo.FindByID(guestID, "Property", "Cleaner")
	if err != nil {
		return nil, fmt.Errorf("failed to reload guest: %w", err)
	}

	if cleanerChanged {
		s.notifyRebinding(updated, newCleaner, previousCleanerID)
	}

	return updated, nil
}

// DeleteGuest removes a guest stay owned by the manager.
func (s *GuestService) DeleteGuest(managerID, guestID uint64) error {
	if _, err := s.findManagedGuest(managerID, guestID); err != nil {
		return err
	}

	deleted, err := s.guestRepo.Delete(guestID)
	if err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	if deleted == 0 {
		return ErrInvalidGuest
	}
	return nil
}

// CreateTaskInput represents parameters to create a cleaning task.
type CreateTaskInput struct {
	Text     string
	Deadline time.Time
}

// CreateTask adds a cleaning task to a managed guest stay.
func (s *GuestService) CreateTask(managerID, guestID uint64, input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("task text is required")
	}

	if _, err := s.findManagedGuest(managerID, guestID); err != nil {
		return nil, err
	}

	task := &models.Task{
		GuestID:  guestID,
		Text:     input.Text,
		Deadline: input.Deadline,
	}
	if err := s.guestRepo.CreateTask(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateGuestTask toggles a task's completed flag. Allowed for the guest's
// assigned cleaner or the managing manager.
func (s *GuestService) UpdateGuestTask(userID, guestID, taskID uint64, completed bool) (*models.Task, error) {
	guest, err := s.guestRepo.FindByID(guestID, "Property")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGuest
		}
		return nil, fmt.Errorf("failed to find guest: %w", err)
	}

	isCleaner := guest.CleanerID != nil && *guest.CleanerID == userID
	isManager := guest.Property.ManagerID == userID
	if !isCleaner && !isManager {
		return nil, ErrInvalidGuest
	}

	task, err := s.guestRepo.UpdateTask(guestID, taskID, completed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidTask
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// RequestReassignment proposes a new cleaner for a guest. The actor must be
// the guest's current cleaner or the managing manager; the candidate must be a
// partner of the manager or the manager themself. The current binding stands
// until the candidate accepts. Managers who want to skip the accept/reject
// step rebind through UpdateGuest instead.
func (s *GuestService) RequestReassignment(actorID, guestID, candidateID uint64) (*models.Guest, error) {
	guest, err := s.guestRepo.FindByID(guestID, "Property")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGuest
		}
		return nil, fmt.Errorf("failed to find guest: %w", err)
	}

	isCurrentCleaner := guest.CleanerID != nil && *guest.CleanerID == actorID
	isManager := guest.Property.ManagerID == actorID
	if !isCurrentCleaner && !isManager {
		return nil, ErrInvalidGuest
	}

	if _, err := s.resolveCleaner(guest.Property.ManagerID, candidateID); err != nil {
		return nil, err
	}

	if _, err := s.guestRepo.Update(guestID, map[string]interface{}{
		"pending_cleaner_id": candidateID,
	}); err != nil {
		return nil, fmt.Errorf("failed to request reassignment: %w", err)
	}

	return s.guestRepo.FindByID(guestID, "Property", "Cleaner", "PendingCleaner")
}

// RespondReassignment lets the proposed cleaner accept or reject a pending
// reassignment. Accepting binds them and clears the pending state; rejecting
// clears the pending state and keeps the original cleaner.
func (s *GuestService) RespondReassignment(userID, guestID uint64, accepted bool) (*models.Guest, error) {
	guest, err := s.guestRepo.FindByID(guestID, "Property")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGuest
		}
		return nil, fmt.Errorf("failed to find guest: %w", err)
	}

	if guest.PendingCleanerID == nil || *guest.PendingCleanerID != userID {
		return nil, ErrInvalidReassignment
	}

	if !accepted {
		if _, err := s.guestRepo.Update(guestID, map[string]interface{}{
			"pending_cleaner_id": nil,
		}); err != nil {
			return nil, fmt.Errorf("failed to reject reassignment: %w", err)
		}
		return s.guestRepo.FindByID(guestID, "Property", "Cleaner")
	}

	previousCleanerID := guest.CleanerID
	if _, err := s.guestRepo.Update(guestID, map[string]interface{}{
		"cleaner_id":         userID,
		"pending_cleaner_id": nil,
	}); err != nil {
		return nil, fmt.Errorf("failed to accept reassignment: %w", err)
	}

	updated, err := s.guestRepo.FindByID(guestID, "Property", "Cleaner")
	if err != nil {
		return nil, fmt.Errorf("failed to reload guest: %w", err)
	}
	s.notifyRebinding(updated, updated.Cleaner, previousCleanerID)
	return updated, nil
}

// findManagedGuest loads a guest and verifies the actor manages its property.
func (s *GuestService) findManagedGuest(managerID, guestID uint64) (*models.Guest, error) {
	guest, err := s.guestRepo.FindByID(guestID, "Property")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidGuest
		}
		return nil, fmt.Errorf("failed to find guest: %w", err)
	}
	if guest.Property.ManagerID != managerID {
		return nil, ErrInvalidGuest
	}
	return guest, nil
}

// resolveCleaner enforces the single assignment rule and returns the
// candidate's profile: partners of the manager are assignable, and so is the
// manager self-assigning.
func (s *GuestService) resolveCleaner(managerID, cleanerID uint64) (*models.User, error) {
	if cleanerID == managerID {
		manager, err := s.userRepo.FindByID(managerID)
		if err != nil {
			return nil, fmt.Errorf("failed to find manager: %w", err)
		}
		return manager, nil
	}

	partner, err := s.userRepo.FindPartner(managerID, cleanerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidAssistant
		}
		return nil, fmt.Errorf("failed to check partner: %w", err)
	}
	return partner, nil
}

// notifyRebinding dispatches the assignment mail to the new cleaner and the
// removal mail to the previous one. Delivery is fire-and-forget; the write
// that triggered it has already committed.
func (s *GuestService) notifyRebinding(guest *models.Guest, newCleaner *models.User, previousCleanerID *uint64) {
	if newCleaner != nil && newCleaner.ID != guest.Property.ManagerID {
		s.notifier.GuestAssigned(*newCleaner, guest.GuestName, guest.Property.PropertyName, guest.Checkin)
	}

	if previousCleanerID == nil {
		return
	}
	if newCleaner != nil && *previousCleanerID == newCleaner.ID {
		return
	}
	previous, err := s.userRepo.FindByID(*previousCleanerID)
	if err != nil {
		return
	}
	if previous.ID != guest.Property.ManagerID {
		s.notifier.GuestUnassigned(*previous, guest.GuestName, guest.Property.PropertyName)
	}
}

// normalizeStayTime stores stay boundaries as whole-minute UTC.
func normalizeStayTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

func cleanerCanSee(guest *models.Guest, userID uint64) bool {
	if guest.CleanerID != nil && *guest.CleanerID == userID {
		return true
	}
	return guest.PendingCleanerID != nil && *guest.PendingCleanerID == userID
}

func guestConflicts(name string, existing []models.Guest) utils.Conflicts {
	rows := make([]map[string]string, len(existing))
	for i, g := range existing {
		rows[i] = map[string]string{"guest_name": g.GuestName}
	}
	return utils.CheckForDuplicates(map[string]string{"guest_name": name}, rows)
}
