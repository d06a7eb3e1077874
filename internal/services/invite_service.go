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
	ErrAlreadyInvited   = errors.New("a pending invite already exists for this email")
	ErrAlreadyPartnered = errors.New("this cleaner is already a partner")
	ErrInvalidInvite    = errors.New("invalid invite code")
)

// Invite acceptance outcomes returned to the client.
const (
	InviteOutcomeAccepted     = "accepted"
	InviteOutcomeNotAssistant = "notAssistant"
	InviteOutcomeInvalid      = "invalid"
)

// InviteService provides business logic for partner invites.
type InviteService struct {
	inviteRepo repository.InviteRepository
	userRepo   repository.UserRepository
	notifier   Notifier
}

// NewInviteService creates a new InviteService.
func NewInviteService(inviteRepo repository.InviteRepository, userRepo repository.UserRepository, notifier Notifier) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// SendInvite creates a pending invite from the manager to the email and mails
// the invite code. At most one pending invite per manager/email pair, and the
// target must not already be a partner.
func (s *InviteService) SendInvite(managerID uint64, email string) (*models.Invite, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if _, err := s.inviteRepo.FindPending(managerID, email); err == nil {
		return nil, ErrAlreadyInvited
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check pending invites: %w", err)
	}

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		if _, err := s.userRepo.FindPartner(managerID, existing.ID); err == nil {
			return nil, ErrAlreadyPartnered
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check partnership: %w", err)
		}
	}

	code, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite code: %w", err)
	}

	invite := &models.Invite{
		Code:      code,
		ManagerID: managerID,
		Email:     email,
		Status:    models.InviteStatusPending,
	}
	if err := s.inviteRepo.Create(invite); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	s.notifier.InviteCreated(email, code)

	return invite, nil
}

// AcceptInvite redeems an invite code on login. Only assistants can accept;
// accepting records the partnership and marks the invite accepted. Redeeming
// an already-accepted code by the same user is a no-op that still reports
// success, so a retried login cannot fail.
func (s *InviteService) AcceptInvite(userID uint64, role models.Role, email, code string) (string, error) {
	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return InviteOutcomeInvalid, nil
		}
		return "", fmt.Errorf("failed to find invite: %w", err)
	}

	if !strings.EqualFold(invite.Email, email) || invite.Status == models.InviteStatusExpired {
		return InviteOutcomeInvalid, nil
	}
	if role != models.RoleAssistant {
		return InviteOutcomeNotAssistant, nil
	}

	if err := s.userRepo.AddPartner(invite.ManagerID, userID); err != nil {
		return "", fmt.Errorf("failed to record partnership: %w", err)
	}

	if invite.Status == models.InviteStatusPending {
		if err := s.inviteRepo.MarkAccepted(invite.ID); err != nil {
			return "", fmt.Errorf("failed to mark invite accepted: %w", err)
		}
	}

	return InviteOutcomeAccepted, nil
}

// DeleteInvite revokes an invite the manager issued.
func (s *InviteService) DeleteInvite(managerID uint64, code string) error {
	invite, err := s.inviteRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidInvite
		}
		return fmt.Errorf("failed to find invite: %w", err)
	}
	if invite.ManagerID != managerID {
		return ErrInvalidInvite
	}

	if _, err := s.inviteRepo.DeleteByCode(code); err != nil {
		return fmt.Errorf("failed to delete invite: %w", err)
	}
	return nil
}
