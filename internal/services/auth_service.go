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
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// AuthService provisions and maintains local users from identity-provider
// claims. Credentials never touch this system; the provider owns them.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput carries the verified claims plus the role/invite context from the
// login request.
type LoginInput struct {
	Subject    string
	Email      string
	Name       string
	Picture    string
	Role       models.Role
	InviteCode string
}

// Login returns the local user for the verified claims, provisioning one on
// first sight. Users arriving through an invite link are always assistants.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	role := input.Role
	if input.InviteCode != "" {
		role = models.RoleAssistant
	}
	if role != models.RoleManager && role != models.RoleAssistant {
		return nil, ErrInvalidRole
	}

	conflicting, err := s.userRepo.FindConflicting(input.Name, input.Email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check uniqueness: %w", err)
	}
	if conflicts := userConflicts(input.Name, input.Email, conflicting); conflicts != nil {
		return nil, &ConflictError{Fields: conflicts}
	}

	provider := strings.SplitN(input.Subject, "|", 2)[0]
	user = &models.User{
		UserName:     input.Name,
		Email:        input.Email,
		Role:         role,
		ImgURL:       input.Picture,
		AuthProvider: provider,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictFromStore(input.Name, input.Email, 0)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// UserPatch holds the updatable profile fields; only non-nil fields are applied.
type UserPatch struct {
	UserName *string
	Email    *string
	ImgURL   *string
	Phone    *string
	Address  *string
}

// UpdateUser applies a sparse profile update, re-checking name/email
// uniqueness when either changes.
func (s *AuthService) UpdateUser(userID uint64, patch UserPatch) (*models.User, error) {
	if _, err := s.GetUser(userID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	candidateName, candidateEmail := "", ""
	if patch.UserName != nil {
		fields["user_name"] = *patch.UserName
		candidateName = *patch.UserName
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
		candidateEmail = *patch.Email
	}
	if patch.ImgURL != nil {
		fields["img_url"] = *patch.ImgURL
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		fields["address"] = *patch.Address
	}

	if len(fields) == 0 {
		return s.GetUser(userID)
	}

	if candidateName != "" || candidateEmail != "" {
		conflicting, err := s.userRepo.FindConflicting(candidateName, candidateEmail, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to check uniqueness: %w", err)
		}
		if conflicts := userConflicts(candidateName, candidateEmail, conflicting); conflicts != nil {
			return nil, &ConflictError{Fields: conflicts}
		}
	}

	user, err := s.userRepo.Update(userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.conflictFromStore(candidateName, candidateEmail, userID)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// conflictFromStore recomputes field flags after the store rejected a write on
// its unique constraints; the pre-check is only a fast path.
func (s *AuthService) conflictFromStore(userName, email string, excludeID uint64) error {
	conflicting, err := s.userRepo.FindConflicting(userName, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to resolve conflict fields: %w", err)
	}
	conflicts := userConflicts(userName, email, conflicting)
	if conflicts == nil {
		conflicts = utils.Conflicts{"user_name": true, "email": true}
	}
	return &ConflictError{Fields: conflicts}
}

func userConflicts(userName, email string, existing []models.User) utils.Conflicts {
	rows := make([]map[string]string, len(existing))
	for i, u := range existing {
		rows[i] = map[string]string{"user_name": u.UserName, "email": u.Email}
	}
	return utils.CheckForDuplicates(map[string]string{
		"user_name": userName,
		"email":     email,
	}, rows)
}
