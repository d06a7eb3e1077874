package dto

import (
	"github.com/well-broomed/cleaning-api/internal/models"
)

// UserDTO represents a user profile in API responses
type UserDTO struct {
	ID       uint64      `json:"user_id"`
	UserName string      `json:"user_name"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
	ImgURL   string      `json:"img_url,omitempty"`
	Phone    string      `json:"phone,omitempty"`
	Address  string      `json:"address,omitempty"`
}

// CleanerDTO represents a cleaner in rosters and assignment pickers
type CleanerDTO struct {
	ID       uint64 `json:"cleaner_id"`
	UserName string `json:"cleaner_name"`
	Email    string `json:"email"`
	ImgURL   string `json:"img_url,omitempty"`
}

// LoginResponse represents the login outcome, including the invite
// redemption result when a code was presented.
type LoginResponse struct {
	User         UserDTO `json:"user"`
	InviteStatus string  `json:"invite_status,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		Role:     user.Role,
		ImgURL:   user.ImgURL,
		Phone:    user.Phone,
		Address:  user.Address,
	}
}

// ToCleanerDTO converts a User model to CleanerDTO
func ToCleanerDTO(user models.User) CleanerDTO {
	return CleanerDTO{
		ID:       user.ID,
		UserName: user.UserName,
		Email:    user.Email,
		ImgURL:   user.ImgURL,
	}
}

// ToCleanerDTOs converts a slice of users to CleanerDTOs
func ToCleanerDTOs(users []models.User) []CleanerDTO {
	dtos := make([]CleanerDTO, len(users))
	for i, user := range users {
		dtos[i] = ToCleanerDTO(user)
	}
	return dtos
}
