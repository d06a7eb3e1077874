package repository

import (
	"github.com/well-broomed/cleaning-api/internal/models"
	"gorm.io/gorm"
)

// GormInviteRepository is a GORM implementation of InviteRepository
type GormInviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository creates a new InviteRepository
func NewInviteRepository(db *gorm.DB) InviteRepository {
	return &GormInviteRepository{db: db}
}

// Create creates a new invite
func (r *GormInviteRepository) Create(invite *models.Invite) error {
	return r.db.Create(invite).Error
}

// FindByCode finds an invite by its code
func (r *GormInviteRepository) FindByCode(code string) (*models.Invite, error) {
	var invite models.Invite
	if err := r.db.Where("code = ?", code).First(&invite).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// FindPending finds a pending invite from the manager to the email
func (r *GormInviteRepository) FindPending(managerID uint64, email string) (*models.Invite, error) {
	var invite models.Invite
	err := r.db.
		Where("manager_id = ? AND email = ? AND status = ?", managerID, email, models.InviteStatusPending).
		First(&invite).Error
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// MarkAccepted transitions an invite to accepted
func (r *GormInviteRepository) MarkAccepted(id uint64) error {
	return r.db.Model(&models.Invite{}).
		Where("invite_id = ?", id).
		Update("status", models.InviteStatusAccepted).Error
}

// DeleteByCode removes an invite by its code
func (r *GormInviteRepository) DeleteByCode(code string) (int64, error) {
	result := r.db.Where("code = ?", code).Delete(&models.Invite{})
	return result.RowsAffected, result.Error
}
