package repository

import (
	"github.com/well-broomed/cleaning-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindConflicting returns users colliding with the candidate user_name or
// email. The OR-combined match mirrors the uniqueness pre-check query; the
// caller disambiguates which field actually collided.
func (r *GormUserRepository) FindConflicting(userName, email string, excludeID uint64) ([]models.User, error) {
	var users []models.User
	query := r.db.Where("user_name = ? OR email = ?", userName, email)
	if excludeID != 0 {
		query = query.Where("user_id <> ?", excludeID)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the given fields and returns the fresh row
func (r *GormUserRepository) Update(id uint64, fields map[string]interface{}) (*models.User, error) {
	if err := r.db.Model(&models.User{}).Where("user_id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.FindByID(id)
}

// AddPartner records a manager-cleaner partnership
func (r *GormUserRepository) AddPartner(managerID, cleanerID uint64) error {
	partner := models.Partner{ManagerID: managerID, CleanerID: cleanerID}
	return r.db.FirstOrCreate(&partner, models.Partner{ManagerID: managerID, CleanerID: cleanerID}).Error
}

// FindPartner returns the cleaner's profile if partnered with the manager
func (r *GormUserRepository) FindPartner(managerID, cleanerID uint64) (*models.User, error) {
	var user models.User
	err := r.db.
		Joins("JOIN partners ON partners.cleaner_id = users.user_id").
		Where("partners.manager_id = ? AND partners.cleaner_id = ?", managerID, cleanerID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListPartners lists all cleaners partnered with the manager
func (r *GormUserRepository) ListPartners(managerID uint64) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN partners ON partners.cleaner_id = users.user_id").
		Where("partners.manager_id = ?", managerID).
		Order("users.user_name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
